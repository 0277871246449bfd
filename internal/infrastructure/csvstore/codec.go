// Package csvstore persists accounts as a flat CSV table, one row per account:
// name,email,password,role,uid,balance.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

// Header is the fixed column order of the table.
var Header = []string{"name", "email", "password", "role", "uid", "balance"}

// Encode writes the header followed by one row per account.
func Encode(w io.Writer, accounts []entity.Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, a := range accounts {
		row := []string{a.Name, a.Email, a.Credential, a.Role.WireName(), a.ID, a.Balance.String()}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads a table written by Encode. Columns are matched by header name,
// so reordered files load too. An empty input yields no accounts.
func Decode(r io.Reader) ([]entity.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(head))
	for i, name := range head {
		col[name] = i
	}
	for _, name := range Header {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", name)
		}
	}

	var out []entity.Account
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < len(head) {
			return nil, fmt.Errorf("csv: line %d: expected %d fields, got %d", line, len(head), len(rec))
		}
		role, err := entity.ParseRole(rec[col["role"]])
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		balance, err := helpers.ParseDecimal(rec[col["balance"]])
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: balance: %w", line, err)
		}
		out = append(out, entity.Account{
			ID:         rec[col["uid"]],
			Name:       rec[col["name"]],
			Email:      rec[col["email"]],
			Credential: rec[col["password"]],
			Role:       role,
			Balance:    balance,
		})
	}
}
