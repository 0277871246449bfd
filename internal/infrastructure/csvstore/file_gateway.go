package csvstore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	"github.com/oksasatya/account-ledger/internal/domain/repository"
)

// FileGateway stores the table in a local file. Saves go through a temp file
// and a rename so a crash never leaves a truncated table behind.
type FileGateway struct {
	Path string
}

func NewFileGateway(path string) *FileGateway {
	return &FileGateway{Path: path}
}

// LoadAll creates the file with just the header when it does not exist yet.
func (g *FileGateway) LoadAll(_ context.Context) ([]entity.Account, error) {
	b, err := os.ReadFile(g.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, g.write(nil)
	}
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(b))
}

func (g *FileGateway) SaveAll(_ context.Context, accounts []entity.Account) error {
	return g.write(accounts)
}

func (g *FileGateway) write(accounts []entity.Account) error {
	var buf bytes.Buffer
	if err := Encode(&buf, accounts); err != nil {
		return err
	}
	if dir := filepath.Dir(g.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := g.Path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, g.Path)
}

var _ repository.AccountGateway = (*FileGateway)(nil)
