package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the aggregate root of the ledger.
// Only Balance and Credential change after creation, and only through the
// application services that own the invariants.
//
// Credential holds a bcrypt hash for accounts created by this service. Files
// written by older tooling may still carry plain secrets; those are upgraded
// on the next successful login.
type Account struct {
	ID         string
	Name       string
	Email      string
	Credential string
	Role       Role
	Balance    decimal.Decimal
}

// Summary is the administrative listing view of an Account.
type Summary struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Role    string          `json:"role"`
	Balance decimal.Decimal `json:"balance"`
}

// Summary drops the credential and maps the role to its wire name.
func (a Account) Summary() Summary {
	return Summary{
		ID:      a.ID,
		Name:    a.Name,
		Email:   a.Email,
		Role:    a.Role.WireName(),
		Balance: a.Balance,
	}
}

// Session is the authenticated identity passed explicitly into operations.
type Session struct {
	ID        string
	AccountID string
	Role      Role
	CreatedAt time.Time
}

// InterestMode selects the interest formula.
type InterestMode string

const (
	// InterestLiteral compounds the rate against the balance snapshot:
	// rate_i = rate_{i-1} * balance / 100, preview = balance + rate_n.
	InterestLiteral InterestMode = "literal"
	// InterestCompound is textbook compounding: balance * (1 + rate/100)^n.
	InterestCompound InterestMode = "compound"
)

// Projection is a pending interest preview bound to a session.
type Projection struct {
	AccountID   string          `json:"account_id"`
	Mode        InterestMode    `json:"mode"`
	Rate        decimal.Decimal `json:"rate"`
	Periods     int             `json:"periods"`
	BaseBalance decimal.Decimal `json:"base_balance"`
	Preview     decimal.Decimal `json:"preview"`
	CreatedAt   time.Time       `json:"created_at"`
}
