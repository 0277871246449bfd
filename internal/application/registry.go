package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	repo "github.com/oksasatya/account-ledger/internal/domain/repository"
)

var errIdentifierTaken = errors.New("identifier already allocated")

// identifierAttempts bounds retries when a generated identifier collides.
const identifierAttempts = 5

// Registry is the authoritative in-memory collection of accounts.
// Every mutation is followed by a full save through the gateway; when the save
// fails the in-memory state is restored so registry and store never diverge.
type Registry struct {
	mu       sync.Mutex
	gateway  repo.AccountGateway
	logger   *logrus.Logger
	accounts []*entity.Account
	byEmail  map[string]*entity.Account
	byID     map[string]*entity.Account
}

func NewRegistry(gateway repo.AccountGateway, logger *logrus.Logger) *Registry {
	return &Registry{
		gateway: gateway,
		logger:  logger,
		byEmail: make(map[string]*entity.Account),
		byID:    make(map[string]*entity.Account),
	}
}

// Load replaces the registry contents with the gateway's records.
// Records repeating an already loaded email or identifier, or carrying a
// negative balance, are skipped.
func (r *Registry) Load(ctx context.Context) error {
	accounts, err := r.gateway.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: load accounts: %v", entity.ErrPersistence, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = r.accounts[:0]
	r.byEmail = make(map[string]*entity.Account, len(accounts))
	r.byID = make(map[string]*entity.Account, len(accounts))
	for i := range accounts {
		a := accounts[i]
		if _, dup := r.byEmail[a.Email]; dup {
			r.warn("skipping duplicate email in store", logrus.Fields{"email": a.Email})
			continue
		}
		if _, dup := r.byID[a.ID]; dup {
			r.warn("skipping duplicate identifier in store", logrus.Fields{"account_id": a.ID})
			continue
		}
		if a.Balance.IsNegative() {
			r.warn("skipping account with negative balance in store", logrus.Fields{"account_id": a.ID, "balance": a.Balance.String()})
			continue
		}
		r.index(&a)
	}
	return nil
}

// Insert adds the account and persists. Fails with entity.ErrDuplicateContact
// when the email is already registered.
func (r *Registry) Insert(ctx context.Context, a entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[a.Email]; ok {
		return entity.ErrDuplicateContact
	}
	if _, ok := r.byID[a.ID]; ok {
		return errIdentifierTaken
	}
	r.index(&a)
	if err := r.save(ctx); err != nil {
		r.unindex(a.ID)
		return err
	}
	return nil
}

// InsertNew assigns a fresh identifier from newID and inserts the account,
// drawing again when the identifier is already allocated.
func (r *Registry) InsertNew(ctx context.Context, a entity.Account, newID func() string) (entity.Account, error) {
	var err error
	for i := 0; i < identifierAttempts; i++ {
		a.ID = newID()
		if err = r.Insert(ctx, a); !errors.Is(err, errIdentifierTaken) {
			break
		}
	}
	if err != nil {
		return entity.Account{}, err
	}
	return a, nil
}

// NewIdentifier returns an 8-character identifier taken from a random uuid.
func NewIdentifier() string { return uuid.NewString()[:8] }

// Remove deletes the account by identifier and persists.
func (r *Registry) Remove(ctx context.Context, id string) (entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return entity.Account{}, entity.ErrNotFound
	}
	pos := r.position(id)
	removed := *a
	r.unindex(id)
	if err := r.save(ctx); err != nil {
		r.restoreAt(pos, removed)
		return entity.Account{}, err
	}
	return removed, nil
}

// FindByContact looks an account up by email.
func (r *Registry) FindByContact(email string) (entity.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byEmail[email]; ok {
		return *a, true
	}
	return entity.Account{}, false
}

// FindByIdentifier looks an account up by its identifier.
func (r *Registry) FindByIdentifier(id string) (entity.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byID[id]; ok {
		return *a, true
	}
	return entity.Account{}, false
}

// All returns a snapshot in insertion order.
func (r *Registry) All() []entity.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Len returns the number of held accounts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

// Update runs fn with exclusive access to the live records. Changes made
// through the Tx are persisted once after fn returns; if fn fails or the save
// fails, every change is reverted.
func (r *Registry) Update(ctx context.Context, fn func(tx *Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &Tx{r: r, undo: make(map[string]entity.Account)}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	if len(tx.undo) == 0 {
		return nil
	}
	if err := r.save(ctx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// Tx is the mutation handle passed to Registry.Update.
type Tx struct {
	r    *Registry
	undo map[string]entity.Account
}

// ByContact returns the live record for email.
func (tx *Tx) ByContact(email string) (entity.Account, bool) {
	if a, ok := tx.r.byEmail[email]; ok {
		return *a, true
	}
	return entity.Account{}, false
}

// ByIdentifier returns the live record for id.
func (tx *Tx) ByIdentifier(id string) (entity.Account, bool) {
	if a, ok := tx.r.byID[id]; ok {
		return *a, true
	}
	return entity.Account{}, false
}

// SetBalance refuses negative balances.
func (tx *Tx) SetBalance(id string, balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance cannot become negative", entity.ErrInvalidAmount)
	}
	a, err := tx.record(id)
	if err != nil {
		return err
	}
	a.Balance = balance
	return nil
}

// SetCredential replaces the stored secret hash.
func (tx *Tx) SetCredential(id, credential string) error {
	a, err := tx.record(id)
	if err != nil {
		return err
	}
	a.Credential = credential
	return nil
}

func (tx *Tx) record(id string) (*entity.Account, error) {
	a, ok := tx.r.byID[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if _, seen := tx.undo[id]; !seen {
		tx.undo[id] = *a
	}
	return a, nil
}

func (tx *Tx) rollback() {
	for id, prev := range tx.undo {
		if a, ok := tx.r.byID[id]; ok {
			*a = prev
		}
	}
}

func (r *Registry) index(a *entity.Account) {
	r.accounts = append(r.accounts, a)
	r.byEmail[a.Email] = a
	r.byID[a.ID] = a
}

func (r *Registry) unindex(id string) {
	a, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	delete(r.byEmail, a.Email)
	if pos := r.position(id); pos >= 0 {
		r.accounts = append(r.accounts[:pos], r.accounts[pos+1:]...)
	}
}

func (r *Registry) restoreAt(pos int, a entity.Account) {
	rec := &a
	r.accounts = append(r.accounts, nil)
	copy(r.accounts[pos+1:], r.accounts[pos:])
	r.accounts[pos] = rec
	r.byEmail[a.Email] = rec
	r.byID[a.ID] = rec
}

func (r *Registry) position(id string) int {
	for i, a := range r.accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) snapshot() []entity.Account {
	out := make([]entity.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out
}

func (r *Registry) save(ctx context.Context) error {
	if err := r.gateway.SaveAll(ctx, r.snapshot()); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).WithField("accounts", len(r.accounts)).Error("save accounts failed")
		}
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	return nil
}

func (r *Registry) warn(msg string, fields logrus.Fields) {
	if r.logger != nil {
		r.logger.WithFields(fields).Warn(msg)
	}
}
