package application

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
)

var errDiskFull = errors.New("disk full")

// stubGateway keeps the last saved table in memory and can be told to fail.
type stubGateway struct {
	mu       sync.Mutex
	rows     []entity.Account
	saves    int
	failSave bool
	failLoad bool
}

func (g *stubGateway) LoadAll(_ context.Context) ([]entity.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failLoad {
		return nil, errDiskFull
	}
	return append([]entity.Account(nil), g.rows...), nil
}

func (g *stubGateway) SaveAll(_ context.Context, accounts []entity.Account) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failSave {
		return errDiskFull
	}
	g.saves++
	g.rows = append([]entity.Account(nil), accounts...)
	return nil
}

func (g *stubGateway) saved(id string) (entity.Account, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, a := range g.rows {
		if a.ID == id {
			return a, true
		}
	}
	return entity.Account{}, false
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []LedgerEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingObserver struct {
	ops []string
}

func (o *recordingObserver) Observe(op string, err error) {
	res := "ok"
	if err != nil {
		res = "error"
	}
	o.ops = append(o.ops, op+":"+res)
}

// fakeIndex is an in-memory AccountIndexer matching on email substrings.
type fakeIndex struct {
	mu   sync.Mutex
	docs map[string]entity.Summary
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]entity.Summary{}} }

func (x *fakeIndex) IndexAccount(_ context.Context, s entity.Summary) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.docs[s.ID] = s
	return nil
}

func (x *fakeIndex) RemoveAccount(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.docs, id)
	return nil
}

func (x *fakeIndex) SearchAccounts(_ context.Context, q string, size int) ([]entity.Summary, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	var out []entity.Summary
	for _, s := range x.docs {
		if strings.Contains(s.Email, q) && len(out) < size {
			out = append(out, s)
		}
	}
	return out, nil
}

func account(id, email string, balance string) entity.Account {
	return entity.Account{
		ID:         id,
		Name:       strings.ToUpper(id[:1]) + id[1:],
		Email:      email,
		Credential: "plain-" + id,
		Role:       entity.RoleStandard,
		Balance:    decimal.RequireFromString(balance),
	}
}

func sessionFor(a entity.Account) entity.Session {
	return entity.Session{ID: "sid-" + a.ID, AccountID: a.ID, Role: a.Role}
}

func sequentialIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}
