// Package metrics exposes Prometheus counters for ledger operations.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
)

// Ledger counts operations by name and outcome.
type Ledger struct {
	Operations *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Ledger {
	return &Ledger{
		Operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "account_ledger_operations_total",
			Help: "Ledger and administrative operations by outcome",
		}, []string{"op", "result"}),
	}
}

func (m *Ledger) Observe(op string, err error) {
	m.Operations.WithLabelValues(op, Result(err)).Inc()
}

// Result maps an operation error onto a bounded label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, entity.ErrValidation):
		return "validation"
	case errors.Is(err, entity.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, entity.ErrDuplicateContact):
		return "duplicate_contact"
	case errors.Is(err, entity.ErrNotFound):
		return "not_found"
	case errors.Is(err, entity.ErrForbidden):
		return "forbidden"
	case errors.Is(err, entity.ErrNoProjection), errors.Is(err, entity.ErrStaleProjection):
		return "projection"
	case errors.Is(err, entity.ErrPersistence):
		return "persistence"
	}
	return "error"
}
