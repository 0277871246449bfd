// Package events publishes ledger events to RabbitMQ.
package events

import (
	"context"

	"github.com/oksasatya/account-ledger/internal/application"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

type RabbitPublisher struct {
	Pub *helpers.RabbitPublisher
}

func NewRabbitPublisher(pub *helpers.RabbitPublisher) *RabbitPublisher {
	return &RabbitPublisher{Pub: pub}
}

func (p *RabbitPublisher) Publish(ctx context.Context, ev application.LedgerEvent) error {
	return p.Pub.PublishJSON(ctx, ev)
}

var _ application.EventPublisher = (*RabbitPublisher)(nil)
