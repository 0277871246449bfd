package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/account-ledger/internal/application"
	"github.com/oksasatya/account-ledger/pkg/mailer"
	mailtpl "github.com/oksasatya/account-ledger/pkg/mailer/templates"
)

// ErrMalformed marks a message that can never be processed.
var ErrMalformed = errors.New("malformed ledger event")

// Notifier turns ledger events into account-holder emails.
type Notifier struct {
	Sender  mailer.Sender
	AppName string
	Logger  *logrus.Logger
}

func NewNotifier(sender mailer.Sender, appName string, logger *logrus.Logger) *Notifier {
	return &Notifier{Sender: sender, AppName: appName, Logger: logger}
}

// Handle decodes one message body and mails it. Event types that are not
// mailed (deleted, credential_reset) are acknowledged without sending.
// Errors wrapping ErrMalformed should not be redelivered.
func (n *Notifier) Handle(ctx context.Context, body []byte) error {
	var ev application.LedgerEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ev.Email == "" {
		return fmt.Errorf("%w: missing recipient", ErrMalformed)
	}
	subject, text, err := mailtpl.Render(noticeFor(ev, n.AppName))
	if errors.Is(err, mailtpl.ErrNotMailed) {
		if n.Logger != nil {
			n.Logger.WithFields(logrus.Fields{"event": ev.Type, "account_id": ev.AccountID}).Debug("event not mailed")
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: render %s: %v", ErrMalformed, ev.Type, err)
	}
	return n.Sender.Send(ctx, mailer.EmailJob{To: ev.Email, Subject: subject, Text: text})
}

func noticeFor(ev application.LedgerEvent, appName string) mailtpl.Notice {
	n := mailtpl.Notice{
		AppName:      appName,
		Type:         ev.Type,
		Name:         ev.Name,
		Email:        ev.Email,
		Balance:      ev.Balance.StringFixed(2),
		Counterparty: ev.Counterparty,
		At:           ev.OccurredAt,
	}
	if ev.Amount != nil {
		n.Amount = ev.Amount.StringFixed(2)
	}
	return n
}
