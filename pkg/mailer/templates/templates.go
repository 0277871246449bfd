// Package templates renders ledger notices into email subjects and bodies.
package templates

import (
	"bytes"
	"errors"
	"strings"
	texttpl "text/template"
	"time"
)

// ErrNotMailed is returned for notice types that are never emailed.
var ErrNotMailed = errors.New("notice type is not mailed")

// Notice is the data available to every template.
type Notice struct {
	AppName      string
	Type         string
	Name         string
	Email        string
	Amount       string
	Balance      string
	Counterparty string
	At           time.Time
}

type pair struct {
	subject string
	body    string
}

const footer = `
Current balance: {{ .Balance }}
{{ .At.Format "02 January 2006, 15:04 MST" }}

-- {{ .AppName | default "Account Ledger" }}
`

var sources = map[string]pair{
	"registered": {
		subject: "Welcome to {{ .AppName | default \"Account Ledger\" }}",
		body:    "Hello {{ .Name }},\n\nYour account has been registered.\n" + footer,
	},
	"deposited": {
		subject: "Deposit of {{ .Amount }} completed",
		body:    "Hello {{ .Name }},\n\nA deposit of {{ .Amount }} was credited to your account.\n" + footer,
	},
	"withdrawn": {
		subject: "Withdrawal of {{ .Amount }} completed",
		body:    "Hello {{ .Name }},\n\nA withdrawal of {{ .Amount }} was debited from your account.\n" + footer,
	},
	"transfer_sent": {
		subject: "You sent {{ .Amount }}",
		body:    "Hello {{ .Name }},\n\nYou transferred {{ .Amount }} to {{ .Counterparty }}.\n" + footer,
	},
	"transfer_received": {
		subject: "You received {{ .Amount }}",
		body:    "Hello {{ .Name }},\n\n{{ .Counterparty }} transferred {{ .Amount }} to you.\n" + footer,
	},
	"interest_applied": {
		subject: "Interest applied to your balance",
		body:    "Hello {{ .Name }},\n\nInterest of {{ .Amount }} was applied to your balance.\n" + footer,
	},
}

var parsed = mustParse()

func mustParse() map[string]*texttpl.Template {
	funcs := texttpl.FuncMap{"default": defaultFn}
	out := make(map[string]*texttpl.Template, len(sources))
	for name, p := range sources {
		t := texttpl.New(name).Funcs(funcs)
		texttpl.Must(t.New("subject").Parse(p.subject))
		texttpl.Must(t.New("body").Parse(p.body))
		out[name] = t
	}
	return out
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback string, value string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// Render returns subject and plain-text body for the notice.
func Render(n Notice) (string, string, error) {
	t, ok := parsed[strings.ToLower(n.Type)]
	if !ok {
		return "", "", ErrNotMailed
	}
	var subject, body bytes.Buffer
	if err := t.ExecuteTemplate(&subject, "subject", n); err != nil {
		return "", "", err
	}
	if err := t.ExecuteTemplate(&body, "body", n); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(subject.String()), body.String(), nil
}
