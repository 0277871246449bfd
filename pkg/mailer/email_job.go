package mailer

// EmailJob is a rendered message ready for Send.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}
