package model

import "github.com/m-mizutani/goerr/v2"

// Message is a raw inbound constituent message before triage
type Message struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Validate checks the message has the fields the pipeline requires
func (m *Message) Validate() error {
	if m.ID == "" {
		return goerr.New("message id is required")
	}
	if m.Subject == "" && m.Body == "" {
		return goerr.New("message subject or body is required", goerr.V("id", m.ID))
	}
	return nil
}

// Text returns the single blob fed to generation calls: subject first,
// then the body after a blank line.
func (m *Message) Text() string {
	return "Subject: " + m.Subject + "\n\n" + m.Body
}
