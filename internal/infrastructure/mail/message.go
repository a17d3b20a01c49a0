// Package mail delivers rendered invoices by email.
package mail

import (
	"context"
	"errors"
)

// Attachment is a file sent with a message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outgoing email
type Message struct {
	To          string
	Bcc         []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Sender delivers messages. Implementations do not retry.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// DeliveryError reports which step of a send failed
type DeliveryError struct {
	Op  string
	Err error
}

func (e *DeliveryError) Error() string {
	return "mail " + e.Op + ": " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// validate checks the fields every sender needs
func (m *Message) validate() error {
	if m == nil {
		return &DeliveryError{Op: "compose", Err: errors.New("message is nil")}
	}
	if m.To == "" {
		return &DeliveryError{Op: "compose", Err: errors.New("recipient is required")}
	}
	if m.Subject == "" {
		return &DeliveryError{Op: "compose", Err: errors.New("subject is required")}
	}
	for _, a := range m.Attachments {
		if a.Filename == "" || len(a.Data) == 0 {
			return &DeliveryError{Op: "compose", Err: errors.New("attachment needs a filename and content")}
		}
	}
	return nil
}
