// Package notification serves the notification dispatch RPC.
package notification

import (
	"context"
	"fmt"
	"time"

	notificationv1 "github.com/syntrixbase/crm/api/notification/v1"
	"github.com/syntrixbase/crm/internal/rpcstatus"
)

var (
	ErrMissingMessage   = fmt.Errorf("%w: msg is required", rpcstatus.ErrInvalidArgument)
	ErrMissingMessageID = fmt.Errorf("%w: message_id is required", rpcstatus.ErrInvalidArgument)

	// ErrSenderClosed is returned by senders after Close.
	ErrSenderClosed = fmt.Errorf("%w: sender closed", rpcstatus.ErrUnavailable)
)

// Kind names a message variant. It doubles as the publish subject suffix.
type Kind string

const (
	KindEmail Kind = "email"
	KindSms   Kind = "sms"
	KindInApp Kind = "in_app"
)

// Message is one validated outbound message.
type Message struct {
	Kind  Kind
	ID    string
	Email *notificationv1.EmailMessage
	Sms   *notificationv1.SmsMessage
	InApp *notificationv1.InAppMessage
}

// FromRequest validates req. The message id is returned even when
// validation fails so the error can be correlated.
func FromRequest(req *notificationv1.SendRequest) (Message, error) {
	var m Message
	switch msg := req.GetMsg().(type) {
	case *notificationv1.SendRequest_Email:
		m = Message{Kind: KindEmail, ID: msg.Email.GetMessageId(), Email: msg.Email}
	case *notificationv1.SendRequest_Sms:
		m = Message{Kind: KindSms, ID: msg.Sms.GetMessageId(), Sms: msg.Sms}
	case *notificationv1.SendRequest_InApp:
		m = Message{Kind: KindInApp, ID: msg.InApp.GetMessageId(), InApp: msg.InApp}
	default:
		return Message{}, ErrMissingMessage
	}
	if m.ID == "" {
		return m, fmt.Errorf("%w: %s message", ErrMissingMessageID, m.Kind)
	}
	return m, nil
}

// Envelope is the JSON form of a message handed to a broker.
type Envelope struct {
	Kind       Kind      `json:"kind"`
	MessageID  string    `json:"message_id"`
	Sender     string    `json:"sender,omitempty"`
	Recipients []string  `json:"recipients,omitempty"`
	DeviceID   string    `json:"device_id,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Body       string    `json:"body"`
	QueuedAt   time.Time `json:"queued_at"`
}

// Envelope flattens m.
func (m Message) Envelope(at time.Time) Envelope {
	e := Envelope{Kind: m.Kind, MessageID: m.ID, QueuedAt: at.UTC()}
	switch {
	case m.Email != nil:
		e.Sender = m.Email.Sender
		e.Recipients = m.Email.Recipients
		e.Subject = m.Email.Subject
		e.Body = m.Email.Body
	case m.Sms != nil:
		e.Sender = m.Sms.Sender
		e.Recipients = m.Sms.Recipients
		e.Body = m.Sms.Body
	case m.InApp != nil:
		e.DeviceID = m.InApp.DeviceId
		e.Subject = m.InApp.Title
		e.Body = m.InApp.Body
	}
	return e
}

// Sender accepts validated messages for delivery.
type Sender interface {
	// Send hands m over. It may block for backpressure until ctx is done.
	Send(ctx context.Context, m Message) error
	Close() error
}
