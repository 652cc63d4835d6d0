package models

import "time"

// EmailStatus is the delivery state of an outbox row
type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

// OutboundEmail is a queued message. Handlers only insert rows; the email
// worker drains the outbox to the external mail relay so a slow or down relay
// never blocks a request.
type OutboundEmail struct {
	ID       string      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ToEmail  string      `gorm:"not null" json:"to_email"`
	Subject  string      `gorm:"not null" json:"subject"`
	Body     string      `gorm:"type:text;not null" json:"body"`
	Status   EmailStatus `gorm:"not null;default:'pending';index" json:"status"`
	Attempts int         `gorm:"not null;default:0" json:"attempts"`
	SentAt   *time.Time  `json:"sent_at,omitempty"`

	Timestamps
}
