package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// SubscriptionEmailData holds data for the new-subscription email sent to
// the meetup's organizer.
type SubscriptionEmailData struct {
	OrganizerName   string
	OrganizerEmail  string
	SubscriberName  string
	SubscriberEmail string
	MeetupTitle     string
	MeetupLocation  string
	MeetupDate      time.Time
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendSubscriptionNotification(ctx context.Context, data *SubscriptionEmailData) error
}
