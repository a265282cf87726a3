package services

import (
	"context"
	"fmt"
	"log/slog"

	"meetapp/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendSubscriptionNotification sends the new-subscription email to the
// meetup's organizer using the "subscription" template.
func (s *emailService) SendSubscriptionNotification(ctx context.Context, data *domain.SubscriptionEmailData) error {
	if data == nil {
		return fmt.Errorf("subscription notification data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("subscription", data)
	if err != nil {
		return fmt.Errorf("failed to render subscription template: %w", err)
	}
	to := data.OrganizerEmail
	if data.OrganizerName != "" {
		to = fmt.Sprintf("%s <%s>", data.OrganizerName, data.OrganizerEmail)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send subscription email: %w", err)
	}
	s.logger.InfoContext(ctx, "subscription notification sent", "to", data.OrganizerEmail, "meetup", data.MeetupTitle)
	return nil
}
