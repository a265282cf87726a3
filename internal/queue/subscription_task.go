package queue

import (
	"context"
	"fmt"

	"meetapp/internal/domain"
)

// NewSubscriptionNotificationHandler returns the handler for
// SubscriptionNotification tasks: it turns the joined subscription payload
// into the email addressed to the meetup's organizer.
func NewSubscriptionNotificationHandler(emailService domain.EmailService) domain.TaskHandler {
	return func(ctx context.Context, task *domain.Task) error {
		detail, ok := task.Payload.(*domain.SubscriptionDetail)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", task.Payload)
		}
		data := &domain.SubscriptionEmailData{
			OrganizerName:   detail.Organizer.Name,
			OrganizerEmail:  detail.Organizer.Email,
			SubscriberName:  detail.Subscriber.Name,
			SubscriberEmail: detail.Subscriber.Email,
			MeetupTitle:     detail.Meetup.Title,
			MeetupLocation:  detail.Meetup.Location,
			MeetupDate:      detail.Meetup.Date,
		}
		return emailService.SendSubscriptionNotification(ctx, data)
	}
}
