package queue

import (
	"context"
	"testing"
	"time"

	"meetapp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmailService captures the last notification payload.
type fakeEmailService struct {
	lastData *domain.SubscriptionEmailData
	err      error
}

func (f *fakeEmailService) SendSubscriptionNotification(ctx context.Context, data *domain.SubscriptionEmailData) error {
	f.lastData = data
	return f.err
}

func TestSubscriptionNotificationHandler(t *testing.T) {
	ctx := context.Background()
	meetupDate := time.Date(2025, 9, 12, 18, 0, 0, 0, time.UTC)

	t.Run("builds the email data from the joined detail", func(t *testing.T) {
		svc := &fakeEmailService{}
		handler := NewSubscriptionNotificationHandler(svc)

		err := handler(ctx, &domain.Task{
			Kind: domain.TaskSubscriptionNotification,
			Payload: &domain.SubscriptionDetail{
				Subscription: &domain.Subscription{ID: "sub-1"},
				Meetup:       &domain.Meetup{Title: "Go Meetup", Location: "Downtown", Date: meetupDate},
				Organizer:    &domain.UserProfile{Name: "Ada", Email: "ada@example.com"},
				Subscriber:   &domain.UserProfile{Name: "Grace", Email: "grace@example.com"},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, svc.lastData)
		assert.Equal(t, "Ada", svc.lastData.OrganizerName)
		assert.Equal(t, "ada@example.com", svc.lastData.OrganizerEmail)
		assert.Equal(t, "Grace", svc.lastData.SubscriberName)
		assert.Equal(t, "Go Meetup", svc.lastData.MeetupTitle)
		assert.Equal(t, meetupDate, svc.lastData.MeetupDate)
	})

	t.Run("rejects a foreign payload type", func(t *testing.T) {
		svc := &fakeEmailService{}
		handler := NewSubscriptionNotificationHandler(svc)

		err := handler(ctx, &domain.Task{Kind: domain.TaskSubscriptionNotification, Payload: "wrong"})
		require.Error(t, err)
		assert.Nil(t, svc.lastData)
	})
}
