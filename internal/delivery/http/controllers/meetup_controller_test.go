package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meetapp/internal/delivery/http/helpers"
	"meetapp/internal/delivery/http/middleware"
	"meetapp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBannerID = "33333333-3333-3333-3333-333333333333"

// fakeMeetupService implements domain.MeetupService for handler tests.
type fakeMeetupService struct {
	createErr        error
	createResult     *domain.MeetupDetail
	updateErr        error
	updateResult     *domain.MeetupDetail
	deleteErr        error
	listOwnedErr     error
	listOwnedResult  []*domain.MeetupDetail
	listByDateErr    error
	listByDateResult []*domain.MeetupDetail
	lastOrganizerID  string
	lastCreateInput  *domain.CreateMeetupInput
	lastUpdateID     string
	lastPatch        *domain.MeetupPatch
	lastDeleteID     string
	lastListDate     time.Time
	lastListParams   domain.PaginationParams
}

func (f *fakeMeetupService) Create(ctx context.Context, organizerID string, input *domain.CreateMeetupInput) (*domain.MeetupDetail, error) {
	f.lastOrganizerID = organizerID
	f.lastCreateInput = input
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResult, nil
}

func (f *fakeMeetupService) Update(ctx context.Context, actorID, meetupID string, patch *domain.MeetupPatch) (*domain.MeetupDetail, error) {
	f.lastOrganizerID = actorID
	f.lastUpdateID = meetupID
	f.lastPatch = patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateResult, nil
}

func (f *fakeMeetupService) Delete(ctx context.Context, actorID, meetupID string) error {
	f.lastOrganizerID = actorID
	f.lastDeleteID = meetupID
	return f.deleteErr
}

func (f *fakeMeetupService) ListOwned(ctx context.Context, actorID string) ([]*domain.MeetupDetail, error) {
	f.lastOrganizerID = actorID
	if f.listOwnedErr != nil {
		return nil, f.listOwnedErr
	}
	return f.listOwnedResult, nil
}

func (f *fakeMeetupService) ListByDate(ctx context.Context, date time.Time, params domain.PaginationParams) ([]*domain.MeetupDetail, error) {
	f.lastListDate = date
	f.lastListParams = params
	if f.listByDateErr != nil {
		return nil, f.listByDateErr
	}
	return f.listByDateResult, nil
}

func TestMeetupController_CreateMeetup(t *testing.T) {
	date := time.Date(2025, 9, 12, 18, 0, 0, 0, time.UTC)
	okBody := map[string]any{
		"title":       "Go Meetup",
		"description": "Talks",
		"location":    "Downtown",
		"date":        date.Format(time.RFC3339),
		"banner_id":   testBannerID,
	}

	tests := []struct {
		name         string
		body         any
		rawBody      string
		authed       bool
		svc          *fakeMeetupService
		wantStatus   int
		wantCode     string
		wantMessages []string
	}{
		{
			name:   "success",
			body:   okBody,
			authed: true,
			svc: &fakeMeetupService{createResult: &domain.MeetupDetail{
				Meetup:    &domain.Meetup{ID: testMeetupID, Title: "Go Meetup", Date: date},
				Organizer: &domain.UserProfile{ID: "user-1"},
			}},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			rawBody:    "{not json",
			authed:     true,
			svc:        &fakeMeetupService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "no user in context",
			body:       okBody,
			authed:     false,
			svc:        &fakeMeetupService{},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:   "validation messages pass through",
			body:   map[string]any{"date": date.Format(time.RFC3339), "banner_id": testBannerID},
			authed: true,
			svc: &fakeMeetupService{createErr: domain.NewValidationError(
				"the title is required",
				"description is required",
				"the location is required",
			)},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
			wantMessages: []string{
				"the title is required",
				"description is required",
				"the location is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewMeetupController(testLogger, tt.svc)

			var body *bytes.Buffer
			if tt.rawBody != "" {
				body = bytes.NewBufferString(tt.rawBody)
			} else {
				raw, err := json.Marshal(tt.body)
				require.NoError(t, err)
				body = bytes.NewBuffer(raw)
			}
			req := httptest.NewRequest(http.MethodPost, "http://test/meetups", body)
			if tt.authed {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
			}
			rr := httptest.NewRecorder()

			ctrl.CreateMeetup(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				if tt.wantMessages != nil {
					assert.Equal(t, tt.wantMessages, envelope.Error.Messages)
				}
				return
			}
			require.Nil(t, envelope.Error)
			require.NotNil(t, envelope.Data)
			require.NotNil(t, tt.svc.lastCreateInput)
			assert.Equal(t, "Go Meetup", tt.svc.lastCreateInput.Title)
			assert.Equal(t, "user-1", tt.svc.lastOrganizerID)
		})
	}
}

func TestMeetupController_UpdateMeetup(t *testing.T) {
	date := time.Date(2025, 9, 12, 18, 0, 0, 0, time.UTC)

	t.Run("partial body maps onto the patch", func(t *testing.T) {
		svc := &fakeMeetupService{updateResult: &domain.MeetupDetail{
			Meetup:    &domain.Meetup{ID: testMeetupID, Title: "Renamed", Date: date},
			Organizer: &domain.UserProfile{ID: "user-1"},
		}}
		ctrl := NewMeetupController(testLogger, svc)

		body := bytes.NewBufferString(`{"title":"Renamed"}`)
		req := httptest.NewRequest(http.MethodPut, "http://test/meetups/"+testMeetupID, body)
		req.SetPathValue("meetupID", testMeetupID)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		ctrl.UpdateMeetup(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, svc.lastPatch)
		require.NotNil(t, svc.lastPatch.Title)
		assert.Equal(t, "Renamed", *svc.lastPatch.Title)
		assert.Nil(t, svc.lastPatch.Description)
		assert.Nil(t, svc.lastPatch.Date)
	})

	t.Run("explicit empty title is rejected", func(t *testing.T) {
		ctrl := NewMeetupController(testLogger, &fakeMeetupService{})

		body := bytes.NewBufferString(`{"title":"  "}`)
		req := httptest.NewRequest(http.MethodPut, "http://test/meetups/"+testMeetupID, body)
		req.SetPathValue("meetupID", testMeetupID)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		ctrl.UpdateMeetup(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Contains(t, envelope.Error.Messages, "the title cannot be empty")
	})

	t.Run("foreign meetup reads as not found", func(t *testing.T) {
		ctrl := NewMeetupController(testLogger, &fakeMeetupService{updateErr: domain.ErrNotFound})

		body := bytes.NewBufferString(`{"title":"Renamed"}`)
		req := httptest.NewRequest(http.MethodPut, "http://test/meetups/"+testMeetupID, body)
		req.SetPathValue("meetupID", testMeetupID)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		ctrl.UpdateMeetup(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("past meetup", func(t *testing.T) {
		ctrl := NewMeetupController(testLogger, &fakeMeetupService{updateErr: domain.ErrPastMeetup})

		body := bytes.NewBufferString(`{"title":"Renamed"}`)
		req := httptest.NewRequest(http.MethodPut, "http://test/meetups/"+testMeetupID, body)
		req.SetPathValue("meetupID", testMeetupID)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		ctrl.UpdateMeetup(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "you can only change future meetups", envelope.Error.Message)
	})
}

func TestMeetupController_DeleteMeetup(t *testing.T) {
	tests := []struct {
		name       string
		svc        *fakeMeetupService
		wantStatus int
	}{
		{"success", &fakeMeetupService{}, http.StatusNoContent},
		{"not found", &fakeMeetupService{deleteErr: domain.ErrNotFound}, http.StatusNotFound},
		{"forbidden", &fakeMeetupService{deleteErr: domain.ErrForbidden}, http.StatusForbidden},
		{"past meetup", &fakeMeetupService{deleteErr: domain.ErrPastMeetup}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewMeetupController(testLogger, tt.svc)

			req := httptest.NewRequest(http.MethodDelete, "http://test/meetups/"+testMeetupID, nil)
			req.SetPathValue("meetupID", testMeetupID)
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
			rr := httptest.NewRecorder()

			ctrl.DeleteMeetup(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, testMeetupID, tt.svc.lastDeleteID)
			}
		})
	}
}

func TestMeetupController_ListByDate(t *testing.T) {
	t.Run("parses the day and pagination", func(t *testing.T) {
		svc := &fakeMeetupService{listByDateResult: []*domain.MeetupDetail{}}
		ctrl := NewMeetupController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "http://test/meetups?date=2025-09-12&page=2&page_size=5", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		ctrl.ListByDate(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC), svc.lastListDate)
		assert.Equal(t, 2, svc.lastListParams.Page)
		assert.Equal(t, 5, svc.lastListParams.PageSize)
	})

	t.Run("missing date", func(t *testing.T) {
		ctrl := NewMeetupController(testLogger, &fakeMeetupService{})

		req := httptest.NewRequest(http.MethodGet, "http://test/meetups", nil)
		rr := httptest.NewRecorder()

		ctrl.ListByDate(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad date format", func(t *testing.T) {
		ctrl := NewMeetupController(testLogger, &fakeMeetupService{})

		req := httptest.NewRequest(http.MethodGet, "http://test/meetups?date=12-09-2025", nil)
		rr := httptest.NewRecorder()

		ctrl.ListByDate(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
