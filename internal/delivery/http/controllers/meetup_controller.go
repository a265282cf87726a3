package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"meetapp/internal/delivery/http/helpers"
	"meetapp/internal/delivery/http/middleware"
	"meetapp/internal/domain"
)

type MeetupController struct {
	Logger  *slog.Logger
	Service domain.MeetupService
}

func NewMeetupController(logger *slog.Logger, svc domain.MeetupService) *MeetupController {
	return &MeetupController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateMeetupRequest is the request body for POST /meetups.
type CreateMeetupRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	BannerID    string    `json:"banner_id"`
}

// Validate implements helpers.Validator. Field-level rules (non-empty,
// future date, banner existence) live in the service so every violation is
// reported at once; here only the banner id shape is checked.
func (r *CreateMeetupRequest) Validate() []string {
	if r.BannerID != "" && !uuidRegex.MatchString(r.BannerID) {
		return []string{"banner_id must be a valid id"}
	}
	return nil
}

// CreateMeetup godoc
// @Summary Create a meetup
// @Description Creates a meetup owned by the authenticated user. The date must be strictly in the future and the banner must exist.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateMeetupRequest true "Meetup fields"
// @Success 201 {object} helpers.APIResponse "data is the meetup joined with banner and organizer"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, error.messages lists every violated field"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /meetups [post]
func (c *MeetupController) CreateMeetup(w http.ResponseWriter, r *http.Request) {
	var req CreateMeetupRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	detail, err := c.Service.Create(r.Context(), userID, &domain.CreateMeetupInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		BannerID:    req.BannerID,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, detail)
}

// UpdateMeetupRequest is the request body for PUT /meetups/{meetupID}.
// Absent fields are left untouched.
type UpdateMeetupRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Date        *time.Time `json:"date"`
	BannerID    *string    `json:"banner_id"`
}

// Validate implements helpers.Validator.
func (r *UpdateMeetupRequest) Validate() []string {
	var errs []string
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		errs = append(errs, "the title cannot be empty")
	}
	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		errs = append(errs, "description cannot be empty")
	}
	if r.Location != nil && strings.TrimSpace(*r.Location) == "" {
		errs = append(errs, "the location cannot be empty")
	}
	if r.BannerID != nil && !uuidRegex.MatchString(*r.BannerID) {
		errs = append(errs, "banner_id must be a valid id")
	}
	return errs
}

// UpdateMeetup godoc
// @Summary Update a meetup
// @Description Applies a partial update to a future meetup owned by the authenticated user.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meetupID path string true "Meetup ID (UUID)"
// @Param body body controllers.UpdateMeetupRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data is the updated meetup joined with banner and organizer"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /meetups/{meetupID} [put]
func (c *MeetupController) UpdateMeetup(w http.ResponseWriter, r *http.Request) {
	meetupID := r.PathValue("meetupID")
	if !uuidRegex.MatchString(meetupID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid meetupID")
		return
	}
	var req UpdateMeetupRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	detail, err := c.Service.Update(r.Context(), userID, meetupID, &domain.MeetupPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		BannerID:    req.BannerID,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// DeleteMeetup godoc
// @Summary Delete a meetup
// @Description Permanently removes a future meetup owned by the authenticated user. Past meetups cannot be removed.
// @Tags meetups
// @Produce json
// @Security BearerAuth
// @Param meetupID path string true "Meetup ID (UUID)"
// @Success 204 "No content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /meetups/{meetupID} [delete]
func (c *MeetupController) DeleteMeetup(w http.ResponseWriter, r *http.Request) {
	meetupID := r.PathValue("meetupID")
	if !uuidRegex.MatchString(meetupID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid meetupID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.Delete(r.Context(), userID, meetupID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOrganizing godoc
// @Summary List meetups organized by the current user
// @Tags meetups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of meetups joined with banner and organizer, date ascending"
// @Router /organizing [get]
func (c *MeetupController) ListOrganizing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	meetups, err := c.Service.ListOwned(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meetups)
}

// ListByDate godoc
// @Summary List meetups on a day
// @Description Lists meetups from any organizer within the 24 hours starting at the given date, paginated.
// @Tags meetups
// @Produce json
// @Security BearerAuth
// @Param date query string true "Day (YYYY-MM-DD)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 10, max 100)"
// @Success 200 {object} helpers.APIResponse "data is an array of meetups, date ascending"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /meetups [get]
func (c *MeetupController) ListByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing date")
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date must be YYYY-MM-DD")
		return
	}

	meetups, err := c.Service.ListByDate(r.Context(), date, helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meetups)
}
