package controllers

import (
	"log/slog"
	"net/http"

	"meetapp/internal/delivery/http/helpers"
	"meetapp/internal/delivery/http/middleware"
	"meetapp/internal/domain"
)

type SubscriptionController struct {
	Logger  *slog.Logger
	Service domain.SubscriptionService
}

func NewSubscriptionController(logger *slog.Logger, svc domain.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		Logger:  logger,
		Service: svc,
	}
}

// Subscribe godoc
// @Summary Subscribe to a meetup
// @Description Subscribes the authenticated user to a meetup. Rejected when the meetup is unavailable (single generic message), when already subscribed, or when another active subscription shares the meetup's exact date.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param meetupID path string true "Meetup ID (UUID)"
// @Success 201 {object} helpers.APIResponse "data is the subscription joined with meetup, organizer, and subscriber"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /meetups/{meetupID}/subscriptions [post]
func (c *SubscriptionController) Subscribe(w http.ResponseWriter, r *http.Request) {
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

	detail, err := c.Service.Subscribe(r.Context(), userID, meetupID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, detail)
}

// Cancel godoc
// @Summary Cancel a subscription
// @Description Cancels the authenticated user's active subscription. Canceling again fails: cancellation is one-way and not idempotent.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param subscriptionID path string true "Subscription ID (UUID)"
// @Success 204 "No content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /subscriptions/{subscriptionID} [delete]
func (c *SubscriptionController) Cancel(w http.ResponseWriter, r *http.Request) {
	subscriptionID := r.PathValue("subscriptionID")
	if !uuidRegex.MatchString(subscriptionID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid subscriptionID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.Cancel(r.Context(), userID, subscriptionID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUpcoming godoc
// @Summary List upcoming subscribed meetups
// @Description Lists meetups that have not yet happened for which the authenticated user holds an active subscription, date ascending.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of meetups joined with the caller's subscription"
// @Router /subscriptions [get]
func (c *SubscriptionController) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	meetups, err := c.Service.ListUpcoming(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meetups)
}
