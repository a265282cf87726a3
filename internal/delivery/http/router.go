package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"meetapp/internal/delivery/http/controllers"
	"meetapp/internal/delivery/http/middleware"
	"meetapp/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	fileController *controllers.FileController,
	meetupController *controllers.MeetupController,
	subscriptionController *controllers.SubscriptionController,
	uploadDir string,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /users", authController.SignUp)
	mux.HandleFunc("POST /sessions", authController.Login)

	// Banners
	mux.HandleFunc("POST /files", auth(fileController.Upload))
	mux.Handle("GET /files/", http.StripPrefix("/files/", http.FileServer(http.Dir(uploadDir))))

	// Meetups
	mux.HandleFunc("POST /meetups", auth(meetupController.CreateMeetup))
	mux.HandleFunc("GET /meetups", auth(meetupController.ListByDate))
	mux.HandleFunc("PUT /meetups/{meetupID}", auth(meetupController.UpdateMeetup))
	mux.HandleFunc("DELETE /meetups/{meetupID}", auth(meetupController.DeleteMeetup))
	mux.HandleFunc("GET /organizing", auth(meetupController.ListOrganizing))

	// Subscriptions
	mux.HandleFunc("POST /meetups/{meetupID}/subscriptions", auth(subscriptionController.Subscribe))
	mux.HandleFunc("GET /subscriptions", auth(subscriptionController.ListUpcoming))
	mux.HandleFunc("DELETE /subscriptions/{subscriptionID}", auth(subscriptionController.Cancel))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
