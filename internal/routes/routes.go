package routes

import (
	"net/http"

	"github.com/templui/hoaxify/internal/app"
	"github.com/templui/hoaxify/internal/handler"
	"github.com/templui/hoaxify/internal/i18n"
	"github.com/templui/hoaxify/internal/middleware"
)

const apiPrefix = "/api/v1.0"

func SetupRoutes(app *app.App) http.Handler {
	responder := handler.NewResponder(i18n.NewTranslator())

	// Handlers
	users := handler.NewUserHandler(app.UserService, responder)
	auth := handler.NewAuthHandler(app.AuthService, responder)
	hoaxes := handler.NewHoaxHandler(app.HoaxService, responder)
	files := handler.NewFileHandler(app.FileService, responder)

	// Auth - login is rate limited per client IP
	rateLimit := middleware.RateLimit(app.RateLimiter, responder.Status(http.StatusTooManyRequests, handler.MsgTooManyRequests))

	mux := http.NewServeMux()

	// ============================================================================
	// ACCOUNTS
	// ============================================================================

	mux.HandleFunc("POST "+apiPrefix+"/users", users.Register)
	mux.HandleFunc("POST "+apiPrefix+"/users/token/{token}", users.Activate)
	mux.HandleFunc("GET "+apiPrefix+"/users", users.List)
	mux.HandleFunc("GET "+apiPrefix+"/users/{id}", users.Get)
	mux.HandleFunc("PUT "+apiPrefix+"/users/{id}", users.Update)
	mux.HandleFunc("DELETE "+apiPrefix+"/users/{id}", users.Delete)

	// Password reset
	mux.HandleFunc("POST "+apiPrefix+"/user/password", users.RequestPasswordReset)
	mux.HandleFunc("PUT "+apiPrefix+"/user/password", users.ResetPassword)

	// ============================================================================
	// SESSIONS
	// ============================================================================

	mux.Handle("POST "+apiPrefix+"/auth", rateLimit(http.HandlerFunc(auth.Login)))
	mux.HandleFunc("POST "+apiPrefix+"/logout", auth.Logout)

	// ============================================================================
	// HOAXES
	// ============================================================================

	mux.HandleFunc("POST "+apiPrefix+"/hoaxes", hoaxes.Create)
	mux.HandleFunc("GET "+apiPrefix+"/hoaxes", hoaxes.List)
	mux.HandleFunc("GET "+apiPrefix+"/users/{userId}/hoaxes", hoaxes.ListByUser)
	mux.HandleFunc("POST "+apiPrefix+"/hoaxes/attachments", files.UploadAttachment)

	// Stored files, only when they live on local disk
	if app.Cfg.StorageDriver == "local" {
		mux.Handle("GET /images/", http.StripPrefix("/images/", http.FileServer(http.Dir(app.Cfg.UploadDir))))
	}

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.Handle("/{path...}", responder.Status(http.StatusNotFound, handler.MsgRouteNotFound))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.Locale, // Locale must precede Recover so the 500 body is translated
		middleware.Recover(responder.Status(http.StatusInternalServerError, handler.MsgUnexpectedError)),
		middleware.Auth(app.AuthService),
	)

	return handler
}
