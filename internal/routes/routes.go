package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hartetoti/backend/internal/app"
	"github.com/hartetoti/backend/internal/handler"
	"github.com/hartetoti/backend/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg.SecureCookies())
	gameSession := handler.NewGameSessionHandler(app.GameSessionService)
	question := handler.NewQuestionHandler(app.QuestionService)

	requireAuth := middleware.RequireAuth(app.AuthService)
	requireAdmin := func(next http.HandlerFunc) http.HandlerFunc {
		return requireAuth(middleware.RequireAdmin(next))
	}

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Auth
	mux.HandleFunc("POST /api/auth/register", auth.Register)
	mux.HandleFunc("POST /api/auth/login", auth.Login)
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/verify-email/{token}", auth.VerifyEmail)
	mux.HandleFunc("POST /api/auth/forgot-password", auth.ForgotPassword)
	mux.HandleFunc("GET /api/auth/reset-password/{token}", auth.ValidateResetToken)
	mux.HandleFunc("PUT /api/auth/reset-password/{token}", auth.ResetPassword)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/auth/profile", requireAuth(auth.Profile))
	mux.HandleFunc("PUT /api/auth/profile", requireAuth(auth.UpdateProfile))
	mux.HandleFunc("PUT /api/auth/change-password", requireAuth(auth.ChangePassword))
	mux.HandleFunc("POST /api/auth/resend-verification", requireAuth(auth.ResendVerification))

	// Game sessions
	mux.HandleFunc("GET /api/gamesession", requireAuth(gameSession.List))
	mux.HandleFunc("POST /api/gamesession/create-game-session", requireAuth(gameSession.Create))
	mux.HandleFunc("GET /api/gamesession/{id}", requireAuth(gameSession.Get))
	mux.HandleFunc("POST /api/gamesession/{id}/complete", requireAuth(gameSession.Complete))
	mux.HandleFunc("POST /api/gamesession/{id}/abandon", requireAuth(gameSession.Abandon))

	// ============================================================================
	// ADMIN ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/questions", requireAdmin(question.List))
	mux.HandleFunc("POST /api/questions", requireAdmin(question.Create))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recover,
		middleware.RequestLogging,
		middleware.Metrics, // last to see the request before the mux sets its pattern
		middleware.SecurityHeaders,
		middleware.CORS(app.Cfg.FrontURL),
	)

	return handler
}
