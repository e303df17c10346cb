package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studyhub-backend/internal/handlers"
	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	subjectHandler *handlers.SubjectHandler,
	moduleHandler *handlers.ModuleHandler,
	examPrepHandler *handlers.ExamPrepHandler,
	taskHandler *handlers.TaskHandler,
	expenseHandler *handlers.ExpenseHandler,
	citationHandler *handlers.CitationHandler,
	dashboardHandler *handlers.DashboardHandler,
	userHandler *handlers.UserHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Subject Routes ────
		r.Route("/subjects", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", subjectHandler.Create)
			r.Get("/", subjectHandler.List)
			r.Get("/{id}", subjectHandler.Get)
			r.Put("/{id}", subjectHandler.Update)
			r.Delete("/{id}", subjectHandler.Delete)
		})

		// ──── Module Routes ────
		r.Route("/modules", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/{id}", moduleHandler.Get)
			r.Put("/{id}", moduleHandler.Rename)
			r.Get("/{id}/files", moduleHandler.ListFiles)
			r.Post("/{id}/files", moduleHandler.UploadFile)
			r.Delete("/{id}/files/{fileID}", moduleHandler.DeleteFile)
		})

		// ──── Exam Prep ────
		r.Route("/exam-prep", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/process", examPrepHandler.Process)
		})

		// ──── Task Routes ────
		r.Route("/tasks", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", taskHandler.Create)
			r.Get("/", taskHandler.List)
			r.Put("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})

		// ──── Expense Routes ────
		r.Route("/expenses", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", expenseHandler.Create)
			r.Get("/", expenseHandler.List)
			r.Delete("/{id}", expenseHandler.Delete)
			r.Post("/parse", expenseHandler.Parse)
		})

		// ──── Citation Routes ────
		r.Route("/citations", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/generate", citationHandler.Generate)
			r.Get("/", citationHandler.List)
			r.Delete("/{id}", citationHandler.Delete)
		})

		// ──── Dashboard ────
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", dashboardHandler.Get)
		})

		// ──── User & Settings Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateMe)
			r.Put("/password", userHandler.ChangePassword)
			r.Delete("/me", userHandler.DeleteMe)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
