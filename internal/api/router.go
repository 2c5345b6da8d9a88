package api

import (
	"net/http"
	"strings"
	"time"

	"portfolio_api/internal/api/handler"
	"portfolio_api/internal/app/service"
	"portfolio_api/internal/common"
	"portfolio_api/internal/common/security"
	"portfolio_api/internal/platform/config"
	"portfolio_api/internal/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	projectService *service.ProjectService,
	contactService *service.ContactService,
	images storage.Store,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(config.AppConfig.CORSAllowedOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// JWT Auth Middleware Setup
	// It will search for a token in "Authorization: Bearer T".
	r.Use(jwtauth.Verifier(security.TokenAuth)) // Verifies token, puts claims in context

	// API status endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{
			"message":   "Portfolio API is running!",
			"status":    "success",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Stored image blobs
	uploadHandler := handler.NewUploadHandler(images)
	r.Route("/uploads", uploadHandler.RegisterRoutes)

	// API Routes
	r.Route("/api", func(apiRouter chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		apiRouter.Route("/auth", authHandler.RegisterRoutes)

		projectHandler := handler.NewProjectHandler(projectService)
		apiRouter.Route("/projects", projectHandler.RegisterRoutes)

		contactHandler := handler.NewContactHandler(contactService,
			config.AppConfig.ContactRateLimit, config.AppConfig.ContactRateLimitWindow)
		apiRouter.Route("/contact", contactHandler.RegisterRoutes)
	})

	return r
}
