package api

import (
	"net/http"

	"github.com/frayen/support-desk/internal/api/handler"
	customMiddleware "github.com/frayen/support-desk/internal/api/middleware"
	"github.com/frayen/support-desk/internal/config"
	"github.com/frayen/support-desk/internal/domain"
	"github.com/frayen/support-desk/internal/escalation"
	"github.com/frayen/support-desk/internal/llm"
	"github.com/frayen/support-desk/internal/repository/redis"
	"github.com/frayen/support-desk/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps carries the wired backends the router composes. The store
// driver is chosen in main; the router only sees the repository
// interfaces.
type Deps struct {
	Config      *config.Config
	SessionRepo domain.SessionRepository
	MessageRepo domain.MessageRepository
	FaqRepo     domain.FaqRepository
	FaqCache    *redis.FaqCache
	Registry    *llm.Registry
	Store       handler.Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize services
	policy := escalation.NewPolicy(cfg.Escalation)
	faqService := service.NewFaqService(deps.FaqRepo, deps.FaqCache)
	chatService := service.NewChatService(
		deps.SessionRepo,
		deps.MessageRepo,
		faqService,
		deps.Registry,
		policy,
		cfg.Chat,
		cfg.LLM.RequestTimeout,
	)

	// Initialize handlers
	faqHandler := handler.NewFaqHandler(faqService)
	chatHandler := handler.NewChatHandler(chatService)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.Store))

		// LLM providers
		r.Get("/llm-providers", handler.ListLLMProviders(deps.Registry))

		// FAQ corpus
		r.Route("/faqs", func(r chi.Router) {
			r.Get("/", faqHandler.List)
			r.Post("/", faqHandler.Create)
		})

		// Conversations
		r.Route("/chat/sessions", func(r chi.Router) {
			r.Get("/", chatHandler.ListSessions)
			r.Post("/", chatHandler.CreateSession)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", chatHandler.GetSession)
				r.Delete("/", chatHandler.DeleteSession)
				r.Get("/messages", chatHandler.ListMessages)
				r.Post("/message", chatHandler.SendMessage)
				r.Post("/escalate", chatHandler.Escalate)
			})
		})

		// Admin
		r.Post("/cache/flush", handler.FlushCache(faqService))
	})

	return r
}
