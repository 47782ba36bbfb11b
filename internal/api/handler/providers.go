package handler

import (
	"net/http"

	"github.com/frayen/support-desk/internal/api/response"
	"github.com/frayen/support-desk/internal/llm"
)

// ListLLMProviders returns the registered collaborators and which one
// answers by default.
func ListLLMProviders(registry *llm.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        registry.Info(),
			"default_provider": registry.DefaultProvider(),
		})
	}
}
