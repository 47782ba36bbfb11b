package handler

import (
	"encoding/json"
	"net/http"

	"github.com/frayen/support-desk/internal/api/response"
	"github.com/frayen/support-desk/internal/service"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FaqHandler handles FAQ corpus endpoints
type FaqHandler struct {
	faqService *service.FaqService
}

// NewFaqHandler creates a new FAQ handler
func NewFaqHandler(faqService *service.FaqService) *FaqHandler {
	return &FaqHandler{faqService: faqService}
}

// List returns FAQ entries, optionally filtered by category
func (h *FaqHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	entries, err := h.faqService.List(r.Context(), category)
	if err != nil {
		response.InternalError(w, "failed to list FAQs")
		return
	}

	response.OK(w, map[string]any{
		"faqs":  entries,
		"count": len(entries),
	})
}

// Create adds a new FAQ entry
func (h *FaqHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			errors := make(map[string]string)
			for _, e := range validationErrors {
				switch e.Tag() {
				case "required":
					errors[e.Field()] = "field is required"
				default:
					errors[e.Field()] = "validation failed on " + e.Tag()
				}
			}
			response.BadRequest(w, errors)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	entry, err := h.faqService.Create(r.Context(), input)
	if err != nil {
		response.InternalError(w, "failed to create FAQ")
		return
	}

	response.Created(w, entry)
}

// FlushCache clears all cached FAQ lists from Redis
func FlushCache(faqService *service.FaqService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := faqService.FlushCache(r.Context())
		if err != nil {
			response.InternalError(w, "failed to flush cache: "+err.Error())
			return
		}

		response.OK(w, map[string]any{
			"message":      "cache flushed successfully",
			"keys_deleted": deleted,
		})
	}
}
