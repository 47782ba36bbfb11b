package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/frayen/support-desk/internal/api/response"
	"github.com/frayen/support-desk/internal/domain"
	"github.com/frayen/support-desk/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ChatHandler handles session and turn endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "sessionID"))
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		response.BadRequest(w, validation.Error())
		return
	}
	if errors.Is(err, domain.ErrSessionNotFound) {
		response.NotFound(w, "session not found")
		return
	}
	if errors.Is(err, domain.ErrConversationClosed) {
		response.Conflict(w, "conversation has been escalated to a human agent")
		return
	}
	var collab *domain.CollaboratorError
	if errors.As(err, &collab) {
		response.BadGateway(w, map[string]any{
			"message":   "assistant is temporarily unavailable",
			"retryable": collab.Retryable,
		})
		return
	}
	response.InternalError(w, "internal error")
}

// CreateSession starts a new conversation
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Optional body
	}

	session, err := h.chatService.CreateSession(r.Context(), req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, session)
}

// ListSessions returns sessions ordered by recent activity
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	sessions, err := h.chatService.ListSessions(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, sessions)
}

// GetSession returns a single session
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		response.BadRequest(w, "invalid session id")
		return
	}

	session, err := h.chatService.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, session)
}

// ListMessages returns a session's messages in chronological order
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		response.BadRequest(w, "invalid session id")
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, messages)
}

// SendMessage handles one user turn
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		response.BadRequest(w, "invalid session id")
		return
	}

	var req service.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, "content is required")
		return
	}

	result, err := h.chatService.HandleTurn(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, result)
}

// Escalate hands the session to a human on explicit request
func (h *ChatHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		response.BadRequest(w, "invalid session id")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Optional body
	}

	result, err := h.chatService.Escalate(r.Context(), id, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, result)
}

// DeleteSession removes a session and its messages
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		response.BadRequest(w, "invalid session id")
		return
	}

	if err := h.chatService.DeleteSession(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.NoContent(w)
}
