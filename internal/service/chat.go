package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/frayen/support-desk/internal/config"
	"github.com/frayen/support-desk/internal/domain"
	"github.com/frayen/support-desk/internal/escalation"
	"github.com/frayen/support-desk/internal/faq"
	"github.com/frayen/support-desk/internal/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// titleLimit is where the first user question gets cut for the session
// title shown in the sidebar.
const titleLimit = 30

// Confidence assigned when the collaborator returns text but no
// estimate of its own: higher when the reply was grounded in matched
// FAQ entries.
const (
	groundedTurnConfidence = 0.9
	openTurnConfidence     = 0.8
)

const escalationNoticeFormat = "I understand this is important to you. " +
	"Your conversation has been escalated to our human support team. " +
	"They will reach out to you within 2 hours during business hours. " +
	"Reference ID: %s"

// TurnRequest is one user turn addressed to a session.
type TurnRequest struct {
	Content  string `json:"content" validate:"required"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// TurnResult is everything produced by one handled turn.
type TurnResult struct {
	Session   *domain.ChatSession `json:"session"`
	Reply     *domain.Message     `json:"reply"`
	Escalated bool                `json:"escalated"`
	Reason    string              `json:"reason,omitempty"`
}

// ChatService orchestrates conversation turns: FAQ grounding, the
// collaborator call, escalation and persistence.
type ChatService struct {
	sessionRepo domain.SessionRepository
	messageRepo domain.MessageRepository
	faqService  *FaqService
	registry    *llm.Registry
	policy      *escalation.Policy
	cfg         config.ChatConfig
	llmTimeout  time.Duration

	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

// sessionLock is a refcounted mutex. The count tracks goroutines
// holding or waiting on it so released entries can be pruned.
type sessionLock struct {
	sync.Mutex
	refs int
}

// NewChatService creates a new chat service
func NewChatService(
	sessionRepo domain.SessionRepository,
	messageRepo domain.MessageRepository,
	faqService *FaqService,
	registry *llm.Registry,
	policy *escalation.Policy,
	cfg config.ChatConfig,
	llmTimeout time.Duration,
) *ChatService {
	if llmTimeout <= 0 {
		llmTimeout = 30 * time.Second
	}
	return &ChatService{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		faqService:  faqService,
		registry:    registry,
		policy:      policy,
		cfg:         cfg,
		llmTimeout:  llmTimeout,
		locks:       make(map[uuid.UUID]*sessionLock),
	}
}

// lockSession acquires the mutex serializing writes to one session.
// Turns on different sessions proceed in parallel; two turns on the
// same session are applied one at a time so the failure counter and
// status never race.
func (s *ChatService) lockSession(id uuid.UUID) *sessionLock {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return l
}

// unlockSession releases the mutex and drops the map entry once no
// goroutine holds or waits on it, so the map stays bounded by live
// contention rather than session count.
func (s *ChatService) unlockSession(id uuid.UUID, l *sessionLock) {
	l.Unlock()

	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, id)
	}
	s.mu.Unlock()
}

// CreateSession starts a new conversation.
func (s *ChatService) CreateSession(ctx context.Context, title string) (*domain.ChatSession, error) {
	session := domain.NewChatSession(title, time.Now().UTC())
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns a session by ID.
func (s *ChatService) GetSession(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	return s.sessionRepo.Get(ctx, id)
}

// ListSessions returns sessions ordered by recent activity.
func (s *ChatService) ListSessions(ctx context.Context, limit, offset int) ([]domain.ChatSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.sessionRepo.List(ctx, limit, offset)
}

// ListMessages returns a session's messages in chronological order.
func (s *ChatService) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]domain.Message, error) {
	if _, err := s.sessionRepo.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListBySession(ctx, sessionID, 0)
}

// DeleteSession removes a session and its messages.
func (s *ChatService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := s.sessionRepo.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := s.messageRepo.DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

// HandleTurn processes one user turn end to end. The user message is
// persisted before any collaborator call, so a provider outage never
// loses what the customer wrote.
func (s *ChatService) HandleTurn(ctx context.Context, sessionID uuid.UUID, req TurnRequest) (*TurnResult, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.NewValidationError("content", "message content must not be empty")
	}

	lock := s.lockSession(sessionID)
	defer s.unlockSession(sessionID, lock)

	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.AcceptsTurns() {
		return nil, domain.ErrConversationClosed
	}

	now := time.Now().UTC()
	userMsg := domain.NewMessage(sessionID, domain.RoleUser, content, now)
	if err := s.messageRepo.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	if session.Title == domain.DefaultSessionTitle {
		session.Title = deriveTitle(content)
	}

	// Keyword escalation is checked before spending a collaborator
	// call: an angry customer gets the hand-off notice, not a bot reply.
	decision := s.policy.Evaluate(escalation.Signals{
		MessageText:    content,
		FailedAttempts: session.FailedAttempts,
	})
	if decision.ShouldEscalate {
		return s.escalateWithNotice(ctx, session, decision.Reason)
	}

	corpus, err := s.faqService.Corpus(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("faq corpus unavailable, answering ungrounded")
		corpus = nil
	}
	matches := faq.Relevant(faq.Rank(content, corpus, s.cfg.TopK), s.cfg.RelevanceFloor)

	history, err := s.messageRepo.ListBySession(ctx, sessionID, s.cfg.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	// The user message just written is at the tail; it goes into the
	// request separately.
	if n := len(history); n > 0 && history[n-1].ID == userMsg.ID {
		history = history[:n-1]
	}

	provider, err := s.registry.Get(req.Provider)
	if err != nil {
		return nil, domain.NewValidationError("provider", err.Error())
	}

	llmReq := llm.Request{
		System:    llm.BuildSystemPrompt(llm.BuildGroundingContext(matches), session.Summary),
		History:   llm.HistoryFromMessages(history),
		Message:   content,
		Grounding: matches,
	}

	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	resp, callErr := provider.Complete(callCtx, llmReq, req.Model)
	cancel()

	if callErr != nil {
		// The failed turn still counts toward the threshold; the
		// customer got no usable answer.
		session.RecordFailure()
		s.applyThreshold(session)
		session.Touch(time.Now().UTC())
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to record turn failure")
		}

		log.Error().Err(callErr).
			Str("provider", provider.Name()).
			Str("session_id", sessionID.String()).
			Msg("collaborator call failed")

		var collab *domain.CollaboratorError
		if errors.As(callErr, &collab) {
			return nil, callErr
		}
		return nil, &domain.CollaboratorError{Err: callErr, Retryable: true}
	}

	confidence := resp.Confidence
	if confidence == 0 {
		if len(matches) > 0 {
			confidence = groundedTurnConfidence
		} else {
			confidence = openTurnConfidence
		}
	}

	if s.policy.IsFailure(&confidence) || len(resp.Text) < s.cfg.MinResponseLength {
		session.RecordFailure()
	}

	faqMatched := len(matches) > 0
	meta := &domain.MessageMetadata{
		Confidence: &confidence,
		FaqMatched: &faqMatched,
		Model:      resp.Model,
		LatencyMs:  resp.LatencyMs,
	}

	// The threshold is evaluated after the counter moves. When it
	// trips, this reply still stands; the transition is recorded on
	// the session and the next turn is refused.
	escalated := s.applyThreshold(session)
	if escalated {
		meta.Escalated = true
		meta.Reason = session.EscalationReason
	}

	assistantMsg := domain.NewMessage(sessionID, domain.RoleAssistant, resp.Text, time.Now().UTC())
	assistantMsg.Metadata = meta
	if err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	session.Touch(time.Now().UTC())
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.maybeSummarize(sessionID, provider, req.Model)

	return &TurnResult{
		Session:   session,
		Reply:     assistantMsg,
		Escalated: escalated,
		Reason:    session.EscalationReason,
	}, nil
}

// Escalate hands the session to a human on explicit request. Repeating
// it never appends a second notice; an explicit re-escalation with a
// new non-empty reason replaces the stored one.
func (s *ChatService) Escalate(ctx context.Context, sessionID uuid.UUID, reason string) (*TurnResult, error) {
	lock := s.lockSession(sessionID)
	defer s.unlockSession(sessionID, lock)

	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	decision := s.policy.Evaluate(escalation.Signals{
		ManualRequest: true,
		ManualReason:  reason,
	})

	if session.Status == domain.StatusEscalated {
		if reason != "" && reason != session.EscalationReason {
			session.EscalationReason = reason
			session.Touch(time.Now().UTC())
			if err := s.sessionRepo.Update(ctx, session); err != nil {
				return nil, fmt.Errorf("failed to update session: %w", err)
			}
		}
		return &TurnResult{Session: session, Escalated: true, Reason: session.EscalationReason}, nil
	}

	return s.escalateWithNotice(ctx, session, decision.Reason)
}

// escalateWithNotice transitions the session, appends the hand-off
// notice as an assistant message and persists both. Callers hold the
// session lock.
func (s *ChatService) escalateWithNotice(ctx context.Context, session *domain.ChatSession, reason string) (*TurnResult, error) {
	now := time.Now().UTC()
	if !session.Escalate(reason, now) {
		return &TurnResult{Session: session, Escalated: true, Reason: session.EscalationReason}, nil
	}

	notice := domain.NewMessage(session.ID, domain.RoleAssistant, escalationNotice(session.ID), now)
	notice.Metadata = &domain.MessageMetadata{
		Escalated: true,
		Reason:    reason,
	}
	if err := s.messageRepo.Create(ctx, notice); err != nil {
		return nil, fmt.Errorf("failed to persist escalation notice: %w", err)
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Str("reason", reason).
		Msg("session escalated")

	return &TurnResult{
		Session:   session,
		Reply:     notice,
		Escalated: true,
		Reason:    reason,
	}, nil
}

// applyThreshold escalates when accumulated failures reach the
// configured limit. No notice message is produced here: the transition
// is recorded and the refusal happens on the next turn.
func (s *ChatService) applyThreshold(session *domain.ChatSession) bool {
	decision := s.policy.Evaluate(escalation.Signals{
		FailedAttempts: session.FailedAttempts,
	})
	if !decision.ShouldEscalate {
		return false
	}
	if session.Escalate(decision.Reason, time.Now().UTC()) {
		log.Info().
			Str("session_id", session.ID.String()).
			Int("failed_attempts", session.FailedAttempts).
			Msg("session escalated after repeated failures")
		return true
	}
	return false
}

// maybeSummarize compresses older turns into the session summary once
// the conversation outgrows the configured length. Runs in the
// background; the turn response never waits on it. Providers that
// cannot summarize are skipped.
func (s *ChatService) maybeSummarize(sessionID uuid.UUID, provider llm.Provider, model string) {
	summarizer, ok := provider.(llm.Summarizer)
	if !ok || s.cfg.SummarizeAfter <= 0 {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.llmTimeout)
		defer cancel()

		count, err := s.messageRepo.CountBySession(ctx, sessionID)
		if err != nil || count < int64(s.cfg.SummarizeAfter) {
			return
		}

		messages, err := s.messageRepo.ListBySession(ctx, sessionID, 0)
		if err != nil {
			return
		}

		summary, err := summarizer.Summarize(ctx, llm.HistoryFromMessages(messages), model)
		if err != nil {
			log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("summarization failed")
			return
		}

		lock := s.lockSession(sessionID)
		defer s.unlockSession(sessionID, lock)

		session, err := s.sessionRepo.Get(ctx, sessionID)
		if err != nil {
			return
		}
		session.Summary = summary
		session.Touch(time.Now().UTC())
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("failed to store summary")
		}
	}()
}

// deriveTitle trims the first user question down to sidebar size.
// Cuts on rune boundaries so multi-byte text never breaks mid-char.
func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleLimit {
		return content
	}
	return string(runes[:titleLimit]) + "..."
}

// escalationNotice renders the hand-off message shown to the customer.
func escalationNotice(sessionID uuid.UUID) string {
	return fmt.Sprintf(escalationNoticeFormat, sessionID.String()[:8])
}
