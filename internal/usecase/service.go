package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"NewsFlash/internal/conversation"
	"NewsFlash/internal/domain"
	"NewsFlash/internal/ports"
)

// ErrEmptyMessage rejects blank input before it reaches the state
// machine; well-formed messages never produce state machine errors.
var ErrEmptyMessage = errors.New("message must not be empty")

// Reply is the outcome of one conversation turn. Results is non-nil
// only when the turn triggered a search.
type Reply struct {
	Session       domain.ConversationSession
	Text          string
	TriggerSearch bool
	Results       map[string]domain.TopicResult
}

// ConversationService serializes message handling per session, drives
// the state machine, and invokes the pipeline when a turn asks for it.
type ConversationService struct {
	machine  *conversation.Machine
	sessions ports.SessionRepository
	pipeline *Pipeline
	logger   *slog.Logger

	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	inflight map[string]context.CancelFunc
}

// NewConversationService wires the state machine, session storage and pipeline.
func NewConversationService(machine *conversation.Machine, sessions ports.SessionRepository, pipeline *Pipeline, logger *slog.Logger) *ConversationService {
	return &ConversationService{
		machine:  machine,
		sessions: sessions,
		pipeline: pipeline,
		logger:   logger,
		locks:    map[string]*sync.Mutex{},
		inflight: map[string]context.CancelFunc{},
	}
}

// NewSessionID mints an opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// HandleMessage processes one user message for the session, creating
// the session on first contact. Concurrent messages for the same
// session are serialized; there is exactly one in-flight transition per
// session at a time.
func (s *ConversationService) HandleMessage(ctx context.Context, sessionID, message string) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, ErrEmptyMessage
	}
	if sessionID == "" {
		return Reply{}, errors.New("session id is required")
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, found, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return Reply{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if !found {
		session = domain.NewSession(sessionID, s.machine.DefaultLanguage())
	}

	transition := s.machine.Step(session, message)
	session = transition.Session

	if err := s.sessions.Save(ctx, session); err != nil {
		return Reply{}, fmt.Errorf("save session %s: %w", sessionID, err)
	}

	reply := Reply{Session: session, Text: transition.Reply, TriggerSearch: transition.TriggerSearch}
	if !transition.TriggerSearch || s.pipeline == nil {
		return reply, nil
	}

	searchCtx, cancel := context.WithCancel(ctx)
	s.registerInflight(sessionID, cancel)
	defer s.clearInflight(sessionID, cancel)

	reply.Results = s.pipeline.Search(searchCtx, sessionID, session.Topics, session.Language)

	if searchCtx.Err() != nil {
		// Reset won the race: discard results, do not touch the session.
		reply.Results = nil
		return reply, nil
	}

	session.Stage = domain.StageCompleted
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return Reply{}, fmt.Errorf("save session %s: %w", sessionID, err)
	}
	reply.Session = session
	return reply, nil
}

// LoadMore fetches an additional batch of articles for one topic of an
// existing session.
func (s *ConversationService) LoadMore(ctx context.Context, sessionID, topic string) ([]domain.ArticleSummary, error) {
	session, found, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if !found {
		return nil, fmt.Errorf("unknown session %s", sessionID)
	}
	return s.pipeline.LoadMore(ctx, sessionID, topic, session.Language, nil)
}

// Reset abandons any in-flight search for the session and deletes its
// state. After cancelling it takes the session lock, so a handler
// racing through its final save drains before the delete; nothing
// partial survives a reset.
func (s *ConversationService) Reset(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	if cancel, ok := s.inflight[sessionID]; ok {
		cancel()
		delete(s.inflight, sessionID)
	}
	s.mu.Unlock()

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	if s.logger != nil {
		s.logger.Info("session reset", "session_id", sessionID)
	}
	return nil
}

func (s *ConversationService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

func (s *ConversationService) registerInflight(sessionID string, cancel context.CancelFunc) {
	s.mu.Lock()
	s.inflight[sessionID] = cancel
	s.mu.Unlock()
}

func (s *ConversationService) clearInflight(sessionID string, cancel context.CancelFunc) {
	cancel()
	s.mu.Lock()
	delete(s.inflight, sessionID)
	s.mu.Unlock()
}
