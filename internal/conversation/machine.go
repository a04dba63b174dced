// Package conversation implements the dialog state machine. A step is
// a pure function of (session, message): it performs no I/O, so every
// transition is unit-testable in isolation.
package conversation

import (
	"strings"
	"time"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/language"
)

// Transition is the complete result of processing one user message:
// the updated session, the localized reply, and whether the caller
// should run a search now.
type Transition struct {
	Session       domain.ConversationSession
	Reply         string
	TriggerSearch bool
}

// Machine drives the LanguageSelection → Collecting → Searching →
// Completed flow. Searching and Completed re-enter Collecting when the
// user supplies further topics.
type Machine struct {
	registry *language.Registry
	prompts  map[string]Prompts
}

// NewMachine wires the language registry; nil prompts use the defaults.
func NewMachine(registry *language.Registry, prompts map[string]Prompts) *Machine {
	if prompts == nil {
		prompts = DefaultPrompts()
	}
	return &Machine{registry: registry, prompts: prompts}
}

// DefaultLanguage exposes the registry's fallback code so callers can
// seed new sessions consistently.
func (m *Machine) DefaultLanguage() string {
	return m.registry.DefaultCode()
}

// Step advances the session by one user message. The message must be
// non-empty; callers validate that precondition before entering.
func (m *Machine) Step(session domain.ConversationSession, message string) Transition {
	message = strings.TrimSpace(message)
	session.UpdatedAt = time.Now().UTC()

	if session.Stage == domain.StageLanguageSelection || !session.LanguageConfirmed {
		return m.selectLanguage(session, message)
	}

	switch session.Stage {
	case domain.StageCollecting:
		return m.collect(session, message)
	case domain.StageSearching, domain.StageCompleted:
		// A stop word re-runs the search; anything else is a new topic.
		if m.registry.IsStopWord(message) {
			return m.startSearch(session)
		}
		session.Stage = domain.StageCollecting
		return m.collect(session, message)
	default:
		session.Stage = domain.StageCollecting
		return Transition{Session: session, Reply: m.promptsFor(session.Language).AskTopic}
	}
}

func (m *Machine) selectLanguage(session domain.ConversationSession, message string) Transition {
	code, ok := m.registry.Detect(message)
	if !ok {
		session.Stage = domain.StageLanguageSelection
		return Transition{Session: session, Reply: m.promptsFor(m.registry.DefaultCode()).Welcome}
	}

	meta, _ := m.registry.Resolve(code)
	session.Language = meta.Code
	session.LanguageConfirmed = true
	session.Stage = domain.StageCollecting
	reply := render(m.promptsFor(meta.Code).LanguageSet, "language", meta.Name)
	return Transition{Session: session, Reply: reply}
}

func (m *Machine) collect(session domain.ConversationSession, message string) Transition {
	prompts := m.promptsFor(session.Language)

	if m.registry.IsStopWord(message) {
		if len(session.Topics) == 0 {
			session.Stage = domain.StageCollecting
			return Transition{Session: session, Reply: prompts.NeedTopic}
		}
		return m.startSearch(session)
	}

	if session.HasTopic(message) {
		session.Stage = domain.StageCollecting
		return Transition{Session: session, Reply: render(prompts.TopicExists, "topic", message)}
	}

	session.AddTopic(message)
	session.Stage = domain.StageCollecting
	return Transition{Session: session, Reply: render(prompts.TopicAdded, "topic", message)}
}

func (m *Machine) startSearch(session domain.ConversationSession) Transition {
	session.Stage = domain.StageSearching
	reply := render(m.promptsFor(session.Language).SearchReady, "topics", strings.Join(session.Topics, ", "))
	return Transition{Session: session, Reply: reply, TriggerSearch: true}
}

func (m *Machine) promptsFor(code string) Prompts {
	if p, ok := m.prompts[code]; ok {
		return p
	}
	if p, ok := m.prompts[m.registry.DefaultCode()]; ok {
		return p
	}
	return m.prompts["en"]
}
