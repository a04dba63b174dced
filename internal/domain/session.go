package domain

import (
	"strings"
	"time"
)

// Stage marks where a conversation is in its language → topics → search flow.
type Stage string

const (
	StageLanguageSelection Stage = "language_selection"
	StageCollecting        Stage = "collecting"
	StageSearching         Stage = "searching"
	StageCompleted         Stage = "completed"
)

// ConversationSession is the per-user dialog state. It is mutated only by
// the conversation state machine, one message at a time.
type ConversationSession struct {
	SessionID         string
	Stage             Stage
	Topics            []string
	Language          string
	LanguageConfirmed bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewSession starts a fresh session waiting for a language choice.
func NewSession(sessionID string, defaultLanguage string) ConversationSession {
	now := time.Now().UTC()
	return ConversationSession{
		SessionID: sessionID,
		Stage:     StageLanguageSelection,
		Language:  defaultLanguage,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasTopic reports whether the topic is already tracked, ignoring case.
func (s *ConversationSession) HasTopic(topic string) bool {
	needle := strings.ToLower(strings.TrimSpace(topic))
	for _, t := range s.Topics {
		if strings.ToLower(t) == needle {
			return true
		}
	}
	return false
}

// AddTopic appends a topic preserving insertion order. Duplicates
// (case-insensitive) are rejected and leave the list unchanged.
func (s *ConversationSession) AddTopic(topic string) bool {
	topic = strings.TrimSpace(topic)
	if topic == "" || s.HasTopic(topic) {
		return false
	}
	s.Topics = append(s.Topics, topic)
	return true
}
