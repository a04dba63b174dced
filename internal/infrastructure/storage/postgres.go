// Package storage provides session and article persistence: Postgres
// for durable state, Redis for the hot session cache, and an in-memory
// repository for the CLI and tests.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/ports"
)

// PostgresRepository persists sessions and produced article summaries.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.SessionRepository = (*PostgresRepository)(nil)
var _ ports.ArticleRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Load reads one session; found is false when the ID is unknown.
func (r *PostgresRepository) Load(ctx context.Context, sessionID string) (domain.ConversationSession, bool, error) {
	if r.db == nil {
		return domain.ConversationSession{}, false, nil
	}

	query, args, err := r.builder.
		Select("session_id", "stage", "topics", "language", "language_confirmed", "created_at", "updated_at").
		From("sessions").
		Where(sq.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return domain.ConversationSession{}, false, fmt.Errorf("build select: %w", err)
	}

	var session domain.ConversationSession
	var stage string
	var topics pq.StringArray
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&session.SessionID,
		&stage,
		&topics,
		&session.Language,
		&session.LanguageConfirmed,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ConversationSession{}, false, nil
	}
	if err != nil {
		return domain.ConversationSession{}, false, fmt.Errorf("query session: %w", err)
	}

	session.Stage = domain.Stage(stage)
	session.Topics = []string(topics)
	return session, true, nil
}

// Save upserts the session snapshot.
func (r *PostgresRepository) Save(ctx context.Context, session domain.ConversationSession) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("sessions").
		Columns("session_id", "stage", "topics", "language", "language_confirmed", "created_at", "updated_at").
		Values(
			session.SessionID,
			string(session.Stage),
			pq.Array(session.Topics),
			session.Language,
			session.LanguageConfirmed,
			session.CreatedAt,
			session.UpdatedAt,
		).
		Suffix(`ON CONFLICT (session_id) DO UPDATE
            SET stage = EXCLUDED.stage,
                topics = EXCLUDED.topics,
                language = EXCLUDED.language,
                language_confirmed = EXCLUDED.language_confirmed,
                updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Delete removes the session and its stored articles.
func (r *PostgresRepository) Delete(ctx context.Context, sessionID string) error {
	if r.db == nil {
		return nil
	}

	for _, table := range []string{"session_articles", "sessions"} {
		query, args, err := r.builder.Delete(table).Where(sq.Eq{"session_id": sessionID}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete %s: %w", table, err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}

// SaveArticles upserts one topic's batch of summaries.
func (r *PostgresRepository) SaveArticles(ctx context.Context, sessionID, topic string, articles []domain.ArticleSummary) error {
	if r.db == nil || len(articles) == 0 {
		return nil
	}

	insert := r.builder.
		Insert("session_articles").
		Columns("session_id", "topic", "url", "title", "source", "published_at", "summary", "sentiment", "language", "created_at")
	now := time.Now().UTC()
	for _, article := range articles {
		insert = insert.Values(
			sessionID,
			topic,
			article.URL,
			article.Title,
			article.Source,
			article.PublishedAt,
			article.Summary,
			article.Sentiment,
			article.Language,
			now,
		)
	}

	query, args, err := insert.
		Suffix(`ON CONFLICT (session_id, topic, url) DO UPDATE
            SET summary = EXCLUDED.summary,
                sentiment = EXCLUDED.sentiment,
                language = EXCLUDED.language`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert articles: %w", err)
	}
	return nil
}

// SeenURLs lists URLs already delivered for the topic, used by
// load-more to skip duplicates.
func (r *PostgresRepository) SeenURLs(ctx context.Context, sessionID, topic string) ([]string, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := r.builder.
		Select("url").
		From("session_articles").
		Where(sq.Eq{"session_id": sessionID, "topic": topic}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		urls = append(urls, url)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return urls, nil
}
