package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Subscriber statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Configured reports whether enough parameters are set to attempt a connection.
func (p ConnectionParams) Configured() bool {
	return p.Host != "" && p.DBName != ""
}

// DSN builds the lib/pq connection string.
func (p ConnectionParams) DSN() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, port, p.User, p.Password, p.DBName, sslMode,
	)
}

// Subscriber is a Telegram chat receiving anomaly alerts
type Subscriber struct {
	ChatID    int64
	Title     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a new database connection
func New(ctx context.Context, params ConnectionParams) (*DB, error) {
	db, err := sql.Open("postgres", params.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &DB{db}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS alert_subscribers (
			chat_id BIGINT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

// Subscribe activates alerts for a chat, creating it if needed
func (db *DB) Subscribe(ctx context.Context, chatID int64, title string) error {
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, `
		INSERT INTO alert_subscribers (chat_id, title, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (chat_id)
		DO UPDATE SET
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`, chatID, title, StatusActive, now)
	return err
}

// Unsubscribe stops alerts for a chat. Unknown chats are ignored.
func (db *DB) Unsubscribe(ctx context.Context, chatID int64) error {
	_, err := db.ExecContext(ctx, `
		UPDATE alert_subscribers
		SET status = $1, updated_at = $2
		WHERE chat_id = $3
	`, StatusInactive, time.Now().UTC(), chatID)
	return err
}

// GetSubscriber returns nil when the chat is unknown
func (db *DB) GetSubscriber(ctx context.Context, chatID int64) (*Subscriber, error) {
	var s Subscriber
	err := db.QueryRowContext(ctx, `
		SELECT chat_id, title, status, created_at, updated_at
		FROM alert_subscribers
		WHERE chat_id = $1
	`, chatID).Scan(&s.ChatID, &s.Title, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ActiveChatIDs lists chats that should receive alerts
func (db *DB) ActiveChatIDs(ctx context.Context) ([]int64, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT chat_id FROM alert_subscribers
		WHERE status = $1
		ORDER BY created_at
	`, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
