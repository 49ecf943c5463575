// Package store provides storage backends for AiChatBot.
//
// This file implements a PostgreSQL-backed store for sessions and leads.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db         *sql.DB
	sessionTTL time.Duration
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	// Apply options
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "", "sessionTTL", cfg.SessionTTL)
	// Determine DSN (required)
	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	slog.Debug("Opening Postgres database connection")
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	// Configure connection pool for better performance
	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}
	slog.Debug("Postgres ping successful")

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run Postgres migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")
	return &PostgresStore{db: db, sessionTTL: cfg.SessionTTL}, nil
}

// GetSession retrieves the session for a user within a campaign.
// Returns nil without error when no session exists or the stored
// session has outlived the configured TTL.
func (s *PostgresStore) GetSession(userID string, campaign models.CampaignID) (*models.Session, error) {
	query := `SELECT user_id, campaign, current_step, COALESCE(collected::text, ''), created_at, last_active
			  FROM sessions WHERE user_id = $1 AND campaign = $2`

	var sess models.Session
	var collectedJSON string

	err := s.db.QueryRow(query, userID, string(campaign)).Scan(
		&sess.UserID, &sess.Campaign, &sess.CurrentStep,
		&collectedJSON, &sess.CreatedAt, &sess.LastActive)

	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetSession not found", "userID", userID, "campaign", campaign)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetSession failed", "error", err, "userID", userID, "campaign", campaign)
		return nil, fmt.Errorf("failed to query session for %s: %w", userID, err)
	}

	if s.sessionTTL > 0 && time.Since(sess.LastActive) > s.sessionTTL {
		slog.Debug("PostgresStore GetSession expired", "userID", userID, "campaign", campaign, "lastActive", sess.LastActive)
		if err := s.DeleteSession(userID, campaign); err != nil {
			slog.Error("PostgresStore failed to delete expired session", "error", err, "userID", userID)
		}
		return nil, nil
	}

	if collectedJSON != "" {
		sess.Collected = make(map[string]string)
		if err := json.Unmarshal([]byte(collectedJSON), &sess.Collected); err != nil {
			slog.Error("PostgresStore GetSession JSON unmarshal failed", "error", err, "userID", userID)
			sess.Collected = make(map[string]string)
		}
	}

	slog.Debug("PostgresStore GetSession found", "userID", userID, "campaign", campaign, "step", sess.CurrentStep)
	return &sess, nil
}

// SaveSession stores or updates the session for a user within a campaign.
func (s *PostgresStore) SaveSession(sess models.Session) error {
	query := `
		INSERT INTO sessions (user_id, campaign, current_step, collected, created_at, last_active)
		VALUES ($1, $2, $3, NULLIF($4, '')::jsonb, $5, $6)
		ON CONFLICT (user_id, campaign) DO UPDATE SET
			current_step = EXCLUDED.current_step,
			collected = EXCLUDED.collected,
			last_active = EXCLUDED.last_active`

	var collectedJSON string
	if len(sess.Collected) > 0 {
		jsonBytes, err := json.Marshal(sess.Collected)
		if err != nil {
			slog.Error("PostgresStore SaveSession JSON marshal failed", "error", err, "userID", sess.UserID)
			return err
		}
		collectedJSON = string(jsonBytes)
	}

	_, err := s.db.Exec(query, sess.UserID, string(sess.Campaign), string(sess.CurrentStep),
		collectedJSON, sess.CreatedAt, sess.LastActive)
	if err != nil {
		slog.Error("PostgresStore SaveSession failed", "error", err, "userID", sess.UserID, "campaign", sess.Campaign)
		return fmt.Errorf("failed to save session for %s: %w", sess.UserID, err)
	}
	slog.Debug("PostgresStore SaveSession succeeded", "userID", sess.UserID, "campaign", sess.Campaign, "step", sess.CurrentStep)
	return nil
}

// DeleteSession removes the session for a user within a campaign.
func (s *PostgresStore) DeleteSession(userID string, campaign models.CampaignID) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE user_id = $1 AND campaign = $2`, userID, string(campaign))
	if err != nil {
		slog.Error("PostgresStore DeleteSession failed", "error", err, "userID", userID, "campaign", campaign)
		return fmt.Errorf("failed to delete session for %s: %w", userID, err)
	}
	slog.Debug("PostgresStore DeleteSession succeeded", "userID", userID, "campaign", campaign)
	return nil
}

// AddLead appends a captured lead record.
func (s *PostgresStore) AddLead(lead models.LeadRecord) error {
	recordJSON, err := json.Marshal(lead)
	if err != nil {
		slog.Error("PostgresStore AddLead JSON marshal failed", "error", err, "leadID", lead.ID)
		return fmt.Errorf("failed to marshal lead %s: %w", lead.ID, err)
	}

	_, err = s.db.Exec(`INSERT INTO leads (id, user_id, campaign, record, created_at) VALUES ($1, $2, $3, $4, $5)`,
		lead.ID, lead.UserID, string(lead.Campaign), string(recordJSON), lead.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore AddLead failed", "error", err, "leadID", lead.ID, "userID", lead.UserID)
		return fmt.Errorf("failed to insert lead for %s: %w", lead.UserID, err)
	}
	slog.Debug("PostgresStore AddLead succeeded", "leadID", lead.ID, "campaign", lead.Campaign)
	return nil
}

// GetLeads returns all captured leads in insertion order.
func (s *PostgresStore) GetLeads() ([]models.LeadRecord, error) {
	rows, err := s.db.Query(`SELECT record::text FROM leads ORDER BY created_at`)
	if err != nil {
		slog.Error("PostgresStore GetLeads query failed", "error", err)
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []models.LeadRecord
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			slog.Error("PostgresStore GetLeads scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan lead row: %w", err)
		}
		var lead models.LeadRecord
		if err := json.Unmarshal([]byte(recordJSON), &lead); err != nil {
			slog.Error("PostgresStore GetLeads JSON unmarshal failed", "error", err)
			return nil, fmt.Errorf("failed to decode lead row: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore GetLeads rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate lead rows: %w", err)
	}
	slog.Debug("PostgresStore GetLeads succeeded", "count", len(leads))
	return leads, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close Postgres database", "error", err)
	}
	return err
}
