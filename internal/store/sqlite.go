// Package store provides storage backends for AiChatBot.
//
// This file implements an SQLite-backed store for sessions and leads.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// Constants for SQLite store configuration
const (
	// DefaultDirPermissions defines the default permissions for database directories
	DefaultDirPermissions = 0755
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db         *sql.DB
	sessionTTL time.Duration
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	// Apply options
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "", "sessionTTL", cfg.SessionTTL)

	// Determine DSN (required)
	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	// Ensure the directory exists
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	slog.Debug("SQLite database directory verified/created", "dir", dir)

	slog.Debug("Opening SQLite database connection")
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}
	slog.Debug("SQLite ping successful")

	// Run migrations to ensure tables exist
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run SQLite migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db, sessionTTL: cfg.SessionTTL}, nil
}

// GetSession retrieves the session for a user within a campaign.
// Returns nil without error when no session exists or the stored
// session has outlived the configured TTL.
func (s *SQLiteStore) GetSession(userID string, campaign models.CampaignID) (*models.Session, error) {
	query := `SELECT user_id, campaign, current_step, collected, created_at, last_active
			  FROM sessions WHERE user_id = ? AND campaign = ?`

	var sess models.Session
	var collectedJSON string

	err := s.db.QueryRow(query, userID, string(campaign)).Scan(
		&sess.UserID, &sess.Campaign, &sess.CurrentStep,
		&collectedJSON, &sess.CreatedAt, &sess.LastActive)

	if err == sql.ErrNoRows {
		slog.Debug("SQLiteStore GetSession not found", "userID", userID, "campaign", campaign)
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetSession failed", "error", err, "userID", userID, "campaign", campaign)
		return nil, fmt.Errorf("failed to query session for %s: %w", userID, err)
	}

	if s.sessionTTL > 0 && time.Since(sess.LastActive) > s.sessionTTL {
		slog.Debug("SQLiteStore GetSession expired", "userID", userID, "campaign", campaign, "lastActive", sess.LastActive)
		if err := s.DeleteSession(userID, campaign); err != nil {
			slog.Error("SQLiteStore failed to delete expired session", "error", err, "userID", userID)
		}
		return nil, nil
	}

	if collectedJSON != "" {
		sess.Collected = make(map[string]string)
		if err := json.Unmarshal([]byte(collectedJSON), &sess.Collected); err != nil {
			slog.Error("SQLiteStore GetSession JSON unmarshal failed", "error", err, "userID", userID)
			// Continue with empty map rather than failing
			sess.Collected = make(map[string]string)
		}
	}

	slog.Debug("SQLiteStore GetSession found", "userID", userID, "campaign", campaign, "step", sess.CurrentStep)
	return &sess, nil
}

// SaveSession stores or updates the session for a user within a campaign.
func (s *SQLiteStore) SaveSession(sess models.Session) error {
	query := `
		INSERT OR REPLACE INTO sessions (user_id, campaign, current_step, collected, created_at, last_active)
		VALUES (?, ?, ?, ?, ?, ?)`

	// Convert collected map to JSON string for SQLite
	var collectedJSON string
	if len(sess.Collected) > 0 {
		jsonBytes, err := json.Marshal(sess.Collected)
		if err != nil {
			slog.Error("SQLiteStore SaveSession JSON marshal failed", "error", err, "userID", sess.UserID)
			return err
		}
		collectedJSON = string(jsonBytes)
	}

	_, err := s.db.Exec(query, sess.UserID, string(sess.Campaign), string(sess.CurrentStep),
		collectedJSON, sess.CreatedAt, sess.LastActive)
	if err != nil {
		slog.Error("SQLiteStore SaveSession failed", "error", err, "userID", sess.UserID, "campaign", sess.Campaign)
		return fmt.Errorf("failed to save session for %s: %w", sess.UserID, err)
	}
	slog.Debug("SQLiteStore SaveSession succeeded", "userID", sess.UserID, "campaign", sess.Campaign, "step", sess.CurrentStep)
	return nil
}

// DeleteSession removes the session for a user within a campaign.
func (s *SQLiteStore) DeleteSession(userID string, campaign models.CampaignID) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE user_id = ? AND campaign = ?`, userID, string(campaign))
	if err != nil {
		slog.Error("SQLiteStore DeleteSession failed", "error", err, "userID", userID, "campaign", campaign)
		return fmt.Errorf("failed to delete session for %s: %w", userID, err)
	}
	slog.Debug("SQLiteStore DeleteSession succeeded", "userID", userID, "campaign", campaign)
	return nil
}

// AddLead appends a captured lead record.
func (s *SQLiteStore) AddLead(lead models.LeadRecord) error {
	recordJSON, err := json.Marshal(lead)
	if err != nil {
		slog.Error("SQLiteStore AddLead JSON marshal failed", "error", err, "leadID", lead.ID)
		return fmt.Errorf("failed to marshal lead %s: %w", lead.ID, err)
	}

	_, err = s.db.Exec(`INSERT INTO leads (id, user_id, campaign, record, created_at) VALUES (?, ?, ?, ?, ?)`,
		lead.ID, lead.UserID, string(lead.Campaign), string(recordJSON), lead.CreatedAt)
	if err != nil {
		slog.Error("SQLiteStore AddLead failed", "error", err, "leadID", lead.ID, "userID", lead.UserID)
		return fmt.Errorf("failed to insert lead for %s: %w", lead.UserID, err)
	}
	slog.Debug("SQLiteStore AddLead succeeded", "leadID", lead.ID, "campaign", lead.Campaign)
	return nil
}

// GetLeads returns all captured leads in insertion order.
func (s *SQLiteStore) GetLeads() ([]models.LeadRecord, error) {
	rows, err := s.db.Query(`SELECT record FROM leads ORDER BY created_at`)
	if err != nil {
		slog.Error("SQLiteStore GetLeads query failed", "error", err)
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []models.LeadRecord
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			slog.Error("SQLiteStore GetLeads scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan lead row: %w", err)
		}
		var lead models.LeadRecord
		if err := json.Unmarshal([]byte(recordJSON), &lead); err != nil {
			slog.Error("SQLiteStore GetLeads JSON unmarshal failed", "error", err)
			return nil, fmt.Errorf("failed to decode lead row: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore GetLeads rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate lead rows: %w", err)
	}
	slog.Debug("SQLiteStore GetLeads succeeded", "count", len(leads))
	return leads, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close SQLite database", "error", err)
	}
	return err
}
