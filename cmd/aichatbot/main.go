package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kkmjpaibot/AiChatBot/internal/api"
	"github.com/kkmjpaibot/AiChatBot/internal/leads"
	"github.com/kkmjpaibot/AiChatBot/internal/store"
	"github.com/kkmjpaibot/AiChatBot/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for AiChatBot state data
	DefaultStateDir = "/var/lib/aichatbot"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "aichatbot.db"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Build module options
	storeOpts := buildStoreOptions(flags)
	leadOpts := buildLeadOptions(flags)
	apiOpts := buildAPIOptions(flags)

	// Start the service
	slog.Info("Bootstrapping AiChatBot with configured modules")
	slog.Debug("Module options counts", "store", len(storeOpts), "leads", len(leadOpts), "api", len(apiOpts))
	slog.Debug("Final configuration", "dsn_set", *flags.dbDSN != "", "api_addr", *flags.apiAddr, "webhook_set", *flags.webhookURL != "")
	if err := api.Run(storeOpts, leadOpts, apiOpts); err != nil {
		slog.Error("AiChatBot failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("AiChatBot exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseDSN  string
	StateDir     string
	APIAddr      string
	SessionTTL   time.Duration
	WebhookURL   string
	WebhookToken string
	LeadTimeout  time.Duration
}

// Flags holds command line flag values
type Flags struct {
	dbDSN        *string
	apiAddr      *string
	sessionTTL   *time.Duration
	webhookURL   *string
	webhookToken *string
	leadTimeout  *time.Duration
}

// initializeLogger sets up structured logging; AICHATBOT_DEBUG enables debug level
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("AICHATBOT_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseDSN:  os.Getenv("DATABASE_URL"),
		StateDir:     util.GetenvDefault("AICHATBOT_STATE_DIR", DefaultStateDir),
		APIAddr:      os.Getenv("API_ADDR"),
		SessionTTL:   util.ParseDurationEnv("SESSION_TTL", 0),
		WebhookURL:   os.Getenv("LEADS_WEBHOOK_URL"),
		WebhookToken: os.Getenv("LEADS_WEBHOOK_TOKEN"),
		LeadTimeout:  util.ParseDurationEnv("LEADS_TIMEOUT", 0),
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseDSN == "" {
		config.DatabaseDSN = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseDSN)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", os.Getenv("DATABASE_URL") != "",
		"AICHATBOT_STATE_DIR", config.StateDir,
		"API_ADDR", config.APIAddr,
		"SESSION_TTL", config.SessionTTL,
		"LEADS_WEBHOOK_URL_SET", config.WebhookURL != "",
		"LEADS_WEBHOOK_TOKEN_SET", config.WebhookToken != "")

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		dbDSN:        flag.String("db-dsn", config.DatabaseDSN, "database DSN for session and lead storage (overrides $DATABASE_URL); empty selects the in-memory store"),
		apiAddr:      flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		sessionTTL:   flag.Duration("session-ttl", config.SessionTTL, "idle session eviction interval, zero disables (overrides $SESSION_TTL)"),
		webhookURL:   flag.String("leads-webhook-url", config.WebhookURL, "webhook URL for lead delivery (overrides $LEADS_WEBHOOK_URL)"),
		webhookToken: flag.String("leads-webhook-token", config.WebhookToken, "bearer token for the lead webhook (overrides $LEADS_WEBHOOK_TOKEN)"),
		leadTimeout:  flag.Duration("leads-timeout", config.LeadTimeout, "timeout bounding lead deliveries (overrides $LEADS_TIMEOUT)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"dbDSN_set", *flags.dbDSN != "",
		"apiAddr", *flags.apiAddr,
		"sessionTTL", *flags.sessionTTL,
		"webhookURL_set", *flags.webhookURL != "",
		"webhookToken_set", *flags.webhookToken != "",
		"leadTimeout", *flags.leadTimeout)

	return flags
}

// buildStoreOptions constructs store configuration options
func buildStoreOptions(flags Flags) []store.Option {
	var storeOpts []store.Option
	if *flags.dbDSN != "" {
		slog.Debug("Configuring store from DSN", "dsn_type", store.DetectDSNType(*flags.dbDSN))
		storeOpts = append(storeOpts, store.WithDSN(*flags.dbDSN))
	} else {
		slog.Debug("No database DSN provided, will use in-memory store")
	}
	if *flags.sessionTTL > 0 {
		storeOpts = append(storeOpts, store.WithSessionTTL(*flags.sessionTTL))
	}
	return storeOpts
}

// buildLeadOptions constructs lead sink configuration options
func buildLeadOptions(flags Flags) []leads.Option {
	var leadOpts []leads.Option
	if *flags.webhookURL != "" {
		leadOpts = append(leadOpts, leads.WithWebhookURL(*flags.webhookURL))
	}
	if *flags.webhookToken != "" {
		leadOpts = append(leadOpts, leads.WithToken(*flags.webhookToken))
	}
	if *flags.leadTimeout > 0 {
		leadOpts = append(leadOpts, leads.WithTimeout(*flags.leadTimeout))
	}
	return leadOpts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	return apiOpts
}
