// Copyright (c) 2026 FoDBot. All rights reserved.

/*
Package config handles bot-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file
is merged in first through 'joho/godotenv' when one is present, so a developer
can run the bot without exporting a dozen variables.

Usage:

	cfg, err := config.Load(".env")
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (ledger, gateway) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the bot.
type Config struct {

	// Runtime settings
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`
	LogFile     string `env:"LOG_FILE"`

	// Discord identity. The bot serves exactly one guild.
	DiscordToken   string `env:"DISCORD_TOKEN,required"`
	GuildID        string `env:"GUILD_ID,required"`
	RolesChannelID string `env:"ROLES_CHANNEL_ID,required"`
	CommandPrefix  string `env:"COMMAND_PREFIX" envDefault:"!"`

	// Channels maps placeholder names used in definition embeds to channel IDs.
	Channels map[string]string `env:"CHANNELS" envSeparator:"," envKeyValSeparator:":"`

	// Publication ledger. postgres:// and sqlite:// URLs are accepted.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Topic definitions, published in this order.
	DefinitionsPath string   `env:"DEFINITIONS_PATH" envDefault:"./data/react_roles"`
	Topics          []string `env:"TOPICS" envSeparator:"," envDefault:"pronouns,locations,departments,notifications"`

	// AffirmationsPath points at the affirmation reply list. Empty disables the feature.
	AffirmationsPath string `env:"AFFIRMATIONS_PATH" envDefault:"./data/affirmations.yaml"`

	// Ops HTTP surface (health, readiness, metrics). Empty disables it.
	OpsPort string `env:"OPS_PORT" envDefault:"8081"`
}

// # Configuration Loading

// Load merges the optional dotenv files into the process environment and then
// parses it into a [Config]. Missing dotenv files are not an error.
func Load(dotenvFiles ...string) (*Config, error) {
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", file, err)
		}
	}

	return Parse(env.Options{})
}

// Parse maps environment variables onto a [Config] using the given options.
// Tests pass [env.Options.Environment] to avoid touching the process env.
func Parse(options env.Options) (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.Driver() == "" {
		return nil, fmt.Errorf("config: unsupported DATABASE_URL scheme in %q", redactURL(cfg.DatabaseURL))
	}

	return cfg, nil
}

// # Derived Values

// Driver reports which ledger backend DatabaseURL selects: "postgres", "sqlite" or "".
func (c *Config) Driver() string {
	switch {
	case strings.HasPrefix(c.DatabaseURL, "postgres://"), strings.HasPrefix(c.DatabaseURL, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(c.DatabaseURL, "sqlite://"):
		return "sqlite"
	default:
		return ""
	}
}

// SQLitePath returns the file path part of a sqlite:// DatabaseURL.
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.DatabaseURL, "sqlite://")
}

// IsDevelopment reports whether the bot is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// redactURL hides everything after the scheme so credentials never reach logs.
func redactURL(raw string) string {
	if scheme, _, found := strings.Cut(raw, "://"); found {
		return scheme + "://***"
	}
	return "***"
}
