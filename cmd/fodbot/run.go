// Copyright (c) 2026 FoDBot. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/spf13/cobra"

	"github.com/zmattingly/FoDBot-SQL/internal/affirmation"
	"github.com/zmattingly/FoDBot-SQL/internal/api"
	"github.com/zmattingly/FoDBot-SQL/internal/bot"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/config"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/discord"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/metrics"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/migration"
	pgstore "github.com/zmattingly/FoDBot-SQL/internal/platform/postgres"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/sqlite"
	"github.com/zmattingly/FoDBot-SQL/internal/reactionrole"
)

// gatewayIntents are the events the bot subscribes to. Message content is a
// privileged intent and must be enabled for the application.
const gatewayIntents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsMessageContent

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and serve reaction roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), opts)
		},
	}
}

// runBot is the composition root. No business logic lives here; every
// dependency is wired by explicit constructor injection.
//
// # Startup Sequence
//
//  1. Load configuration and build the logger.
//  2. Migrate and open the publication ledger.
//  3. Load topic definitions and affirmations.
//  4. Create the Discord session and wire the reaction-role engine.
//  5. Start the ops HTTP server.
//  6. Open the gateway and wait for a shutdown signal.
func runBot(parent context.Context, opts *rootOptions) error {
	if parent == nil {
		parent = context.Background()
	}

	// ── 1. Configuration & Logger ─────────────────────────────────────────
	cfg, log, closeLog, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("ledger", cfg.Driver()),
		slog.Any("topics", cfg.Topics),
	)

	guildID, err := snowflake.Parse(cfg.GuildID)
	if err != nil {
		return fmt.Errorf("GUILD_ID: %w", err)
	}
	rolesChannelID, err := snowflake.Parse(cfg.RolesChannelID)
	if err != nil {
		return fmt.Errorf("ROLES_CHANNEL_ID: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── 2. Publication Ledger ─────────────────────────────────────────────
	startupCtx, startupCancel := context.WithTimeout(ctx, constants.StartupTimeout)
	defer startupCancel()

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return err
	}

	ledger, err := openLedger(startupCtx, cfg, log)
	if err != nil {
		return err
	}
	defer ledger.close()

	// ── 3. Definitions & Affirmations ─────────────────────────────────────
	definitions, err := reactionrole.LoadDefinitions(cfg.DefinitionsPath, cfg.Topics)
	if err != nil {
		return fmt.Errorf("load definitions: %w", err)
	}
	log.Info("definitions_loaded", slog.Int("topics", definitions.Len()))

	affirmations, err := loadAffirmations(cfg, log)
	if err != nil {
		return err
	}

	// ── 4. Discord & Domain Wiring ────────────────────────────────────────
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = gatewayIntents

	collectors := metrics.New()
	client := discord.NewClient(session, guildID, rolesChannelID)

	registry := reactionrole.NewRegistry(ledger.repository, definitions, client, log)
	index := bot.NewMeteredIndex(registry, collectors)

	publisher := reactionrole.NewPublisher(ledger.repository, definitions, client, client,
		reactionrole.NewRenderer(cfg.Channels), index)

	router := bot.NewRouter(bot.Dependencies{
		Reactions:    reactionrole.NewReactionHandler(registry, client, client, rolesChannelID),
		Command:      reactionrole.NewRepublishCommand(publisher, client),
		Index:        index,
		Messenger:    client,
		Affirmations: affirmations,
		Metrics:      collectors,
		Prefix:       cfg.CommandPrefix,
	}, log)
	router.Register(session)

	// ── 5. Ops HTTP Server ────────────────────────────────────────────────
	serverErr := make(chan error, 1)
	var server *api.Server

	if cfg.OpsPort != "" {
		liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
			CheckDatabase: ledger.ping,
			CheckGateway:  router.Ready,
		}, log)

		server = api.NewServer(ctx, cfg.OpsPort, log, api.Handlers{
			Liveness:      liveness,
			Readiness:     readiness,
			Metrics:       collectors.Handler(),
			ReactionRoles: api.NewReactionRoleHandler(registry),
		})

		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	// ── 6. Gateway & Graceful Shutdown ────────────────────────────────────
	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	log.Info("gateway_opened")

	select {
	case <-ctx.Done():
		log.Info("shutdown_signal_received")
	case err = <-serverErr:
		log.Error("ops_server_failed", slog.Any("error", err))
	}

	if closeErr := session.Close(); closeErr != nil {
		log.Error("gateway_close_failed", slog.Any("error", closeErr))
	}

	if server != nil {
		log.Info("ops_server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
		if shutdownErr := server.Shutdown(constants.ShutdownTimeout); shutdownErr != nil {
			log.Error("ops_server_shutdown_failed", slog.Any("error", shutdownErr))
		}
	}

	log.Info("bot_stopped")
	return err
}

// ledgerHandle bundles the repository with its readiness check and closer.
type ledgerHandle struct {
	repository reactionrole.Repository
	ping       func(ctx context.Context) error
	close      func()
}

func openLedger(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ledgerHandle, error) {
	switch cfg.Driver() {
	case "postgres":
		pool, err := pgstore.Open(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return &ledgerHandle{
			repository: reactionrole.NewPostgresRepository(pool),
			ping:       pool.Ping,
			close: func() {
				log.Info("closing_postgres_pool")
				pool.Close()
			},
		}, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath(), log)
		if err != nil {
			return nil, err
		}
		return &ledgerHandle{
			repository: reactionrole.NewSQLiteRepository(db),
			ping:       db.PingContext,
			close: func() {
				if err := db.Close(); err != nil {
					log.Error("sqlite_close_failed", slog.Any("error", err))
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported ledger driver for %s", cfg.Driver())
	}
}

// loadAffirmations returns nil, disabling the feature, when no file is
// configured or the configured file does not exist.
func loadAffirmations(cfg *config.Config, log *slog.Logger) (*affirmation.Responder, error) {
	if cfg.AffirmationsPath == "" {
		return nil, nil
	}

	responder, err := affirmation.Load(cfg.AffirmationsPath)
	if apperr.IsNotFound(err) {
		log.Warn("affirmations_disabled", slog.String("path", cfg.AffirmationsPath))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load affirmations: %w", err)
	}
	return responder, nil
}
