package reactionrole

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/snowflake/v2"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/ctxutil"
)

// Rebuilder rebuilds the in-memory snapshot from the durable ledger.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*Snapshot, error)
}

// Report summarises one republish run.
type Report struct {
	Retired   int
	Missing   int
	Published []string
	Skipped   []string
	Dropped   []string
}

// Publisher retires every published role message and publishes the
// definitions again.
type Publisher struct {
	repository  Repository
	definitions *Definitions
	channel     Channel
	guild       Guild
	renderer    *Renderer
	rebuilder   Rebuilder
}

// NewPublisher wires the ledger, definitions and platform ports into a
// Publisher. The rebuilder is asked for a fresh snapshot once the run ends.
func NewPublisher(repository Repository, definitions *Definitions, channel Channel, guild Guild, renderer *Renderer, rebuilder Rebuilder) *Publisher {
	return &Publisher{
		repository:  repository,
		definitions: definitions,
		channel:     channel,
		guild:       guild,
		renderer:    renderer,
		rebuilder:   rebuilder,
	}
}

// Republish runs the workflow. Nothing is rolled back on failure: messages
// already sent and ledger rows already replaced stay as they are.
func (publisher *Publisher) Republish(ctx context.Context) (Report, error) {
	logger := ctxutil.GetLogger(ctx)
	report := Report{}

	// 1. Retire the live messages
	records, err := publisher.repository.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list ledger: %w", err)
	}

	for _, record := range records {
		if err := publisher.channel.Fetch(ctx, record.MessageID); err != nil {
			logger.Info("role_message_already_gone",
				slog.String("message_id", record.MessageID.String()),
				slog.String("name", record.Name),
				slog.Any("error", err),
			)
			report.Missing++
			continue
		}

		if err := publisher.channel.Delete(ctx, record.MessageID); err != nil {
			return report, fmt.Errorf("delete role message %s: %w", record.MessageID, err)
		}
		logger.Info("role_message_deleted", slog.String("message_id", record.MessageID.String()))
		report.Retired++
	}

	// 2. Publish each topic in definition order
	roles, err := publisher.guild.Roles(ctx)
	if err != nil {
		return report, fmt.Errorf("list roles: %w", err)
	}

	for _, definition := range publisher.definitions.All() {
		published, err := publisher.publishTopic(ctx, definition, roles)
		if err != nil {
			return report, fmt.Errorf("publish %s: %w", definition.Name, err)
		}
		if !published {
			// Its old messages were deleted in step 1, so its rows go too
			if err := publisher.repository.ReplaceTopic(ctx, definition.Name, nil); err != nil {
				return report, fmt.Errorf("clear %s: %w", definition.Name, err)
			}
			report.Skipped = append(report.Skipped, definition.Name)
			continue
		}
		report.Published = append(report.Published, definition.Name)
	}

	// 3. Drop rows of topics no longer defined
	for _, topic := range publisher.undefinedTopics(records) {
		if err := publisher.repository.ReplaceTopic(ctx, topic, nil); err != nil {
			return report, fmt.Errorf("clear %s: %w", topic, err)
		}
		logger.Info("undefined_topic_dropped", slog.String("topic", topic))
		report.Dropped = append(report.Dropped, topic)
	}

	// 4. Project the new ledger
	if _, err := publisher.rebuilder.Rebuild(ctx); err != nil {
		return report, err
	}

	logger.Info("republish_finished",
		slog.Int("retired", report.Retired),
		slog.Int("missing", report.Missing),
		slog.Any("published", report.Published),
		slog.Any("skipped", report.Skipped),
		slog.Any("dropped", report.Dropped),
	)

	return report, nil
}

// publishTopic sends the header and content messages, replaces the topic's
// ledger rows and seeds the reactions. It reports false when the topic has no
// embed and was left unpublished.
func (publisher *Publisher) publishTopic(ctx context.Context, definition TopicDefinition, roles []Role) (bool, error) {
	logger := ctxutil.GetLogger(ctx).With(slog.String("topic", definition.Name))

	message, err := publisher.renderer.Render(definition, roles)
	if errors.Is(err, ErrNoEmbed) {
		logger.Warn("topic_skipped_without_embed")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var headerID snowflake.ID
	if definition.HeaderImageURL != "" {
		headerID, err = publisher.channel.Send(ctx, OutgoingMessage{Content: definition.HeaderImageURL})
		if err != nil {
			return false, fmt.Errorf("send header: %w", err)
		}
	}

	contentID, err := publisher.channel.Send(ctx, message)
	if err != nil {
		return false, fmt.Errorf("send content: %w", err)
	}

	records := []PublicationRecord{{MessageID: contentID, Name: definition.Name, Mode: definition.Mode}}
	if headerID != 0 {
		records = append(records, PublicationRecord{MessageID: headerID, Name: definition.HeaderName()})
	}
	if err := publisher.repository.ReplaceTopic(ctx, definition.Name, records); err != nil {
		return false, fmt.Errorf("replace ledger rows: %w", err)
	}

	for _, spec := range definition.Reactions {
		if err := publisher.channel.React(ctx, contentID, spec.Emoji); err != nil {
			return false, fmt.Errorf("seed reaction %s: %w", spec.Emoji, err)
		}
	}

	logger.Info("topic_published",
		slog.String("message_id", contentID.String()),
		slog.String("header_id", headerID.String()),
	)
	return true, nil
}

// undefinedTopics lists, once each and in ledger order, the topics of records
// that no definition names anymore.
func (publisher *Publisher) undefinedTopics(records []PublicationRecord) []string {
	var topics []string
	seen := make(map[string]struct{})
	for _, record := range records {
		topic := strings.TrimSuffix(record.Name, constants.HeaderSuffix)
		if _, ok := publisher.definitions.Get(topic); ok {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	return topics
}
