package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/collector"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/config"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/hypixel"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/mojang"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/recap"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/scheduler"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/storage"
)

// Bot represents the Discord bot instance
type Bot struct {
	config    *config.Config
	session   *discordgo.Session
	repo      *storage.Repository
	hypixel   *hypixel.Client
	mojang    *mojang.Client
	recaps    *recap.Service
	collector *collector.Collector
	scheduler *scheduler.Scheduler
	commands  []*discordgo.ApplicationCommand
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Set intents
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	// Initialize storage
	repo, err := storage.NewRepository(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	hypixelClient := hypixel.NewClient(cfg.HypixelAPIKey)

	b := &Bot{
		config:    cfg,
		session:   session,
		repo:      repo,
		hypixel:   hypixelClient,
		mojang:    mojang.NewClient(),
		recaps:    recap.NewService(repo, cfg.Location),
		collector: collector.New(repo, hypixelClient, cfg.BlobDir, cfg.Location),
	}

	// Register command handlers
	b.registerHandlers()

	return b, nil
}

// Start opens the Discord connection and starts background tasks
func (b *Bot) Start(ctx context.Context) error {
	// Open Discord connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	// Register slash commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	// Start the daily collection scheduler
	b.scheduler = scheduler.New(b.collector, b.config.Location,
		b.config.FetchHour, b.config.FetchMinute, b.postScheduledHighlights)
	go b.scheduler.Start(ctx)

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	// Stop the scheduler
	if b.scheduler != nil {
		b.scheduler.Stop()
	}

	// Remove registered commands (optional - comment out to keep commands)
	// b.removeCommands()

	// Close storage
	if b.repo != nil {
		b.repo.Close()
	}

	// Close Discord session
	if b.session != nil {
		return b.session.Close()
	}

	return nil
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
}

// handleInteraction processes slash command interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	slog.Debug("Received command", "command", data.Name, "guild", i.GuildID)

	switch data.Name {
	case "connect":
		b.handleConnect(s, i)
	case "recap":
		b.handleRecap(s, i)
	case "highlight":
		b.handleHighlight(s, i)
	case "getstats":
		b.handleGetStats(s, i)
	case "metainfo":
		b.handleMetaInfo(s, i)
	case "fetch":
		b.handleFetch(s, i)
	case "ping":
		b.handlePing(s, i)
	default:
		slog.Warn("Unknown command", "command", data.Name)
	}
}
