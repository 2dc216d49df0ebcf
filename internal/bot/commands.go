package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/calendar"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/recap"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/storage"
)

// Slash command definitions
func (b *Bot) getCommandDefinitions() []*discordgo.ApplicationCommand {
	adminPerms := int64(discordgo.PermissionAdministrator)
	return []*discordgo.ApplicationCommand{
		{
			Name:        "connect",
			Description: "Connect this Discord server to a Hypixel guild",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "The username of a member in the guild",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "The channel to post scheduled highlights to",
					Required:    true,
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
			},
		},
		{
			Name:        "recap",
			Description: "Get a stats recap of the entire guild",
			Options:     rangeOptions(),
		},
		{
			Name:        "highlight",
			Description: "Get a week-aligned highlight of the entire guild",
			Options:     rangeOptions(),
		},
		{
			Name:        "getstats",
			Description: "Get the highlight reel of a single player",
			Options: append([]*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "The username",
					Required:    true,
				},
			}, rangeOptions()...),
		},
		{
			Name:        "metainfo",
			Description: "Get meta information about the stored snapshots",
		},
		{
			Name:                     "fetch",
			Description:              "Refetch guild data in case the daily fetch failed",
			DefaultMemberPermissions: &adminPerms,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "create-highlights",
					Description: "Whether to post the highlights due for the current date",
					Required:    true,
				},
			},
		},
		{
			Name:        "ping",
			Description: "Replies with Pong!",
		},
	}
}

func rangeOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "start",
			Description: "Start time (MM/dd/yy)",
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "end",
			Description: "End time (MM/dd/yy)",
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands")

	commandDefinitions := b.getCommandDefinitions()
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commandDefinitions))

	for _, cmd := range commandDefinitions {
		registered, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string = global command
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
		slog.Debug("Registered command", "name", cmd.Name)
	}

	b.commands = registeredCommands
	slog.Info("Slash commands registered", "count", len(registeredCommands))
	return nil
}

// removeCommands removes all registered slash commands
func (b *Bot) removeCommands() {
	for _, cmd := range b.commands {
		err := b.session.ApplicationCommandDelete(b.session.State.User.ID, "", cmd.ID)
		if err != nil {
			slog.Error("Failed to remove command", "name", cmd.Name, "error", err)
		}
	}
}

// handleConnect handles the /connect command
func (b *Bot) handleConnect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	username := opts["username"].StringValue()
	channel := opts["channel"].ChannelValue(s)

	// Respond immediately to avoid timeout
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	existing, err := b.repo.GetGuildByDiscordID(ctx, i.GuildID)
	if err == nil {
		b.editResponse(s, i, fmt.Sprintf("The server is already connected. It is connected to %q", existing.Name))
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("Failed to look up guild binding", "error", err)
		b.editResponse(s, i, "Failed to connect the server. Please try again.")
		return
	}

	profile, err := b.mojang.GetProfile(ctx, username)
	if err != nil {
		slog.Error("Failed to look up profile", "username", username, "error", err)
		b.editResponse(s, i, "Failed to look up the player. Please try again.")
		return
	}
	if profile == nil {
		b.editResponse(s, i, fmt.Sprintf("%s was not found.", username))
		return
	}

	guildData, err := b.hypixel.GetGuildByPlayer(ctx, profile.UUID)
	if err != nil {
		slog.Error("Failed to fetch guild", "uuid", profile.UUID, "error", err)
		b.editResponse(s, i, fmt.Sprintf("Could not find a guild for `%s`.", profile.Username))
		return
	}

	guild := &storage.Guild{
		DiscordGuildID:   i.GuildID,
		HypixelGuildID:   guildData.ID,
		Name:             guildData.Name,
		ChannelID:        channel.ID,
		CreatedAtHypixel: guildData.Created,
	}
	if err := b.repo.CreateGuild(ctx, guild); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			b.editResponse(s, i, fmt.Sprintf("The guild %q is already connected to another server.", guildData.Name))
			return
		}
		slog.Error("Failed to save guild", "error", err)
		b.editResponse(s, i, "Failed to connect the server. Please try again.")
		return
	}

	b.editResponse(s, i, fmt.Sprintf("Connected server to %q", guild.Name))
}

// handleRecap handles the /recap command
func (b *Bot) handleRecap(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start, end := b.parseRange(i)
	b.guildRecap(s, i, start, end, "Custom Guild Recap")
}

// handleHighlight handles the /highlight command. The requested range is
// snapped outward onto whole calendar weeks.
func (b *Bot) handleHighlight(s *discordgo.Session, i *discordgo.InteractionCreate) {
	loc := b.config.Location
	start, end := b.parseRange(i)
	if start.IsZero() {
		start = calendar.StartOfDay(time.Now().In(loc), loc).AddDate(0, 0, -1)
	}
	if end.IsZero() {
		end = calendar.StartOfDay(time.Now().In(loc), loc)
	}
	start = calendar.StartOfWeek(start, loc)
	if !calendar.IsStartOfWeek(end, loc) {
		end = calendar.StartOfWeek(end, loc).AddDate(0, 0, 7)
	}
	b.guildRecap(s, i, start, end, "Custom Guild Highlight")
}

// guildRecap resolves and posts a guild-wide recap: the summary message
// first, then each member's embeds as follow-ups.
func (b *Bot) guildRecap(s *discordgo.Session, i *discordgo.InteractionCreate, start, end time.Time, title string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	guild, err := b.repo.GetGuildByDiscordID(ctx, i.GuildID)
	if err != nil {
		b.editResponse(s, i, "This server is not connected to a guild. Use `/connect` first.")
		return
	}

	agg, err := b.recaps.ResolveAndDiffGuild(ctx, guild.ID, start, end, recap.RankMetricGuildExperience)
	if err != nil {
		b.editResponse(s, i, b.recapErrorMessage(err))
		return
	}

	b.editResponse(s, i, formatHighlight(agg, title, b.config.Location))
	for _, member := range agg.Members {
		_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
			Embeds: recapEmbeds(member.Identity, member.Delta, member.EarlierAt, member.LaterAt, b.config.Location),
		})
		if err != nil {
			slog.Error("Failed to send member recap", "member", member.Identity.DisplayName, "error", err)
			return
		}
	}
}

// handleGetStats handles the /getstats command
func (b *Bot) handleGetStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	username := opts["username"].StringValue()
	start, end := b.parseRange(i)

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	profile, err := b.mojang.GetProfile(ctx, username)
	if err != nil {
		slog.Error("Failed to look up profile", "username", username, "error", err)
		b.editResponse(s, i, "Failed to look up the player. Please try again.")
		return
	}
	if profile == nil {
		b.editResponse(s, i, fmt.Sprintf("%s was not found.", username))
		return
	}

	pr, err := b.recaps.ResolveAndDiffPlayer(ctx, profile.UUID, start, end)
	if err != nil {
		var notFound *recap.NotFoundError
		if errors.As(err, &notFound) {
			loc := b.config.Location
			b.editResponse(s, i, fmt.Sprintf("No data could be found for %s in the range %s - %s",
				profile.Username, calendar.FormatDate(notFound.Start, loc), calendar.FormatDate(notFound.End, loc)))
			return
		}
		b.editResponse(s, i, b.recapErrorMessage(err))
		return
	}

	embeds := recapEmbeds(pr.Identity, pr.Delta, pr.EarlierAt, pr.LaterAt, b.config.Location)
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds})
	if err != nil {
		slog.Error("Failed to send stats embed", "error", err)
	}
}

// handleMetaInfo handles the /metainfo command
func (b *Bot) handleMetaInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	guild, err := b.repo.GetGuildByDiscordID(ctx, i.GuildID)
	if err != nil {
		respondWithMessage(s, i, "This server is not connected to a guild. Use `/connect` first.")
		return
	}

	times, err := b.repo.GuildSnapshotTimes(ctx, guild.ID)
	if err != nil {
		slog.Error("Failed to query snapshot times", "error", err)
		respondWithMessage(s, i, "Failed to retrieve snapshot metadata.")
		return
	}
	if len(times) == 0 {
		respondWithMessage(s, i, "The bot currently has no data.")
		return
	}

	loc := b.config.Location
	first := times[0]
	last := times[len(times)-1]
	today := calendar.StartOfDay(time.Now().In(loc), loc)

	fetchStatus := "Failed. ⚠️"
	if last.Equal(today) {
		fetchStatus = "Success!"
	}
	embed := &discordgo.MessageEmbed{
		Title: "Guild Stats Metadata",
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Date Range",
				Value: fmt.Sprintf("%s - %s", calendar.FormatDate(first, loc), calendar.FormatDate(last, loc)),
			},
			{
				Name:  "Snapshots",
				Value: fmt.Sprintf("%d", len(times)),
			},
			{
				Name:  "Last Data Fetch",
				Value: fmt.Sprintf("<t:%d:R> - %s", today.Unix(), fetchStatus),
			},
			{
				Name:  "Next Data Fetch",
				Value: fmt.Sprintf("<t:%d:R>", today.AddDate(0, 0, 1).Unix()),
			},
			{
				Name:  "Missing Dates",
				Value: missingDates(first, today, times, loc),
			},
		},
	}
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// missingDates lists days between first and last with no stored snapshot.
func missingDates(first, last time.Time, available []time.Time, loc *time.Location) string {
	present := make(map[int64]struct{}, len(available))
	for _, t := range available {
		present[t.UnixMilli()] = struct{}{}
	}
	var sb strings.Builder
	for d := first.AddDate(0, 0, 1); !d.After(last); d = d.AddDate(0, 0, 1) {
		if _, ok := present[d.UnixMilli()]; !ok {
			fmt.Fprintf(&sb, "⚠️%s⚠️\n", calendar.FormatDate(d, loc))
		}
	}
	if sb.Len() == 0 {
		return "No dates are missing."
	}
	return sb.String()
}

// handleFetch handles the /fetch command
func (b *Bot) handleFetch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	createHighlights := optionMap(i)["create-highlights"].BoolValue()

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	if err := b.collector.Collect(ctx); err != nil {
		slog.Error("Manual fetch failed", "error", err)
		b.editResponse(s, i, "⚠️ Fetching data failed. Check the logs.")
		return
	}
	msg := fmt.Sprintf("Fetch succeeded in %s.", time.Since(start).Round(time.Millisecond))
	if createHighlights {
		b.postScheduledHighlights(ctx, time.Now().In(b.config.Location))
		msg += " Posted the highlights due for today."
	}
	b.editResponse(s, i, msg)
}

// handlePing handles the /ping command
func (b *Bot) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	before := time.Now()
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Pinging...",
		},
	})
	b.editResponse(s, i, fmt.Sprintf("`Websocket heartbeat:` %dms.\n`Roundtrip latency:` %dms",
		s.HeartbeatLatency().Milliseconds(), time.Since(before).Milliseconds()))
}

// Helper functions

// parseRange reads the optional start/end options. Zero times mean "absent";
// the window resolver fills in its defaults.
func (b *Bot) parseRange(i *discordgo.InteractionCreate) (time.Time, time.Time) {
	opts := optionMap(i)
	var start, end time.Time
	if opt, ok := opts["start"]; ok {
		if t, ok := calendar.ParseDate(opt.StringValue(), b.config.Location); ok {
			start = t
		}
	}
	if opt, ok := opts["end"]; ok {
		if t, ok := calendar.ParseDate(opt.StringValue(), b.config.Location); ok {
			end = t
		}
	}
	return start, end
}

func (b *Bot) recapErrorMessage(err error) string {
	var invalidRange *recap.InvalidRangeError
	var notFound *recap.NotFoundError
	switch {
	case errors.As(err, &invalidRange):
		return "The end time has to be greater than the start time."
	case errors.As(err, &notFound):
		loc := b.config.Location
		return fmt.Sprintf("No data could be found in the range %s - %s",
			calendar.FormatDate(notFound.Start, loc), calendar.FormatDate(notFound.End, loc))
	default:
		slog.Error("Recap failed", "error", err)
		return "Failed to build the recap. Please try again."
	}
}

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func respondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func (b *Bot) editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
}
