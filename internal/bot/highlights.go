package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/calendar"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/recap"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/storage"
)

// postScheduledHighlights runs after each successful collection cycle and
// posts whichever period highlights the date calls for: weekly on the first
// day of a week, monthly on the first of a month, yearly on January 1st.
func (b *Bot) postScheduledHighlights(ctx context.Context, now time.Time) {
	loc := b.config.Location
	today := calendar.StartOfDay(now, loc)

	guilds, err := b.repo.GetAllGuilds(ctx)
	if err != nil {
		slog.Error("Failed to query guilds for highlights", "error", err)
		return
	}
	for _, guild := range guilds {
		if guild.ChannelID == "" {
			continue
		}
		if calendar.IsStartOfWeek(now, loc) {
			b.postHighlight(ctx, guild, today.AddDate(0, 0, -7), today, "Weekly Guild Highlight")
		}
		if calendar.IsStartOfMonth(now, loc) {
			b.postHighlight(ctx, guild, today.AddDate(0, -1, 0), today, "Monthly Guild Highlight")
		}
		if calendar.IsStartOfYear(now, loc) {
			b.postHighlight(ctx, guild, today.AddDate(-1, 0, 0), today, "Yearly Guild Highlight")
		}
	}
}

// postHighlight posts one period highlight to the guild's channel and puts
// the per-member breakdowns in a thread off the summary message.
func (b *Bot) postHighlight(ctx context.Context, guild *storage.Guild, start, end time.Time, title string) {
	agg, err := b.recaps.ResolveAndDiffGuild(ctx, guild.ID, start, end, recap.RankMetricGuildExperience)
	if err != nil {
		var notFound *recap.NotFoundError
		if errors.As(err, &notFound) {
			loc := b.config.Location
			b.sendNotice(guild.ChannelID, "No data could be found in the range "+
				calendar.FormatDate(notFound.Start, loc)+" - "+calendar.FormatDate(notFound.End, loc))
			return
		}
		slog.Error("Failed to build highlight", "guild", guild.Name, "title", title, "error", err)
		return
	}

	content := formatHighlight(agg, title, b.config.Location)
	msg, err := b.session.ChannelMessageSend(guild.ChannelID, content)
	if err != nil {
		slog.Error("Failed to post highlight", "guild", guild.Name, "error", err)
		return
	}

	thread, err := b.session.MessageThreadStartComplex(msg.ChannelID, msg.ID, &discordgo.ThreadStart{
		Name: strings.ReplaceAll(title, "\\", ""),
	})
	if err != nil {
		slog.Error("Failed to start highlight thread", "guild", guild.Name, "error", err)
		return
	}
	for _, member := range agg.Members {
		_, err := b.session.ChannelMessageSendComplex(thread.ID, &discordgo.MessageSend{
			Embeds: recapEmbeds(member.Identity, member.Delta, member.EarlierAt, member.LaterAt, b.config.Location),
		})
		if err != nil {
			slog.Error("Failed to post member recap", "member", member.Identity.DisplayName, "error", err)
			return
		}
	}
	slog.Info("Posted highlight", "guild", guild.Name, "title", title, "members", len(agg.Members))
}

func (b *Bot) sendNotice(channelID, content string) {
	if _, err := b.session.ChannelMessageSend(channelID, content); err != nil {
		slog.Error("Failed to send notice", "channel", channelID, "error", err)
	}
}
