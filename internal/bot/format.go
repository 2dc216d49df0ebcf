package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/calendar"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/recap"
)

// groupedFormat renders rank-list numbers with en-US thousands separators.
var groupedFormat = message.NewPrinter(language.AmericanEnglish)

// formatDelta renders a metric delta with at most two fraction digits and no
// grouping.
func formatDelta(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

var markdownEscaper = strings.NewReplacer(
	"*", "\\*", "_", "\\_", "`", "\\`", "~", "\\~", "|", "\\|", ">", "\\>", "#", "\\#",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// formatHighlight builds the top-level highlight message: the splash header,
// overall totals, and the top five members by the rank metric.
func formatHighlight(agg *recap.GuildAggregate, title string, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# __%s__\n", title)
	fmt.Fprintf(&sb, "-# %s\n", escapeMarkdown(randomSplash("")))
	sb.WriteString("## __Overall Stats__\n")
	fmt.Fprintf(&sb, "    ⫸ **%s** Guild Experience Gained\n\n", formatDelta(agg.TotalPrimaryMetricDelta))
	fmt.Fprintf(&sb, "    ⫸ **%s** Total Wins\n\n", formatDelta(agg.TotalWins))
	fmt.Fprintf(&sb, "    ⫸ **%s** Total Kills\n", formatDelta(agg.TotalKills))
	sb.WriteString("## __Top Guild Experience__\n")
	top := agg.Members
	if len(top) > 5 {
		top = top[:5]
	}
	for i, member := range top {
		exp := member.RankValue(recap.RankMetricGuildExperience)
		prefix := ""
		if member.Identity.PrefixTag != "" {
			prefix = member.Identity.PrefixTag + " "
		}
		fmt.Fprintf(&sb, "%d. **%s%s** %s Guild Experience\n",
			i+1, prefix, escapeMarkdown(member.Identity.DisplayName),
			groupedFormat.Sprintf("%d", int64(exp)))
	}
	fmt.Fprintf(&sb, "-# %s - %s\n",
		calendar.FormatDate(agg.WindowStart, loc), calendar.FormatDate(agg.WindowEnd, loc))
	return sb.String()
}

// Discord caps embeds at 25 fields.
const maxEmbedFields = 25

// recapEmbeds renders one member's delta as a series of embeds: one field
// per category, split across embeds when the category count exceeds the
// field cap. The window footer goes on the last embed.
func recapEmbeds(identity recap.Identity, delta recap.Delta, earlierAt, laterAt time.Time, loc *time.Location) []*discordgo.MessageEmbed {
	title := escapeMarkdown(identity.DisplayName)
	if identity.PrefixTag != "" {
		title = identity.PrefixTag + " " + title
	}
	color := identity.AccentColor
	if color == 0 {
		color = randomAccentColor(0)
	}

	var embeds []*discordgo.MessageEmbed
	current := &discordgo.MessageEmbed{Title: title, Color: color}
	embeds = append(embeds, current)
	for _, cat := range delta.Categories {
		if len(current.Fields) >= maxEmbedFields {
			current = &discordgo.MessageEmbed{Color: color}
			embeds = append(embeds, current)
		}
		var lines []string
		for _, metric := range cat.Metrics {
			lines = append(lines, fmt.Sprintf("**%s**: %s", metric.Label, formatDelta(metric.Value)))
		}
		current.Fields = append(current.Fields, &discordgo.MessageEmbedField{
			Name:   cat.Name,
			Value:  strings.Join(lines, "\n"),
			Inline: true,
		})
	}
	current.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("%s - %s", calendar.FormatDate(earlierAt, loc), calendar.FormatDate(laterAt, loc)),
	}
	return embeds
}
