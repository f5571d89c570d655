package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/discord-forms/src/shared/forms"
)

const (
	setupColor   = 0x0099ff
	approveColor = 0x00ff00
	denyColor    = 0xff0000
)

// ColorInt converts a "#RRGGBB" string to the integer Discord expects.
// Invalid input falls back to the wizard default.
func ColorInt(hex string) int {
	v, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return setupColor
	}
	return int(v)
}

// ButtonStyle maps a template style name onto the discordgo constant.
func ButtonStyle(s forms.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case forms.StyleSecondary:
		return discordgo.SecondaryButton
	case forms.StyleSuccess:
		return discordgo.SuccessButton
	case forms.StyleDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

// StyleName returns the display name for a button style.
func StyleName(s forms.ButtonStyle) string {
	return strings.ToUpper(string(s))
}

func formEmbed(data forms.TemplateData) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       data.Embed.Title,
		Description: data.Embed.Description,
		Color:       ColorInt(data.Embed.Color),
	}
	if data.Embed.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: data.Embed.Thumbnail}
	}
	if data.Embed.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: data.Embed.Footer}
	}
	return embed
}

// EntryMessage is the embed+button posted to the form channel on accept.
func EntryMessage(data forms.TemplateData, templateID uint64) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{formEmbed(data)},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: fmt.Sprintf("openForm_%d", templateID),
					Label:    data.Button.Label,
					Style:    ButtonStyle(data.Button.Style),
				},
			}},
		},
	}
}

// PreviewMessage renders the draft as if it were live. The button custom id
// is inert; pressing it does nothing.
func PreviewMessage(data forms.TemplateData) ([]*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embeds := []*discordgo.MessageEmbed{formEmbed(data)}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				CustomID: "preview_button",
				Label:    data.Button.Label,
				Style:    ButtonStyle(data.Button.Style),
			},
		}},
	}
	return embeds, components
}

// SubmissionMessage is the staff-facing post in the response channel,
// carrying the approve/deny affordances keyed by submission id.
func SubmissionMessage(data forms.TemplateData, responses forms.ResponseList, userID, userTag string, submissionID uint64) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title:       forms.Truncate("New Submission: "+data.Embed.Title, forms.MaxTitle),
		Description: fmt.Sprintf("Submitted by <@%s> (%s)", userID, userTag),
		Color:       ColorInt(data.Embed.Color),
	}
	for _, r := range responses {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  forms.Truncate(r.Label, forms.MaxTitle),
			Value: forms.Truncate(r.Value, forms.MaxResponseLength),
		})
	}
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: fmt.Sprintf("approve_%d", submissionID),
					Label:    "Approve",
					Style:    discordgo.SuccessButton,
				},
				discordgo.Button{
					CustomID: fmt.Sprintf("deny_%d", submissionID),
					Label:    "Deny",
					Style:    discordgo.DangerButton,
				},
			}},
		},
	}
}

// DecidedEmbed rewrites the staff post in place once a decision lands: the
// original embed keeps its fields, gains the verdict and loses its buttons.
func DecidedEmbed(original *discordgo.MessageEmbed, approved bool, reason, staffID, staffTag string) *discordgo.MessageEmbed {
	embed := *original
	verdict := "Denied"
	embed.Color = denyColor
	if approved {
		verdict = "Approved"
		embed.Color = approveColor
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Submission " + verdict,
		Value: fmt.Sprintf("Reason: %s\nBy: <@%s> (%s)", reason, staffID, staffTag),
	})
	return &embed
}

// PublicMessage mirrors an approved submission into the public channel.
// Suggestion forms carry the vote row seeded at zero.
func PublicMessage(data forms.TemplateData, responses forms.ResponseList, userID, userTag string, suggestion bool, submissionID uint64) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title:       data.Embed.Title,
		Description: fmt.Sprintf("Submitted by <@%s> (%s)", userID, userTag),
		Color:       ColorInt(data.Embed.Color),
	}
	for _, r := range responses {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  forms.Truncate(r.Label, forms.MaxTitle),
			Value: forms.Truncate(r.Value, forms.MaxResponseLength),
		})
	}
	msg := &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}
	if suggestion {
		msg.Components = []discordgo.MessageComponent{VoteRow(submissionID, 0, 0)}
	}
	return msg
}

// VoteRow renders the upvote/downvote buttons with current counts.
func VoteRow(submissionID uint64, up, down int64) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			CustomID: fmt.Sprintf("upvote_%d", submissionID),
			Label:    fmt.Sprintf("👍 %d", up),
			Style:    discordgo.SecondaryButton,
		},
		discordgo.Button{
			CustomID: fmt.Sprintf("downvote_%d", submissionID),
			Label:    fmt.Sprintf("👎 %d", down),
			Style:    discordgo.SecondaryButton,
		},
	}}
}

// DecisionDM is the best-effort notification sent to the submitter.
func DecisionDM(approved bool, reason string) *discordgo.MessageEmbed {
	verdict := "Denied"
	color := denyColor
	if approved {
		verdict = "Approved"
		color = approveColor
	}
	return &discordgo.MessageEmbed{
		Title:       "Form " + verdict,
		Description: "Your form submission has been " + strings.ToLower(verdict) + ".",
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Reason", Value: reason},
		},
	}
}
