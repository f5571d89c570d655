package render

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/discord-forms/src/shared/forms"
)

// SetupView is everything the wizard screen needs from a builder session.
type SetupView struct {
	Data            forms.TemplateData
	FormType        forms.FormType
	FormChannel     string
	ResponseChannel string
	PublicChannel   string
	CanAccept       bool
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func channelMention(id, missing string) string {
	if id == "" {
		return missing
	}
	return "<#" + id + ">"
}

// SetupEmbed is the wizard's "Form Setup" screen.
func SetupEmbed(v SetupView) *discordgo.MessageEmbed {
	var b strings.Builder
	fmt.Fprintf(&b, "**Form Type:** %s\n\n", titleCase(string(v.FormType)))
	fmt.Fprintf(&b, "**Title:** %s\n", forms.Truncate(v.Data.Embed.Title, forms.MaxTitle))
	fmt.Fprintf(&b, "**Description:** %s\n", forms.Truncate(v.Data.Embed.Description, 100))
	fmt.Fprintf(&b, "**Color:** %s\n", v.Data.Embed.Color)
	if v.Data.Embed.Thumbnail != "" {
		fmt.Fprintf(&b, "**Thumbnail:** %s\n", forms.Truncate(v.Data.Embed.Thumbnail, 100))
	} else {
		b.WriteString("**Thumbnail:** Not set\n")
	}
	if v.Data.Embed.Footer != "" {
		fmt.Fprintf(&b, "**Footer:** %s\n", forms.Truncate(v.Data.Embed.Footer, 100))
	} else {
		b.WriteString("**Footer:** Not set\n")
	}
	fmt.Fprintf(&b, "**Form Channel:** %s\n", channelMention(v.FormChannel, "Not set"))
	fmt.Fprintf(&b, "**Response Channel:** %s\n", channelMention(v.ResponseChannel, "Not set"))
	if v.FormType != forms.FormTypePrivate {
		fmt.Fprintf(&b, "**Public Channel:** %s\n", channelMention(v.PublicChannel, "Not set (Required)"))
	}
	fmt.Fprintf(&b, "**Button Label:** %s\n", forms.Truncate(v.Data.Button.Label, forms.MaxButtonLabel))
	fmt.Fprintf(&b, "**Button Style:** %s\n\n", StyleName(v.Data.Button.Style))

	if len(v.Data.Fields) > 0 {
		fmt.Fprintf(&b, "**Form Fields (%d/%d):**\n", len(v.Data.Fields), forms.MaxFields)
		for i, f := range v.Data.Fields {
			req := "(Optional)"
			if f.Required {
				req = "(Required)"
			}
			placeholder := "None"
			if f.Placeholder != "" {
				placeholder = forms.Truncate(f.Placeholder, forms.MaxPlaceholder)
			}
			fmt.Fprintf(&b, "**%d.** %s %s\n   Placeholder: %s\n\n",
				i+1, forms.Truncate(f.Label, forms.MaxFieldLabel), req, placeholder)
		}
	} else {
		fmt.Fprintf(&b, "No form fields added yet (0/%d)", forms.MaxFields)
	}

	return &discordgo.MessageEmbed{
		Title:       "Form Setup",
		Description: "Customize your form by using the buttons below",
		Color:       setupColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Current Settings", Value: forms.Truncate(b.String(), 1024)},
		},
	}
}

// SetupComponents is the wizard's four component rows.
func SetupComponents(v SetupView) []discordgo.MessageComponent {
	embedButtons := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{CustomID: "setup_title", Label: "Set Title", Style: discordgo.PrimaryButton},
		discordgo.Button{CustomID: "setup_description", Label: "Set Description", Style: discordgo.PrimaryButton},
		discordgo.Button{CustomID: "setup_color", Label: "Set Color", Style: discordgo.PrimaryButton},
		discordgo.Button{CustomID: "setup_thumbnail", Label: "Set Thumbnail", Style: discordgo.PrimaryButton},
		discordgo.Button{CustomID: "setup_footer", Label: "Set Footer", Style: discordgo.PrimaryButton},
	}}

	formButtons := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{CustomID: "setup_fields", Label: "Add Form Field", Style: discordgo.SuccessButton},
		discordgo.Button{CustomID: "setup_button", Label: "Customize Button", Style: discordgo.SuccessButton},
		discordgo.Button{CustomID: "setup_channel", Label: "Set Response Channel", Style: discordgo.SuccessButton},
	}}

	formTypeRow := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    "setup_form_type",
			Placeholder: "Form Type: " + titleCase(string(v.FormType)),
			Options: []discordgo.SelectMenuOption{
				{
					Label:       "Private Form",
					Description: "Responses are only visible to staff",
					Value:       string(forms.FormTypePrivate),
					Default:     v.FormType == forms.FormTypePrivate,
				},
				{
					Label:       "Public Form",
					Description: "Approved responses are posted publicly",
					Value:       string(forms.FormTypePublic),
					Default:     v.FormType == forms.FormTypePublic,
				},
				{
					Label:       "Suggestion Form",
					Description: "Approved suggestions can be voted on",
					Value:       string(forms.FormTypeSuggestion),
					Default:     v.FormType == forms.FormTypeSuggestion,
				},
			},
		},
	}}

	controlButtons := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			CustomID: "setup_public_channel",
			Label:    "Set Public Channel",
			Style:    discordgo.SecondaryButton,
			Disabled: v.FormType == forms.FormTypePrivate,
		},
		discordgo.Button{CustomID: "setup_preview", Label: "Preview", Style: discordgo.SecondaryButton},
		discordgo.Button{
			CustomID: "setup_accept",
			Label:    "Accept",
			Style:    discordgo.SuccessButton,
			Disabled: !v.CanAccept,
		},
		discordgo.Button{CustomID: "setup_cancel", Label: "Cancel", Style: discordgo.DangerButton},
	}}

	return []discordgo.MessageComponent{embedButtons, formButtons, formTypeRow, controlButtons}
}
