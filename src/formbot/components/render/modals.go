package render

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/discord-forms/src/shared/forms"
)

func textRow(input discordgo.TextInput) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{input}}
}

// TextModal edits title, description or footer.
func TextModal(key, current string) *discordgo.InteractionResponseData {
	maxLen := forms.MaxTitle
	switch key {
	case "description":
		maxLen = forms.MaxDescription
	case "footer":
		maxLen = forms.MaxFooter
	}
	return &discordgo.InteractionResponseData{
		CustomID: "setup_modal_" + key,
		Title:    "Set " + titleCase(key),
		Components: []discordgo.MessageComponent{textRow(discordgo.TextInput{
			CustomID:  key,
			Label:     "Enter " + key,
			Style:     discordgo.TextInputParagraph,
			Required:  true,
			MaxLength: maxLen,
			Value:     current,
		})},
	}
}

func ColorModal(current string) *discordgo.InteractionResponseData {
	if current == "" {
		current = "#0099ff"
	}
	return &discordgo.InteractionResponseData{
		CustomID: "setup_modal_color",
		Title:    "Set Color",
		Components: []discordgo.MessageComponent{textRow(discordgo.TextInput{
			CustomID:  "color",
			Label:     "Enter hex color (e.g., #FF0000)",
			Style:     discordgo.TextInputShort,
			Required:  true,
			MaxLength: 7,
			Value:     current,
		})},
	}
}

func ThumbnailModal(current string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: "setup_modal_thumbnail",
		Title:    "Set Thumbnail",
		Components: []discordgo.MessageComponent{textRow(discordgo.TextInput{
			CustomID:  "thumbnail",
			Label:     "Enter thumbnail URL",
			Style:     discordgo.TextInputShort,
			Required:  true,
			MaxLength: 1024,
			Value:     current,
		})},
	}
}

func FieldModal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: "setup_modal_field",
		Title:    "Add Form Field",
		Components: []discordgo.MessageComponent{
			textRow(discordgo.TextInput{
				CustomID:  "field_label",
				Label:     fmt.Sprintf("Field Label (max %d chars)", forms.MaxFieldLabel),
				Style:     discordgo.TextInputShort,
				Required:  true,
				MaxLength: forms.MaxFieldLabel,
			}),
			textRow(discordgo.TextInput{
				CustomID:  "field_placeholder",
				Label:     fmt.Sprintf("Placeholder Text (max %d chars)", forms.MaxPlaceholder),
				Style:     discordgo.TextInputShort,
				MaxLength: forms.MaxPlaceholder,
			}),
			textRow(discordgo.TextInput{
				CustomID:  "field_required",
				Label:     "Required? (yes/no)",
				Style:     discordgo.TextInputShort,
				Required:  true,
				MaxLength: 3,
				Value:     "yes",
			}),
		},
	}
}

func ButtonModal(label string, style forms.ButtonStyle) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: "setup_modal_button",
		Title:    "Customize Button",
		Components: []discordgo.MessageComponent{
			textRow(discordgo.TextInput{
				CustomID:  "button_label",
				Label:     "Button Label",
				Style:     discordgo.TextInputShort,
				Required:  true,
				MaxLength: forms.MaxButtonLabel,
				Value:     label,
			}),
			textRow(discordgo.TextInput{
				CustomID:  "button_style",
				Label:     "Style (PRIMARY, SECONDARY, SUCCESS, DANGER)",
				Style:     discordgo.TextInputShort,
				Required:  true,
				MaxLength: 9,
				Value:     StyleName(style),
			}),
		},
	}
}

func ChannelModal(formChannel, responseChannel string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: "setup_modal_channel",
		Title:    "Set Channels",
		Components: []discordgo.MessageComponent{
			textRow(discordgo.TextInput{
				CustomID:  "form_channel",
				Label:     "Form Channel ID (where form will be posted)",
				Style:     discordgo.TextInputShort,
				Required:  true,
				MaxLength: 20,
				Value:     formChannel,
			}),
			textRow(discordgo.TextInput{
				CustomID:  "response_channel",
				Label:     "Response Channel ID (for staff responses)",
				Style:     discordgo.TextInputShort,
				Required:  true,
				MaxLength: 20,
				Value:     responseChannel,
			}),
		},
	}
}

func PublicChannelModal(current string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: "setup_modal_public_channel",
		Title:    "Set Public Channel",
		Components: []discordgo.MessageComponent{textRow(discordgo.TextInput{
			CustomID:  "public_channel",
			Label:     "Enter public channel ID",
			Style:     discordgo.TextInputShort,
			Required:  true,
			MaxLength: 20,
			Value:     current,
		})},
	}
}

// SubmitModal mirrors the template's ordered field list; inputs are
// addressed by index so responses map back to labels on submit.
func SubmitModal(templateID uint64, data forms.TemplateData) *discordgo.InteractionResponseData {
	resp := &discordgo.InteractionResponseData{
		CustomID: fmt.Sprintf("submitForm_%d", templateID),
		Title:    forms.Truncate(data.Embed.Title, 45),
	}
	for i, f := range data.Fields {
		input := discordgo.TextInput{
			CustomID:  fmt.Sprintf("field_%d", i),
			Label:     forms.Truncate(f.Label, forms.MaxFieldLabel),
			Style:     discordgo.TextInputParagraph,
			Required:  f.Required,
			MaxLength: forms.MaxResponseLength,
		}
		if f.Placeholder != "" {
			input.Placeholder = forms.Truncate(f.Placeholder, forms.MaxPlaceholder)
		}
		resp.Components = append(resp.Components, textRow(input))
	}
	return resp
}

// ReasonModal collects the approval or denial reason.
func ReasonModal(approve bool, submissionID uint64) *discordgo.InteractionResponseData {
	action := "deny"
	title := "Deny Form"
	label := "Reason for denying"
	if approve {
		action = "approve"
		title = "Approve Form"
		label = "Reason for approving"
	}
	return &discordgo.InteractionResponseData{
		CustomID: fmt.Sprintf("%s_modal_%d", action, submissionID),
		Title:    title,
		Components: []discordgo.MessageComponent{textRow(discordgo.TextInput{
			CustomID:  "reason",
			Label:     label,
			Style:     discordgo.TextInputParagraph,
			Required:  true,
			MaxLength: forms.MaxReasonLength,
		})},
	}
}
