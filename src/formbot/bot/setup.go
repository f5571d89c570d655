package bot

import (
	"context"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/discord-forms/src/formbot/components/builder"
	"github.com/stake-plus/discord-forms/src/formbot/components/permission"
	"github.com/stake-plus/discord-forms/src/formbot/components/render"
	"github.com/stake-plus/discord-forms/src/shared/forms"
)

// handleSetupCommand opens a fresh wizard for the invoking staff member.
func (b *Bot) handleSetupCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.perms.Has(i.GuildID, memberRoles(i), permission.CapSetup) {
		replyEphemeral(s, i, "You do not have permission to use this command. Required roles are missing.")
		return
	}

	sess := b.builder.Start(i.GuildID, userID(i))
	view := b.builder.View(sess)

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{render.SetupEmbed(view)},
			Components: render.SetupComponents(view),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("bot: failed to open setup wizard: %v", err)
	}
}

func (b *Bot) handleSetupAction(s *discordgo.Session, i *discordgo.InteractionCreate, action string) {
	sess, err := b.builder.Get(userID(i))
	if err != nil {
		replyEphemeral(s, i, errorMessage(err))
		return
	}

	switch action {
	case "title", "description", "footer":
		current := sess.Draft.Embed.Title
		switch action {
		case "description":
			current = sess.Draft.Embed.Description
		case "footer":
			current = sess.Draft.Embed.Footer
		}
		showModal(s, i, render.TextModal(action, current))

	case "color":
		showModal(s, i, render.ColorModal(sess.Draft.Embed.Color))

	case "thumbnail":
		showModal(s, i, render.ThumbnailModal(sess.Draft.Embed.Thumbnail))

	case "fields":
		if len(sess.Draft.Fields) >= forms.MaxFields {
			replyEphemeral(s, i, "Maximum of 5 fields allowed per form.")
			return
		}
		showModal(s, i, render.FieldModal())

	case "button":
		showModal(s, i, render.ButtonModal(sess.Draft.Button.Label, sess.Draft.Button.Style))

	case "channel":
		showModal(s, i, render.ChannelModal(sess.Draft.FormChannel, sess.Draft.ResponseChannel))

	case "public_channel":
		if sess.Draft.FormType == forms.FormTypePrivate {
			replyEphemeral(s, i, "Public channel is only available for public and suggestion forms.")
			return
		}
		showModal(s, i, render.PublicChannelModal(sess.Draft.PublicChannel))

	case "preview":
		embeds, components := render.PreviewMessage(sess.TemplateData())
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    "Form Preview:",
				Embeds:     embeds,
				Components: components,
				Flags:      discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			log.Printf("bot: failed to send preview: %v", err)
		}

	case "accept":
		b.handleAccept(s, i, sess)

	case "cancel":
		b.builder.Cancel(userID(i))
		updateMessage(s, i, "Setup cancelled.", []*discordgo.MessageEmbed{}, []discordgo.MessageComponent{})

	default:
		log.Printf("bot: unknown setup action %q", action)
	}
}

func (b *Bot) handleAccept(s *discordgo.Session, i *discordgo.InteractionCreate, sess *builder.Session) {
	tmpl, err := b.builder.Accept(context.Background(), sess)
	if err != nil {
		if forms.IsValidation(err) {
			replyEphemeral(s, i, errorMessage(err))
			return
		}
		log.Printf("bot: accept failed for user %s: %v", userID(i), err)
		if tmpl != nil {
			// Template persisted; only the entry post failed.
			updateMessage(s, i, "Form saved, but posting it to the form channel failed. Check the channel and re-run /setup if needed.",
				[]*discordgo.MessageEmbed{}, []discordgo.MessageComponent{})
			return
		}
		replyEphemeral(s, i, "Error saving form template.")
		return
	}
	updateMessage(s, i, "Form created successfully!", []*discordgo.MessageEmbed{}, []discordgo.MessageComponent{})
}

func (b *Bot) handleSetupModal(s *discordgo.Session, i *discordgo.InteractionCreate, field string) {
	sess, err := b.builder.Get(userID(i))
	if err != nil {
		replyEphemeral(s, i, errorMessage(err))
		return
	}

	modal := i.ModalSubmitData()

	switch field {
	case "title", "description", "footer", "color", "thumbnail":
		err = sess.SetEmbedField(field, modalValue(modal, field))

	case "field":
		err = sess.AddField(
			modalValue(modal, "field_label"),
			modalValue(modal, "field_placeholder"),
			strings.EqualFold(modalValue(modal, "field_required"), "yes"),
		)

	case "button":
		err = sess.SetButton(modalValue(modal, "button_label"), modalValue(modal, "button_style"))

	case "channel":
		err = b.builder.SetChannels(sess, modalValue(modal, "form_channel"), modalValue(modal, "response_channel"))

	case "public_channel":
		err = b.builder.SetPublicChannel(sess, modalValue(modal, "public_channel"))

	default:
		log.Printf("bot: unknown setup modal %q", field)
		return
	}

	if err != nil {
		replyEphemeral(s, i, errorMessage(err))
		return
	}

	b.refreshWizard(s, i, sess)
}

func (b *Bot) handleFormTypeSelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sess, err := b.builder.Get(userID(i))
	if err != nil {
		replyEphemeral(s, i, errorMessage(err))
		return
	}

	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}
	formType, err := forms.ParseFormType(values[0])
	if err != nil {
		replyEphemeral(s, i, errorMessage(err))
		return
	}

	sess.SetFormType(formType)
	b.refreshWizard(s, i, sess)
}

func (b *Bot) refreshWizard(s *discordgo.Session, i *discordgo.InteractionCreate, sess *builder.Session) {
	view := b.builder.View(sess)
	updateMessage(s, i, "", []*discordgo.MessageEmbed{render.SetupEmbed(view)}, render.SetupComponents(view))
}
