package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/discord-forms/src/formbot/components/permission"
	"github.com/stake-plus/discord-forms/src/formbot/components/render"
	"github.com/stake-plus/discord-forms/src/formbot/components/workflow"
)

// handleOpenForm shows the input modal mirroring the template's fields.
func (b *Bot) handleOpenForm(s *discordgo.Session, i *discordgo.InteractionCreate, templateID uint64) {
	if !b.perms.Has(i.GuildID, memberRoles(i), permission.CapSubmit) {
		replyEphemeral(s, i, "You are not allowed to submit forms. Required roles are missing.")
		return
	}

	_, data, err := b.engine.OpenForm(context.Background(), templateID)
	if err != nil {
		log.Printf("bot: open form %d: %v", templateID, err)
		replyEphemeral(s, i, "Error loading form template.")
		return
	}

	showModal(s, i, render.SubmitModal(templateID, data))
}

func (b *Bot) handleSubmitForm(s *discordgo.Session, i *discordgo.InteractionCreate, templateID uint64) {
	modal := i.ModalSubmitData()

	_, data, err := b.engine.OpenForm(context.Background(), templateID)
	if err != nil {
		log.Printf("bot: submit to form %d: %v", templateID, err)
		replyEphemeral(s, i, "Error loading form template.")
		return
	}

	values := make([]string, len(data.Fields))
	for idx := range data.Fields {
		values[idx] = modalValue(modal, fmt.Sprintf("field_%d", idx))
	}

	_, err = b.engine.Submit(context.Background(), workflow.SubmitRequest{
		TemplateID: templateID,
		UserID:     userID(i),
		UserTag:    userTag(i),
		Values:     values,
		Authorized: b.perms.Has(i.GuildID, memberRoles(i), permission.CapSubmit),
	})
	if err != nil {
		replyEphemeral(s, i, errorMessage(err))
		return
	}

	replyEphemeral(s, i, "Form submitted successfully!")
}

// handleDecidePrompt collects the approve/deny reason.
func (b *Bot) handleDecidePrompt(s *discordgo.Session, i *discordgo.InteractionCreate, intent Intent) {
	if !b.perms.Has(i.GuildID, memberRoles(i), permission.CapApprove) {
		replyEphemeral(s, i, "You do not have permission to approve or deny forms.")
		return
	}
	showModal(s, i, render.ReasonModal(intent.Approve, intent.ID))
}

func (b *Bot) handleDecideSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, intent Intent) {
	req := workflow.DecideRequest{
		SubmissionID: intent.ID,
		Approve:      intent.Approve,
		Reason:       modalValue(i.ModalSubmitData(), "reason"),
		StaffID:      userID(i),
		StaffTag:     userTag(i),
		Authorized:   b.perms.Has(i.GuildID, memberRoles(i), permission.CapApprove),
	}
	// The component interaction that opened the modal carries the staff post.
	if i.Message != nil {
		req.StaffChannelID = i.Message.ChannelID
		req.StaffMessageID = i.Message.ID
		if len(i.Message.Embeds) > 0 {
			req.StaffEmbed = i.Message.Embeds[0]
		}
	}

	if _, err := b.engine.Decide(context.Background(), req); err != nil {
		replyEphemeral(s, i, errorMessage(err))
		return
	}

	verdict := "denied"
	if intent.Approve {
		verdict = "approved"
	}
	replyEphemeral(s, i, "Form submission "+verdict+" successfully.")
}

func (b *Bot) handleVote(s *discordgo.Session, i *discordgo.InteractionCreate, intent Intent) {
	req := workflow.VoteRequest{
		SubmissionID: intent.ID,
		UserID:       userID(i),
		Vote:         intent.Vote,
	}
	if i.Message != nil {
		req.ChannelID = i.Message.ChannelID
		req.MessageID = i.Message.ID
		req.Embeds = i.Message.Embeds
	}

	if _, _, err := b.engine.Vote(context.Background(), req); err != nil {
		replyEphemeral(s, i, errorMessage(err))
		return
	}

	replyEphemeral(s, i, "Your vote has been recorded!")
}
