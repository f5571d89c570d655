package bot

import (
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/discord-forms/src/shared/forms"
)

func replyEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("bot: failed to reply to interaction: %v", err)
	}
}

// updateMessage rewrites the message the component sits on.
func updateMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     embeds,
			Components: components,
		},
	})
	if err != nil {
		log.Printf("bot: failed to update interaction message: %v", err)
	}
}

func showModal(s *discordgo.Session, i *discordgo.InteractionCreate, modal *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: modal,
	})
	if err != nil {
		log.Printf("bot: failed to show modal: %v", err)
	}
}

// modalValue pulls a text input value out of a submitted modal.
func modalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			input, ok := comp.(*discordgo.TextInput)
			if ok && input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}

func memberRoles(i *discordgo.InteractionCreate) []string {
	if i.Member == nil {
		return nil
	}
	return i.Member.Roles
}

func userID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func userTag(i *discordgo.InteractionCreate) string {
	var u *discordgo.User
	if i.Member != nil {
		u = i.Member.User
	} else {
		u = i.User
	}
	if u == nil {
		return ""
	}
	return u.String()
}

// errorMessage turns a core error into the user-visible reply.
func errorMessage(err error) string {
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	switch {
	case errors.Is(err, forms.ErrSessionExpired):
		return "Setup session expired. Please run /setup again."
	case errors.Is(err, forms.ErrAlreadyVoted):
		return "You have already voted on this submission."
	case errors.Is(err, forms.ErrAlreadyDecided):
		return "This submission has already been decided."
	case errors.Is(err, forms.ErrPermissionDenied):
		return "You do not have permission to do this. Required roles are missing."
	case errors.Is(err, forms.ErrNotFound):
		return "The requested item no longer exists."
	}
	var ie *forms.InfrastructureError
	if errors.As(err, &ie) {
		return fmt.Sprintf("Something went wrong. Please try again. (ref %s)", ie.Ref)
	}
	return "There was an error processing your request. Please try again."
}
