package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Messenger wraps the session behind the narrow surface the builder and
// workflow components depend on.
type Messenger struct {
	session *discordgo.Session
}

func NewMessenger(session *discordgo.Session) *Messenger {
	return &Messenger{session: session}
}

func (m *Messenger) Send(channelID string, msg *discordgo.MessageSend) (string, error) {
	sent, err := m.session.ChannelMessageSendComplex(channelID, msg)
	if err != nil {
		return "", err
	}
	return sent.ID, nil
}

func (m *Messenger) Edit(channelID, messageID string, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	_, err := m.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}

// ChannelInGuild reports whether the channel exists and belongs to the guild.
func (m *Messenger) ChannelInGuild(guildID, channelID string) bool {
	ch, err := m.session.State.Channel(channelID)
	if err != nil {
		ch, err = m.session.Channel(channelID)
		if err != nil {
			return false
		}
	}
	return ch.GuildID == guildID
}

// DM sends a best-effort direct message.
func (m *Messenger) DM(userID string, embed *discordgo.MessageEmbed) error {
	ch, err := m.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = m.session.ChannelMessageSendEmbed(ch.ID, embed)
	return err
}
