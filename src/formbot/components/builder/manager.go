package builder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/stake-plus/discord-forms/src/formbot/components/render"
	"github.com/stake-plus/discord-forms/src/shared/forms"
	"github.com/stake-plus/discord-forms/src/shared/types"
)

// TemplateCreator persists an accepted draft.
type TemplateCreator interface {
	Create(ctx context.Context, t *types.FormTemplate) error
}

// ChannelResolver checks that a channel id exists in the authoring guild.
type ChannelResolver interface {
	ChannelInGuild(guildID, channelID string) bool
}

// Sender posts a message and returns its id.
type Sender interface {
	Send(channelID string, msg *discordgo.MessageSend) (string, error)
}

type Config struct {
	Store     Store
	Templates TemplateCreator
	Channels  ChannelResolver
	Messenger Sender
}

// Manager runs the form setup wizard: it owns session lifecycle and the
// operations that need collaborators (channel resolution, persistence).
// Pure draft edits live on Session.
type Manager struct {
	store     Store
	templates TemplateCreator
	channels  ChannelResolver
	messenger Sender
}

func NewManager(cfg Config) *Manager {
	return &Manager{
		store:     cfg.Store,
		templates: cfg.Templates,
		channels:  cfg.Channels,
		messenger: cfg.Messenger,
	}
}

// Start opens a fresh wizard for the author, replacing any previous one.
func (m *Manager) Start(guildID, userID string) *Session {
	sess := NewSession(guildID, userID)
	m.store.Put(sess)
	return sess
}

// Get returns the author's live session or ErrSessionExpired.
func (m *Manager) Get(userID string) (*Session, error) {
	sess, ok := m.store.Get(userID)
	if !ok {
		return nil, forms.ErrSessionExpired
	}
	return sess, nil
}

// SetChannels stages the form and response channels after resolving both.
func (m *Manager) SetChannels(sess *Session, formChannel, responseChannel string) error {
	if !m.channels.ChannelInGuild(sess.GuildID, formChannel) ||
		!m.channels.ChannelInGuild(sess.GuildID, responseChannel) {
		return forms.NewValidationError("invalid channel ID, enter valid channel IDs from this server")
	}
	sess.Draft.FormChannel = formChannel
	sess.Draft.ResponseChannel = responseChannel
	sess.touch()
	return nil
}

// SetPublicChannel stages the public channel; private drafts have none.
func (m *Manager) SetPublicChannel(sess *Session, channelID string) error {
	if sess.Draft.FormType == forms.FormTypePrivate {
		return forms.NewValidationError("public channel is only available for public and suggestion forms")
	}
	if !m.channels.ChannelInGuild(sess.GuildID, channelID) {
		return forms.NewValidationError("invalid channel ID, enter a valid channel ID from this server")
	}
	sess.Draft.PublicChannel = channelID
	sess.touch()
	return nil
}

// Accept promotes the draft to a persisted template, posts the entry
// embed+button to the form channel and destroys the session. The session is
// gone once the template is persisted; a failed entry post is reported but
// does not roll the template back.
func (m *Manager) Accept(ctx context.Context, sess *Session) (*types.FormTemplate, error) {
	if !sess.CanAccept() {
		if sess.Draft.FormType != forms.FormTypePrivate && sess.Draft.PublicChannel == "" &&
			sess.Draft.FormChannel != "" && sess.Draft.ResponseChannel != "" && len(sess.Draft.Fields) > 0 {
			return nil, forms.NewValidationError("%s forms require a public channel to be set", string(sess.Draft.FormType))
		}
		return nil, forms.NewValidationError("set both form and response channels and add at least one form field before saving")
	}

	raw, err := forms.EncodeTemplateData(sess.TemplateData())
	if err != nil {
		return nil, err
	}

	tmpl := &types.FormTemplate{
		GuildID:           sess.GuildID,
		Name:              sess.Draft.Embed.Title,
		Fields:            raw,
		FormChannelID:     sess.Draft.FormChannel,
		ResponseChannelID: sess.Draft.ResponseChannel,
		PublicChannelID:   sess.Draft.PublicChannel,
		FormType:          string(sess.Draft.FormType),
		RequiresApproval:  sess.Draft.RequiresApproval,
		CreatedAt:         time.Now(),
	}
	if err := m.templates.Create(ctx, tmpl); err != nil {
		ie := &forms.InfrastructureError{Ref: uuid.NewString()[:8], Err: fmt.Errorf("save form template: %w", err)}
		log.Printf("builder: %v", ie)
		return nil, ie
	}

	m.store.Delete(sess.UserID)

	if _, err := m.messenger.Send(tmpl.FormChannelID, render.EntryMessage(sess.TemplateData(), tmpl.ID)); err != nil {
		log.Printf("builder: failed to post entry message for template %d: %v", tmpl.ID, err)
		return tmpl, fmt.Errorf("post entry message: %w", err)
	}

	return tmpl, nil
}

// Cancel destroys the session unconditionally.
func (m *Manager) Cancel(userID string) {
	m.store.Delete(userID)
}

// View snapshots a session for rendering.
func (m *Manager) View(sess *Session) render.SetupView {
	return render.SetupView{
		Data:            sess.TemplateData(),
		FormType:        sess.Draft.FormType,
		FormChannel:     sess.Draft.FormChannel,
		ResponseChannel: sess.Draft.ResponseChannel,
		PublicChannel:   sess.Draft.PublicChannel,
		CanAccept:       sess.CanAccept(),
	}
}
