package bot

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"github.com/stake-plus/discord-forms/src/formbot/components/builder"
	"github.com/stake-plus/discord-forms/src/formbot/components/discord"
	"github.com/stake-plus/discord-forms/src/formbot/components/permission"
	"github.com/stake-plus/discord-forms/src/formbot/components/workflow"
	"github.com/stake-plus/discord-forms/src/shared/data"
	"github.com/stake-plus/discord-forms/src/shared/storage"
	"gorm.io/gorm"
)

type Config struct {
	Token string
	DB    *gorm.DB
	Redis *redis.Client
	Perms *permission.Service
}

type Bot struct {
	session   *discordgo.Session
	db        *gorm.DB
	perms     *permission.Service
	messenger *discord.Messenger
	builder   *builder.Manager
	sessions  *builder.MemoryStore
	engine    *workflow.Engine
}

type settingsFlags struct{}

func (settingsFlags) SendDMToSubmitter() bool {
	return data.GetSettingBool(data.SettingSendDMToSubmitter)
}

func New(cfg Config) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	b := &Bot{
		session: dg,
		db:      cfg.DB,
		perms:   cfg.Perms,
	}
	b.initializeComponents(cfg)
	b.registerHandlers()

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return b, nil
}

func (b *Bot) initializeComponents(cfg Config) {
	b.messenger = discord.NewMessenger(b.session)

	templates := storage.NewTemplateStore(cfg.DB)
	submissions := storage.NewSubmissionStore(cfg.DB)

	b.sessions = builder.NewMemoryStore(builder.DefaultSessionTTL)
	b.builder = builder.NewManager(builder.Config{
		Store:     b.sessions,
		Templates: templates,
		Channels:  b.messenger,
		Messenger: b.messenger,
	})

	var limiter workflow.Limiter
	if cfg.Redis != nil {
		limiter = workflow.NewSubmitLimiter(cfg.Redis, 30*time.Second)
	}
	b.engine = workflow.NewEngine(workflow.Config{
		Templates:   templates,
		Submissions: submissions,
		Messenger:   b.messenger,
		Limiter:     limiter,
		Settings:    settingsFlags{},
	})
}

func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handleInteraction)
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return err
	}
	b.sessions.StartCleanup(5 * time.Minute)
	return nil
}

func (b *Bot) Stop() {
	b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("Discord bot logged in as %s", event.User.Username)

	cmd := &discordgo.ApplicationCommand{
		Name:        "setup",
		Description: "Setup a new form template",
	}
	for _, guildID := range b.perms.GuildIDs() {
		if _, err := s.ApplicationCommandCreate(event.User.ID, guildID, cmd); err != nil {
			log.Printf("Failed to register /setup in guild %s: %v", guildID, err)
		}
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == "setup" {
			b.handleSetupCommand(s, i)
		}

	case discordgo.InteractionMessageComponent:
		b.dispatchComponent(s, i, ParseCustomID(i.MessageComponentData().CustomID))

	case discordgo.InteractionModalSubmit:
		b.dispatchModal(s, i, ParseCustomID(i.ModalSubmitData().CustomID))
	}
}

func (b *Bot) dispatchComponent(s *discordgo.Session, i *discordgo.InteractionCreate, intent Intent) {
	switch intent.Kind {
	case IntentSetupAction:
		b.handleSetupAction(s, i, intent.Action)
	case IntentFormTypeSelect:
		b.handleFormTypeSelect(s, i)
	case IntentOpenForm:
		b.handleOpenForm(s, i, intent.ID)
	case IntentDecidePrompt:
		b.handleDecidePrompt(s, i, intent)
	case IntentVote:
		b.handleVote(s, i, intent)
	case IntentUnknown:
		log.Printf("bot: unknown component custom id %q", i.MessageComponentData().CustomID)
	}
}

func (b *Bot) dispatchModal(s *discordgo.Session, i *discordgo.InteractionCreate, intent Intent) {
	switch intent.Kind {
	case IntentSetupModal:
		b.handleSetupModal(s, i, intent.Action)
	case IntentSubmitForm:
		b.handleSubmitForm(s, i, intent.ID)
	case IntentDecideSubmit:
		b.handleDecideSubmit(s, i, intent)
	case IntentUnknown:
		log.Printf("bot: unknown modal custom id %q", i.ModalSubmitData().CustomID)
	}
}
