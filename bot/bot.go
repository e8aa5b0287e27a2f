package bot

import (
	"log"
	"time"

	"sam-bot/model"
	"sam-bot/moderation"
	"sam-bot/rooms"
	"sam-bot/scheduler"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// Bot bundles the Discord session with the engines driving the server.
type Bot struct {
	Session   *discordgo.Session
	DB        *sqlx.DB
	Scheduler *scheduler.Scheduler
	Config    *model.Config

	Engine *moderation.Engine
	Rooms  *rooms.Manager

	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	RegisteredCommands []*discordgo.ApplicationCommand
}

// New creates the session, the scheduler and the engines and registers
// every scheduled job handler. The session is not opened yet.
func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildVoiceStates

	sched := scheduler.New(db, 30*time.Second)

	platform := &discordPlatform{session: dg, cfg: cfg}
	notifier := &discordNotifier{session: dg, cfg: cfg}

	engine := moderation.NewEngine(db, sched, platform, notifier, cfg)
	registerHandler := func(kind string, fn func(payload string)) {
		sched.RegisterHandler(kind, fn)
	}
	engine.RegisterJobHandlers(registerHandler)

	roomManager := rooms.NewManager(&discordRoomPlatform{session: dg, cfg: cfg}, sched, cfg)
	roomManager.RegisterJobHandlers(registerHandler)

	return &Bot{
		Session:         dg,
		DB:              db,
		Scheduler:       sched,
		Config:          cfg,
		Engine:          engine,
		Rooms:           roomManager,
		CommandHandlers: make(map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)),
	}, nil
}

// Close stops the scheduler and closes the session.
func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	b.Scheduler.Stop()
	if err := b.Session.Close(); err != nil {
		log.Printf("Error closing session: %v", err)
	}
}
