package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sam-bot/commands"
)

// Run opens the gateway connection, registers the slash commands, starts
// the scheduler and blocks until SIGINT or SIGTERM.
func (b *Bot) Run() {
	if err := b.Session.Open(); err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	cmds := commands.GenerateCommands()
	log.Printf("Registering %d commands for guild %s...", len(cmds), b.Config.GuildID)
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Config.AppID, b.Config.GuildID, cmds)
	if err != nil {
		log.Fatalf("Cannot register commands for guild %s: %v", b.Config.GuildID, err)
	}
	b.RegisteredCommands = registered

	b.Scheduler.Start()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}
