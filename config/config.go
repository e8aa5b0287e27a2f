package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"sam-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads the configuration from environment variables and config.yaml.
// Secrets and server ids come from the environment, tunables (escalation
// table, room limits) from the yaml file with sensible defaults.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	cfg := &model.Config{
		BotToken:            mustEnv("BOT_TOKEN"),
		AppID:               mustEnv("APP_ID"),
		GuildID:             mustEnv("GUILD_ID"),
		ModLogChannelID:     os.Getenv("MOD_LOG_CHANNEL_ID"),
		ModmailChannelID:    os.Getenv("MODMAIL_CHANNEL_ID"),
		SuggestionChannelID: os.Getenv("SUGGESTION_CHANNEL_ID"),
		RulesChannelID:      os.Getenv("RULES_CHANNEL_ID"),
		GameRoomCategoryID:  os.Getenv("GAME_ROOM_CATEGORY_ID"),
		StudyRoomCategoryID: os.Getenv("STUDY_ROOM_CATEGORY_ID"),
		ModeratorRoleID:     mustEnv("MODERATOR_ROLE_ID"),
		MutedRoleID:         mustEnv("MUTED_ROLE_ID"),
		DBPath:              os.Getenv("DB_PATH"),
	}
	if cfg.ModLogChannelID == "" {
		log.Println("Warning: MOD_LOG_CHANNEL_ID not set, moderation logging will be disabled")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "data/bot.db"
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("data")

	v.SetDefault("moderation.escalation", map[string]model.EscalationStep{
		"3": {Action: "tempmute", Duration: "1w"},
		"5": {Action: "tempban", Duration: "2w"},
		"7": {Action: "ban"},
	})
	v.SetDefault("moderation.name_history_limit", 10)
	v.SetDefault("rooms.cap", 20)
	v.SetDefault("rooms.inactivity_timeout", 10*time.Minute)
	v.SetDefault("rooms.voice_bitrate", 96000)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: config.yaml not found, using built-in defaults.")
		} else {
			return nil, fmt.Errorf("reading config.yaml: %w", err)
		}
	}

	// Yaml map keys arrive as strings, the escalation table is keyed by
	// warning count.
	var modCfg struct {
		Escalation       map[string]model.EscalationStep `mapstructure:"escalation"`
		NameHistoryLimit int                             `mapstructure:"name_history_limit"`
	}
	if err := v.UnmarshalKey("moderation", &modCfg); err != nil {
		return nil, fmt.Errorf("parsing moderation config: %w", err)
	}
	if err := v.UnmarshalKey("rooms", &cfg.Rooms); err != nil {
		return nil, fmt.Errorf("parsing rooms config: %w", err)
	}

	cfg.Moderation.NameHistoryLimit = modCfg.NameHistoryLimit
	cfg.Moderation.Escalation = make(map[int]model.EscalationStep, len(modCfg.Escalation))
	for key, step := range modCfg.Escalation {
		count, err := strconv.Atoi(key)
		if err != nil || count < 1 {
			return nil, fmt.Errorf("escalation threshold %q must be a positive number", key)
		}
		cfg.Moderation.Escalation[count] = step
	}

	for count, step := range cfg.Moderation.Escalation {
		switch step.Action {
		case "tempmute", "tempban":
			if step.Duration == "" {
				return nil, fmt.Errorf("escalation at %d warnings: %s needs a duration", count, step.Action)
			}
		case "ban":
		default:
			return nil, fmt.Errorf("escalation at %d warnings: unknown action %q", count, step.Action)
		}
	}
	return cfg, nil
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Error: %s environment variable not set", key)
	}
	return value
}
