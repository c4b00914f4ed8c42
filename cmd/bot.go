package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/abhisek/numinary/internal/bot"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram practice bot",
	Long:  "Run the Telegram practice bot. The token is read from NUMINARY_TELEGRAM_TOKEN.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := bot.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log.SetOutput(os.Stderr)

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		api, err := tgbotapi.NewBotAPI(cfg.Token)
		if err != nil {
			return fmt.Errorf("connect to telegram: %w", err)
		}
		log.Printf("bot: authorized as @%s", api.Self.UserName)

		events := s.EventRepo()
		b := bot.New(api, cfg, bot.Options{
			KV:        s.KVRepo(),
			Events:    events,
			Generator: newGenerator(cmd),
			Tutor:     newTutor(ctx, events),
		})
		return b.Run(ctx)
	},
}
