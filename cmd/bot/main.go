package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Missing secrets are the only fatal condition; nothing may start
		// polling without them.
		logger.Get().Fatalf("FATAL: Не все переменные окружения указаны корректно: %v", err)
	}

	if err := logger.Init(cfg); err != nil {
		logger.Get().Fatalf("FATAL: Could not initialize logger: %v", err)
	}
	log := logger.Get()
	log.Debug("Поехали!")

	apiClient := practicum.NewClient(cfg.Endpoint, cfg.PracticumToken, cfg.HTTPTimeout)

	// The bot only sends; bot.Start() is never called since no inbound
	// updates are handled.
	bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
	if err != nil {
		log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}

	notifier := app.NewNotifier(telegram.NewTelebotAdapter(bot), cfg.TelegramChatID, cfg.FailurePolicy, log)

	startCursor := int64(0)
	if cfg.StartFrom == config.StartFromNow {
		startCursor = time.Now().Unix()
	}
	poller := app.NewPoller(apiClient, notifier, log, startCursor)

	pollScheduler := scheduler.NewPollScheduler(cfg.PollInterval, poller.RunOnce, log)
	if err := pollScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start poll scheduler: %v", err)
	}
	log.Debugf("Бот запущен, интервал опроса %s, чат %d", cfg.PollInterval, cfg.TelegramChatID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Debug("Завершение работы...")
	pollScheduler.Stop()
}
