package service

import (
	"context"

	"rifamania/config"
	"rifamania/logger"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.uber.org/atomic"
)

// bot and botChatId are written before botRunning flips to true and read
// only behind it; cron goroutines observe them through the atomic flag.
var (
	bot        *telego.Bot
	botChatId  int64
	botRunning atomic.Bool
)

// Tgbot pushes raffle lifecycle notifications (moved to draw, winner drawn)
// to the configured chat. Purely best-effort: a failed notification never
// fails the operation that produced it.
type Tgbot struct{}

func (t *Tgbot) Start() error {
	if botRunning.Load() {
		return nil
	}
	token := config.GetTgBotToken()
	chatId := config.GetTgBotChatId()
	if token == "" || chatId == 0 {
		return nil
	}

	var err error
	bot, err = telego.NewBot(token)
	if err != nil {
		return err
	}
	botChatId = chatId
	botRunning.Store(true)
	logger.Info("telegram notifications enabled")
	return nil
}

func (t *Tgbot) IsRunning() bool {
	return botRunning.Load()
}

func (t *Tgbot) Stop() {
	botRunning.Store(false)
}

func (t *Tgbot) SendMessage(msg string) error {
	if !botRunning.Load() {
		return nil
	}
	if msg == "" {
		return nil
	}
	params := telego.SendMessageParams{
		ChatID: tu.ID(botChatId),
		Text:   msg,
	}
	_, err := bot.SendMessage(context.Background(), &params)
	if err != nil {
		logger.Warning("error sending telegram message:", err)
	}
	return err
}
