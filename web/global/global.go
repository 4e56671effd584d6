package global

import (
	"context"

	"github.com/robfig/cron/v3"
)

type WebServer interface {
	GetCron() *cron.Cron
	GetCtx() context.Context
}

// TelegramService is the notification surface services and jobs talk to.
// Anything implementing it can be injected as the bot.
type TelegramService interface {
	SendMessage(msg string) error
	IsRunning() bool
}

var (
	webServer WebServer

	// TgBot is injected at startup when the bot is enabled; nil otherwise.
	TgBot TelegramService
)

func SetWebServer(s WebServer) {
	webServer = s
}

func GetWebServer() WebServer {
	return webServer
}

func SetTgBot(t TelegramService) {
	TgBot = t
}
