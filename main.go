package main

import (
	"os"
	"os/signal"
	"syscall"

	"rifamania/config"
	"rifamania/database"
	"rifamania/logger"
	"rifamania/web"
	"rifamania/web/global"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
)

func runWebServer() {
	if config.IsDebug() {
		logger.InitLogger(logging.DEBUG)
	} else {
		logger.InitLogger(logging.INFO)
	}

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		logger.Error("init database failed:", err)
		os.Exit(1)
	}

	server := web.NewServer()
	global.SetWebServer(server)
	err = server.Start()
	if err != nil {
		logger.Error("start web server failed:", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	err = server.Stop()
	if err != nil {
		logger.Warning("stop web server failed:", err)
	}
}

func main() {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()

	logger.Infof("%s %s", config.GetName(), config.GetVersion())
	runWebServer()
}
