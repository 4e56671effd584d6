package config

import (
	"os"
	"strconv"
)

const (
	name    = "rifamania"
	version = "1.2.0"
)

func GetName() string {
	return name
}

func GetVersion() string {
	return version
}

func IsDebug() bool {
	return os.Getenv("RIFAMANIA_DEBUG") == "true"
}

func GetListen() string {
	listen := os.Getenv("RIFAMANIA_LISTEN")
	if listen == "" {
		return "0.0.0.0"
	}
	return listen
}

func GetPort() int {
	port := os.Getenv("RIFAMANIA_PORT")
	if port == "" {
		return 3333
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return 3333
	}
	return p
}

func GetBasePath() string {
	basePath := os.Getenv("RIFAMANIA_BASE_PATH")
	if basePath == "" {
		return "/"
	}
	if basePath[len(basePath)-1] != '/' {
		basePath += "/"
	}
	return basePath
}

func GetDBPath() string {
	dbPath := os.Getenv("RIFAMANIA_DB_PATH")
	if dbPath == "" {
		return "db/rifamania.db"
	}
	return dbPath
}

func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// dev fallback, never used when the .env is present
		return "rifamania-dev-secret"
	}
	return secret
}

func GetCorsOrigin() string {
	origin := os.Getenv("RIFAMANIA_WEB_ORIGIN")
	if origin == "" {
		return "*"
	}
	return origin
}

func GetTgBotToken() string {
	return os.Getenv("TG_BOT_TOKEN")
}

func GetTgBotChatId() int64 {
	id, err := strconv.ParseInt(os.Getenv("TG_CHAT_ID"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func IsTgBotEnabled() bool {
	return GetTgBotToken() != "" && GetTgBotChatId() != 0
}
