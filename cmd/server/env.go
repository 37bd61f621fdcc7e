package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

type Environment struct {
	Environment       string
	ServerAddress     string
	SecretKey         string
	AdminPasswordHash string
	DatabaseURL       string
	MigrationsPath    string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string
	MQTTClientID  string

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
	UploadDir       string

	DefaultAdhanURL string
	DefaultIqamaURL string
}

// LoadEnvironment reads and validates env vars
func LoadEnvironment() Environment {
	env := Environment{
		Environment:       os.Getenv("APP_ENV"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SecretKey:         os.Getenv("JWT_SECRET"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		ServerAddress:     os.Getenv("SERVER_ADDRESS"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:  os.Getenv("MQTT_CLIENT_ID"),

		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),

		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),
		UploadDir:       os.Getenv("UPLOAD_DIR"),

		DefaultAdhanURL: os.Getenv("DEFAULT_ADHAN_URL"),
		DefaultIqamaURL: os.Getenv("DEFAULT_IQAMA_URL"),
	}

	// Basic validation
	if env.DatabaseURL == "" || env.SecretKey == "" || env.ServerAddress == "" {
		log.Fatal().Msg("missing required environment variables")
	}
	if env.AdminPasswordHash == "" {
		log.Fatal().Msg("ADMIN_PASSWORD_HASH is required")
	}

	if env.MQTTClientID == "" {
		env.MQTTClientID = "minaret-server"
	}
	if env.UploadDir == "" {
		env.UploadDir = "./uploads"
	}

	return env
}
