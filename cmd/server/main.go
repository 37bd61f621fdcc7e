package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/alarm"
	"github.com/minaretlabs/minaret/internal/alert"
	"github.com/minaretlabs/minaret/internal/athan"
	"github.com/minaretlabs/minaret/internal/db"
	"github.com/minaretlabs/minaret/internal/http/api/display"
	"github.com/minaretlabs/minaret/internal/mqtt"
	"github.com/minaretlabs/minaret/internal/redis"
	"github.com/minaretlabs/minaret/internal/scheduler"
	"github.com/minaretlabs/minaret/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on process environment")
	}
	env := LoadEnvironment()

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)

	// audio/alert transport over MQTT; the server still works without a
	// broker, surfaces then rely on the HTTP pull path and WebSocket feed
	var audio alert.Audio
	pushers := []alert.Pusher{redis.AlertMirror{}}

	sources := mqtt.KVAudioSources{
		DefaultAdhan: env.DefaultAdhanURL,
		DefaultIqama: env.DefaultIqamaURL,
	}
	if env.MQTTBrokerURL != "" {
		publisher, err := mqtt.Connect(env.MQTTBrokerURL, env.MQTTClientID, sources)
		if err != nil {
			log.Warn().Err(err).Msg("MQTT unavailable, continuing without it")
		} else {
			audio = publisher
			pushers = append(pushers, publisher)
		}
	}

	hub := display.NewHub()
	pushers = append(pushers, hub)

	dispatcher := alert.NewDispatcher(audio, pushers...)

	var storageSystem storage.Storage
	if env.UseSpaces {
		spaces, err := storage.NewSpacesStorage(
			env.SpacesEndpoint,
			env.SpacesRegion,
			env.SpacesBucket,
			env.SpacesCDNURL,
			env.SpacesAccessKey,
			env.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("spaces storage init failed")
		}
		storageSystem = spaces
	} else {
		storageSystem = storage.NewLocalStorage(env.UploadDir)
	}

	store := db.StoreAdapter{}

	var sched *scheduler.Scheduler
	platform := alarm.NewPlatform(func(t alarm.Trigger) { sched.HandleTrigger(t) })
	sched = scheduler.New(store, platform, dispatcher)
	sched.Start()

	r := gin.Default()
	RegisterRoutes(r, env, dispatcher, sched, audio, store, hub, athan.NewClient(), storageSystem)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
