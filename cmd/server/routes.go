package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/minaretlabs/minaret/internal/alert"
	"github.com/minaretlabs/minaret/internal/athan"
	"github.com/minaretlabs/minaret/internal/http/api"
	adminapi "github.com/minaretlabs/minaret/internal/http/api/admin/endpoints"
	"github.com/minaretlabs/minaret/internal/http/api/display"
	displayapi "github.com/minaretlabs/minaret/internal/http/api/display/endpoints"
	"github.com/minaretlabs/minaret/internal/scheduler"
	"github.com/minaretlabs/minaret/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	env Environment,
	dispatcher *alert.Dispatcher,
	sched *scheduler.Scheduler,
	audio alert.Audio,
	store scheduler.Storage,
	hub *display.Hub,
	athanClient *athan.Client,
	storageSystem storage.Storage,
) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		displayapi.NewModule(dispatcher, sched, audio, store, hub),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.NewAuthModule(env.SecretKey, env.AdminPasswordHash),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
	},
		adminapi.NewSettingsModule(sched),
		adminapi.NewLocationModule(athanClient, sched),
		adminapi.NewAudioModule(storageSystem),
	)

	// Uploaded sounds are served straight from disk unless Spaces carries them.
	if !env.UseSpaces {
		r.Static("/uploads", env.UploadDir)
	}
}
