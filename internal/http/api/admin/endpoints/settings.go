package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/db"
	"github.com/minaretlabs/minaret/internal/http/api"
	"github.com/minaretlabs/minaret/internal/model"
)

// Rescheduler re-plans triggers after a settings or location change.
type Rescheduler interface {
	Reschedule() error
}

type SettingsModule struct {
	scheduler Rescheduler
}

func NewSettingsModule(s Rescheduler) *SettingsModule {
	return &SettingsModule{scheduler: s}
}

func (m *SettingsModule) Mount(c *api.Controller) {
	c.Group.GET("/settings", api.ResolveEndpoint(m.getSettings))
	c.Group.PUT("/settings", api.ResolveEndpoint(m.putSettings))
}

func (m *SettingsModule) getSettings(ctx *gin.Context) (any, *api.Error) {
	settings, err := db.GetSettings()
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "loading settings failed"}
	}
	return settings, nil
}

// putSettings replaces the stored settings and re-plans immediately so the
// changes apply before the next trigger fires.
func (m *SettingsModule) putSettings(ctx *gin.Context) (any, *api.Error) {
	var settings model.Settings
	if err := ctx.ShouldBindJSON(&settings); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid request body"}
	}

	if err := db.SetSettings(settings); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "saving settings failed"}
	}
	if err := m.scheduler.Reschedule(); err != nil {
		log.Error().Err(err).Msg("reschedule after settings change failed")
	}

	settings.Normalize()
	log.Info().
		Str("language", settings.Language).
		Int("iqama_minutes", settings.IqamaMinutes).
		Int("pre_adhan_minutes", settings.PreAdhanMinutes).
		Msg("settings updated")
	return settings, nil
}
