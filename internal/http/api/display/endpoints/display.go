// Package endpoints wires the display surface routes: the active alert,
// audio control, scheduling control and prayer info.
package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/alert"
	"github.com/minaretlabs/minaret/internal/http/api"
	"github.com/minaretlabs/minaret/internal/http/api/display"
	"github.com/minaretlabs/minaret/internal/http/api/display/packets"
	"github.com/minaretlabs/minaret/internal/model"
	"github.com/minaretlabs/minaret/internal/prayer"
	"github.com/minaretlabs/minaret/internal/redis"
	"github.com/minaretlabs/minaret/internal/scheduler"
)

type Module struct {
	dispatcher *alert.Dispatcher
	scheduler  *scheduler.Scheduler
	audio      alert.Audio
	store      scheduler.Storage
	hub        *display.Hub
}

// NewModule builds the display module. audio and hub may be nil when the
// corresponding transport is not configured.
func NewModule(d *alert.Dispatcher, s *scheduler.Scheduler, audio alert.Audio, store scheduler.Storage, hub *display.Hub) *Module {
	return &Module{dispatcher: d, scheduler: s, audio: audio, store: store, hub: hub}
}

func (m *Module) Mount(c *api.Controller) {
	c.Group.GET("/alert/active", api.ResolveEndpoint(m.activeAlert))
	c.Group.POST("/alert/close", api.ResolveEndpoint(m.closeAlert))
	c.Group.POST("/audio/play", api.ResolveEndpoint(m.playAudio))
	c.Group.POST("/audio/stop", api.ResolveEndpoint(m.stopAudio))
	c.Group.POST("/reschedule", api.ResolveEndpoint(m.reschedule))
	c.Group.GET("/prayer/next", api.ResolveEndpoint(m.nextPrayer))
	c.Group.GET("/prayer/state", api.ResolveEndpoint(m.prayerState))
	if m.hub != nil {
		c.Group.GET("/alert/feed", m.hub.Handler())
	}
}

// activeAlert serves the pull path for surfaces that just connected. The
// in-process slot is authoritative; the redis mirror covers the window right
// after a restart.
func (m *Module) activeAlert(ctx *gin.Context) (any, *api.Error) {
	if payload, ok := m.dispatcher.Active(); ok {
		return packets.ActiveAlertResponse{Active: &payload}, nil
	}
	if redis.Rdb != nil {
		if payload, ok := redis.GetActiveAlert(ctx.Request.Context()); ok {
			return packets.ActiveAlertResponse{Active: &payload}, nil
		}
	}
	return packets.ActiveAlertResponse{}, nil
}

func (m *Module) closeAlert(ctx *gin.Context) (any, *api.Error) {
	m.dispatcher.Dismiss()
	return packets.StatusResponse{Success: true}, nil
}

func (m *Module) playAudio(ctx *gin.Context) (any, *api.Error) {
	var req packets.PlayAudioRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid request body"}
	}
	if m.audio == nil {
		return nil, &api.Error{Code: http.StatusServiceUnavailable, Message: "audio transport not configured"}
	}
	m.audio.Play(req.Kind)
	return packets.StatusResponse{Success: true}, nil
}

func (m *Module) stopAudio(ctx *gin.Context) (any, *api.Error) {
	if m.audio == nil {
		return nil, &api.Error{Code: http.StatusServiceUnavailable, Message: "audio transport not configured"}
	}
	m.audio.Stop()
	return packets.StatusResponse{Success: true}, nil
}

func (m *Module) reschedule(ctx *gin.Context) (any, *api.Error) {
	if err := m.scheduler.Reschedule(); err != nil {
		log.Error().Err(err).Msg("manual reschedule failed")
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "reschedule failed"}
	}
	return packets.StatusResponse{Success: true}, nil
}

func (m *Module) nextPrayer(ctx *gin.Context) (any, *api.Error) {
	in, apiErr := m.loadInputs()
	if apiErr != nil {
		return nil, apiErr
	}

	next, ok := prayer.ResolveNext(in.timings, in.location.Timezone, in.settings.EnableSunrise, time.Now())
	if !ok {
		return nil, &api.Error{Code: http.StatusUnprocessableEntity, Message: "no resolvable prayer times"}
	}
	return packets.NextPrayerResponse{Prayer: next.Key, Display: next.DisplayKey, At: next.Time}, nil
}

func (m *Module) prayerState(ctx *gin.Context) (any, *api.Error) {
	in, apiErr := m.loadInputs()
	if apiErr != nil {
		return nil, apiErr
	}

	wait := time.Duration(in.settings.IqamaMinutes) * time.Minute
	st := prayer.Classify(in.timings, in.location.Timezone, wait, m.scheduler.IqamaDisplay, time.Now())

	resp := packets.PrayerStateResponse{State: st.Mode}
	if st.PrayerKey != "" {
		resp.Prayer = prayer.DisplayKey(st.PrayerKey, time.Now())
	}
	if st.Mode != model.StateNormal {
		t := st.IqamaTime
		resp.IqamaTime = &t
	}
	return resp, nil
}

type displayInputs struct {
	settings model.Settings
	timings  model.PrayerTimings
	location model.UserLocation
}

func (m *Module) loadInputs() (displayInputs, *api.Error) {
	settings, err := m.store.Settings()
	if err != nil {
		return displayInputs{}, &api.Error{Code: http.StatusInternalServerError, Message: "loading settings failed"}
	}
	timings, haveTimes, err := m.store.Timings()
	if err != nil {
		return displayInputs{}, &api.Error{Code: http.StatusInternalServerError, Message: "loading prayer times failed"}
	}
	location, haveLoc, err := m.store.Location()
	if err != nil {
		return displayInputs{}, &api.Error{Code: http.StatusInternalServerError, Message: "loading location failed"}
	}
	if !haveTimes || !haveLoc {
		return displayInputs{}, &api.Error{Code: http.StatusConflict, Message: "location not configured yet"}
	}
	return displayInputs{settings: settings, timings: timings, location: location}, nil
}
