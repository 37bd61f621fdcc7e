package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/athan"
	"github.com/minaretlabs/minaret/internal/db"
	"github.com/minaretlabs/minaret/internal/http/api"
	"github.com/minaretlabs/minaret/internal/http/api/admin/packets"
	"github.com/minaretlabs/minaret/internal/model"
)

type LocationModule struct {
	athan     *athan.Client
	scheduler Rescheduler
}

func NewLocationModule(client *athan.Client, s Rescheduler) *LocationModule {
	return &LocationModule{athan: client, scheduler: s}
}

func (m *LocationModule) Mount(c *api.Controller) {
	c.Group.GET("/location", api.ResolveEndpoint(m.getLocation))
	c.Group.PUT("/location", api.ResolveEndpoint(m.putLocation))
	c.Group.POST("/location/refresh", api.ResolveEndpoint(m.refresh))
}

func (m *LocationModule) getLocation(ctx *gin.Context) (any, *api.Error) {
	loc, ok, err := db.GetLocation()
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "loading location failed"}
	}
	if !ok {
		return nil, &api.Error{Code: http.StatusNotFound, Message: "location not configured yet"}
	}
	timings, _, err := db.GetPrayerTimes()
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "loading prayer times failed"}
	}
	return packets.LocationResponse{Location: loc, Timings: timings}, nil
}

// putLocation is the onboarding operation: it fetches the day's timings for
// the new coordinates, stores both and re-plans. Nothing is written when the
// fetch fails, so a bad location can't wipe a working configuration.
func (m *LocationModule) putLocation(ctx *gin.Context) (any, *api.Error) {
	var req packets.LocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid request body"}
	}

	res, err := m.athan.Fetch(ctx.Request.Context(), req.Latitude, req.Longitude)
	if err != nil {
		log.Error().Err(err).Msg("prayer times fetch failed")
		return nil, &api.Error{Code: http.StatusBadGateway, Message: "prayer times fetch failed"}
	}

	loc := model.UserLocation{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timezone:  res.Timezone,
	}
	if err := db.SetLocation(loc); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "saving location failed"}
	}
	if err := db.SetPrayerTimes(res.Timings); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "saving prayer times failed"}
	}
	if err := m.scheduler.Reschedule(); err != nil {
		log.Error().Err(err).Msg("reschedule after location change failed")
	}

	log.Info().
		Str("name", loc.Name).
		Str("timezone", loc.Timezone).
		Msg("location updated")
	return packets.LocationResponse{Location: loc, Timings: res.Timings}, nil
}

// refresh re-fetches timings for the stored location, e.g. after midnight
// when yesterday's cache has gone stale.
func (m *LocationModule) refresh(ctx *gin.Context) (any, *api.Error) {
	loc, ok, err := db.GetLocation()
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "loading location failed"}
	}
	if !ok {
		return nil, &api.Error{Code: http.StatusConflict, Message: "location not configured yet"}
	}

	res, err := m.athan.Fetch(ctx.Request.Context(), loc.Latitude, loc.Longitude)
	if err != nil {
		log.Error().Err(err).Msg("prayer times refresh failed")
		return nil, &api.Error{Code: http.StatusBadGateway, Message: "prayer times fetch failed"}
	}
	if err := db.SetPrayerTimes(res.Timings); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "saving prayer times failed"}
	}
	if err := m.scheduler.Reschedule(); err != nil {
		log.Error().Err(err).Msg("reschedule after refresh failed")
	}
	return packets.LocationResponse{Location: loc, Timings: res.Timings}, nil
}
