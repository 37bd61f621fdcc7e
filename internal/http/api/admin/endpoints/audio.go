package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/db"
	"github.com/minaretlabs/minaret/internal/http/api"
	"github.com/minaretlabs/minaret/internal/http/api/admin/packets"
	"github.com/minaretlabs/minaret/internal/storage"
)

// 10 MiB is plenty for an adhan recording.
const maxAudioUpload = 10 << 20

type AudioModule struct {
	storage storage.Storage
}

func NewAudioModule(s storage.Storage) *AudioModule {
	return &AudioModule{storage: s}
}

func (m *AudioModule) Mount(c *api.Controller) {
	c.Group.POST("/audio/:kind", api.ResolveEndpoint(m.upload))
	c.Group.DELETE("/audio/:kind", api.ResolveEndpoint(m.remove))
}

func audioKey(kind string) (string, bool) {
	switch kind {
	case "adhan":
		return db.KeyCustomAdhan, true
	case "iqama":
		return db.KeyCustomIqama, true
	default:
		return "", false
	}
}

// upload stores a custom adhan or iqama sound and records its URL; the audio
// player picks it up on the next playback.
func (m *AudioModule) upload(ctx *gin.Context) (any, *api.Error) {
	key, ok := audioKey(ctx.Param("kind"))
	if !ok {
		return nil, &api.Error{Code: http.StatusNotFound, Message: "unknown audio kind"}
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "missing file field"}
	}
	if fileHeader.Size > maxAudioUpload {
		return nil, &api.Error{Code: http.StatusRequestEntityTooLarge, Message: "audio file too large"}
	}

	url, err := m.storage.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("kind", ctx.Param("kind")).Msg("audio upload failed")
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "saving audio failed"}
	}

	if err := db.Set(key, url); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "recording audio url failed"}
	}

	log.Info().Str("kind", ctx.Param("kind")).Str("url", url).Msg("custom audio uploaded")
	return packets.UploadResponse{URL: url}, nil
}

// remove reverts the given kind to the bundled default sound.
func (m *AudioModule) remove(ctx *gin.Context) (any, *api.Error) {
	key, ok := audioKey(ctx.Param("kind"))
	if !ok {
		return nil, &api.Error{Code: http.StatusNotFound, Message: "unknown audio kind"}
	}
	if err := db.Remove(key); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "removing custom audio failed"}
	}
	return packets.StatusResponse{Success: true}, nil
}
