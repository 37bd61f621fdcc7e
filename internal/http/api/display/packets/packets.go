// Package packets holds the wire shapes of the display API.
package packets

import (
	"time"

	"github.com/minaretlabs/minaret/internal/model"
)

type PlayAudioRequest struct {
	Kind model.AlertKind `json:"kind" binding:"required"`
}

type ActiveAlertResponse struct {
	Active *model.AlertPayload `json:"active"`
}

type NextPrayerResponse struct {
	Prayer  string    `json:"prayer"`
	Display string    `json:"display"`
	At      time.Time `json:"at"`
}

type PrayerStateResponse struct {
	State     model.PrayerStateMode `json:"state"`
	Prayer    string                `json:"prayer,omitempty"`
	IqamaTime *time.Time            `json:"iqama_time,omitempty"`
}

type StatusResponse struct {
	Success bool `json:"success"`
}
