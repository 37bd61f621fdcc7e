// Package packets holds the wire shapes of the admin API.
package packets

import "github.com/minaretlabs/minaret/internal/model"

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type LocationRequest struct {
	Name      string  `json:"name" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

type LocationResponse struct {
	Location model.UserLocation  `json:"location"`
	Timings  model.PrayerTimings `json:"timings"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type StatusResponse struct {
	Success bool `json:"success"`
}
