// Package athan fetches daily prayer times from the Aladhan API. It is
// called during onboarding and location changes only, never from a routine
// scheduling pass.
package athan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/model"
)

const defaultBaseURL = "https://api.aladhan.com/v1/timings"

// Calculation method 4 is Umm al-Qura.
const defaultMethod = 4

type Client struct {
	BaseURL string
	Method  int
	HTTP    *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		Method:  defaultMethod,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Result carries the day's timings plus the location's timezone, which the
// scheduler needs for every "now" computation.
type Result struct {
	Timings  model.PrayerTimings
	Timezone string
}

type apiResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   struct {
		Timings map[string]string `json:"timings"`
		Meta    struct {
			Timezone string `json:"timezone"`
		} `json:"meta"`
	} `json:"data"`
}

// Fetch loads today's timings for the given coordinates. The response is
// trimmed to the six keys the scheduler understands; Aladhan returns more.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*Result, error) {
	url := fmt.Sprintf("%s?latitude=%f&longitude=%f&method=%d", c.BaseURL, lat, lon, c.Method)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	log.Info().Float64("lat", lat).Float64("lon", lon).Msg("fetching prayer times")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching prayer times: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prayer times API returned HTTP %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding prayer times: %w", err)
	}
	if body.Code != http.StatusOK {
		return nil, fmt.Errorf("prayer times API error: %s", body.Status)
	}

	timings := make(model.PrayerTimings, len(model.AllKeys))
	for _, key := range model.AllKeys {
		if v, ok := body.Data.Timings[key]; ok {
			timings[key] = v
		}
	}
	if len(timings) == 0 {
		return nil, fmt.Errorf("prayer times API returned no usable timings")
	}

	return &Result{Timings: timings, Timezone: body.Data.Meta.Timezone}, nil
}
