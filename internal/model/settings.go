package model

// Settings is the user-editable configuration record. It is re-read from
// storage on every trigger fire rather than cached, so settings changes take
// effect on the next event without a restart.
type Settings struct {
	Language        string `json:"language"`
	PreAdhanMinutes int    `json:"pre_adhan_minutes"`
	IqamaMinutes    int    `json:"iqama_minutes"`
	EnableSunrise   bool   `json:"enable_sunrise"`
	AdhanSound      bool   `json:"adhan_sound"`
	FullscreenIqama bool   `json:"fullscreen_iqama"`
	AdhkarEnabled   bool   `json:"adhkar_enabled"`
	AdhkarInterval  int    `json:"adhkar_interval_minutes"`
}

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings() Settings {
	return Settings{
		Language:        "ar",
		PreAdhanMinutes: 15,
		IqamaMinutes:    25,
		EnableSunrise:   false,
		AdhanSound:      true,
		FullscreenIqama: false,
		AdhkarEnabled:   true,
		AdhkarInterval:  30,
	}
}

// Normalize fills unset numeric fields with defaults so that a partially
// stored record never yields a zero lead time or a zero adhkar period.
func (s *Settings) Normalize() {
	def := DefaultSettings()
	if s.Language == "" {
		s.Language = def.Language
	}
	if s.PreAdhanMinutes <= 0 {
		s.PreAdhanMinutes = def.PreAdhanMinutes
	}
	if s.IqamaMinutes <= 0 {
		s.IqamaMinutes = def.IqamaMinutes
	}
	if s.AdhkarInterval <= 0 {
		s.AdhkarInterval = def.AdhkarInterval
	}
}
