package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minaretlabs/minaret/internal/alarm"
	"github.com/minaretlabs/minaret/internal/alert"
	"github.com/minaretlabs/minaret/internal/http/api"
	adminEndpoints "github.com/minaretlabs/minaret/internal/http/api/admin/endpoints"
	"github.com/minaretlabs/minaret/internal/http/api/display"
	displayEndpoints "github.com/minaretlabs/minaret/internal/http/api/display/endpoints"
	"github.com/minaretlabs/minaret/internal/http/middleware"
	"github.com/minaretlabs/minaret/internal/model"
	"github.com/minaretlabs/minaret/internal/scheduler"
)

const testSecret = "supersecret"
const testPassword = "testpassword"

var (
	router     *gin.Engine
	dispatcher *alert.Dispatcher
	sched      *scheduler.Scheduler
	testNow    time.Time
)

// memStore serves fixed timings so no database is needed.
type memStore struct {
	settings model.Settings
	timings  model.PrayerTimings
	location model.UserLocation
}

func (s *memStore) Settings() (model.Settings, error)           { return s.settings, nil }
func (s *memStore) Timings() (model.PrayerTimings, bool, error) { return s.timings, true, nil }
func (s *memStore) Location() (model.UserLocation, bool, error) { return s.location, true, nil }

// memTriggers records trigger creation without arming real timers; the test
// clock sits in the past, where real one-shots would fire instantly.
type memTriggers struct {
	pending map[string]alarm.Trigger
}

func (f *memTriggers) Create(name string, opt alarm.Options) {
	fireAt := opt.When
	if opt.Every > 0 {
		fireAt = time.Now().Add(opt.Every)
	}
	f.pending[name] = alarm.Trigger{Name: name, FireAt: fireAt, Period: opt.Every}
}

func (f *memTriggers) Get(name string) (alarm.Trigger, bool) {
	t, ok := f.pending[name]
	return t, ok
}

func (f *memTriggers) Clear(name string) { delete(f.pending, name) }

// TestMain runs once for the whole package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	loc, err := time.LoadLocation("Asia/Riyadh")
	if err != nil {
		panic(err)
	}
	// A Monday, mid-morning.
	testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, loc)

	store := &memStore{
		settings: model.DefaultSettings(),
		timings: model.PrayerTimings{
			model.Fajr:    "05:00",
			model.Sunrise: "06:15",
			model.Dhuhr:   "12:00",
			model.Asr:     "15:30",
			model.Maghrib: "18:00",
			model.Isha:    "19:30",
		},
		location: model.UserLocation{Name: "Riyadh", Timezone: "Asia/Riyadh"},
	}

	dispatcher = alert.NewDispatcher(nil)
	dispatcher.Now = func() time.Time { return testNow }

	sched = scheduler.New(store, &memTriggers{pending: make(map[string]alarm.Trigger)}, dispatcher)
	sched.Now = func() time.Time { return testNow }

	hash, err := middleware.HashPassword(testPassword)
	if err != nil {
		panic(err)
	}

	router = gin.New()
	api.MountGroup(router, api.GroupConfig{Prefix: "/api"},
		displayEndpoints.NewModule(dispatcher, sched, nil, store, display.NewHub()),
	)
	api.MountGroup(router, api.GroupConfig{Prefix: "/api/admin"},
		adminEndpoints.NewAuthModule(testSecret, hash),
	)
	api.MountGroup(router, api.GroupConfig{Prefix: "/api/admin", Auth: true, SecretKey: testSecret},
		adminEndpoints.NewSettingsModule(sched),
	)

	os.Exit(m.Run())
}

func doJSON(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNextPrayer(t *testing.T) {
	w := doJSON(t, "GET", "/api/prayer/next", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("next prayer: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Prayer  string    `json:"prayer"`
		Display string    `json:"display"`
		At      time.Time `json:"at"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Prayer != model.Dhuhr || resp.Display != model.Dhuhr {
		t.Errorf("next = %s/%s, want Dhuhr at 9am Monday", resp.Prayer, resp.Display)
	}
	if resp.At.Hour() != 12 || resp.At.Minute() != 0 {
		t.Errorf("at = %v, want 12:00", resp.At)
	}
}

func TestPrayerStateNormal(t *testing.T) {
	w := doJSON(t, "GET", "/api/prayer/state", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("prayer state: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		State string `json:"state"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.State != string(model.StateNormal) {
		t.Errorf("state = %s, want NORMAL at 9am", resp.State)
	}
}

func TestActiveAlertLifecycle(t *testing.T) {
	w := doJSON(t, "GET", "/api/alert/active", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("active alert: %d", w.Code)
	}
	var resp struct {
		Active *model.AlertPayload `json:"active"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Active != nil {
		t.Fatalf("expected no active alert, got %+v", resp.Active)
	}

	dispatcher.Dispatch(alert.Request{
		Kind:      model.AlertAdhan,
		PrayerKey: model.Dhuhr,
		Language:  "en",
	})

	w = doJSON(t, "GET", "/api/alert/active", nil, "")
	resp.Active = nil
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Active == nil || resp.Active.Kind != model.AlertAdhan {
		t.Fatalf("expected active adhan alert, got %+v", resp.Active)
	}

	w = doJSON(t, "POST", "/api/alert/close", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("close alert: %d", w.Code)
	}

	w = doJSON(t, "GET", "/api/alert/active", nil, "")
	resp.Active = nil
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Active != nil {
		t.Fatal("alert should be gone after close")
	}
}

func TestRescheduleEndpoint(t *testing.T) {
	w := doJSON(t, "POST", "/api/reschedule", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("reschedule: %d %s", w.Code, w.Body.String())
	}
}

func TestAudioWithoutTransport(t *testing.T) {
	w := doJSON(t, "POST", "/api/audio/play", map[string]string{"kind": "ADHAN"}, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("play without transport: %d, want 503", w.Code)
	}
	w = doJSON(t, "POST", "/api/audio/stop", nil, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("stop without transport: %d, want 503", w.Code)
	}
}

func TestAdminLoginAndGuard(t *testing.T) {
	// Wrong password is rejected.
	w := doJSON(t, "POST", "/api/admin/auth/login", map[string]string{"password": "nope"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d, want 401", w.Code)
	}

	// Protected routes reject missing tokens.
	w = doJSON(t, "PUT", "/api/admin/settings", model.DefaultSettings(), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("settings without token: %d, want 401", w.Code)
	}

	// Correct password yields a token the guard accepts. The settings
	// endpoint itself needs the database, so the guard check uses a
	// deliberately malformed body and expects 400, not 401.
	w = doJSON(t, "POST", "/api/admin/auth/login", map[string]string{"password": testPassword}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var loginResp struct {
		Token string `json:"token"`
	}
	json.Unmarshal(w.Body.Bytes(), &loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token")
	}

	req, _ := http.NewRequest("PUT", "/api/admin/settings", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("authed malformed settings: %d, want 400", w2.Code)
	}
}
