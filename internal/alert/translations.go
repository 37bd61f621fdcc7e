package alert

// Alert text templates per language. "{prayer}" is substituted with the
// localized prayer name at dispatch time.
var translations = map[string]map[string]string{
	"ar": {
		"alertPreTitle":     "اقترب وقت الصلاة",
		"alertPreMsg":       "بقي القليل على أذان {prayer}",
		"alertAdhanTitle":   "حان الآن وقت الأذان",
		"alertAdhanMsg":     "حان الآن وقت صلاة {prayer}",
		"alertSunriseTitle": "الشروق",
		"alertSunriseMsg":   "طلعت الشمس، انتهى وقت صلاة الفجر",
		"alertIqamaTitle":   "الإقامة",
		"alertAdhkarTitle":  "تذكير",
		"prayerFajr":        "الفجر",
		"prayerSunrise":     "الشروق",
		"prayerDhuhr":       "الظهر",
		"prayerAsr":         "العصر",
		"prayerMaghrib":     "المغرب",
		"prayerIsha":        "العشاء",
		"prayerJumuah":      "الجمعة",
		"btnStopAudio":      "إيقاف الصوت",
		"btnMuted":          "صامت",
		"btnClose":          "إغلاق",
	},
	"en": {
		"alertPreTitle":     "Prayer time is near",
		"alertPreMsg":       "{prayer} adhan is coming up",
		"alertAdhanTitle":   "It is time for prayer",
		"alertAdhanMsg":     "It is now time for {prayer} prayer",
		"alertSunriseTitle": "Sunrise",
		"alertSunriseMsg":   "The sun has risen; Fajr time has ended",
		"alertIqamaTitle":   "Iqama",
		"alertAdhkarTitle":  "Reminder",
		"prayerFajr":        "Fajr",
		"prayerSunrise":     "Sunrise",
		"prayerDhuhr":       "Dhuhr",
		"prayerAsr":         "Asr",
		"prayerMaghrib":     "Maghrib",
		"prayerIsha":        "Isha",
		"prayerJumuah":      "Jumuah",
		"btnStopAudio":      "Stop audio",
		"btnMuted":          "Muted",
		"btnClose":          "Close",
	},
}

// tr looks up a template, falling back to Arabic and then to the key itself
// so a missing entry never blanks an alert.
func tr(lang, key string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := translations["ar"][key]; ok {
		return s
	}
	return key
}

func buttonLabels(lang string) map[string]string {
	return map[string]string{
		"stopAudio": tr(lang, "btnStopAudio"),
		"muted":     tr(lang, "btnMuted"),
		"close":     tr(lang, "btnClose"),
	}
}
