package utils

// Minimal server-side i18n for fixed keys. The privacy-notice and survey UI
// copy lives in the frontend; the server provides only essentials.

var translations = map[string]map[string]string{
	"en": {
		"health.ok": "ok",
	},
	"no": {
		"health.ok": "ok",
	},
}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
