package config

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// DefaultBaseURL is used when neither api_url nor origin is configured.
const DefaultBaseURL = "http://localhost:8001"

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "api_url", Default: "", Comment: "Backend base URL; falls back to origin, then " + DefaultBaseURL},
		{Key: "origin", Default: "", Comment: "Origin the client is served from; used when api_url is empty"},
		{Key: "env_file", Default: ".env", Comment: "Dotenv file read before MDSLIDES_* variables are bound"},

		{Key: "http.timeout", Default: "60s", Comment: "Timeout for each backend request"},

		{Key: "theme.default", Default: "professional", Comment: "Theme selected before any regeneration"},

		{Key: "ui.welcome", Default: true, Comment: "Open chat with the assistant greeting"},
		{Key: "ui.glamour_style", Default: "dracula", Comment: "Glamour style used to render turns (dracula, dark, light, notty, ...)"},
		{Key: "ui.word_wrap", Default: 80, Comment: "Wrap width for rendered markdown"},

		{Key: "export.path", Default: "slides.html", Comment: "Default file the current deck is exported to"},

		{Key: "log.level", Default: "warn", Comment: "Log level: trace, debug, info, warn, error"},
		{Key: "log.format", Default: "console", Comment: "Log format on stderr: console or json"},
	}
}
