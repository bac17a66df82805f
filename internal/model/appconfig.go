package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to every solve
	DefaultProfile   string  `json:"default_profile"`
	DefaultTimeLimit float64 `json:"default_time_limit"` // seconds, 0 = use the profile's
	DefaultSeed      uint64  `json:"default_seed"`

	// Application preferences
	OutputDir       string   `json:"output_dir"`
	LogLevel        string   `json:"log_level"` // "debug", "info", "error", "severe"
	ShowProgress    bool     `json:"show_progress"`
	RecentInstances []string `json:"recent_instances"`
	Theme           string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultProfile:   "default",
		DefaultTimeLimit: defaults.TimeLimit,
		DefaultSeed:      defaults.Seed,
		OutputDir:        ".",
		LogLevel:         "info",
		ShowProgress:     true,
		RecentInstances:  []string{},
		Theme:            "system",
	}
}

// ApplyToSettings copies the default values from AppConfig into a SolverSettings.
// Zero values leave the profile's setting untouched.
func (c AppConfig) ApplyToSettings(s *SolverSettings) {
	if c.DefaultTimeLimit > 0 {
		s.TimeLimit = c.DefaultTimeLimit
	}
	if c.DefaultSeed != 0 {
		s.Seed = c.DefaultSeed
	}
}

// AddRecentInstance records path at the front of the recent list, keeping at
// most max entries and no duplicates.
func (c *AppConfig) AddRecentInstance(path string, max int) {
	list := []string{path}
	for _, p := range c.RecentInstances {
		if p != path {
			list = append(list, p)
		}
	}
	if len(list) > max {
		list = list[:max]
	}
	c.RecentInstances = list
}
