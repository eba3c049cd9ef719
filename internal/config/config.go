package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName          = "sakani"
	SettingsFileName = "config.json"
)

// Settings contains the collection and rate limiting knobs. They live in a
// JSON5 settings file under the user config dir; flags override them.
type Settings struct {
	// Data collection categories.
	Overview                  bool `json:"overview"`
	MegaProjects              bool `json:"mega_projects"`
	ProjectsUnderConstruction bool `json:"projects_under_construction"`
	ProjectsReadymade         bool `json:"projects_readymade"`
	MarketUnitBuy             bool `json:"market_unit_buy"`
	MarketLandsBuy            bool `json:"market_lands_buy"`
	MarketUnitRent            bool `json:"market_unit_rent"`

	// Test mode limits collection to the first item per category.
	TestRun bool `json:"test_run"`

	// Worker pool.
	UseConcurrency bool `json:"use_concurrency"`
	MaxWorkers     int  `json:"max_workers"`

	// Rate limiting. PauseMinutes is the global pause applied when the
	// gateway answers 403/429; SpeedFactor is the per-request delay in
	// seconds.
	PauseMinutes int     `json:"pause_minutes"`
	SpeedFactor  float64 `json:"speed_factor"`
	MaxRetries   int     `json:"max_retries"`

	// Additional unit data, fetched for each available unit.
	UnitInsights      bool `json:"unit_insights"`
	UnitProjectTrends bool `json:"unit_project_trends"`
	UnitTransactions  bool `json:"unit_transactions"`

	// Additional project data, fetched for each project.
	ProjectInsight      bool `json:"project_insight"`
	PriceTrends         bool `json:"price_trends"`
	ProjectTransactions bool `json:"project_transactions"`
	Demographics        bool `json:"demographics"`

	// Resolve geo_map media URLs into embedded GeoJSON features.
	ResolveGeoFeatures bool `json:"resolve_geo_features"`
}

func DefaultSettings() Settings {
	return Settings{
		Overview:                  true,
		MegaProjects:              true,
		ProjectsUnderConstruction: true,
		ProjectsReadymade:         true,
		MarketUnitBuy:             true,
		MarketLandsBuy:            true,
		MarketUnitRent:            true,
		UseConcurrency:            true,
		MaxWorkers:                envInt("SAKANI_MAX_WORKERS", 2),
		PauseMinutes:              envInt("SAKANI_PAUSE_MINUTES", 2),
		SpeedFactor:               0.05,
		MaxRetries:                envInt("SAKANI_MAX_RETRIES", 5),
		UnitInsights:              true,
		UnitProjectTrends:         true,
		UnitTransactions:          true,
		ProjectInsight:            true,
		PriceTrends:               true,
		ProjectTransactions:       true,
		Demographics:              true,
	}
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func SettingsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

func Load() (Settings, error) {
	settings := DefaultSettings()
	path, err := SettingsPath()
	if err != nil {
		return settings, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return settings, nil
	}

	if err := json5.Unmarshal(data, &settings); err != nil {
		return settings, err
	}

	return settings, nil
}

// Init writes the default settings file if it doesn't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	settingsPath := filepath.Join(dir, SettingsFileName)
	if _, err := os.Stat(settingsPath); errors.Is(err, os.ErrNotExist) {
		if err := writeSettings(settingsPath, DefaultSettings()); err != nil {
			return created, err
		}
		created = append(created, settingsPath)
	}

	return created, nil
}

func writeSettings(path string, settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
