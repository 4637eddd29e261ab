// config.go: settings struct and functions to load and save the
// application configuration.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var configFiles embed.FS

// MainSettings contains application-wide settings.
type MainSettings struct {
	Name string      // instance name, used in log records
	Log  LogSettings // main log file settings
}

// LogSettings contains settings for a rotating log file.
type LogSettings struct {
	Enabled    bool   // true to write the main application log file
	Path       string // path to the log file
	MaxSizeMB  int    // rotate after this many megabytes
	MaxBackups int    // rotated files to keep
	MaxAgeDays int    // days to keep rotated files
}

// StoreSettings configures the git-backed snapshot store.
type StoreSettings struct {
	Path          string // path to the taxonomy repository working tree
	DefaultBranch string // branch restored after each snapshot checkout
	AuthorName    string // commit author for ingested releases
	AuthorEmail   string // commit author email
	CacheTTL      int    // snapshot cache TTL in minutes, 0 keeps entries forever
}

// DiffSettings configures the version differ and its rename heuristic.
// The rename threshold and boosts are empirical; they are configuration,
// not fixed business logic.
type DiffSettings struct {
	DetectRenames   bool    // true to run the rename detection pass
	RenameThreshold float64 // minimum score to accept a rename candidate
	GenusBoost      float64 // score boost when genus matches
	FamilyBoost     float64 // score boost when family matches
}

// MappingSettings configures the migration mapper.
type MappingSettings struct {
	CacheSize  int    // bounded LRU size for built mappings, in version pairs
	NameColumn string // default entity-name column for dataset transforms
}

// TelemetrySettings contains settings for the metrics endpoint.
type TelemetrySettings struct {
	Enabled bool   // true to serve Prometheus metrics
	Listen  string // IP address and port to listen on
}

// Settings is the root configuration for the application.
type Settings struct {
	Debug     bool // true to enable debug output
	Main      MainSettings
	Store     StoreSettings
	Diff      DiffSettings
	Mapping   MappingSettings
	Telemetry TelemetrySettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into a new
// Settings instance and stores it as the active configuration.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the
// configuration file, creating one from the embedded template when none
// exists.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded default config to the first
// config path and reads it back in.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(getDefaultConfig()), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the embedded default configuration template.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading embedded config file: %v", err)
	}
	return string(data)
}

// GetDefaultConfigPaths returns the config file search paths: the working
// directory first, then the user config directory.
func GetDefaultConfigPaths() ([]string, error) {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "mslgit"))
	}
	return paths, nil
}

// ValidateSettings rejects configurations the engine cannot run with.
func ValidateSettings(settings *Settings) error {
	if settings.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if settings.Diff.RenameThreshold < 0 || settings.Diff.RenameThreshold > 1 {
		return fmt.Errorf("diff.renamethreshold must be within [0, 1], got %v", settings.Diff.RenameThreshold)
	}
	if settings.Mapping.CacheSize < 1 {
		return fmt.Errorf("mapping.cachesize must be at least 1, got %d", settings.Mapping.CacheSize)
	}
	return nil
}

// GetSettings returns the active settings instance, nil before Load.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting is a convenience alias for GetSettings kept for call sites that
// read a single value.
func Setting() *Settings {
	return GetSettings()
}
