package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGlamourStyle   = "dark"
	DefaultRequestTimeout = 30 * time.Second
	appName               = "chronote-ask"
)

// Duration accepts "30s" style strings or plain numbers of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := parseDuration(node.Value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(f * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("invalid duration value: %q", raw)
}

type AppConfig struct {
	APIURL               string   `yaml:"api_url"`
	Token                string   `yaml:"token"`
	ServerID             string   `yaml:"server_id"`
	DBPath               string   `yaml:"db_path"`
	ExportDir            string   `yaml:"export_dir"`
	LogPath              string   `yaml:"log_path"`
	LogLevel             string   `yaml:"log_level"`
	AskAllowed           bool     `yaml:"ask_allowed"`
	SharingEnabled       bool     `yaml:"sharing_enabled"`
	PublicSharingEnabled bool     `yaml:"public_sharing_enabled"`
	RequestTimeout       Duration `yaml:"request_timeout"`
	GlamourStyle         string   `yaml:"glamour_style"`

	// ResetCache drops the persisted cache on open. Flag only.
	ResetCache bool `yaml:"-"`
}

func Defaults() AppConfig {
	return AppConfig{
		AskAllowed:     true,
		LogLevel:       "info",
		RequestTimeout: Duration(DefaultRequestTimeout),
		GlamourStyle:   DefaultGlamourStyle,
	}
}

type LoadOptions struct {
	// ConfigPath is the --config flag. Empty means the default location,
	// which may be absent.
	ConfigPath string
	// DotenvPath defaults to .env in the working directory.
	DotenvPath string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Apply receives the config last, for explicitly set flags.
	Apply func(*AppConfig)
}

// Load layers defaults, the YAML file, .env, the environment and flags, in
// that order of precedence.
func Load(opts LoadOptions) (AppConfig, error) {
	cfg := Defaults()

	path, explicit, err := DetectConfigPath(opts.ConfigPath, opts.LookupEnv)
	if err != nil {
		return cfg, err
	}
	if err := loadFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return cfg, err
		}
	}

	dotenvPath := opts.DotenvPath
	if dotenvPath == "" {
		dotenvPath = ".env"
	}
	dotenv, err := godotenv.Read(dotenvPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("read %s: %w", dotenvPath, err)
	}
	if err := applyEnv(&cfg, envLookup(opts.LookupEnv, dotenv)); err != nil {
		return cfg, err
	}

	if opts.Apply != nil {
		opts.Apply(&cfg)
	}
	if err := finalize(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// envLookup prefers the process environment over .env values.
func envLookup(lookup func(string) (string, bool), dotenv map[string]string) func(string) (string, bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"CHRONOTE_API_URL":    &cfg.APIURL,
		"CHRONOTE_TOKEN":      &cfg.Token,
		"CHRONOTE_SERVER_ID":  &cfg.ServerID,
		"CHRONOTE_DB_PATH":    &cfg.DBPath,
		"CHRONOTE_EXPORT_DIR": &cfg.ExportDir,
		"CHRONOTE_LOG_PATH":   &cfg.LogPath,
		"CHRONOTE_LOG_LEVEL":  &cfg.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	bools := map[string]*bool{
		"CHRONOTE_ASK_ALLOWED":            &cfg.AskAllowed,
		"CHRONOTE_SHARING_ENABLED":        &cfg.SharingEnabled,
		"CHRONOTE_PUBLIC_SHARING_ENABLED": &cfg.PublicSharingEnabled,
	}
	for key, dst := range bools {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", key, err)
		}
		*dst = b
	}
	if v, ok := lookup("CHRONOTE_REQUEST_TIMEOUT"); ok {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("parse CHRONOTE_REQUEST_TIMEOUT: %w", err)
		}
		if d > 0 {
			cfg.RequestTimeout = Duration(d)
		}
	}
	return nil
}

func finalize(cfg *AppConfig) error {
	cfg.APIURL = strings.TrimSpace(cfg.APIURL)
	cfg.ServerID = strings.TrimSpace(cfg.ServerID)
	if cfg.RequestTimeout.Duration() <= 0 {
		cfg.RequestTimeout = Duration(DefaultRequestTimeout)
	}
	if cfg.GlamourStyle == "" {
		cfg.GlamourStyle = DefaultGlamourStyle
	}
	if cfg.PublicSharingEnabled && !cfg.SharingEnabled {
		cfg.PublicSharingEnabled = false
	}

	if cfg.DBPath == "" {
		dir, err := DetectDataDir("")
		if err != nil {
			return err
		}
		cfg.DBPath = filepath.Join(dir, "cache.sqlite")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	return nil
}

// Validate reports settings the remote commands cannot run without.
func (c AppConfig) Validate() error {
	var missing []string
	if c.APIURL == "" {
		missing = append(missing, "api_url")
	}
	if c.ServerID == "" {
		missing = append(missing, "server_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DetectConfigPath resolves the YAML config location. explicit reports
// whether the caller asked for this file, in which case it must exist.
func DetectConfigPath(flagValue string, lookup func(string) (string, bool)) (string, bool, error) {
	if flagValue != "" {
		return filepath.Clean(flagValue), true, nil
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if fromEnv, ok := lookup("CHRONOTE_CONFIG"); ok && fromEnv != "" {
		return filepath.Clean(fromEnv), true, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.yaml"), false, nil
}

func DetectDataDir(explicit string) (string, error) {
	if explicit != "" {
		return filepath.Clean(explicit), nil
	}
	if fromEnv := os.Getenv("XDG_DATA_HOME"); fromEnv != "" {
		return filepath.Join(fromEnv, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", appName), nil
}
