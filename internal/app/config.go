package app

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	apperrors "github.com/shhac/coordinator/internal/errors"
)

// Storage backends.
const (
	BackendJSON        = "json"
	BackendDiskv       = "diskv"
	BackendPreferences = "preferences"
	BackendMemory      = "memory"
)

// Snapshot encodings for the diskv backend.
const (
	CodecProto = "proto"
	CodecJSON  = "json"
)

// Animation curve names.
const (
	CurveLinear    = "linear"
	CurveEaseIn    = "ease-in"
	CurveEaseOut   = "ease-out"
	CurveEaseInOut = "ease-in-out"
)

// Config holds application-wide configuration.
type Config struct {
	// Debug enables debug logging and additional diagnostics
	Debug bool `yaml:"debug"`

	// LogFile overrides the platform log location when set
	LogFile string `yaml:"log_file"`

	// StoragePath is the directory where header snapshots are stored
	StoragePath string `yaml:"storage_path"`

	// Storage selects the snapshot repository backend
	Storage string `yaml:"storage"`

	// Codec selects the on-disk encoding of the diskv backend
	Codec string `yaml:"codec"`

	// StateKey names the snapshot restored at start and saved on close
	StateKey string `yaml:"state_key"`

	Header    HeaderConfig    `yaml:"header"`
	Animation AnimationConfig `yaml:"animation"`
}

// HeaderConfig sizes the demo header and its content.
type HeaderConfig struct {
	Height float32 `yaml:"height"`
	// Pinned is the part of the header that never collapses
	Pinned    float32 `yaml:"pinned"`
	ItemCount int     `yaml:"item_count"`
}

// AnimationConfig describes programmatic collapse and expand transitions.
type AnimationConfig struct {
	Duration time.Duration `yaml:"duration"`
	Curve    string        `yaml:"curve"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:       false,
		StoragePath: "", // Will use DefaultStoragePath() from storage package
		Storage:     BackendJSON,
		Codec:       CodecProto,
		StateKey:    "default",
		Header: HeaderConfig{
			Height:    160,
			Pinned:    48,
			ItemCount: 60,
		},
		Animation: AnimationConfig{
			Duration: 100 * time.Millisecond,
			Curve:    CurveLinear,
		},
	}
}

// ConfigFromEnv creates a configuration from environment variables.
// Reads COORDINATOR_DEBUG, COORDINATOR_LOG_FILE, COORDINATOR_STORAGE_PATH,
// COORDINATOR_STORAGE, COORDINATOR_CODEC and COORDINATOR_STATE_KEY.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if debugStr := os.Getenv("COORDINATOR_DEBUG"); debugStr != "" {
		if debug, err := strconv.ParseBool(debugStr); err == nil {
			c.Debug = debug
		}
	}
	if logFile := os.Getenv("COORDINATOR_LOG_FILE"); logFile != "" {
		c.LogFile = logFile
	}
	if storagePath := os.Getenv("COORDINATOR_STORAGE_PATH"); storagePath != "" {
		c.StoragePath = storagePath
	}
	if backend := os.Getenv("COORDINATOR_STORAGE"); backend != "" {
		c.Storage = backend
	}
	if codec := os.Getenv("COORDINATOR_CODEC"); codec != "" {
		c.Codec = codec
	}
	if key := os.Getenv("COORDINATOR_STATE_KEY"); key != "" {
		c.StateKey = key
	}
}

// LoadConfigFile overlays the YAML file at path on top of the defaults,
// then applies the environment. Unknown fields are rejected.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration file %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error
	switch c.Storage {
	case BackendJSON, BackendDiskv, BackendPreferences, BackendMemory:
	default:
		err = multierr.Append(err, apperrors.ValidationError{
			Field:   "storage",
			Message: fmt.Sprintf("unknown backend %q", c.Storage),
		})
	}
	switch c.Codec {
	case CodecProto, CodecJSON:
	default:
		err = multierr.Append(err, apperrors.ValidationError{
			Field:   "codec",
			Message: fmt.Sprintf("unknown codec %q", c.Codec),
		})
	}
	if c.StateKey == "" {
		err = multierr.Append(err, apperrors.ValidationError{Field: "state_key", Message: "must not be empty"})
	}
	if c.Header.Height <= 0 {
		err = multierr.Append(err, apperrors.ValidationError{Field: "header.height", Message: "must be positive"})
	}
	if c.Header.Pinned < 0 || c.Header.Pinned > c.Header.Height {
		err = multierr.Append(err, apperrors.ValidationError{
			Field:   "header.pinned",
			Message: "must be between 0 and header.height",
		})
	}
	if c.Header.ItemCount < 0 {
		err = multierr.Append(err, apperrors.ValidationError{Field: "header.item_count", Message: "must not be negative"})
	}
	if c.Animation.Duration < 0 {
		err = multierr.Append(err, apperrors.ValidationError{Field: "animation.duration", Message: "must not be negative"})
	}
	if _, cerr := ParseCurve(c.Animation.Curve); cerr != nil {
		err = multierr.Append(err, cerr)
	}
	return err
}

// ParseCurve maps a curve name to a Fyne animation curve.
func ParseCurve(name string) (fyne.AnimationCurve, error) {
	switch name {
	case CurveLinear, "":
		return fyne.AnimationLinear, nil
	case CurveEaseIn:
		return fyne.AnimationEaseIn, nil
	case CurveEaseOut:
		return fyne.AnimationEaseOut, nil
	case CurveEaseInOut:
		return fyne.AnimationEaseInOut, nil
	default:
		return nil, apperrors.ValidationError{
			Field:   "animation.curve",
			Message: fmt.Sprintf("unknown curve %q", name),
		}
	}
}
