// Package config loads run settings from a YAML file and TRAVELCORE_*
// environment overrides, and maps them onto the options of the storage,
// blob and shadow-price packages.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"travelcore/internal/blob"
	"travelcore/internal/core"
	"travelcore/internal/shadowprice"
	"travelcore/pkg/domain"
)

// Settings is the full run configuration.
type Settings struct {
	// Schema names the installed variant bound at startup.
	Schema         string  `yaml:"schema" validate:"required"`
	Workers        int     `yaml:"workers" validate:"gte=0"`
	MinutesPerDay  int     `yaml:"minutes_per_day" validate:"eq=1440"`
	Passes         int     `yaml:"passes" validate:"gte=1"`
	Tolerance      float64 `yaml:"tolerance" validate:"gte=0"`
	EstimationMode bool    `yaml:"estimation_mode"`

	ParkAndRide ParkAndRideSettings `yaml:"park_and_ride"`
	ShadowPrice ShadowPriceSettings `yaml:"shadow_price"`
	Storage     StorageSettings     `yaml:"storage"`
	Blob        BlobSettings        `yaml:"blob"`
	Logging     LoggingSettings     `yaml:"logging"`
}

// ParkAndRideSettings controls lot modelling.
type ParkAndRideSettings struct {
	NodesEnabled bool `yaml:"nodes_enabled"`
	// Candidates caps how many nearest lots a tour scores; 0 scores all.
	Candidates int `yaml:"candidates" validate:"gte=0"`
}

// ShadowPriceSettings controls the table and the update policy.
type ShadowPriceSettings struct {
	Enabled   bool    `yaml:"enabled"`
	Key       string  `yaml:"key" validate:"required"`
	Delimiter string  `yaml:"delimiter" validate:"len=1"`
	Gain      float64 `yaml:"gain" validate:"gt=0"`
	Damping   float64 `yaml:"damping" validate:"gt=0,lte=1"`
	Floor     float64 `yaml:"floor"`
}

// StorageSettings selects the convergence ledger.
type StorageSettings struct {
	Driver      string `yaml:"driver" validate:"oneof=memory sqlite postgres"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn" validate:"required_if=Driver postgres"`
}

// BlobSettings selects where shadow-price tables live.
type BlobSettings struct {
	Driver string     `yaml:"driver" validate:"oneof=fs s3 memory"`
	FSRoot string     `yaml:"fs_root"`
	S3     S3Settings `yaml:"s3"`
}

// S3Settings locates the bucket for the s3 blob driver. Credentials come from
// the default AWS chain.
type S3Settings struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	PathStyle bool   `yaml:"path_style"`
}

// LoggingSettings sets the log level.
type LoggingSettings struct {
	Level string `yaml:"level" validate:"oneof=info debug trace"`
}

// Default returns settings that run the Default schema on local storage.
func Default() *Settings {
	return &Settings{
		Schema:        "Default",
		MinutesPerDay: domain.MinutesInDay,
		Passes:        1,
		Tolerance:     0.01,
		ParkAndRide:   ParkAndRideSettings{Candidates: 5},
		ShadowPrice: ShadowPriceSettings{
			Key:       shadowprice.DefaultKey,
			Delimiter: string(shadowprice.DefaultDelimiter),
			Gain:      1,
			Damping:   0.5,
		},
		Storage: StorageSettings{Driver: string(core.StorageSQLite)},
		Blob:    BlobSettings{Driver: string(blob.DriverFilesystem)},
		Logging: LoggingSettings{Level: "info"},
	}
}

// LoadFile reads path over the defaults. Environment overrides are not
// applied.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return s, nil
}

// Load builds the effective settings: defaults, then path when non-empty,
// then environment overrides, then validation.
func Load(path string) (*Settings, error) {
	s := Default()
	if path != "" {
		var err error
		if s, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := s.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyEnv overlays TRAVELCORE_* variables. Unset variables leave the field
// alone; malformed numbers and booleans are errors.
func (s *Settings) ApplyEnv() error {
	var errs []error
	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}
	decimal := func(name string, dst *float64) {
		if v := os.Getenv(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = f
		}
	}
	boolean := func(name string, dst *bool) {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = b
		}
	}

	str("TRAVELCORE_SCHEMA", &s.Schema)
	num("TRAVELCORE_WORKERS", &s.Workers)
	num("TRAVELCORE_MINUTES_PER_DAY", &s.MinutesPerDay)
	num("TRAVELCORE_PASSES", &s.Passes)
	decimal("TRAVELCORE_TOLERANCE", &s.Tolerance)
	boolean("TRAVELCORE_ESTIMATION_MODE", &s.EstimationMode)
	boolean("TRAVELCORE_PNR_NODES_ENABLED", &s.ParkAndRide.NodesEnabled)
	num("TRAVELCORE_PNR_CANDIDATES", &s.ParkAndRide.Candidates)
	boolean("TRAVELCORE_SHADOW_PRICES_ENABLED", &s.ShadowPrice.Enabled)
	str("TRAVELCORE_SHADOW_PRICE_KEY", &s.ShadowPrice.Key)
	str("TRAVELCORE_SHADOW_PRICE_DELIMITER", &s.ShadowPrice.Delimiter)
	decimal("TRAVELCORE_SHADOW_PRICE_GAIN", &s.ShadowPrice.Gain)
	decimal("TRAVELCORE_SHADOW_PRICE_DAMPING", &s.ShadowPrice.Damping)
	decimal("TRAVELCORE_SHADOW_PRICE_FLOOR", &s.ShadowPrice.Floor)
	str("TRAVELCORE_STORAGE_DRIVER", &s.Storage.Driver)
	str("TRAVELCORE_SQLITE_PATH", &s.Storage.SQLitePath)
	str("TRAVELCORE_POSTGRES_DSN", &s.Storage.PostgresDSN)
	str("TRAVELCORE_BLOB_DRIVER", &s.Blob.Driver)
	str("TRAVELCORE_BLOB_FS_ROOT", &s.Blob.FSRoot)
	str("TRAVELCORE_BLOB_S3_BUCKET", &s.Blob.S3.Bucket)
	str("TRAVELCORE_BLOB_S3_REGION", &s.Blob.S3.Region)
	str("TRAVELCORE_BLOB_S3_ENDPOINT", &s.Blob.S3.Endpoint)
	boolean("TRAVELCORE_BLOB_S3_PATH_STYLE", &s.Blob.S3.PathStyle)
	str("TRAVELCORE_LOG_LEVEL", &s.Logging.Level)
	return errors.Join(errs...)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the cross-field rules the tags
// cannot express.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if s.Blob.Driver == string(blob.DriverS3) && s.Blob.S3.Bucket == "" {
		return fmt.Errorf("invalid settings: blob driver s3 requires s3.bucket")
	}
	if strings.ContainsAny(s.ShadowPrice.Delimiter, "\"\r\n") {
		return fmt.Errorf("invalid settings: delimiter %q cannot be a quote or line break", s.ShadowPrice.Delimiter)
	}
	return nil
}

// Delimiter returns the table field separator.
func (s *Settings) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(s.ShadowPrice.Delimiter)
	return r
}

// Policy builds the floored, damped proportional update policy.
func (s *Settings) Policy() shadowprice.Policy {
	p := s.ShadowPrice
	return shadowprice.WithFloor(shadowprice.Damped(shadowprice.Proportional(p.Gain), p.Damping), p.Floor)
}

// EngineOptions maps the settings onto the shadow-price engine.
func (s *Settings) EngineOptions() shadowprice.Options {
	return shadowprice.Options{
		Enabled:        s.ShadowPrice.Enabled,
		NodesEnabled:   s.ParkAndRide.NodesEnabled,
		EstimationMode: s.EstimationMode,
		Key:            s.ShadowPrice.Key,
		Delimiter:      s.Delimiter(),
		Policy:         s.Policy(),
	}
}

// BlobOptions maps the settings onto blob.Open.
func (s *Settings) BlobOptions() blob.Options {
	return blob.Options{
		Driver: blob.Driver(s.Blob.Driver),
		FSRoot: s.Blob.FSRoot,
		S3: blob.S3Config{
			Bucket:    s.Blob.S3.Bucket,
			Region:    s.Blob.S3.Region,
			Endpoint:  s.Blob.S3.Endpoint,
			PathStyle: s.Blob.S3.PathStyle,
		},
	}
}

// LedgerOptions maps the settings onto core.OpenLedger.
func (s *Settings) LedgerOptions() core.LedgerOptions {
	return core.LedgerOptions{
		Driver:      core.StorageDriver(s.Storage.Driver),
		SQLitePath:  s.Storage.SQLitePath,
		PostgresDSN: s.Storage.PostgresDSN,
	}
}
