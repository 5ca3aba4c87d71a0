// Package config provides functionality for managing configuration options
// for the application using command-line flags, a config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `validate:"required"`

	// DataDir is where the file and SQLite backends keep their data.
	DataDir string `validate:"required"`

	// Storage selects the document backend: file, sqlite or postgres.
	Storage string `validate:"oneof=file sqlite postgres"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `validate:"required_if=Storage postgres"`

	// LogLevel is the minimum zap level that gets written.
	LogLevel string

	// SessionTTL is how long an idle API session stays valid.
	SessionTTL time.Duration `validate:"gt=0"`

	// Config is the path to the config file.
	Config string
}

// fileOptions is the on-disk shape of the config file. Empty values leave
// the corresponding option untouched.
type fileOptions struct {
	Port        string `json:"server_address" yaml:"server_address"`
	DataDir     string `json:"data_dir" yaml:"data_dir"`
	Storage     string `json:"storage" yaml:"storage"`
	DatabaseDSN string `json:"database_dsn" yaml:"database_dsn"`
	LogLevel    string `json:"log_level" yaml:"log_level"`
	SessionTTL  string `json:"session_ttl" yaml:"session_ttl"`
}

const defaultConfigPath = "config.json"

func defaults() *Options {
	return &Options{
		Port:       "localhost:8080",
		DataDir:    "data",
		Storage:    "file",
		LogLevel:   "Info",
		SessionTTL: 12 * time.Hour,
		Config:     defaultConfigPath,
	}
}

// Parse reads the process arguments and environment. Invalid configuration
// terminates the process.
func Parse() *Options {
	opts, err := Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return opts
}

// Load builds Options from defaults, then the config file, then flags
// given in args, then environment variables, each overriding the previous.
func Load(args []string, getenv func(string) string) (*Options, error) {
	flags := defaults()
	fs := flag.NewFlagSet("gophboard", flag.ContinueOnError)
	fs.StringVar(&flags.Port, "a", flags.Port, "run on ip:port server")
	fs.StringVar(&flags.DataDir, "data", flags.DataDir, "data directory for file and sqlite storage")
	fs.StringVar(&flags.Storage, "storage", flags.Storage, "storage backend: file, sqlite or postgres")
	fs.StringVar(&flags.DatabaseDSN, "d", flags.DatabaseDSN, "db address")
	fs.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "log level")
	fs.DurationVar(&flags.SessionTTL, "session-ttl", flags.SessionTTL, "idle session lifetime")
	fs.StringVar(&flags.Config, "config", flags.Config, "path to config file")
	fs.StringVar(&flags.Config, "c", flags.Config, "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	options := defaults()
	options.Config = flags.Config
	if configPath := getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if err := options.loadFile(); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			options.Port = flags.Port
		case "data":
			options.DataDir = flags.DataDir
		case "storage":
			options.Storage = flags.Storage
		case "d":
			options.DatabaseDSN = flags.DatabaseDSN
		case "log-level":
			options.LogLevel = flags.LogLevel
		case "session-ttl":
			options.SessionTTL = flags.SessionTTL
		}
	})

	// Override flags with environment variables if set
	if serverAddress := getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dataDir := getenv("DATA_DIR"); dataDir != "" {
		options.DataDir = dataDir
	}
	if storage := getenv("STORAGE"); storage != "" {
		options.Storage = storage
	}
	if dsn := getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}

	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// loadFile merges the config file into o. A missing file at the default
// path is not an error.
func (o *Options) loadFile() error {
	if o.Config == "" {
		return nil
	}
	data, err := os.ReadFile(o.Config)
	if errors.Is(err, os.ErrNotExist) && o.Config == defaultConfigPath {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}

	var file fileOptions
	switch strings.ToLower(filepath.Ext(o.Config)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}

	if file.SessionTTL != "" {
		ttl, err := time.ParseDuration(file.SessionTTL)
		if err != nil {
			return fmt.Errorf("error while parsing session_ttl: %w", err)
		}
		o.SessionTTL = ttl
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&o.Port, file.Port)
	set(&o.DataDir, file.DataDir)
	set(&o.Storage, file.Storage)
	set(&o.DatabaseDSN, file.DatabaseDSN)
	set(&o.LogLevel, file.LogLevel)
	return nil
}

var validate = validator.New()

// Validate reports the first inconsistent option.
func (o *Options) Validate() error {
	err := validate.Struct(o)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("option %s: failed %q check (value %q)", fe.Field(), fe.Tag(), fmt.Sprint(fe.Value()))
	}
	return err
}
