package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreBackendYAML     = "yaml"
	StoreBackendDatabase = "database"
)

type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	Learnings LearningsConfig `mapstructure:"learnings"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Review    ReviewConfig    `mapstructure:"review"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=yaml database"`
}

type LearningsConfig struct {
	Directory        string `mapstructure:"directory" validate:"required,dir_or_missing"`
	File             string `mapstructure:"file" validate:"required"`
	StrictDifficulty bool   `mapstructure:"strict_difficulty"`
}

// Path returns the location of the YAML learning file.
func (c LearningsConfig) Path() string {
	return filepath.Join(c.Directory, c.File)
}

type DatabaseConfig struct {
	Driver          string            `mapstructure:"driver" validate:"oneof=mysql postgres sqlite"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port" validate:"min=0,max=65535"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	Path            string            `mapstructure:"path"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
	ConnectRetries  uint              `mapstructure:"connect_retries"`
}

type ReviewConfig struct {
	// SessionLimit caps the number of items in one review session. 0 means no limit.
	SessionLimit int `mapstructure:"session_limit" validate:"min=0"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RECALLR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/recallr")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// LoadDotEnv loads environment variables from the given .env files.
// Missing files are ignored; variables already set are not overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("godotenv.Load(%s) > %w", file, err)
		}
	}
	return nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("store.backend", StoreBackendYAML)
	v.SetDefault("learnings.directory", "learnings")
	v.SetDefault("learnings.file", "learnings.yml")
	v.SetDefault("learnings.strict_difficulty", false)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "recallr")
	v.SetDefault("database.username", "user")
	v.SetDefault("database.path", filepath.Join("learnings", "recallr.db"))
	v.SetDefault("database.connect_retries", 3)
	v.SetDefault("review.session_limit", 20)

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "RECALLR_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind RECALLR_DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
