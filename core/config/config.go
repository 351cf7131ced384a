package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	// ConfigurationName is the file name the interpreter looks for.
	ConfigurationName = "config.yaml"
)

// Color output modes.
const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

// Configuration holds the interpreter's tunable behavior.
type Configuration struct {
	configFs afero.Fs

	// Prompt is printed before each line is read.
	Prompt string `json:"prompt" validate:"required"`

	// MaxTokens bounds how many tokens of a line are interpreted;
	// extra tokens are discarded with a warning.
	MaxTokens int `json:"max_tokens" validate:"gte=2,lte=4096"`

	// Color controls warning/error coloring.
	Color string `json:"color" validate:"oneof=always auto never"`

	// HistoryEnabled allows !! to replay the previous line.
	HistoryEnabled bool `json:"history_enabled"`

	// LogPath is a newline-delimited JSON command log relative to the
	// configuration directory. Empty disables event logging.
	LogPath string `json:"log_path"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewOsFs()
	}
	return c.configFs
}

// OpenEventLog opens the command event log in an append only state.
// Returns nil without error when logging is disabled.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	if c.LogPath == "" {
		return nil, nil
	}
	return c.fs().OpenFile(c.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the built-in configuration, used when no config file
// exists on disk.
func Default() *Configuration {
	return defaultConfig()
}
