package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"

	// EnvHistFile overrides the configured history file.
	EnvHistFile = "HISTFILE"
)

type Configuration struct {
	configFs  afero.Fs
	configDir string

	Prompt       string `json:"prompt" validate:"required"`
	ColorPrompt  bool   `json:"color_prompt"`
	HistFile     string `json:"histfile"`
	HistoryLimit int    `json:"history_limit" validate:"gte=-1"`
	EventLog     string `json:"event_log"`
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
		return afero.NewOsFs()
	}
	return c.configFs
}

// Dir returns the directory the configuration was loaded from.
func (c *Configuration) Dir() string {
	return c.configDir
}

// resolve makes relative paths in the configuration relative to its
// directory.
func (c *Configuration) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.configDir, path)
}

// ResolveHistFile picks the history file: the HISTFILE environment value if
// set, otherwise the configured one. An empty result means history isn't
// persisted.
func (c *Configuration) ResolveHistFile(getenv func(string) string) string {
	if env := getenv(EnvHistFile); env != "" {
		return env
	}
	return c.resolve(c.HistFile)
}

// HasEventLog reports whether event logging is turned on.
func (c *Configuration) HasEventLog() bool {
	return c.EventLog != ""
}

// EventLogPath is the resolved location of the event log.
func (c *Configuration) EventLogPath() string {
	return c.resolve(c.EventLog)
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLogPath(), os.O_RDONLY, 0600)
}

// Default returns the built-in configuration rooted at dir, used when no
// configuration file exists.
func Default(fs afero.Fs, dir string) *Configuration {
	if filepath.Base(dir) == ConfigurationName {
		dir = filepath.Dir(dir)
	}

	out := defaultConfig()
	out.configFs = fs
	out.configDir = absDir(dir)
	// Only initialized directories get an event log.
	out.EventLog = ""
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

func absDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
