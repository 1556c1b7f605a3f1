package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	assert.NotNil(t, cfg)
	assert.Nil(t, cfg.Validate())
	assert.Equal(t, "$ ", cfg.Prompt)
}

func TestDefault(t *testing.T) {
	cfg := Default(afero.NewMemMapFs(), "/etc/relaysh")

	assert.Equal(t, "/etc/relaysh", cfg.Dir())
	assert.False(t, cfg.HasEventLog())
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		modify      func(*Configuration)
		expectedErr string
	}{
		"empty prompt": {
			modify:      func(c *Configuration) { c.Prompt = "" },
			expectedErr: "prompt",
		},
		"negative history limit": {
			modify:      func(c *Configuration) { c.HistoryLimit = -2 },
			expectedErr: "history_limit",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := defaultConfig()
			tc.modify(cfg)

			err := cfg.Validate()
			assert.NotNil(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestLoadFs(t *testing.T) {
	fs := afero.NewMemMapFs()

	t.Run("missing", func(t *testing.T) {
		_, err := LoadFs(fs, "/nothing")
		assert.NotNil(t, err)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		assert.Nil(t, afero.WriteFile(fs, "/partial/config.yaml", []byte("prompt: '> '\n"), 0600))

		cfg, err := LoadFs(fs, "/partial/config.yaml")
		assert.Nil(t, err)
		assert.Equal(t, "> ", cfg.Prompt)
		assert.Equal(t, 500, cfg.HistoryLimit)
		assert.Equal(t, "/partial/events.log", cfg.EventLogPath())
	})

	t.Run("unknown field", func(t *testing.T) {
		assert.Nil(t, afero.WriteFile(fs, "/unknown/config.yaml", []byte("promt: '> '\n"), 0600))

		_, err := LoadFs(fs, "/unknown")
		assert.NotNil(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		assert.Nil(t, afero.WriteFile(fs, "/invalid/config.yaml", []byte("history_limit: -4\n"), 0600))

		_, err := LoadFs(fs, "/invalid")
		assert.NotNil(t, err)
	})
}

func TestResolveHistFile(t *testing.T) {
	cfg := Default(afero.NewMemMapFs(), "/home/user/.relaysh")
	noEnv := func(string) string { return "" }

	assert.Equal(t, "", cfg.ResolveHistFile(noEnv))

	cfg.HistFile = "history"
	assert.Equal(t, "/home/user/.relaysh/history", cfg.ResolveHistFile(noEnv))

	cfg.HistFile = "/tmp/abs_history"
	assert.Equal(t, "/tmp/abs_history", cfg.ResolveHistFile(noEnv))

	fromEnv := func(key string) string {
		if key == EnvHistFile {
			return "/from/env"
		}
		return ""
	}
	assert.Equal(t, "/from/env", cfg.ResolveHistFile(fromEnv))
}
