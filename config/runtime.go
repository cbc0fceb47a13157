package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Runtime holds process-level options that are not user settings: where
// settings live and where diagnostics go. Env var overrides use prefix PTOP_.
type Runtime struct {
	Config   string
	Log      string
	LogLevel string `mapstructure:"log_level"`
	Proc     string
}

// LoadRuntime resolves runtime options from defaults and the environment.
// Non-empty values in overrides (typically CLI flags) win.
func LoadRuntime(overrides map[string]string) (Runtime, error) {
	v := viper.New()
	v.SetDefault("config", Path())
	v.SetDefault("log", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("proc", "/proc")

	v.SetEnvPrefix("PTOP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for k, val := range overrides {
		if val != "" {
			v.Set(k, val)
		}
	}

	var rt Runtime
	if err := v.Unmarshal(&rt); err != nil {
		return Runtime{}, fmt.Errorf("unmarshal runtime options: %w", err)
	}
	return rt, nil
}
