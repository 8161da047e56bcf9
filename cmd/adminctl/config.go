package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const configName = ".adminctl"

// loadConfig layers defaults, ~/.adminctl.yaml, ADMINCTL_* variables and
// the global flags, in that order.
func loadConfig(fs *flag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("url", "http://localhost:8080")
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("log_mode", "production")

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvPrefix("ADMINCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.Visit(func(f *flag.Flag) {
		v.Set(f.Name, f.Value.String())
	})
	return v, nil
}

// saveToken stores the session token next to the rest of the settings.
func saveToken(v *viper.Viper, token string) (string, error) {
	path := v.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, configName+".yaml")
	}
	v.Set("token", token)
	if err := v.WriteConfigAs(path); err != nil {
		return "", err
	}
	return path, os.Chmod(path, 0o600)
}
