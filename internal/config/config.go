// Package config loads dbal settings from config files, .env files and the
// environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/go-dbal/database"
)

// Config holds the application configuration.
type Config struct {
	Database database.Config
	Debug    bool
	// File is the config file that was read, if any.
	File string
}

// Load reads configuration using fsys for every file access. When path is
// empty, .dbal.yaml is searched for in the working directory, the home
// directory and ~/.config/dbal; a missing file is not an error. Values from
// .env are applied to the environment unless already set; .env.local
// overrides them. Environment variables use the DBAL_ prefix, and
// DATABASE_URL is accepted for the connection URL.
func Load(fsys afero.Fs, path string) (*Config, error) {
	if err := loadEnv(fsys, ".env", false); err != nil {
		return nil, err
	}
	if err := loadEnv(fsys, ".env.local", true); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(".dbal")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "dbal"))
	}

	v.SetEnvPrefix("DBAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("url", "DBAL_URL", "DATABASE_URL"); err != nil {
		return nil, err
	}

	v.SetDefault("provider", "postgres")
	v.SetDefault("max_connections", 25)
	v.SetDefault("max_idle_time", 600)
	v.SetDefault("connect_timeout", 10)
	v.SetDefault("statement_cache", 0)
	v.SetDefault("strict", false)
	v.SetDefault("inline_literals", false)
	v.SetDefault("debug", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Config{
		Database: database.Config{
			Provider:       v.GetString("provider"),
			Driver:         v.GetString("driver"),
			URL:            v.GetString("url"),
			TablePrefix:    v.GetString("table_prefix"),
			MaxConnections: v.GetInt("max_connections"),
			MaxIdleTime:    v.GetInt("max_idle_time"),
			ConnectTimeout: v.GetInt("connect_timeout"),
			StatementCache: v.GetInt("statement_cache"),
			Strict:         v.GetBool("strict"),
			InlineLiterals: v.GetBool("inline_literals"),
		},
		Debug: v.GetBool("debug"),
		File:  v.ConfigFileUsed(),
	}, nil
}

// loadEnv applies the variables of a dotenv file to the process
// environment. A missing file is ignored.
func loadEnv(fsys afero.Fs, name string, override bool) error {
	f, err := fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return err
	}
	for key, value := range vars {
		if _, set := os.LookupEnv(key); set && !override {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}
