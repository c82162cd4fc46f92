// Package config loads ~/.nmoo/config.toml into a viper instance shared by
// the adapters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "NMOO"

	// Dir is the per-user directory under $HOME.
	Dir = ".nmoo"

	ProfilesPathKey   = "profiles.path"
	SecretsDirKey     = "secrets.dir"
	SecretsBackendKey = "secrets.backend"
	LogPathKey        = "log.path"
	LogLevelKey       = "log.level"
	EditorCommandKey  = "editor.command"
	ServerURLKey      = "server.url"
	EditListenKey     = "editserv.listen"

	// EditorEnv overrides editor.command.
	EditorEnv = envPrefix + "_EDITOR"
)

// Load applies defaults, reads the config file when present and binds
// NMOO_* environment overrides (NMOO_SERVER_URL for server.url).
func Load(cfg *viper.Viper) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, Dir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(baseDir)

	cfg.SetDefault(ProfilesPathKey, filepath.Join(baseDir, "profiles.toml"))
	cfg.SetDefault(SecretsDirKey, filepath.Join(baseDir, "secrets"))
	cfg.SetDefault(SecretsBackendKey, "auto")
	cfg.SetDefault(LogPathKey, filepath.Join(baseDir, "nmoo.log"))
	cfg.SetDefault(LogLevelKey, "info")
	cfg.SetDefault(EditorCommandKey, "")
	cfg.SetDefault(ServerURLKey, "")
	cfg.SetDefault(EditListenKey, "127.0.0.1:0")

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	// NMOO_EDITOR names the parent "editor" key, so automatic env would
	// shadow editor.command with nothing. It is applied as an override.
	if editor, ok := os.LookupEnv(EditorEnv); ok && strings.TrimSpace(editor) != "" {
		cfg.Set(EditorCommandKey, editor)
	}

	return nil
}
