package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Profiles []profileSchema `toml:"profiles"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported profiles schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type profileSchema struct {
	Name    string        `toml:"name"`
	BaseURL string        `toml:"base_url,omitempty"`
	World   worldSchema   `toml:"world"`
	Secrets secretsSchema `toml:"secrets"`
}

type worldSchema struct {
	Host   string `toml:"host,omitempty"`
	Port   int    `toml:"port,omitempty"`
	Player string `toml:"player,omitempty"`
}

type secretsSchema struct {
	TokenRef    string `toml:"token_ref,omitempty"`
	PasswordRef string `toml:"password_ref,omitempty"`
}
