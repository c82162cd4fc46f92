package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type ProfileName string

// Profile is a saved world server. Credentials stay in the secret store and
// are referenced by key.
type Profile struct {
	Name        ProfileName
	BaseURL     string
	Host        string
	Port        int
	Player      string
	TokenRef    string
	PasswordRef string
}

func (p Profile) Validate() error {
	if strings.TrimSpace(string(p.Name)) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(string(p.Name), "/\\ ") {
		return fmt.Errorf("name %q must not contain slashes or spaces", p.Name)
	}
	if p.BaseURL != "" {
		parsed, err := url.Parse(p.BaseURL)
		if err != nil {
			return fmt.Errorf("parse base url: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("base url must use http or https")
		}
	}
	if p.Port < 0 || p.Port > 65535 {
		return fmt.Errorf("port %d out of range", p.Port)
	}

	return nil
}

// Address is the "host:port" WebSocket endpoint, empty when unset.
func (p Profile) Address() string {
	if p.Host == "" || p.Port == 0 {
		return ""
	}
	return p.Host + ":" + strconv.Itoa(p.Port)
}

// SecretScheme prefixes every secret key owned by a profile.
const SecretScheme = "nmoo://"

func TokenSecretKey(name ProfileName) string {
	return fmt.Sprintf("%s%s/token", SecretScheme, name)
}

func PasswordSecretKey(name ProfileName) string {
	return fmt.Sprintf("%s%s/password", SecretScheme, name)
}

// SecretPath turns a secret key into a relative slash path for stores that
// lay secrets out as files, e.g. "nmoo://local/token" becomes "local/token".
func SecretPath(key string) string {
	return strings.TrimPrefix(strings.TrimSpace(key), SecretScheme)
}
