package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bnema/nmoo-cli/internal/config"
	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/bnema/nmoo-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	profilesFileMode = 0o600
	profilesDirMode  = 0o700
	profilesFile     = "profiles.toml"
	tempFilePattern  = ".profiles-*.toml.tmp"
)

type Repository struct {
	profilesPath string
	mu           *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.ProfileRepository = (*Repository)(nil)

// NewRepository stores profiles at the profiles.path key of cfg, falling back
// to ~/.nmoo/profiles.toml.
func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	profilesPath := cfg.GetString(config.ProfilesPathKey)
	if profilesPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		profilesPath = filepath.Join(homeDir, config.Dir, profilesFile)
	}

	profilesPath, err := normalizeProfilesPath(profilesPath)
	if err != nil {
		return nil, err
	}

	return &Repository{profilesPath: profilesPath, mu: lockForPath(profilesPath)}, nil
}

func (r *Repository) Path() string {
	return r.profilesPath
}

func (r *Repository) Save(ctx context.Context, profile domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("validate profile: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(profile)
	updated := false
	for i := range file.Profiles {
		if file.Profiles[i].Name == encoded.Name {
			file.Profiles[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Profiles = append(file.Profiles, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetByName(ctx context.Context, name domain.ProfileName) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Profile{}, err
	}

	for _, entry := range file.Profiles {
		if entry.Name == string(name) {
			return fromSchema(entry), nil
		}
	}

	return domain.Profile{}, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, name)
}

// List returns profiles ordered by name.
func (r *Repository) List(ctx context.Context) ([]domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(file.Profiles))
	for _, entry := range file.Profiles {
		profiles = append(profiles, fromSchema(entry))
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})

	return profiles, nil
}

func (r *Repository) Delete(ctx context.Context, name domain.ProfileName) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	kept := file.Profiles[:0]
	found := false
	for _, entry := range file.Profiles {
		if entry.Name == string(name) {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrProfileNotFound, name)
	}
	file.Profiles = kept

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.profilesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read profiles file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode profiles file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeProfilesPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve profiles path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	dir := filepath.Dir(r.profilesPath)
	if err := os.MkdirAll(dir, profilesDirMode); err != nil {
		return fmt.Errorf("create profiles directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode profiles file: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp profiles file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp profiles file: %w", err)
	}
	if err := tempFile.Chmod(profilesFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp profiles file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp profiles file: %w", err)
	}

	if err := os.Rename(tempName, r.profilesPath); err != nil {
		return fmt.Errorf("replace profiles file: %w", err)
	}
	cleanup = false

	return nil
}

func toSchema(profile domain.Profile) profileSchema {
	return profileSchema{
		Name:    string(profile.Name),
		BaseURL: profile.BaseURL,
		World: worldSchema{
			Host:   profile.Host,
			Port:   profile.Port,
			Player: profile.Player,
		},
		Secrets: secretsSchema{
			TokenRef:    profile.TokenRef,
			PasswordRef: profile.PasswordRef,
		},
	}
}

func fromSchema(entry profileSchema) domain.Profile {
	return domain.Profile{
		Name:        domain.ProfileName(entry.Name),
		BaseURL:     entry.BaseURL,
		Host:        entry.World.Host,
		Port:        entry.World.Port,
		Player:      entry.World.Player,
		TokenRef:    entry.Secrets.TokenRef,
		PasswordRef: entry.Secrets.PasswordRef,
	}
}
