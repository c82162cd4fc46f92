package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/bnema/nmoo-cli/internal/ports"
)

// Connection is what the terminal needs to reach and log into a world.
type Connection struct {
	Host     string
	Port     string
	Player   string
	Password string
}

type ProfileService struct {
	repo  ports.ProfileRepository
	store ports.SecretStore
}

func NewProfileService(repo ports.ProfileRepository, store ports.SecretStore) *ProfileService {
	return &ProfileService{repo: repo, store: store}
}

// AddProfile creates or updates a profile. Secret references already on
// file are kept.
func (s *ProfileService) AddProfile(ctx context.Context, profile domain.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.GetByName(ctx, profile.Name)
	switch {
	case err == nil:
		profile.TokenRef = existing.TokenRef
		profile.PasswordRef = existing.PasswordRef
	case !errors.Is(err, domain.ErrProfileNotFound):
		return fmt.Errorf("get profile: %w", err)
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *ProfileService) GetProfile(ctx context.Context, name domain.ProfileName) (domain.Profile, error) {
	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// RemoveProfile deletes the profile and then its secrets.
func (s *ProfileService) RemoveProfile(ctx context.Context, name domain.ProfileName) error {
	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	var errs error
	for _, ref := range uniqueSecretRefs(profile.TokenRef, profile.PasswordRef) {
		if err := s.store.Delete(ctx, ref); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return fmt.Errorf("delete profile secrets: %w", errs)
	}

	return nil
}

func (s *ProfileService) SetToken(ctx context.Context, name domain.ProfileName, token string) error {
	return s.setSecret(ctx, name, domain.TokenSecretKey(name), token, func(p *domain.Profile, ref string) {
		p.TokenRef = ref
	})
}

func (s *ProfileService) SetPassword(ctx context.Context, name domain.ProfileName, password string) error {
	return s.setSecret(ctx, name, domain.PasswordSecretKey(name), password, func(p *domain.Profile, ref string) {
		p.PasswordRef = ref
	})
}

// setSecret stores value under key and records the reference on the
// profile. A failed profile save restores the previous secret value.
func (s *ProfileService) setSecret(ctx context.Context, name domain.ProfileName, key, value string, apply func(*domain.Profile, string)) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New("secret value is empty")
	}

	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}

	previous, hadPrevious, err := s.lookupSecret(ctx, key)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, key, value); err != nil {
		return fmt.Errorf("store secret: %w", err)
	}

	apply(&profile, key)
	if err := s.repo.Save(ctx, profile); err != nil {
		var rollbackErr error
		if hadPrevious {
			rollbackErr = s.store.Put(ctx, key, previous)
		} else {
			rollbackErr = s.store.Delete(ctx, key)
		}
		if rollbackErr != nil {
			return fmt.Errorf("save profile and rollback stored secret: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save profile: %w", err)
	}

	return nil
}

func (s *ProfileService) lookupSecret(ctx context.Context, key string) (string, bool, error) {
	value, err := s.store.Get(ctx, key)
	if err == nil {
		return value, true, nil
	}
	if errors.Is(err, domain.ErrSecretNotFound) {
		return "", false, nil
	}
	return "", false, fmt.Errorf("read current secret: %w", err)
}

// ResolveToken returns the object data token stored for the profile.
func (s *ProfileService) ResolveToken(ctx context.Context, name domain.ProfileName) (string, error) {
	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("get profile: %w", err)
	}
	if profile.TokenRef == "" {
		return "", fmt.Errorf("profile %s has no token: %w", name, domain.ErrSecretNotFound)
	}

	token, err := s.store.Get(ctx, profile.TokenRef)
	if err != nil {
		return "", fmt.Errorf("read profile token: %w", err)
	}
	return token, nil
}

// ResolveLocator reads raw as "objid[/verbid]" and prefixes the profile
// token.
func (s *ProfileService) ResolveLocator(ctx context.Context, name domain.ProfileName, raw string) (domain.Locator, error) {
	token, err := s.ResolveToken(ctx, name)
	if err != nil {
		return domain.Locator{}, err
	}

	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if raw == "" {
		return domain.Locator{}, domain.ErrInvalidLocator
	}
	return domain.ParseLocator(token + "/" + raw)
}

// ResolveConnection returns the profile's world address and login. A
// missing password leaves Password empty so no login is sent.
func (s *ProfileService) ResolveConnection(ctx context.Context, name domain.ProfileName) (Connection, error) {
	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return Connection{}, fmt.Errorf("get profile: %w", err)
	}
	if profile.Address() == "" {
		return Connection{}, fmt.Errorf("profile %s has no world host and port", name)
	}

	conn := Connection{
		Host:   profile.Host,
		Port:   strconv.Itoa(profile.Port),
		Player: profile.Player,
	}

	if profile.PasswordRef != "" {
		password, err := s.store.Get(ctx, profile.PasswordRef)
		switch {
		case err == nil:
			conn.Password = password
		case !errors.Is(err, domain.ErrSecretNotFound):
			return Connection{}, fmt.Errorf("read profile password: %w", err)
		}
	}

	return conn, nil
}

func uniqueSecretRefs(refs ...string) []string {
	result := make([]string, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))

	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		result = append(result, ref)
	}

	return result
}
