package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, path string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set("profiles.path", path)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))

	local := domain.Profile{
		Name:        "local",
		BaseURL:     "http://localhost:8080",
		Host:        "localhost",
		Port:        8888,
		Player:      "wizard",
		TokenRef:    domain.TokenSecretKey("local"),
		PasswordRef: domain.PasswordSecretKey("local"),
	}
	remote := domain.Profile{Name: "remote", BaseURL: "https://moo.example"}

	require.NoError(t, repo.Save(context.Background(), remote))
	require.NoError(t, repo.Save(context.Background(), local))

	got, err := repo.GetByName(context.Background(), "local")
	require.NoError(t, err)
	assert.Equal(t, local, got)

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Profile{local, remote}, profiles)
}

func TestRepositorySaveReplacesExistingProfile(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))

	require.NoError(t, repo.Save(context.Background(), domain.Profile{Name: "local", Port: 7777}))
	require.NoError(t, repo.Save(context.Background(), domain.Profile{Name: "local", Port: 8888}))

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, 8888, profiles[0].Port)
}

func TestRepositorySaveRejectsInvalidProfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.toml")
	repo := newTestRepository(t, path)

	err := repo.Save(context.Background(), domain.Profile{Name: "bad name"})
	require.ErrorContains(t, err, "validate profile")

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRepositoryDelete(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))
	require.NoError(t, repo.Save(context.Background(), domain.Profile{Name: "a"}))
	require.NoError(t, repo.Save(context.Background(), domain.Profile{Name: "b"}))

	require.NoError(t, repo.Delete(context.Background(), "a"))

	_, err := repo.GetByName(context.Background(), "a")
	require.ErrorIs(t, err, domain.ErrProfileNotFound)

	err = repo.Delete(context.Background(), "a")
	require.ErrorIs(t, err, domain.ErrProfileNotFound)

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, domain.ProfileName("b"), profiles[0].Name)
}

func TestRepositorySaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), domain.Profile{Name: "local"}))

	profilesPath := filepath.Join(homeDir, ".nmoo", "profiles.toml")
	assert.Equal(t, profilesPath, repo.Path())
	info, err := os.Stat(profilesPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "profiles.toml"))

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)

	_, err = repo.GetByName(context.Background(), "local")
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestRepositoryReadsHandWrittenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[[profiles]]",
		"name = \"local\"",
		"base_url = \"http://localhost:8080\"",
		"",
		"[profiles.world]",
		"host = \"localhost\"",
		"port = 8888",
		"",
	}, "\n")), 0o600))

	repo := newTestRepository(t, path)

	got, err := repo.GetByName(context.Background(), "local")
	require.NoError(t, err)
	assert.Equal(t, "localhost:8888", got.Address())
	assert.Empty(t, got.TokenRef)
}

func TestRepositoryListMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(path, []byte("profiles = ["), 0o600))

	repo := newTestRepository(t, path)

	_, err := repo.List(context.Background())
	require.ErrorContains(t, err, "decode profiles file")
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, domain.Profile{Name: "local"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRepositoryConcurrentSavesAcrossInstancesPreserveAllProfiles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.toml")
	repoA := newTestRepository(t, path)
	repoB := newTestRepository(t, path)

	const perRepoWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	write := func(repo *Repository, prefix string) {
		defer wg.Done()
		<-start
		for i := 0; i < perRepoWrites; i++ {
			errCh <- repo.Save(context.Background(), domain.Profile{Name: domain.ProfileName(fmt.Sprintf("%s-%d", prefix, i))})
		}
	}
	go write(repoA, "a")
	go write(repoB, "b")

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	profiles, err := repoA.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, profiles, perRepoWrites*2)
}

func TestRepositorySaveSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.toml")
	repo := newTestRepository(t, path)

	require.NoError(t, repo.Save(context.Background(), domain.Profile{Name: "local"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 999\n\nprofiles = []\n"), 0o600))

	repo := newTestRepository(t, path)

	_, err := repo.List(context.Background())
	require.ErrorContains(t, err, "unsupported profiles schema version")
}
