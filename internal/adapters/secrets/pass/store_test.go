package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutUsesPassInsertUnderPrefix(t *testing.T) {
	t.Parallel()

	called := false
	store := &Store{
		prefix: DefaultPrefix,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, []string{"insert", "-m", "-f", "nmoo/local/token"}, args)
			assert.Equal(t, "tok-123\n", input)
			return "", "", nil
		},
	}

	err := store.Put(context.Background(), domain.TokenSecretKey("local"), "tok-123")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestStoreGetUsesPassShowAndKeepsFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{
		prefix: DefaultPrefix,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "nmoo/local/password"}, args)
			assert.Empty(t, input)
			return "hunter2\r\nnote: wizard\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), domain.PasswordSecretKey("local"))
	require.NoError(t, err)
	assert.Equal(t, "hunter2", value)
}

func TestStoreGetMissingEntryIsNotFound(t *testing.T) {
	t.Parallel()

	store := &Store{
		prefix: DefaultPrefix,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "Error: nmoo/local/token is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), domain.TokenSecretKey("local"))
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteUsesPassRemoveAndIgnoresMissing(t *testing.T) {
	t.Parallel()

	calls := 0
	store := &Store{
		prefix: DefaultPrefix,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			calls++
			assert.Equal(t, []string{"rm", "-f", "nmoo/local/token"}, args)
			if calls == 2 {
				return "", "Error: nmoo/local/token is not in the password store.", errors.New("exit status 1")
			}
			return "", "", nil
		},
	}

	require.NoError(t, store.Delete(context.Background(), domain.TokenSecretKey("local")))
	require.NoError(t, store.Delete(context.Background(), domain.TokenSecretKey("local")))
	assert.Equal(t, 2, calls)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := &Store{
		prefix: DefaultPrefix,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "gpg: decryption failed", errors.New("exit status 2")
		},
	}

	_, err := store.Get(context.Background(), domain.TokenSecretKey("local"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "nmoo/local/token")
	assert.ErrorContains(t, err, "decryption failed")
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreRejectsTraversalKeys(t *testing.T) {
	t.Parallel()

	store := &Store{
		prefix: DefaultPrefix,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			t.Fatalf("pass must not run for %v", args)
			return "", "", nil
		},
	}

	require.ErrorContains(t, store.Put(context.Background(), "nmoo://../escape", "x"), "invalid secret key")
	require.ErrorContains(t, store.Put(context.Background(), "  ", "x"), "secret key is empty")
}
