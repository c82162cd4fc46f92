package ports

import (
	"context"

	"github.com/bnema/nmoo-cli/internal/domain"
)

// ObjectClient reads and writes verb code on the world server.
type ObjectClient interface {
	GetObject(ctx context.Context, token string, id domain.ObjectID) (domain.ObjectData, error)
	UpdateVerbCode(ctx context.Context, locator domain.Locator, code string) (string, error)
}
