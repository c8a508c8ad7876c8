package libraryrepository

import (
	"context"

	"github.com/Amund211/gamelens/internal/domain"
)

type LibraryRepository interface {
	StoreSnapshot(ctx context.Context, snapshot domain.LibrarySnapshot) error
	// GetLatestSnapshot returns domain.ErrLibraryNotFound when the user has no snapshot
	GetLatestSnapshot(ctx context.Context, userID string) (domain.LibrarySnapshot, error)
}
