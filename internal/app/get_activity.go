package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/reporting"
	"github.com/Amund211/gamelens/internal/strutils"
)

const MaxActivityWindowDays = 365

// GetActivity returns the daily unlock histogram of one game in the user's latest snapshot.
// An empty provider matches a game with the id from any provider.
type GetActivity func(ctx context.Context, userID string, provider domain.Provider, gameID string, windowDays int) ([]domain.ActivityBucket, error)

type snapshotGetter interface {
	GetLatestSnapshot(ctx context.Context, userID string) (domain.LibrarySnapshot, error)
}

func BuildGetActivity(repo snapshotGetter, nowFunc func() time.Time) GetActivity {
	return func(ctx context.Context, userID string, provider domain.Provider, gameID string, windowDays int) ([]domain.ActivityBucket, error) {
		if !strutils.UUIDIsNormalized(userID) {
			err := fmt.Errorf("user id is not normalized")
			reporting.Report(ctx, err, map[string]string{
				"userID": userID,
			})
			return nil, err
		}

		if provider != "" && !provider.Valid() {
			err := fmt.Errorf("unknown provider '%s'", provider)
			reporting.Report(ctx, err)
			return nil, err
		}

		if windowDays < 1 || windowDays > MaxActivityWindowDays {
			err := fmt.Errorf("window of %d days is outside 1..%d", windowDays, MaxActivityWindowDays)
			reporting.Report(ctx, err)
			return nil, err
		}

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		snapshot, err := repo.GetLatestSnapshot(ctx, userID)
		if errors.Is(err, domain.ErrLibraryNotFound) {
			return nil, err
		}
		if err != nil {
			// NOTE: LibraryRepository implementations handle their own error reporting
			return nil, fmt.Errorf("could not get latest snapshot: %w", err)
		}

		game, ok := snapshot.FindGame(provider, gameID)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' (provider '%s')", domain.ErrGameNotFound, gameID, provider)
		}

		return Bucketize(UnlockInstants(game), windowDays, nowFunc()), nil
	}
}
