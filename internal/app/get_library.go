package app

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/Amund211/gamelens/internal/adapters/cache"
	"github.com/Amund211/gamelens/internal/adapters/gameprovider"
	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/logging"
	"github.com/Amund211/gamelens/internal/reporting"
	"github.com/Amund211/gamelens/internal/strutils"
)

// GetLibrary ranks the submitted games. userID may be empty for anonymous requests.
type GetLibrary func(ctx context.Context, userID string, payload gameprovider.Payload) (domain.Library, error)

type snapshotStorer interface {
	StoreSnapshot(ctx context.Context, snapshot domain.LibrarySnapshot) error
}

func computeAndPersistLibrary(
	ctx context.Context,
	repo snapshotStorer,
	now time.Time,
	userID string,
	payload gameprovider.Payload,
) domain.Library {
	logger := logging.FromContext(ctx)

	libraries := gameprovider.NormalizePayload(ctx, payload)
	library := RankLibrary(now, libraries...)

	if userID == "" {
		return library
	}

	// Ignore cancellations from the request context and try to store the data anyway
	// Take a maximum of 1 second to not block the request for too long
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 1*time.Second)
	defer cancel()
	err := repo.StoreSnapshot(storeCtx, domain.LibrarySnapshot{
		UserID:    userID,
		QueriedAt: now,
		Games:     slices.Concat(libraries...),
	})
	if err != nil {
		// NOTE: LibraryRepository implementations handle their own error reporting
		logger.ErrorContext(ctx, "failed to store library snapshot", "error", err.Error())

		// NOTE: We still return the library to fulfill the request even though storing failed
	}

	return library
}

func libraryCacheKey(userID string, payload gameprovider.Payload) (string, error) {
	// Marshalling compacts the raw messages so formatting does not affect the key
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	if userID == "" {
		userID = "anonymous"
	}
	return fmt.Sprintf("user:%s|payloadHash:%x", userID, sha256.Sum256(data)), nil
}

func BuildGetLibrary(
	libraryCache cache.Cache[domain.Library],
	repo snapshotStorer,
	nowFunc func() time.Time,
) GetLibrary {
	return func(ctx context.Context, userID string, payload gameprovider.Payload) (domain.Library, error) {
		if userID != "" && !strutils.UUIDIsNormalized(userID) {
			err := fmt.Errorf("user id is not normalized")
			reporting.Report(ctx, err, map[string]string{
				"userID": userID,
			})
			return domain.Library{}, err
		}

		key, err := libraryCacheKey(userID, payload)
		if err != nil {
			reporting.Report(ctx, err)
			return domain.Library{}, err
		}

		library, err := cache.GetOrCreate(ctx, libraryCache, key, func() (domain.Library, error) {
			return computeAndPersistLibrary(ctx, repo, nowFunc(), userID, payload), nil
		})
		if err != nil {
			// NOTE: GetOrCreate only returns an error if create() fails
			return domain.Library{}, fmt.Errorf("failed to cache.GetOrCreate library: %w", err)
		}

		return library, nil
	}
}
