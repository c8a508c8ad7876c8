package ports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Amund211/gamelens/internal/app"
	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/logging"
	"github.com/Amund211/gamelens/internal/reporting"
	"github.com/Amund211/gamelens/internal/strutils"
)

const maxActivityBodyBytes = 4 << 10

var activityRouteLimits = RouteLimits{
	IPRefillPerSecond:     4,
	IPBurstSize:           80,
	UserIDRefillPerSecond: 1,
	UserIDBurstSize:       20,
}

func MakeGetActivityHandler(
	getActivity app.GetActivity,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware, _ := buildRouteMiddleware(
		"activity",
		activityRouteLimits,
		allowedOrigins,
		rootLogger,
		sentryMiddleware,
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rawUserID := r.Header.Get("X-User-Id")
		userID, err := strutils.NormalizeUUID(rawUserID)
		if err != nil {
			logging.FromContext(ctx).InfoContext(ctx, "Missing or invalid user id", "rawUserID", rawUserID)
			http.Error(w, "missing or invalid X-User-Id", http.StatusBadRequest)
			return
		}
		ctx = reporting.SetUserIDInContext(ctx, userID)
		ctx = logging.AddMetaToContext(ctx, slog.String("userId", userID))

		defer r.Body.Close()
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxActivityBodyBytes))
		if maxBytesErr := (*http.MaxBytesError)(nil); errors.As(err, &maxBytesErr) {
			logging.FromContext(ctx).InfoContext(ctx, "Request body too large", "limit", maxBytesErr.Limit)
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to read request body: %w", err))
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		request := struct {
			GameID     string `json:"gameId"`
			Provider   string `json:"provider"`
			WindowDays *int   `json:"windowDays"`
		}{}
		err = json.Unmarshal(body, &request)
		if err != nil {
			logging.FromContext(ctx).InfoContext(ctx, "Failed to parse activity request", "error", err.Error())
			http.Error(w, "Failed to parse request body", http.StatusBadRequest)
			return
		}

		if request.GameID == "" {
			http.Error(w, "missing gameId", http.StatusBadRequest)
			return
		}

		provider := domain.Provider(request.Provider)
		if provider != "" && !provider.Valid() {
			http.Error(w, "unknown provider", http.StatusBadRequest)
			return
		}

		windowDays := app.DefaultActivityWindowDays
		if request.WindowDays != nil {
			windowDays = *request.WindowDays
		}
		if windowDays < 1 || windowDays > app.MaxActivityWindowDays {
			http.Error(w, fmt.Sprintf("windowDays must be within 1..%d", app.MaxActivityWindowDays), http.StatusBadRequest)
			return
		}

		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"gameId":     request.GameID,
			"provider":   request.Provider,
			"windowDays": strconv.Itoa(windowDays),
		})
		ctx = logging.AddMetaToContext(ctx,
			slog.String("gameId", request.GameID),
			slog.String("provider", request.Provider),
			slog.Int("windowDays", windowDays),
		)

		buckets, err := getActivity(ctx, userID, provider, request.GameID, windowDays)
		if errors.Is(err, domain.ErrLibraryNotFound) {
			logging.FromContext(ctx).Info("No library stored for user")
			http.Error(w, "No library stored for user", http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrGameNotFound) {
			logging.FromContext(ctx).Info("Game not found in stored library")
			http.Error(w, "Game not found in stored library", http.StatusNotFound)
			return
		}
		if err != nil {
			// NOTE: GetActivity implementations handle their own error reporting
			http.Error(w, "Failed to get activity", http.StatusInternalServerError)
			return
		}

		marshalled, err := ActivityToResponseData(buckets)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to convert activity to response: %w", err), map[string]string{
				"length": strconv.Itoa(len(buckets)),
			})
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}

		logging.FromContext(ctx).Info("Returning activity")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(marshalled)
	}

	return middleware(handler)
}
