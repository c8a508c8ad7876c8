package ports

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Amund211/gamelens/internal/adapters/gameprovider"
	"github.com/Amund211/gamelens/internal/app"
	"github.com/Amund211/gamelens/internal/logging"
	"github.com/Amund211/gamelens/internal/reporting"
	"github.com/Amund211/gamelens/internal/strutils"
)

// Submitted libraries can be large, but not this large
const maxLibraryBodyBytes = 16 << 20

var libraryRouteLimits = RouteLimits{
	IPRefillPerSecond:     2,
	IPBurstSize:           20,
	UserIDRefillPerSecond: 0.5,
	UserIDBurstSize:       10,
}

func MakeGetLibraryHandler(
	getLibrary app.GetLibrary,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware, _ := buildRouteMiddleware(
		"library",
		libraryRouteLimits,
		allowedOrigins,
		rootLogger,
		sentryMiddleware,
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// An empty user id is an anonymous request
		rawUserID := r.Header.Get("X-User-Id")
		userID := ""
		if rawUserID != "" {
			normalized, err := strutils.NormalizeUUID(rawUserID)
			if err != nil {
				logging.FromContext(ctx).InfoContext(ctx, "Invalid user id", "rawUserID", rawUserID)
				http.Error(w, "invalid X-User-Id", http.StatusBadRequest)
				return
			}
			userID = normalized
			ctx = reporting.SetUserIDInContext(ctx, userID)
		}
		ctx = logging.AddMetaToContext(ctx, slog.String("userId", userID))

		defer r.Body.Close()
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxLibraryBodyBytes))
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

		payload, err := gameprovider.ParsePayload(body)
		if err != nil {
			logging.FromContext(ctx).InfoContext(ctx, "Failed to parse library payload", "error", err.Error())
			http.Error(w, "Failed to parse request body", http.StatusBadRequest)
			return
		}

		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"pcGames":             strconv.Itoa(len(payload.PC)),
			"consoleNetworkGames": strconv.Itoa(len(payload.ConsoleNetwork)),
			"secondConsoleGames":  strconv.Itoa(len(payload.SecondConsole)),
			"retroGames":          strconv.Itoa(len(payload.Retro)),
		})
		metrics.gamesReceived.Record(ctx, int64(payload.Len()))

		library, err := getLibrary(ctx, userID, payload)
		if err != nil {
			// NOTE: GetLibrary implementations handle their own error reporting
			http.Error(w, "Failed to compute library", http.StatusInternalServerError)
			return
		}

		marshalled, err := LibraryToResponseData(library)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to convert library to response: %w", err))
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}

		logging.FromContext(ctx).Info(
			"Returning library",
			"recent", len(library.Recent),
			"mostPlayed", len(library.MostPlayed),
			"mostAchieved", len(library.MostAchieved),
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(marshalled)
	}

	return middleware(handler)
}
