package reporting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/Amund211/gamelens/internal/config"
	"github.com/Amund211/gamelens/internal/logging"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

// fingerprintReplacements strip values that vary between occurrences of the same error
var fingerprintReplacements = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{pattern: regexp.MustCompile(`[0-9a-fA-F]{8}-?([0-9a-fA-F]{4}-?){3}[0-9a-fA-F]{12}`), replacement: "<uuid>"},
	{pattern: regexp.MustCompile(`\[:{0,2}([0-9a-f]{0,4}:?){1,8}\]:\d+`), replacement: "<host>"},
	{pattern: regexp.MustCompile(`\b(\d{1,3}\.){3}\d{1,3}:\d+\b`), replacement: "<host>"},
	{pattern: regexp.MustCompile(`\b\d+(\.\d+)?(ms|s)\b`), replacement: "<duration>"},
}

// sanitizeError makes errors that only differ in ids, addresses or timings group together in Sentry
func sanitizeError(err string) string {
	for _, r := range fingerprintReplacements {
		err = r.pattern.ReplaceAllString(err, r.replacement)
	}
	return err
}

// applyMeta copies the request meta and the call site extras onto a Sentry scope
func applyMeta(scope *sentry.Scope, meta ReportingMeta, extras []map[string]string) {
	scope.SetTags(meta.tags)
	for key, value := range meta.extras {
		scope.SetExtra(key, value)
	}
	if meta.userID != "" {
		scope.SetUser(sentry.User{ID: meta.userID})
	}
	if !meta.startedAt.IsZero() {
		scope.SetExtra("secondsSinceStart", time.Since(meta.startedAt).Seconds())
	}

	// Call site extras take precedence over request meta
	for _, extra := range extras {
		for key, value := range extra {
			scope.SetExtra(key, value)
		}
	}
}

// Report logs err and sends it to Sentry along with the reporting meta stored in ctx
func Report(ctx context.Context, err error, extras ...map[string]string) {
	logger := logging.FromContext(ctx)

	if err == nil {
		err = errors.New("No error provided")
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		logger.WarnContext(ctx, "Failed to get Sentry hub from context", "error", err.Error(), "extras", extras)
		return
	}

	logger.ErrorContext(ctx, "Reporting error to Sentry", slog.String("error", err.Error()), slog.Any("extras", extras))

	hub.WithScope(func(scope *sentry.Scope) {
		applyMeta(scope, MetaFromContext(ctx), extras)
		scope.SetFingerprint([]string{"{{ default }}", sanitizeError(err.Error())})
		hub.CaptureException(err)
	})
}

// dropCanceled discards events caused by clients going away mid request
func dropCanceled(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if hint != nil && hint.OriginalException != nil && errors.Is(hint.OriginalException, context.Canceled) {
		return nil
	}
	return event
}

func addMetaMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userAgent := r.UserAgent()
		if userAgent == "" {
			userAgent = "<missing>"
		}

		ctx = AddTagsToContext(ctx,
			map[string]string{
				"userAgent":  userAgent,
				"methodPath": fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			},
		)

		ctx = setStartedAtInContext(ctx, time.Now())

		next(w, r.WithContext(ctx))
	}
}

func InitSentryMiddleware(sentryDSN string, environment string) (func(http.HandlerFunc) http.HandlerFunc, func(), error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              sentryDSN,
		Environment:      environment,
		EnableTracing:    true,
		TracesSampleRate: 1.0 / 100.0,
		BeforeSend:       dropCanceled,
	})
	if err != nil {
		return nil, nil, err
	}

	sentryHandler := sentryhttp.New(sentryhttp.Options{})

	// Wrap sentry middleware in a http.HandlerFunc
	middleware := func(next http.HandlerFunc) http.HandlerFunc {
		withAddTags := addMetaMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			sentryHandler.HandleFunc(withAddTags).ServeHTTP(w, r)
		}
	}

	flush := func() {
		sentry.Flush(5 * time.Second)
	}

	return middleware, flush, nil
}

func environmentName(conf config.Config) string {
	switch {
	case conf.IsProduction():
		return "production"
	case conf.IsStaging():
		return "staging"
	}
	return "development"
}

// NewSentryMiddlewareOrMock returns a no-op middleware in development when no DSN is set
func NewSentryMiddlewareOrMock(conf config.Config) (func(http.HandlerFunc) http.HandlerFunc, func(), error) {
	if conf.SentryDSN() != "" {
		return InitSentryMiddleware(conf.SentryDSN(), environmentName(conf))
	}

	if conf.IsDevelopment() {
		middleware := func(next http.HandlerFunc) http.HandlerFunc {
			return addMetaMiddleware(next)
		}
		flush := func() {}
		return middleware, flush, nil
	}

	return nil, nil, fmt.Errorf("missing Sentry DSN in non-development environment")
}
