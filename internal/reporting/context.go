package reporting

import (
	"context"
	"maps"
	"net/http"
	"time"
)

type metaKey struct{}

// ReportingMeta is attached to every error reported while handling a request
type ReportingMeta struct {
	tags      map[string]string
	extras    map[string]string
	userID    string
	startedAt time.Time
}

func (m ReportingMeta) clone() ReportingMeta {
	m.tags = maps.Clone(m.tags)
	if m.tags == nil {
		m.tags = map[string]string{}
	}
	m.extras = maps.Clone(m.extras)
	if m.extras == nil {
		m.extras = map[string]string{}
	}
	return m
}

// MetaFromContext returns a copy of the meta in ctx that is safe to modify
func MetaFromContext(ctx context.Context) ReportingMeta {
	meta, _ := ctx.Value(metaKey{}).(ReportingMeta)
	return meta.clone()
}

// updateMeta stores a modified copy of the meta, leaving the parent context untouched
func updateMeta(ctx context.Context, update func(meta *ReportingMeta)) context.Context {
	meta := MetaFromContext(ctx)
	update(&meta)
	return context.WithValue(ctx, metaKey{}, meta)
}

func setStartedAtInContext(ctx context.Context, startedAt time.Time) context.Context {
	return updateMeta(ctx, func(meta *ReportingMeta) {
		meta.startedAt = startedAt
	})
}

func AddExtrasToContext(ctx context.Context, extras map[string]string) context.Context {
	return updateMeta(ctx, func(meta *ReportingMeta) {
		maps.Copy(meta.extras, extras)
	})
}

func AddTagsToContext(ctx context.Context, tags map[string]string) context.Context {
	return updateMeta(ctx, func(meta *ReportingMeta) {
		maps.Copy(meta.tags, tags)
	})
}

func SetUserIDInContext(ctx context.Context, userID string) context.Context {
	return updateMeta(ctx, func(meta *ReportingMeta) {
		meta.userID = userID
	})
}

// NewAddMetaMiddleware tags every report made while handling the request with the route name
func NewAddMetaMiddleware(routeName string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			next(w, r.WithContext(AddTagsToContext(r.Context(), map[string]string{"route": routeName})))
		}
	}
}
