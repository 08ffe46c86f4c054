package console

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bookingops/console/internal/domain/catalog"
	"github.com/bookingops/console/internal/domain/partner"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/infrastructure/logger"
)

// Lookup keys, named after the entity they cache
const (
	LookupCategories = "category"
	LookupItems      = "item"
	LookupOptions    = "option"
	LookupWorkers    = "worker"
)

// LookupSources are the collections dropdown choices are read from
type LookupSources struct {
	Categories shared.Reader[catalog.Category]
	Items      shared.Reader[catalog.Item]
	Options    shared.Reader[catalog.Option]
	Workers    shared.Reader[partner.Worker]
}

// Lookups caches whole collections used as dropdown choices
type Lookups struct {
	src   LookupSources
	state shared.StateStore
	ttl   time.Duration
}

// NewLookups creates a lookup cache. A zero ttl disables caching.
func NewLookups(src LookupSources, state shared.StateStore, ttl time.Duration) *Lookups {
	return &Lookups{src: src, state: state, ttl: ttl}
}

// Categories returns every category
func (l *Lookups) Categories(ctx context.Context) ([]catalog.Category, error) {
	return cached(ctx, l, LookupCategories, l.src.Categories)
}

// Items returns every item
func (l *Lookups) Items(ctx context.Context) ([]catalog.Item, error) {
	return cached(ctx, l, LookupItems, l.src.Items)
}

// Options returns every option
func (l *Lookups) Options(ctx context.Context) ([]catalog.Option, error) {
	return cached(ctx, l, LookupOptions, l.src.Options)
}

// Workers returns every worker
func (l *Lookups) Workers(ctx context.Context) ([]partner.Worker, error) {
	return cached(ctx, l, LookupWorkers, l.src.Workers)
}

// Invalidate drops the cached collection of an entity after it was written
func (l *Lookups) Invalidate(ctx context.Context, entity string) {
	switch entity {
	case LookupCategories, LookupItems, LookupOptions, LookupWorkers:
	default:
		return
	}
	if err := l.state.Delete(ctx, lookupKey(entity)); err != nil {
		logger.L(ctx).Warn("Failed to invalidate lookup", zap.String("entity", entity), zap.Error(err))
	}
}

func lookupKey(entity string) string {
	return "lookup:" + entity
}

func cached[T any](ctx context.Context, l *Lookups, entity string, reader shared.Reader[T]) ([]T, error) {
	if reader == nil {
		return nil, shared.Errorf(shared.CodeNotSupported, "no lookup source for %s", entity)
	}
	key := lookupKey(entity)
	var rows []T
	if l.ttl > 0 {
		err := l.state.Load(ctx, key, &rows)
		if err == nil {
			return rows, nil
		}
		if !shared.IsCode(err, shared.CodeNotFound) {
			logger.L(ctx).Warn("Lookup cache read failed", zap.String("entity", entity), zap.Error(err))
		}
	}

	page, err := reader.Search(ctx, shared.AllPages())
	if err != nil {
		return nil, err
	}
	rows = page.Nodes
	if l.ttl > 0 {
		if err := l.state.Store(ctx, key, rows, l.ttl); err != nil {
			logger.L(ctx).Warn("Lookup cache write failed", zap.String("entity", entity), zap.Error(err))
		}
	}
	return rows, nil
}
