package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "dashboard"

const (
	fieldWidgets = "widgets"
	fieldLayouts = "layouts"
	fieldNav     = "nav"
	fieldSample  = "sample"
)

// Options configures a Store.
type Options struct {
	Prefix string
	// TTL expires every key after inactivity. Zero keeps keys forever.
	TTL time.Duration
}

// Store is a Redis-backed dashboard.StateStore. Each field lives under its own
// key so writes never clobber each other.
type Store struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

var _ dashboard.StateStore = (*Store)(nil)

// New wraps a go-redis client.
func New(client redis.Cmdable, opts Options) *Store {
	prefix := strings.TrimRight(opts.Prefix, ":")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix, ttl: opts.TTL}
}

// LoadDashboard reads widgets, layouts and the sample flag in one round trip.
func (s *Store) LoadDashboard(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.StoredDashboard, error) {
	if viewer.UserID == "" {
		return dashboard.StoredDashboard{}, dashboard.ErrMissingViewer
	}
	values, err := s.client.MGet(ctx,
		s.key(viewer, fieldWidgets),
		s.key(viewer, fieldLayouts),
		s.key(viewer, fieldSample),
	).Result()
	if err != nil {
		return dashboard.StoredDashboard{}, fmt.Errorf("redisstore: load dashboard: %w", err)
	}
	var stored dashboard.StoredDashboard
	if raw, ok := values[0].(string); ok {
		if err := json.Unmarshal([]byte(raw), &stored.Widgets); err != nil {
			return dashboard.StoredDashboard{}, fmt.Errorf("redisstore: decode widgets: %w", err)
		}
	}
	if raw, ok := values[1].(string); ok {
		if err := json.Unmarshal([]byte(raw), &stored.Layouts); err != nil {
			return dashboard.StoredDashboard{}, fmt.Errorf("redisstore: decode layouts: %w", err)
		}
	}
	if raw, ok := values[2].(string); ok {
		stored.ShowSampleDashboard, _ = strconv.ParseBool(raw)
	}
	return stored, nil
}

// SaveWidgets replaces the stored selection.
func (s *Store) SaveWidgets(ctx context.Context, viewer dashboard.ViewerContext, widgets []string) error {
	if widgets == nil {
		widgets = []string{}
	}
	return s.setJSON(ctx, viewer, fieldWidgets, widgets)
}

// SaveLayouts replaces the stored layouts.
func (s *Store) SaveLayouts(ctx context.Context, viewer dashboard.ViewerContext, layouts dashboard.Layouts) error {
	if layouts == nil {
		layouts = dashboard.Layouts{}
	}
	return s.setJSON(ctx, viewer, fieldLayouts, layouts)
}

// NavigationOpen returns nil when the flag was never written.
func (s *Store) NavigationOpen(ctx context.Context, viewer dashboard.ViewerContext) (*bool, error) {
	value, ok, err := s.getBool(ctx, viewer, fieldNav)
	if err != nil || !ok {
		return nil, err
	}
	return &value, nil
}

// SetNavigationOpen stores the drawer flag.
func (s *Store) SetNavigationOpen(ctx context.Context, viewer dashboard.ViewerContext, open bool) error {
	return s.set(ctx, viewer, fieldNav, strconv.FormatBool(open))
}

// ShowSampleDashboard defaults to false when unset.
func (s *Store) ShowSampleDashboard(ctx context.Context, viewer dashboard.ViewerContext) (bool, error) {
	value, _, err := s.getBool(ctx, viewer, fieldSample)
	return value, err
}

// SetShowSampleDashboard stores the sample flag.
func (s *Store) SetShowSampleDashboard(ctx context.Context, viewer dashboard.ViewerContext, show bool) error {
	return s.set(ctx, viewer, fieldSample, strconv.FormatBool(show))
}

func (s *Store) key(viewer dashboard.ViewerContext, field string) string {
	return s.prefix + ":" + viewer.UserID + ":" + field
}

func (s *Store) setJSON(ctx context.Context, viewer dashboard.ViewerContext, field string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redisstore: encode %s: %w", field, err)
	}
	return s.set(ctx, viewer, field, string(raw))
}

func (s *Store) set(ctx context.Context, viewer dashboard.ViewerContext, field, value string) error {
	if viewer.UserID == "" {
		return dashboard.ErrMissingViewer
	}
	if err := s.client.Set(ctx, s.key(viewer, field), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: save %s: %w", field, err)
	}
	return nil
}

func (s *Store) getBool(ctx context.Context, viewer dashboard.ViewerContext, field string) (bool, bool, error) {
	if viewer.UserID == "" {
		return false, false, dashboard.ErrMissingViewer
	}
	raw, err := s.client.Get(ctx, s.key(viewer, field)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("redisstore: load %s: %w", field, err)
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, fmt.Errorf("redisstore: decode %s: %w", field, err)
	}
	return value, true, nil
}
