package goadmin

import (
	"context"
	"errors"
	"fmt"

	core "github.com/goliatone/go-inventory-dashboard/components/dashboard"
	"github.com/goliatone/go-inventory-dashboard/components/navigation"
	dashboardpkg "github.com/goliatone/go-inventory-dashboard/pkg/dashboard"
)

// MenuBuilder ensures dashboard entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures navigation link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Section  string
	Position int
}

// Config wires the dashboard service and navigation menu into an admin shell.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *dashboardpkg.Service
	Menu            []navigation.Section
	DefaultLabels   []string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed menus and dashboards.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableDashboard && cfg.Service == nil {
		return nil, errors.New("goadmin: dashboard service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.Menu == nil {
		cfg.Menu = navigation.DefaultMenu()
	}
	return &Admin{cfg: cfg}, nil
}

// Dashboard exposes the configured dashboard service when enabled.
func (a *Admin) Dashboard() *dashboardpkg.Service {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.cfg.Service
}

// MenuItems flattens the navigation menu into admin menu entries. The
// dashboard entry is skipped when the dashboard is disabled.
func (a *Admin) MenuItems() []MenuItem {
	var items []MenuItem
	for _, section := range a.cfg.Menu {
		for _, item := range section.Items {
			if item.ID == "home" && !a.cfg.EnableDashboard {
				continue
			}
			items = append(items, MenuItem{
				Label:    item.Title,
				Route:    item.Link,
				Icon:     item.Icon,
				Section:  section.ID,
				Position: len(items),
			})
		}
	}
	return items
}

// Bootstrap seeds menu entries. Every item is attempted; failures are joined.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if a.cfg.MenuBuilder == nil {
		return nil
	}
	var errs []error
	for _, item := range a.MenuItems() {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			errs = append(errs, fmt.Errorf("goadmin: ensure %s: %w", item.Label, err))
		}
	}
	return errors.Join(errs...)
}

// SeedViewer replaces a viewer's dashboard with the configured default labels.
func (a *Admin) SeedViewer(ctx context.Context, viewer core.ViewerContext) error {
	if !a.cfg.EnableDashboard || len(a.cfg.DefaultLabels) == 0 {
		return nil
	}
	return core.SeedDashboard(ctx, a.cfg.Service, viewer, a.cfg.DefaultLabels...)
}
