package navigation

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

var errMissingState = errors.New("navigation: drawer state is required")

// State reports and persists the drawer flag, seeding it open on first read.
// *dashboard.Service satisfies it.
type State interface {
	NavigationOpen(ctx context.Context, viewer dashboard.ViewerContext) (bool, error)
	SetNavigationOpen(ctx context.Context, viewer dashboard.ViewerContext, open bool) error
}

// Options configures a Drawer.
type Options struct {
	State        State
	Menu         []Section
	Settings     Settings
	InstanceName string
	Assets       Assets
}

// View is the resolved drawer for one viewer.
type View struct {
	Open     bool      `json:"open"`
	Logo     Logo      `json:"logo"`
	Sections []Section `json:"sections"`
}

// Drawer combines the menu model with the persisted open flag.
type Drawer struct {
	opts Options
}

// NewDrawer builds a drawer. A nil menu uses DefaultMenu.
func NewDrawer(opts Options) *Drawer {
	if opts.Menu == nil {
		opts.Menu = DefaultMenu()
	}
	if opts.Settings == nil {
		opts.Settings = SettingsMap{}
	}
	if opts.InstanceName == "" {
		opts.InstanceName = "Invex"
	}
	return &Drawer{opts: opts}
}

// Open reports the flag for viewer.
func (d *Drawer) Open(ctx context.Context, viewer dashboard.ViewerContext) (bool, error) {
	if d.opts.State == nil {
		return false, errMissingState
	}
	open, err := d.opts.State.NavigationOpen(ctx, viewer)
	if err != nil {
		return false, fmt.Errorf("navigation: drawer state: %w", err)
	}
	return open, nil
}

// SetOpen persists the flag.
func (d *Drawer) SetOpen(ctx context.Context, viewer dashboard.ViewerContext, open bool) error {
	if d.opts.State == nil {
		return errMissingState
	}
	if err := d.opts.State.SetNavigationOpen(ctx, viewer, open); err != nil {
		return fmt.Errorf("navigation: drawer state: %w", err)
	}
	return nil
}

// Toggle flips the flag and returns the new value.
func (d *Drawer) Toggle(ctx context.Context, viewer dashboard.ViewerContext) (bool, error) {
	open, err := d.Open(ctx, viewer)
	if err != nil {
		return false, err
	}
	return !open, d.SetOpen(ctx, viewer, !open)
}

// View resolves the drawer for viewer in the given color scheme.
func (d *Drawer) View(ctx context.Context, viewer dashboard.ViewerContext, colorScheme string) (View, error) {
	open, err := d.Open(ctx, viewer)
	if err != nil {
		return View{}, err
	}
	return View{
		Open:     open,
		Logo:     LogoFor(colorScheme, d.opts.InstanceName, d.opts.Assets),
		Sections: Resolve(d.opts.Menu, viewer.Permissions, d.opts.Settings),
	}, nil
}
