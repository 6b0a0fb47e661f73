package dashboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

const testManifest = `
version: 1
widgets:
  - widget:
      label: plugin-stock-forecast
      name: Stock Forecast
      min_width: 3
      min_height: 2
    plugin:
      name: forecasting
      version: 0.2.0
`

func TestRegisterManifestsLoadsFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widgets.yaml")
	if err := os.WriteFile(path, []byte(testManifest), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	registry := NewEmptyRegistry()
	if err := RegisterManifests(registry, path, ""); err != nil {
		t.Fatalf("RegisterManifests returned error: %v", err)
	}
	desc, ok := registry.Descriptor("plugin-stock-forecast")
	if !ok || desc.Source != SourceManifest || desc.MinWidth != 3 {
		t.Fatalf("expected manifest widget registered, got %+v", desc)
	}
	if meta, ok := registry.PluginMetadata("plugin-stock-forecast"); !ok || meta.Name != "forecasting" {
		t.Fatalf("expected plugin metadata, got %+v", meta)
	}
}

func TestRegisterManifestsJoinsFailures(t *testing.T) {
	err := RegisterManifests(NewEmptyRegistry(), "missing-a.yaml", "missing-b.yaml")
	if err == nil {
		t.Fatalf("expected error for missing manifests")
	}
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected path error in chain, got %v", err)
	}
}

func TestSeedDashboardReplacesSelection(t *testing.T) {
	service := newTestService(Options{})
	viewer := ViewerContext{UserID: "user-1", Permissions: grantAll{}}

	err := SeedDashboard(context.Background(), service, viewer, "gstart", "ghost", "low-stk")
	if !errors.Is(err, ErrUnknownWidget) {
		t.Fatalf("expected unknown widget reported, got %v", err)
	}
	view, _ := service.State(context.Background(), viewer)
	if got := view.Labels(); !slices.Equal(got, []string{"gstart", "low-stk"}) {
		t.Fatalf("unexpected seeded selection %v", got)
	}
}

func TestSeedDashboardRequiresService(t *testing.T) {
	if err := SeedDashboard(context.Background(), nil, ViewerContext{UserID: "u"}); err == nil {
		t.Fatalf("expected error without service")
	}
}
