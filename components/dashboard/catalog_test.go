package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-inventory-dashboard/components/session"
)

func labelsOf(items []WidgetDescriptor) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Label)
	}
	return out
}

func TestCatalogLoaderMergesRemoteWidgets(t *testing.T) {
	remote := &staticRemote{items: []WidgetDescriptor{
		{Label: "plugin-a", Name: "Plugin A", MinWidth: 3, MinHeight: 2},
		{Label: "low-stk", Name: "Shadowed", MinWidth: 9, MinHeight: 9},
		{Label: "plugin-bad", MinWidth: 0, MinHeight: 2},
	}}
	loader := NewCatalogLoader(CatalogOptions{Registry: testRegistry(), Remote: remote})

	snapshot := loader.Load(context.Background(), grantAll{})

	require.True(t, snapshot.Loaded)
	require.NoError(t, snapshot.Err)
	assert.Equal(t, []string{"filtered-orders-chart", "low-stk", "gstart", "plugin-a"}, labelsOf(snapshot.Items))
	desc, ok := snapshot.Descriptor("plugin-a")
	require.True(t, ok)
	assert.Equal(t, SourcePlugin, desc.Source)
	low, _ := snapshot.Descriptor("low-stk")
	assert.Equal(t, 2, low.MinWidth, "builtin wins over remote duplicate")
}

func TestCatalogLoaderRemoteFailureKeepsBuiltins(t *testing.T) {
	loader := NewCatalogLoader(CatalogOptions{
		Registry: testRegistry(),
		Remote:   &staticRemote{err: errors.New("plugins offline")},
	})

	snapshot := loader.Load(context.Background(), grantAll{})

	assert.True(t, snapshot.Loaded)
	assert.Error(t, snapshot.Err)
	assert.Contains(t, snapshot.ErrorMessage(), "plugins offline")
	assert.Len(t, snapshot.Items, 3)
}

func TestCatalogLoaderCachesRemoteWidgets(t *testing.T) {
	remote := &staticRemote{items: []WidgetDescriptor{{Label: "plugin-a", MinWidth: 1, MinHeight: 1}}}
	loader := NewCatalogLoader(CatalogOptions{
		Registry: testRegistry(),
		Remote:   remote,
		Cache:    NewDescriptorCache(time.Minute),
	})

	loader.Load(context.Background(), grantAll{})
	loader.Load(context.Background(), grantAll{})
	assert.Equal(t, 1, remote.calls)

	loader.Invalidate()
	loader.Load(context.Background(), grantAll{})
	assert.Equal(t, 2, remote.calls)
}

func TestFilterAvailableAppliesRequirements(t *testing.T) {
	items := []WidgetDescriptor{
		{Label: "open"},
		{Label: "sales", Requires: session.ViewRole("sales_order")},
		{Label: "parts", Requires: session.ViewModel("part")},
		{Label: "staff", Requires: &session.Requirement{Kind: session.RequireStaff}},
	}

	assert.Equal(t, []string{"open", "parts"}, labelsOf(FilterAvailable(items, roleGrants{"part": true})))
	assert.Equal(t, []string{"open"}, labelsOf(FilterAvailable(items, nil)))
	assert.Len(t, FilterAvailable(items, grantAll{}), 4)
}

func TestDefaultCatalogHonoursPermissions(t *testing.T) {
	loader := NewCatalogLoader(CatalogOptions{})
	snapshot := loader.Load(context.Background(), roleGrants{session.RoleBuild: true})

	assert.ElementsMatch(t, []string{"req-stk", "act-bo", "gstart"}, labelsOf(snapshot.Items))
}
