package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

func TestScaffoldWritesManifestEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.yaml")
	cmd := &scaffoldCmd{
		Name:         "Reorder Alerts",
		Description:  "Parts under their reorder point.",
		Category:     "stats",
		MinWidth:     3,
		MinHeight:    2,
		RequireKind:  "role",
		RequireKey:   "stock",
		ManifestPath: path,
		out:          &bytes.Buffer{},
	}
	require.NoError(t, cmd.Run(context.Background()))

	doc, err := dashboard.ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)
	widget := doc.Widgets[0].Widget
	assert.Equal(t, "reorder-alerts", widget.Label)
	assert.Equal(t, 3, widget.MinWidth)
	require.NotNil(t, widget.Requires)
	assert.Equal(t, "stock", widget.Requires.Key)

	err = cmd.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defines")

	cmd.Overwrite = true
	cmd.MinWidth = 4
	require.NoError(t, cmd.Run(context.Background()))
	doc, err = dashboard.ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)
	assert.Equal(t, 4, doc.Widgets[0].Widget.MinWidth)
}

func TestPreviewPrintsDefaultPacking(t *testing.T) {
	var out bytes.Buffer
	cmd := &previewCmd{BandWidth: 12, out: &out}
	require.NoError(t, cmd.Run(context.Background()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "LABEL"))
	assert.True(t, strings.HasPrefix(lines[1], dashboard.DefaultPriority[0]))
}

func TestValidateRejectsBrokenManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	scaffold := &scaffoldCmd{Name: "Ok", Description: "fine", MinWidth: 1, MinHeight: 1, ManifestPath: path, out: &bytes.Buffer{}}
	require.NoError(t, scaffold.Run(context.Background()))

	var out bytes.Buffer
	require.NoError(t, (&validateCmd{Manifest: []string{path}, out: &out}).Run(context.Background()))
	assert.Contains(t, out.String(), "1 widgets valid")

	err := (&validateCmd{Manifest: []string{filepath.Join(t.TempDir(), "missing.yaml")}}).Run(context.Background())
	assert.Error(t, err)
}
