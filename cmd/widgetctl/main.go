package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-inventory-dashboard/components/dashboard"
	"github.com/goliatone/go-inventory-dashboard/components/session"
)

type cli struct {
	Scaffold scaffoldCmd `cmd:"" help:"Add or replace a plugin widget entry in a manifest."`
	Preview  previewCmd  `cmd:"" help:"Show the default selection and packing for the catalog."`
	Validate validateCmd `cmd:"" help:"Validate manifests against the widget catalog rules."`
}

type scaffoldCmd struct {
	Name         string   `required:"" help:"Display name for the widget."`
	Label        string   `help:"Widget label (defaults to the kebab-cased name)."`
	Description  string   `required:"" help:"One-line description used in manifests."`
	Category     string   `default:"custom" help:"Widget category (analytics, stats, etc.)."`
	MinWidth     int      `name:"min-width" default:"2" help:"Minimum width in grid columns."`
	MinHeight    int      `name:"min-height" default:"2" help:"Minimum height in grid rows."`
	RequireKind  string   `name:"require-kind" enum:",role,model,staff" default:"" help:"Permission kind required to see the widget."`
	RequireKey   string   `name:"require-key" help:"Role or model name for the requirement."`
	ManifestPath string   `name:"manifest" required:"" type:"path" help:"Path to the widget manifest YAML file to update."`
	SchemaPath   string   `name:"schema" type:"path" help:"Optional path to a JSON schema file for the widget configuration."`
	Tag          []string `help:"Optional tags to include in the manifest (use multiple --tag flags)."`
	Maintainer   []string `help:"Maintainers to record in the manifest."`
	Capabilities []string `help:"Plugin capability labels (json,sse,...)."`
	DocsURL      string   `help:"Link to plugin documentation."`
	Channel      string   `help:"Distribution channel label (community, partner, internal)."`
	Overwrite    bool     `help:"Replace an existing manifest entry with the same label."`

	out io.Writer
}

type previewCmd struct {
	Manifest  []string `type:"existingfile" help:"Manifest files to merge into the catalog."`
	BandWidth int      `name:"band-width" default:"12" help:"Columns available to the packer."`
	JSON      bool     `name:"json" help:"Print the layout as JSON."`

	out io.Writer
}

type validateCmd struct {
	Manifest []string `arg:"" type:"existingfile" help:"Manifest files to validate."`

	out io.Writer
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Widget catalog utility for go-inventory-dashboard manifests."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	label := cmd.label()
	if label == "" {
		return errors.New("widgetctl: widget label is empty")
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("widgetctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	entry := dashboard.ManifestWidget{
		Widget: dashboard.WidgetDescriptor{
			Label:       label,
			Name:        cmd.Name,
			Description: cmd.Description,
			Category:    cmd.Category,
			MinWidth:    cmd.MinWidth,
			MinHeight:   cmd.MinHeight,
			Requires:    cmd.requirement(),
			Schema:      schema,
		},
		Plugin: dashboard.ManifestPlugin{
			Name:         cmd.Name + " Plugin",
			Summary:      cmd.Description,
			DocsURL:      cmd.DocsURL,
			Capabilities: cmd.Capabilities,
			Channel:      cmd.Channel,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}
	if err := dashboard.NewDescriptorValidator().Validate(entry.Widget); err != nil {
		return fmt.Errorf("widgetctl: %w", err)
	}

	replaced := false
	for idx := range doc.Widgets {
		if doc.Widgets[idx].Widget.Label != label {
			continue
		}
		if !cmd.Overwrite {
			return fmt.Errorf("widgetctl: manifest already defines widget %s (use --overwrite to replace)", label)
		}
		doc.Widgets[idx] = entry
		replaced = true
		break
	}
	if !replaced {
		doc.Widgets = append(doc.Widgets, entry)
	}
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Widget.Label < doc.Widgets[j].Widget.Label
	})

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(writerOr(cmd.out), "✓ Added %s to %s\n", label, manifestPath)
	return nil
}

func (cmd *scaffoldCmd) label() string {
	if label := strings.TrimSpace(cmd.Label); label != "" {
		return label
	}
	return strcase.ToKebab(cmd.Name)
}

func (cmd *scaffoldCmd) requirement() *session.Requirement {
	if cmd.RequireKind == "" {
		return nil
	}
	return &session.Requirement{Kind: cmd.RequireKind, Key: cmd.RequireKey, Action: session.ActionView}
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("widgetctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("widgetctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func (cmd *previewCmd) Run(_ context.Context) error {
	registry := dashboard.NewRegistry()
	if err := dashboard.RegisterManifests(registry, cmd.Manifest...); err != nil {
		return fmt.Errorf("widgetctl: %w", err)
	}
	items := registry.Descriptors()
	labels := dashboard.DefaultSelection(items)
	index := make(map[string]dashboard.WidgetDescriptor, len(items))
	for _, item := range items {
		index[item.Label] = item
	}
	widgets := make([]dashboard.WidgetDescriptor, 0, len(labels))
	for _, label := range labels {
		widgets = append(widgets, index[label])
	}
	entries := dashboard.Pack(widgets, cmd.BandWidth)

	out := writerOr(cmd.out)
	if cmd.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dashboard.Layouts{dashboard.DefaultBreakpoint: entries})
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tX\tY\tW\tH")
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", entry.ID, entry.X, entry.Y, entry.W, entry.H)
	}
	return tw.Flush()
}

func (cmd *validateCmd) Run(_ context.Context) error {
	registry := dashboard.NewEmptyRegistry()
	if err := dashboard.RegisterManifests(registry, cmd.Manifest...); err != nil {
		return fmt.Errorf("widgetctl: %w", err)
	}
	fmt.Fprintf(writerOr(cmd.out), "✓ %d widgets valid across %d manifests\n", len(registry.Descriptors()), len(cmd.Manifest))
	return nil
}

func loadOrInitManifest(path string) (*dashboard.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.WidgetManifestDocument{
				Version: dashboard.ManifestVersion,
				Widgets: []dashboard.ManifestWidget{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("widgetctl: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.WidgetManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("widgetctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("widgetctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("widgetctl: write manifest: %w", err)
	}
	return nil
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
