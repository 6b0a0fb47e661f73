package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// WidgetManifestDocument models a YAML/JSON manifest describing plugin widgets.
type WidgetManifestDocument struct {
	Version  string           `json:"version" yaml:"version"`
	Name     string           `json:"name,omitempty" yaml:"name,omitempty"`
	Package  string           `json:"package,omitempty" yaml:"package,omitempty"`
	Homepage string           `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Widgets  []ManifestWidget `json:"widgets" yaml:"widgets"`
	Source   string           `json:"-" yaml:"-"`
}

// ManifestWidget describes a single widget entry within a manifest.
type ManifestWidget struct {
	Widget      WidgetDescriptor `json:"widget" yaml:"widget"`
	Plugin      ManifestPlugin   `json:"plugin,omitempty" yaml:"plugin,omitempty"`
	Maintainers []string         `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestPlugin captures discovery metadata about the backend plugin that
// serves a widget.
type ManifestPlugin struct {
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Summary      string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Entry        string   `json:"entry,omitempty" yaml:"entry,omitempty"`
	Package      string   `json:"package,omitempty" yaml:"package,omitempty"`
	DocsURL      string   `json:"docs_url,omitempty" yaml:"docs_url,omitempty"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Channel      string   `json:"channel,omitempty" yaml:"channel,omitempty"`
}

// LoadManifestFile reads the manifest at path and registers its widgets.
func (r *Registry) LoadManifestFile(path string) (*WidgetManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	return doc, r.LoadManifestDocument(doc)
}

// LoadManifestDocument registers every widget of doc as a manifest widget and
// records its plugin metadata. Registration stops at the first failure.
func (r *Registry) LoadManifestDocument(doc *WidgetManifestDocument) error {
	if doc == nil {
		return errors.New("dashboard: manifest document is nil")
	}
	for _, entry := range doc.Widgets {
		desc := entry.Widget
		desc.Source = SourceManifest
		if err := r.RegisterDescriptor(desc); err != nil {
			return fmt.Errorf("dashboard: register widget %s from %s: %w", desc.Label, doc.Source, err)
		}
		r.recordPluginMetadata(desc.Label, entry.Plugin)
	}
	return nil
}

// ReadManifest decodes the manifest at path. Files ending in .json are read
// as JSON, everything else as YAML.
func ReadManifest(path string) (*WidgetManifestDocument, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	decode := DecodeManifest
	if strings.EqualFold(filepath.Ext(path), ".json") {
		decode = DecodeManifestJSON
	}
	doc, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a YAML manifest. Unknown keys are rejected.
func DecodeManifest(r io.Reader) (*WidgetManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc WidgetManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	return finishManifest(&doc)
}

// DecodeManifestJSON reads a JSON manifest. Unknown keys are rejected.
func DecodeManifestJSON(r io.Reader) (*WidgetManifestDocument, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	var doc WidgetManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	return finishManifest(&doc)
}

func finishManifest(doc *WidgetManifestDocument) (*WidgetManifestDocument, error) {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate reports every problem in the manifest, joined.
func (doc *WidgetManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	var errs []error
	seen := make(map[string]struct{}, len(doc.Widgets))
	for idx, entry := range doc.Widgets {
		w := entry.Widget
		if w.Label == "" {
			errs = append(errs, fmt.Errorf("dashboard: manifest widget at index %d is missing widget.label", idx))
			continue
		}
		if w.Name == "" {
			errs = append(errs, fmt.Errorf("dashboard: manifest widget %s missing widget.name", w.Label))
		}
		if w.MinWidth < 1 {
			errs = append(errs, fmt.Errorf("dashboard: manifest widget %s needs min_width of at least 1", w.Label))
		}
		if w.MinHeight < 1 {
			errs = append(errs, fmt.Errorf("dashboard: manifest widget %s needs min_height of at least 1", w.Label))
		}
		if _, dup := seen[w.Label]; dup {
			errs = append(errs, fmt.Errorf("dashboard: manifest duplicates widget label %s", w.Label))
		}
		seen[w.Label] = struct{}{}
	}
	return errors.Join(errs...)
}

func (p ManifestPlugin) isZero() bool {
	return p.Name == "" && p.Summary == "" && p.Entry == "" && p.Package == "" &&
		p.DocsURL == "" && len(p.Capabilities) == 0 && p.Channel == ""
}
