// Package yamlfile loads catalog overrides from a YAML document.
package yamlfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/analysis"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

type document struct {
	ColorOptions       []string            `yaml:"color_options"`
	StyleOptions       []string            `yaml:"style_options"`
	SilhouetteOptions  map[string][]string `yaml:"silhouette_options"`
	ColorFamilies      []family            `yaml:"color_families"`
	SilhouetteFamilies []family            `yaml:"silhouette_families"`
	ColorAliases       map[string]string   `yaml:"color_aliases"`
	CategoryLabels     map[string]string   `yaml:"category_labels"`
	Weights            *weights            `yaml:"weights"`
}

type family struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

type weights struct {
	Color      int `yaml:"color"`
	Silhouette int `yaml:"silhouette"`
	Style      int `yaml:"style"`
	Material   int `yaml:"material"`
}

// Load reads the catalog at path. Sections missing from the file keep their
// built-in values; a present section replaces the built-in one entirely.
func Load(path string) (analysis.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return analysis.Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	catalog, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return analysis.Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalog, nil
}

func Decode(r io.Reader) (analysis.Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return analysis.Catalog{}, domain.WrapError(domain.ErrInvalidInput, "decode catalog", err)
	}

	catalog := doc.apply(analysis.DefaultCatalog())
	if err := catalog.Validate(); err != nil {
		return analysis.Catalog{}, err
	}
	return catalog, nil
}

func (d document) apply(base analysis.Catalog) analysis.Catalog {
	if d.ColorOptions != nil {
		base.ColorOptions = d.ColorOptions
	}
	if d.StyleOptions != nil {
		base.StyleOptions = d.StyleOptions
	}
	if d.SilhouetteOptions != nil {
		base.SilhouetteOptions = d.SilhouetteOptions
	}
	if d.ColorFamilies != nil {
		base.ColorFamilies = toFamilies(d.ColorFamilies)
	}
	if d.SilhouetteFamilies != nil {
		base.SilhouetteFamilies = toFamilies(d.SilhouetteFamilies)
	}
	if d.ColorAliases != nil {
		base.ColorAliases = d.ColorAliases
	}
	if d.CategoryLabels != nil {
		base.CategoryLabels = d.CategoryLabels
	}
	if d.Weights != nil {
		base.Weights = analysis.Weights{
			Color:      d.Weights.Color,
			Silhouette: d.Weights.Silhouette,
			Style:      d.Weights.Style,
			Material:   d.Weights.Material,
		}
	}
	return base
}

func toFamilies(in []family) []analysis.Family {
	out := make([]analysis.Family, 0, len(in))
	for _, f := range in {
		out = append(out, analysis.Family{Name: f.Name, Members: f.Members})
	}
	return out
}
