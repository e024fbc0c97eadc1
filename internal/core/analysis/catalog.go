package analysis

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

// Family groups attribute values that read as the same thing to a shopper.
type Family struct {
	Name    string
	Members []string
}

func (f Family) contains(value string) bool {
	return slices.Contains(f.Members, value)
}

// Weights are the per-attribute credits of the similarity score.
type Weights struct {
	Color      int
	Silhouette int
	Style      int
	Material   int
}

func (w Weights) Total() int {
	return w.Color + w.Silhouette + w.Style + w.Material
}

// Catalog holds the vocabulary and tables the engine works against.
// Families are ordered: when a value appears in several families the first one wins.
type Catalog struct {
	ColorOptions       []string
	StyleOptions       []string
	SilhouetteOptions  map[string][]string
	ColorFamilies      []Family
	SilhouetteFamilies []Family
	ColorAliases       map[string]string
	CategoryLabels     map[string]string
	Weights            Weights
}

func DefaultCatalog() Catalog {
	return Catalog{
		ColorOptions: []string{
			"Black", "White", "Grey", "Navy", "Blue", "Light Blue", "Red", "Burgundy",
			"Pink", "Purple", "Green", "Olive", "Yellow", "Orange", "Brown", "Beige",
			"Cream", "Tan", "Khaki", "Gold", "Silver", "Multicolor",
		},
		StyleOptions: []string{
			"Casual", "Smart Casual", "Elegant", "Business", "Sporty",
			"Bohemian", "Streetwear", "Special Occasion",
		},
		SilhouetteOptions: map[string][]string{
			"top":       {"Fitted", "Slim Fit", "Regular", "Loose", "Oversized", "Cropped", "Boxy"},
			"bottom":    {"Skinny", "Slim Fit", "Straight", "Wide Leg", "Bootcut", "Flared", "Relaxed", "A-Line", "Pencil", "Pleated"},
			"one_piece": {"A-Line", "Bodycon", "Shift", "Wrap", "Fit and Flare", "Slip", "Sheath", "Relaxed"},
			"outerwear": {"Fitted", "Regular", "Oversized", "Cropped", "Longline", "Boxy"},
		},
		ColorFamilies: []Family{
			{Name: "blacks", Members: []string{"Black", "Grey", "Charcoal"}},
			{Name: "whites", Members: []string{"White", "Cream", "Ivory", "Off-White"}},
			{Name: "blues", Members: []string{"Navy", "Blue", "Light Blue", "Denim"}},
			{Name: "reds", Members: []string{"Red", "Burgundy", "Maroon", "Crimson", "Wine"}},
			{Name: "pinks", Members: []string{"Pink", "Blush", "Rose", "Fuchsia"}},
			{Name: "purples", Members: []string{"Purple", "Lavender", "Lilac", "Plum"}},
			{Name: "greens", Members: []string{"Green", "Olive", "Emerald", "Mint", "Sage"}},
			{Name: "browns", Members: []string{"Brown", "Beige", "Tan", "Khaki", "Camel", "Taupe"}},
			{Name: "yellows", Members: []string{"Yellow", "Mustard"}},
			{Name: "oranges", Members: []string{"Orange", "Coral", "Rust"}},
			{Name: "metallics", Members: []string{"Gold", "Silver", "Bronze"}},
		},
		SilhouetteFamilies: []Family{
			{Name: "fitted", Members: []string{"Fitted", "Slim Fit", "Skinny", "Bodycon", "Sheath", "Pencil"}},
			{Name: "straight", Members: []string{"Regular", "Straight", "Shift"}},
			{Name: "relaxed", Members: []string{"Loose", "Relaxed", "Oversized", "Boxy"}},
			{Name: "flared", Members: []string{"Wide Leg", "Flared", "Bootcut", "A-Line", "Fit and Flare"}},
		},
		ColorAliases: map[string]string{
			"gray":      "Grey",
			"charcoal":  "Grey",
			"crimson":   "Red",
			"scarlet":   "Red",
			"maroon":    "Burgundy",
			"wine":      "Burgundy",
			"ivory":     "Cream",
			"off-white": "Cream",
			"denim":     "Blue",
			"sky blue":  "Light Blue",
			"baby blue": "Light Blue",
			"camel":     "Tan",
			"taupe":     "Beige",
			"chocolate": "Brown",
			"mustard":   "Yellow",
			"lavender":  "Purple",
			"lilac":     "Purple",
			"plum":      "Purple",
			"coral":     "Orange",
			"rust":      "Orange",
			"emerald":   "Green",
			"mint":      "Green",
			"sage":      "Green",
			"fuchsia":   "Pink",
			"blush":     "Pink",
			"multi":     "Multicolor",
			"striped":   "Multicolor",
			"floral":    "Multicolor",
		},
		CategoryLabels: map[string]string{
			"top":       "tops",
			"bottom":    "bottoms",
			"one_piece": "dresses and jumpsuits",
			"outerwear": "outerwear pieces",
			"footwear":  "shoes",
			"accessory": "accessories",
			"other":     "items",
		},
		Weights: Weights{Color: 30, Silhouette: 30, Style: 25, Material: 15},
	}
}

// Clone returns a deep copy so callers can never mutate a catalog in use.
func (c Catalog) Clone() Catalog {
	out := Catalog{
		ColorOptions:       slices.Clone(c.ColorOptions),
		StyleOptions:       slices.Clone(c.StyleOptions),
		SilhouetteOptions:  make(map[string][]string, len(c.SilhouetteOptions)),
		ColorFamilies:      cloneFamilies(c.ColorFamilies),
		SilhouetteFamilies: cloneFamilies(c.SilhouetteFamilies),
		ColorAliases:       maps.Clone(c.ColorAliases),
		CategoryLabels:     maps.Clone(c.CategoryLabels),
		Weights:            c.Weights,
	}
	for category, options := range c.SilhouetteOptions {
		out.SilhouetteOptions[category] = slices.Clone(options)
	}
	return out
}

func cloneFamilies(in []Family) []Family {
	out := make([]Family, 0, len(in))
	for _, f := range in {
		out = append(out, Family{Name: f.Name, Members: slices.Clone(f.Members)})
	}
	return out
}

func (c Catalog) Validate() error {
	var problems []error

	w := c.Weights
	if w.Color < 0 || w.Silhouette < 0 || w.Style < 0 || w.Material < 0 {
		problems = append(problems, errors.New("weights must be non-negative"))
	}
	if w.Total() != 100 {
		problems = append(problems, fmt.Errorf("weights must sum to 100, got %d", w.Total()))
	}
	if len(c.ColorOptions) == 0 {
		problems = append(problems, errors.New("color options are empty"))
	}
	if len(c.StyleOptions) == 0 {
		problems = append(problems, errors.New("style options are empty"))
	}
	problems = append(problems, validateFamilies("color", c.ColorFamilies)...)
	problems = append(problems, validateFamilies("silhouette", c.SilhouetteFamilies)...)

	for _, alias := range slices.Sorted(maps.Keys(c.ColorAliases)) {
		target := c.ColorAliases[alias]
		if strings.TrimSpace(alias) == "" {
			problems = append(problems, errors.New("color alias with empty keyword"))
			continue
		}
		if !slices.Contains(c.ColorOptions, target) {
			problems = append(problems, fmt.Errorf("color alias %q points to unknown option %q", alias, target))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return domain.WrapError(domain.ErrInvalidInput, "validate catalog", errors.Join(problems...))
}

func validateFamilies(dimension string, families []Family) []error {
	var problems []error
	for idx, f := range families {
		if strings.TrimSpace(f.Name) == "" {
			problems = append(problems, fmt.Errorf("%s family #%d has no name", dimension, idx+1))
		}
		if len(f.Members) == 0 {
			problems = append(problems, fmt.Errorf("%s family %q has no members", dimension, f.Name))
		}
	}
	return problems
}

func (c Catalog) categoryLabel(category string) string {
	if label, ok := c.CategoryLabels[category]; ok && label != "" {
		return label
	}
	if category == "" {
		return "items"
	}
	return strings.ReplaceAll(category, "_", " ") + "s"
}
