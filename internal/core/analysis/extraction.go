package analysis

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

const (
	confidenceExact          = 95
	confidenceOptionContains = 85
	confidenceValueContains  = 80
	confidenceLookup         = 70

	// Shorter fragments match too many options to be meaningful.
	minSubstringRunes = 3
)

var extractionKeys = map[string]string{
	"color":         "color",
	"colour":        "color",
	"main color":    "color",
	"primary color": "color",
	"silhouette":    "silhouette",
	"fit":           "silhouette",
	"shape":         "silhouette",
	"cut":           "silhouette",
	"style":         "style",
	"aesthetic":     "style",
}

var blankValues = map[string]struct{}{
	"":        {},
	"n/a":     {},
	"na":      {},
	"none":    {},
	"null":    {},
	"unknown": {},
	"-":       {},
}

type vocabulary struct {
	options  []string
	aliases  map[string]string
	families []Family
}

// ParseExtractionResponse reads "key: value" lines produced by a vision or
// text model and validates each value against the catalog. ok is false when
// color or style cannot be resolved; the item then has to skip duplicate
// analysis. Silhouette may stay empty.
func (e *Engine) ParseExtractionResponse(text, category string) (domain.ExtractedAttributes, bool) {
	fields := parseKeyValues(text)

	attrs := domain.ExtractedAttributes{
		Color: resolve(fields["color"], vocabulary{
			options:  e.catalog.ColorOptions,
			aliases:  e.catalog.ColorAliases,
			families: e.catalog.ColorFamilies,
		}),
		Style: resolve(fields["style"], vocabulary{options: e.catalog.StyleOptions}),
	}
	if options := e.catalog.SilhouetteOptions[category]; len(options) > 0 {
		attrs.Silhouette = resolve(fields["silhouette"], vocabulary{
			options:  options,
			families: e.catalog.SilhouetteFamilies,
		})
	}

	if attrs.Color.Value == "" || attrs.Style.Value == "" {
		return domain.ExtractedAttributes{}, false
	}
	return attrs, true
}

// GenerateExtractionPrompt builds the instruction sent to the model for one item.
func (e *Engine) GenerateExtractionPrompt(category, subcategory string) string {
	item := category
	if subcategory != "" {
		item = fmt.Sprintf("%s (%s)", subcategory, category)
	}

	silhouettes := "N/A (this category has no silhouette)"
	if options := e.catalog.SilhouetteOptions[category]; len(options) > 0 {
		silhouettes = strings.Join(options, ", ")
	}

	return fmt.Sprintf(`You are a fashion attribute extractor.
Describe the %s and answer with exactly three lines in this format:
color: <value>
silhouette: <value>
style: <value>

Allowed color values: %s
Allowed silhouette values: %s
Allowed style values: %s

Pick the closest allowed value. Write N/A when an attribute cannot be determined.
No explanations and no extra lines.
`, item,
		strings.Join(e.catalog.ColorOptions, ", "),
		silhouettes,
		strings.Join(e.catalog.StyleOptions, ", "),
	)
}

func parseKeyValues(text string) map[string]string {
	fields := make(map[string]string, 3)
	for _, line := range strings.Split(norm.NFKC.String(text), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•>#0123456789.) \t")
		line = strings.ReplaceAll(line, "**", "")

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name, known := extractionKeys[fold(cleanValue(key))]
		if !known {
			continue
		}
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = value
	}
	return fields
}

func resolve(raw string, vocab vocabulary) domain.AttributeValue {
	value := cleanValue(raw)
	key := fold(value)
	if _, blank := blankValues[key]; blank {
		return domain.AttributeValue{}
	}

	for _, option := range vocab.options {
		if fold(option) == key {
			return domain.AttributeValue{Value: option, Confidence: confidenceExact}
		}
	}

	if len([]rune(key)) >= minSubstringRunes {
		if option := shortestContaining(vocab.options, key); option != "" {
			return domain.AttributeValue{Value: option, Confidence: confidenceOptionContains}
		}
		if option := longestContained(vocab.options, key); option != "" {
			return domain.AttributeValue{Value: option, Confidence: confidenceValueContains}
		}
	}

	if option := lookupAlias(vocab.aliases, key); option != "" {
		return domain.AttributeValue{Value: option, Confidence: confidenceLookup}
	}
	if option := lookupFamily(vocab.families, vocab.options, key); option != "" {
		return domain.AttributeValue{Value: option, Confidence: confidenceLookup}
	}
	return domain.AttributeValue{}
}

// shortestContaining returns the shortest option that contains key.
func shortestContaining(options []string, key string) string {
	best := ""
	for _, option := range options {
		if strings.Contains(fold(option), key) && (best == "" || len(option) < len(best)) {
			best = option
		}
	}
	return best
}

// longestContained returns the longest option found inside key.
func longestContained(options []string, key string) string {
	best := ""
	for _, option := range options {
		if strings.Contains(key, fold(option)) && len(option) > len(best) {
			best = option
		}
	}
	return best
}

func lookupAlias(aliases map[string]string, key string) string {
	if len(aliases) == 0 {
		return ""
	}
	keywords := slices.Sorted(maps.Keys(aliases))
	for _, keyword := range keywords {
		if fold(keyword) == key {
			return aliases[keyword]
		}
	}
	best := ""
	for _, keyword := range keywords {
		if strings.Contains(key, fold(keyword)) && len(keyword) > len(best) {
			best = keyword
		}
	}
	if best == "" {
		return ""
	}
	return aliases[best]
}

// lookupFamily maps a family member that is not itself an option onto the
// first member of the same family that is.
func lookupFamily(families []Family, options []string, key string) string {
	for _, f := range families {
		matched := false
		for _, member := range f.Members {
			if fold(member) == key {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, member := range f.Members {
			if slices.Contains(options, member) {
				return member
			}
		}
	}
	return ""
}

func cleanValue(raw string) string {
	v := norm.NFKC.String(raw)
	v = strings.Trim(strings.TrimSpace(v), "\"'`*_,.;")
	return strings.Join(strings.Fields(v), " ")
}

func fold(s string) string {
	return cases.Fold().String(s)
}
