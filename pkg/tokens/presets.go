package tokens

import (
	"strings"

	"github.com/vango-dev/designdocs/internal/errors"
)

// Category is a quick preset that fills property and element.
type Category struct {
	Label    string
	Property string
	Element  string
}

// Categories are the builder's quick presets.
var Categories = []Category{
	{"Colors", "color", "background"},
	{"Typography", "font", "text"},
	{"Duration", "duration", "transition"},
	{"Shadows", "shadow", "container"},
	{"Border", "border", "ring"},
	{"Size", "size", "container"},
	{"Gradients", "gradient", "background"},
	{"Icon", "color", "icon"},
}

// Presets offered for each part.
var (
	ComponentPresets = []string{"button", "input", "card", "modal", "avatar", "badge", "tooltip", "dropdown"}
	PropertyPresets  = []string{"color", "spacing", "radius", "shadow", "size", "opacity", "duration", "font"}
	ElementPresets   = []string{"background", "border", "text", "icon", "container", "label", "placeholder", "ring"}
	VariantPresets   = []string{"primary", "secondary", "destructive", "outline", "ghost", "muted", "accent", "success"}
	StatePresets     = []string{"default", "hover", "active", "focus", "disabled", "loading", "selected", "error"}
)

// LookupCategory finds a category by label, ignoring case.
func LookupCategory(label string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(c.Label, strings.TrimSpace(label)) {
			return c, true
		}
	}
	return Category{}, false
}

// ApplyCategory returns n with the category's property and element.
// Unknown labels fail with E400.
func (n Name) ApplyCategory(label string) (Name, error) {
	c, ok := LookupCategory(label)
	if !ok {
		return n, errors.New("E400").WithDetailf("category %q", label)
	}
	n.Property = c.Property
	n.Element = c.Element
	return n, nil
}
