package tokens

import (
	"strings"

	"github.com/vango-dev/designdocs/internal/errors"
)

// Separator joins name parts.
const Separator = "-"

// Name is a structured token name.
type Name struct {
	Component string `json:"component" yaml:"component"`
	Property  string `json:"property" yaml:"property"`
	Element   string `json:"element,omitempty" yaml:"element,omitempty"`
	Variant   string `json:"variant,omitempty" yaml:"variant,omitempty"`
	State     string `json:"state,omitempty" yaml:"state,omitempty"`
}

// Default is the name the builder starts with.
func Default() Name {
	return Name{
		Component: "button",
		Property:  "color",
		Element:   "background",
		Variant:   "primary",
		State:     "default",
	}
}

// Part labels, in order.
var PartNames = []string{"component", "property", "element", "variant", "state"}

// Parts returns the normalized parts in order, empty ones included.
func (n Name) Parts() []string {
	return []string{
		Normalize(n.Component),
		Normalize(n.Property),
		Normalize(n.Element),
		Normalize(n.Variant),
		Normalize(n.State),
	}
}

// Validate reports E401 for a missing required part and E402 for a part
// with characters outside letters, digits, spaces, dashes and underscores.
func (n Name) Validate() error {
	raw := []string{n.Component, n.Property, n.Element, n.Variant, n.State}
	for i, part := range raw {
		if strings.TrimSpace(part) == "" {
			if i < 2 {
				return errors.New("E401").WithDetail(PartNames[i])
			}
			continue
		}
		if !validPart(part) {
			return errors.New("E402").WithDetailf("%s = %q", PartNames[i], part)
		}
	}
	return nil
}

// String joins the non-empty normalized parts. It does not validate.
func (n Name) String() string {
	parts := n.Parts()
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, Separator)
}

// Build validates n and returns its name.
func (n Name) Build() (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n.String(), nil
}

// CSSVar returns the custom property reference, e.g.
// "--ds-button-color-background-primary-default". The prefix is optional.
func (n Name) CSSVar(prefix string) string {
	if p := Normalize(prefix); p != "" {
		return "--" + p + Separator + n.String()
	}
	return "--" + n.String()
}

// JSPath returns the dotted lookup path with camel-cased parts, e.g.
// "button.color.background.primary.default".
func (n Name) JSPath() string {
	var out []string
	for _, p := range n.Parts() {
		if p != "" {
			out = append(out, camel(p))
		}
	}
	return strings.Join(out, ".")
}

// Normalize lowercases s and turns runs of spaces, underscores and dashes
// into single dashes.
func Normalize(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r == ' ' || r == '_' || r == '-' || r == '\t':
			dash = b.Len() > 0
		default:
			if dash {
				b.WriteString(Separator)
				dash = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validPart(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ' || r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

func camel(s string) string {
	words := strings.Split(s, Separator)
	for i := 1; i < len(words); i++ {
		if w := words[i]; w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, "")
}
