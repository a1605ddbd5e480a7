package catalog

import (
	"net/url"

	"github.com/vango-dev/designdocs/pkg/features/hooks/standard"
	"github.com/vango-dev/designdocs/pkg/reveal"
	"github.com/vango-dev/designdocs/pkg/tokens"
	"github.com/vango-dev/designdocs/pkg/vdom"
)

// CopyTokenKey is the Clipboard hook key of the builder's copy button.
const CopyTokenKey = "copy-token"

// BuilderName reads a token name from builder form values. Missing
// values fall back to tokens.Default; a category preset overrides
// property and element.
func BuilderName(q url.Values) (tokens.Name, error) {
	n := tokens.Default()
	if len(q) > 0 {
		n = tokens.Name{
			Component: q.Get("component"),
			Property:  q.Get("property"),
			Element:   q.Get("element"),
			Variant:   q.Get("variant"),
			State:     q.Get("state"),
		}
	}
	if cat := q.Get("category"); cat != "" {
		return n.ApplyCategory(cat)
	}
	return n, nil
}

// TokenBuilder builds the token-name builder page for the submitted form.
func (s *Site) TokenBuilder(scope *reveal.Scope, q url.Values) *Page {
	n, err := BuilderName(q)
	if err == nil {
		err = n.Validate()
	}

	field := func(name, value string, presets []string) *vdom.VNode {
		id := "token-" + name
		opts := vdom.Range(presets, func(p string, _ int) *vdom.VNode {
			return vdom.Option(vdom.Value(p))
		})
		return vdom.Div(vdom.Class("field"),
			vdom.Label(vdom.For(id), name),
			vdom.Input(vdom.ID(id), vdom.Name(name), vdom.Value(value), vdom.Placeholder(presets[0]),
				vdom.Attr{Key: "list", Value: id + "-presets"}),
			vdom.El("datalist", vdom.ID(id+"-presets"), opts),
		)
	}
	categories := []*vdom.VNode{vdom.Option(vdom.Value(""), "No preset")}
	for _, c := range tokens.Categories {
		categories = append(categories, vdom.Option(vdom.Value(c.Label), c.Label))
	}

	form := vdom.Form(vdom.Method("get"), vdom.Action("/tools/token-name"), vdom.Class("builder"),
		vdom.Div(vdom.Class("field"),
			vdom.Label(vdom.For("token-category"), "category"),
			vdom.Select(vdom.ID("token-category"), vdom.Name("category"), categories),
		),
		field("component", n.Component, tokens.ComponentPresets),
		field("property", n.Property, tokens.PropertyPresets),
		field("element", n.Element, tokens.ElementPresets),
		field("variant", n.Variant, tokens.VariantPresets),
		field("state", n.State, tokens.StatePresets),
		vdom.Button(vdom.Type("submit"), "Generate"),
	)

	var result *vdom.VNode
	if err != nil {
		result = vdom.P(vdom.Role("alert"), vdom.Class("error"), err.Error())
	} else {
		name := n.String()
		result = vdom.Div(vdom.Class("result"),
			vdom.Pre(vdom.Code(vdom.ID("token-result"), name)),
			vdom.Button(vdom.Type("button"), vdom.Class("copy"), vdom.AriaLabel("Copy token name"),
				standard.Clipboard(standard.ClipboardConfig{Key: CopyTokenKey, Text: name}),
				"Copy",
			),
			vdom.Table(vdom.Class("tokens"), vdom.Tbody(
				vdom.Tr(vdom.Th("CSS variable"), vdom.Td(vdom.Code(n.CSSVar("")))),
				vdom.Tr(vdom.Th("JS path"), vdom.Td(vdom.Code(n.JSPath()))),
			)),
		)
	}

	body := s.layout("/tools/token-name",
		s.header(scope, "Token Builder", "Build consistent token names from the five-part naming convention."),
		s.reveal(scope, reveal.Options{Delay: stagger}, vdom.H2("Token name generator"), form),
		s.reveal(scope, reveal.Options{Variant: reveal.Fade, Delay: 2 * stagger}, result),
	)
	return &Page{
		Path:        "/tools/token-name",
		Title:       "Token Builder · " + s.name,
		Description: "Build design-token names",
		Body:        body,
	}
}
