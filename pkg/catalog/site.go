package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/vango-dev/designdocs/pkg/reveal"
	"github.com/vango-dev/designdocs/pkg/tokens"
	"github.com/vango-dev/designdocs/pkg/vdom"
)

// ErrNotFound is returned for paths that name no page.
var ErrNotFound = errors.New("catalog: page not found")

// stagger is the delay step between sibling sections.
const stagger = 100 * time.Millisecond

// Page is a rendered page body plus its metadata.
type Page struct {
	Path        string
	Title       string
	Description string
	Body        *vdom.VNode
}

// Site builds pages.
type Site struct {
	name     string
	defaults reveal.Options
	logger   *slog.Logger
}

// New creates a Site. defaults supplies the variant, delay, duration and
// root margin of every tracked section.
func New(name string, defaults reveal.Options, logger *slog.Logger) *Site {
	if logger == nil {
		logger = slog.Default()
	}
	return &Site{name: name, defaults: defaults, logger: logger}
}

// Name returns the site name.
func (s *Site) Name() string { return s.name }

// Paths lists every page path, each tab included, in navigation order.
func (s *Site) Paths() []string {
	paths := []string{"/"}
	for _, f := range Foundations {
		paths = append(paths, "/tokens/"+f.Kind)
	}
	for _, c := range Components {
		paths = append(paths, "/components/"+c.Slug)
		for _, t := range c.Tabs[1:] {
			paths = append(paths, "/components/"+c.Slug+"/"+t.ID)
		}
	}
	return append(paths, "/tools/token-name")
}

// Resolve builds the page for path.
func (s *Site) Resolve(scope *reveal.Scope, path string, query url.Values) (*Page, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case path == "/" || path == "":
		return s.Index(scope), nil
	case len(parts) == 2 && parts[0] == "tokens":
		return s.Tokens(scope, parts[1])
	case len(parts) == 2 && parts[0] == "components":
		return s.Component(scope, parts[1], "")
	case len(parts) == 3 && parts[0] == "components":
		return s.Component(scope, parts[1], parts[2])
	case path == "/tools/token-name":
		return s.TokenBuilder(scope, query), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// options merges per-section overrides into the site defaults.
func (s *Site) options(o reveal.Options) reveal.Options {
	if o.Variant == "" {
		o.Variant = s.defaults.Variant
	}
	if o.Duration == 0 {
		o.Duration = s.defaults.Duration
	}
	if o.RootMargin == "" {
		o.RootMargin = s.defaults.RootMargin
	}
	o.Delay += s.defaults.Delay
	return o
}

func (s *Site) reveal(scope *reveal.Scope, o reveal.Options, children ...any) *vdom.VNode {
	return scope.Reveal(s.options(o), children...)
}

// Index builds the landing page.
func (s *Site) Index(scope *reveal.Scope) *Page {
	hero := s.reveal(scope, reveal.Options{Class: "hero"},
		vdom.H1(s.name),
		vdom.P("Tokens, components and guidance for building consistent interfaces."),
	)
	var cards []*vdom.VNode
	for i, f := range Foundations {
		cards = append(cards, s.reveal(scope, reveal.Options{Delay: time.Duration(i) * stagger, Class: "card"},
			vdom.A(vdom.Href("/tokens/"+f.Kind), vdom.H3(f.Title)),
			vdom.P(f.Description),
		))
	}
	var components []*vdom.VNode
	for i, c := range Components {
		components = append(components, s.reveal(scope, reveal.Options{Variant: reveal.Scale, Delay: time.Duration(i) * stagger, Class: "card"},
			vdom.A(vdom.Href("/components/"+c.Slug), vdom.H3(c.Name)),
			vdom.P(c.Description),
		))
	}

	body := s.layout("/",
		hero,
		vdom.Section(vdom.Class("grid"), vdom.H2("Foundations"), cards),
		vdom.Section(vdom.Class("grid"), vdom.H2("Components"), components),
	)
	return &Page{Path: "/", Title: s.name, Description: "Design system documentation", Body: body}
}

// Tokens builds a token catalog page.
func (s *Site) Tokens(scope *reveal.Scope, kind string) (*Page, error) {
	f, ok := LookupFoundation(kind)
	if !ok {
		return nil, fmt.Errorf("%w: token kind %q", ErrNotFound, kind)
	}

	sections := []*vdom.VNode{s.header(scope, f.Title, f.Description)}
	for i, g := range f.Groups {
		rows := vdom.Range(g.Tokens, func(t Token, _ int) *vdom.VNode {
			return vdom.Tr(
				vdom.Td(vdom.Code(t.Name)),
				vdom.Td(vdom.Span(vdom.Class("swatch"), vdom.Data("kind", f.Kind), vdom.StyleAttr(swatchStyle(f.Kind, t.Value))), t.Value),
				vdom.Td(t.Description),
			)
		})
		sections = append(sections, s.reveal(scope, reveal.Options{Delay: time.Duration(i) * stagger},
			vdom.H2(g.Title),
			vdom.Table(vdom.Class("tokens"),
				vdom.Thead(vdom.Tr(vdom.Th("Token"), vdom.Th("Value"), vdom.Th("Usage"))),
				vdom.Tbody(rows),
			),
		))
	}

	path := "/tokens/" + f.Kind
	return &Page{
		Path:        path,
		Title:       f.Title + " · " + s.name,
		Description: f.Description,
		Body:        s.layout(path, sections),
	}, nil
}

// swatchStyle previews a token value. Values come from the catalog data.
func swatchStyle(kind, value string) string {
	switch kind {
	case "color":
		return "background:" + value
	case "radius":
		return "border-radius:" + value
	case "elevation":
		return "box-shadow:" + value
	case "spacing":
		return "width:" + value
	default:
		return ""
	}
}

// PanelID is the element id of a component's tab panel.
func PanelID(slug string) string { return "tabs-" + slug + "-panel" }

// Component builds a component guideline page showing tab (the first tab
// when empty). The panel's trackers live in scope.Named(slug).
func (s *Site) Component(scope *reveal.Scope, slug, tab string) (*Page, error) {
	c, ok := LookupComponent(slug)
	if !ok {
		return nil, fmt.Errorf("%w: component %q", ErrNotFound, slug)
	}
	if tab == "" {
		tab = c.DefaultTab()
	}
	panel, err := s.Panel(scope.Named(slug), slug, tab)
	if err != nil {
		return nil, err
	}

	triggers := vdom.Range(c.Tabs, func(t Tab, _ int) *vdom.VNode {
		href := "/components/" + c.Slug
		if t.ID != c.DefaultTab() {
			href += "/" + t.ID
		}
		return vdom.A(
			vdom.Href(href),
			vdom.Role("tab"),
			vdom.Class("tab-trigger", activeClass(t.ID == tab)),
			vdom.AriaSelected(t.ID == tab),
			vdom.AriaControls(PanelID(c.Slug)),
			vdom.Data("tab-group", c.Slug),
			vdom.Data("tab", t.ID),
			t.Label,
		)
	})

	path := "/components/" + c.Slug
	if tab != c.DefaultTab() {
		path += "/" + tab
	}
	body := s.layout(path,
		s.header(scope, c.Name, c.Description),
		vdom.Nav(vdom.Role("tablist"), vdom.Class("tabs"), triggers),
		vdom.Div(vdom.ID(PanelID(c.Slug)), vdom.Role("tabpanel"), panel),
	)
	return &Page{Path: path, Title: c.Name + " · " + s.name, Description: c.Description, Body: body}, nil
}

func activeClass(active bool) string {
	if active {
		return "tab-trigger-active"
	}
	return ""
}

// Panel renders the contents of one tab panel into scope. Section ids
// are stable per component and tab.
func (s *Site) Panel(scope *reveal.Scope, slug, tab string) (*vdom.VNode, error) {
	c, ok := LookupComponent(slug)
	if !ok {
		return nil, fmt.Errorf("%w: component %q", ErrNotFound, slug)
	}
	t, ok := c.Tab(tab)
	if !ok {
		return nil, fmt.Errorf("%w: tab %q of %s", ErrNotFound, tab, slug)
	}
	id := func(section string) string { return c.Slug + "-" + t.ID + "-" + section }

	var sections []*vdom.VNode
	switch t.ID {
	case "overview":
		sections = append(sections,
			s.reveal(scope, reveal.Options{ID: id("description")}, s.markdown(t.Body)),
			s.reveal(scope, reveal.Options{ID: id("anatomy"), Delay: stagger}, anatomy(c.Anatomy)),
		)
	case TokensTab:
		sections = append(sections, s.reveal(scope, reveal.Options{ID: id("table")}, tokenTable(c.Tokens)))
	default:
		sections = append(sections, s.reveal(scope, reveal.Options{ID: id("body")}, s.markdown(t.Body)))
	}
	return vdom.Fragment(sections), nil
}

func (s *Site) markdown(src string) *vdom.VNode {
	html, err := RenderMarkdown(src)
	if err != nil {
		s.logger.Warn("catalog: markdown render failed", "error", err)
		return vdom.Pre(src)
	}
	return vdom.Div(vdom.Class("prose"), vdom.Raw(html))
}

func anatomy(parts []Part) *vdom.VNode {
	items := vdom.Range(parts, func(p Part, i int) *vdom.VNode {
		req := "Optional"
		if p.Required {
			req = "Required"
		}
		return vdom.Li(
			vdom.Span(vdom.Class("marker"), vdom.Textf("%d", i+1)),
			vdom.Span(vdom.Class("label"), p.Label),
			vdom.Span(vdom.Class("badge"), req),
			vdom.P(p.Description),
		)
	})
	return vdom.Div(vdom.H2("Anatomy"), vdom.Ul(vdom.Class("anatomy"), items))
}

func tokenTable(names []tokens.Name) *vdom.VNode {
	rows := vdom.Range(names, func(n tokens.Name, _ int) *vdom.VNode {
		return vdom.Tr(vdom.Td(vdom.Code(n.CSSVar(""))), vdom.Td(vdom.Code(n.JSPath())))
	})
	return vdom.Table(vdom.Class("tokens"),
		vdom.Thead(vdom.Tr(vdom.Th("CSS variable"), vdom.Th("JS path"))),
		vdom.Tbody(rows),
	)
}

func (s *Site) header(scope *reveal.Scope, title, description string) *vdom.VNode {
	return s.reveal(scope, reveal.Options{Class: "page-header"}, vdom.H1(title), vdom.P(description))
}

// layout wraps sections in the site chrome.
func (s *Site) layout(current string, sections ...any) *vdom.VNode {
	link := func(href, label string) *vdom.VNode {
		return vdom.Li(vdom.A(vdom.Href(href), vdom.Class(activeClass(strings.HasPrefix(current, href) && href != "/")), label))
	}
	var foundations, components []*vdom.VNode
	for _, f := range Foundations {
		foundations = append(foundations, link("/tokens/"+f.Kind, f.Title))
	}
	for _, c := range Components {
		components = append(components, link("/components/"+c.Slug, c.Name))
	}

	return vdom.Div(vdom.Class("layout"),
		vdom.Header(vdom.Class("topbar"), vdom.A(vdom.Href("/"), s.name)),
		vdom.Nav(vdom.Class("sidebar"),
			vdom.H3("Foundations"), vdom.Ul(foundations),
			vdom.H3("Components"), vdom.Ul(components),
			vdom.H3("Tools"), vdom.Ul(link("/tools/token-name", "Token builder")),
		),
		vdom.Main(sections...),
	)
}
