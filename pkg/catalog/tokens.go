package catalog

// Token is one documented design token.
type Token struct {
	Name        string
	Value       string
	Description string
}

// TokenGroup is a titled table of tokens.
type TokenGroup struct {
	Title  string
	Tokens []Token
}

// Foundation is a token catalog page.
type Foundation struct {
	Kind        string
	Title       string
	Description string
	Groups      []TokenGroup
}

// Foundations lists the token catalog pages in navigation order.
var Foundations = []Foundation{
	{
		Kind:        "color",
		Title:       "Color",
		Description: "Primitive palettes and the semantic colors built on them.",
		Groups: []TokenGroup{
			{Title: "Neutrals", Tokens: []Token{
				{"--neutral-950", "#0a0a0a", ""},
				{"--neutral-900", "#121212", ""},
				{"--neutral-700", "#242424", ""},
				{"--neutral-500", "#737373", ""},
				{"--neutral-300", "#d4d4d4", ""},
				{"--neutral-100", "#f5f5f5", ""},
				{"--neutral-50", "#fafafa", ""},
			}},
			{Title: "Orange", Tokens: []Token{
				{"--orange-700", "#c2410c", ""},
				{"--orange-600", "#d9480f", ""},
				{"--orange-500", "#ea580c", ""},
				{"--orange-300", "#fb923c", ""},
				{"--orange-100", "#ffedd5", ""},
			}},
			{Title: "Semantic", Tokens: []Token{
				{"--background", "var(--neutral-950)", "Page background"},
				{"--foreground", "var(--neutral-50)", "Default text"},
				{"--primary", "var(--orange-500)", "Primary actions and focus"},
				{"--destructive", "#ef4444", "Destructive actions and errors"},
				{"--border", "var(--neutral-700)", "Dividers and control borders"},
			}},
		},
	},
	{
		Kind:        "typography",
		Title:       "Typography",
		Description: "Font families, the type scale, weights and line heights.",
		Groups: []TokenGroup{
			{Title: "Families", Tokens: []Token{
				{"--font-sans", "Inter, system-ui, sans-serif", "Body text, UI elements"},
				{"--font-mono", "JetBrains Mono, monospace", "Code, technical content"},
			}},
			{Title: "Scale", Tokens: []Token{
				{"--text-xs", "0.75rem / 12px", "Captions, labels"},
				{"--text-sm", "0.875rem / 14px", "Secondary text, buttons"},
				{"--text-base", "1rem / 16px", "Body text default"},
				{"--text-lg", "1.125rem / 18px", "Lead paragraphs"},
				{"--text-2xl", "1.5rem / 24px", "Page headings"},
				{"--text-4xl", "2.25rem / 36px", "Page titles"},
			}},
			{Title: "Weights", Tokens: []Token{
				{"--font-normal", "400", "Body text default"},
				{"--font-medium", "500", "Emphasis, labels"},
				{"--font-semibold", "600", "Headings, buttons"},
			}},
		},
	},
	{
		Kind:        "spacing",
		Title:       "Spacing",
		Description: "A pixel scale for padding, gaps and layout rhythm.",
		Groups: []TokenGroup{
			{Title: "Scale", Tokens: []Token{
				{"--space-0", "0px", ""},
				{"--space-4", "4px", "Icon gaps"},
				{"--space-8", "8px", "Tight control padding"},
				{"--space-12", "12px", "Control padding"},
				{"--space-16", "16px", "Default gap"},
				{"--space-24", "24px", "Card padding"},
				{"--space-32", "32px", "Section gaps"},
				{"--space-48", "48px", "Page sections"},
				{"--space-64", "64px", "Hero spacing"},
			}},
		},
	},
	{
		Kind:        "radius",
		Title:       "Radius",
		Description: "Corner rounding from sharp to pill.",
		Groups: []TokenGroup{
			{Title: "Scale", Tokens: []Token{
				{"--radius-none", "0px", "Sharp corners"},
				{"--radius-sm", "4px", "Subtle rounding"},
				{"--radius-md", "6px", "Default components"},
				{"--radius-lg", "8px", "Cards, panels"},
				{"--radius-xl", "12px", "Dialogs, modals"},
				{"--radius-full", "9999px", "Pills, avatars"},
			}},
		},
	},
	{
		Kind:        "elevation",
		Title:       "Elevation",
		Description: "Shadows that separate layers.",
		Groups: []TokenGroup{
			{Title: "Shadows", Tokens: []Token{
				{"--shadow-none", "none", "Flat elements"},
				{"--shadow-sm", "0 1px 2px rgba(0,0,0,0.4)", "Subtle lift"},
				{"--shadow-md", "0 4px 6px rgba(0,0,0,0.5)", "Cards, dropdowns"},
				{"--shadow-lg", "0 10px 15px rgba(0,0,0,0.5)", "Modals, popovers"},
				{"--shadow-xl", "0 20px 25px rgba(0,0,0,0.6)", "Dialogs"},
			}},
		},
	},
}

// LookupFoundation finds a token catalog page by kind.
func LookupFoundation(kind string) (Foundation, bool) {
	for _, f := range Foundations {
		if f.Kind == kind {
			return f, true
		}
	}
	return Foundation{}, false
}
