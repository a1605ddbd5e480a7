package catalog

import "github.com/vango-dev/designdocs/pkg/tokens"

// Part is a numbered anatomy marker.
type Part struct {
	Label       string
	Required    bool
	Description string
}

// Tab is one section of a component page. Body is Markdown; the tokens
// tab is generated from Component.Tokens instead.
type Tab struct {
	ID    string
	Label string
	Body  string
}

// Component is a component guideline page.
type Component struct {
	Slug        string
	Name        string
	Description string
	Anatomy     []Part
	Tabs        []Tab
	Tokens      []tokens.Name
}

// TokensTab is the tab whose panel lists Component.Tokens.
const TokensTab = "tokens"

// DefaultTab returns the first tab id.
func (c Component) DefaultTab() string {
	if len(c.Tabs) == 0 {
		return ""
	}
	return c.Tabs[0].ID
}

// Tab finds a tab by id.
func (c Component) Tab(id string) (Tab, bool) {
	for _, t := range c.Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

func tabs(overview, usage, specs, code string) []Tab {
	return []Tab{
		{ID: "overview", Label: "Overview", Body: overview},
		{ID: "usage", Label: "Usage", Body: usage},
		{ID: "specifications", Label: "Specifications", Body: specs},
		{ID: TokensTab, Label: "Tokens"},
		{ID: "code", Label: "Code", Body: code},
	}
}

func componentTokens(component string, elements ...string) []tokens.Name {
	var out []tokens.Name
	for _, el := range elements {
		out = append(out,
			tokens.Name{Component: component, Property: "color", Element: el, Variant: "primary", State: "default"},
			tokens.Name{Component: component, Property: "color", Element: el, Variant: "primary", State: "hover"},
		)
	}
	return append(out,
		tokens.Name{Component: component, Property: "radius", Element: "container"},
		tokens.Name{Component: component, Property: "spacing", Element: "container"},
	)
}

// Components lists the component pages in navigation order.
var Components = []Component{
	{
		Slug:        "button",
		Name:        "Button",
		Description: "Buttons trigger actions or move users through an interface.",
		Anatomy: []Part{
			{"Icon", false, "Leading icon that reinforces the action"},
			{"Label", true, "Concise, action-oriented text"},
			{"Container", true, "The interactive area that receives focus and clicks"},
		},
		Tabs: tabs(
			"Use buttons to take actions, make choices or submit data. "+
				"Visual weight should match the action's importance.\n\n"+
				"- **Primary**: the main action on a page or form\n"+
				"- **Secondary**: supporting actions next to a primary\n"+
				"- **Tertiary**: low-emphasis actions\n"+
				"- **Danger**: destructive actions only\n",
			"## Do\n\nUse one primary button per view. Start labels with a verb.\n\n"+
				"## Don't\n\nStack several primary buttons or use vague labels such as *OK*.\n",
			"| Size | Height | Padding |\n|---|---|---|\n"+
				"| Small | 32px | 12px |\n| Medium | 40px | 16px |\n| Large | 48px | 20px |\n",
			"```html\n<button class=\"btn btn-primary\">Save changes</button>\n```\n",
		),
		Tokens: componentTokens("button", "background", "text"),
	},
	{
		Slug:        "input",
		Name:        "Input",
		Description: "Inputs let users enter and edit single-line text.",
		Anatomy: []Part{
			{"Label", true, "Identifies the input; never rely on the placeholder alone"},
			{"Input field", true, "The container where users type"},
			{"Placeholder", false, "Hint text that disappears on focus"},
			{"Helper text", false, "Guidance below the input that persists while typing"},
		},
		Tabs: tabs(
			"Use inputs for short free-form values such as names, emails or search terms.\n",
			"## Do\n\nKeep labels visible and validate after the user leaves the field.\n\n"+
				"## Don't\n\nUse placeholder text as the only label.\n",
			"| Property | Value |\n|---|---|\n| Height | 40px |\n| Border | 1px `--border` |\n| Radius | `--radius-md` |\n",
			"```html\n<label for=\"email\">Email</label>\n<input id=\"email\" type=\"email\">\n```\n",
		),
		Tokens: componentTokens("input", "border", "placeholder"),
	},
	{
		Slug:        "checkbox",
		Name:        "Checkbox",
		Description: "Checkboxes select any number of options from a set.",
		Anatomy: []Part{
			{"Checkbox control", true, "The square that shows checked or unchecked state"},
			{"Label", true, "Describes what the checkbox represents"},
			{"Check indicator", false, "Mark shown while selected"},
		},
		Tabs: tabs(
			"Use checkboxes for independent choices or to confirm a single statement.\n",
			"## Do\n\nList options vertically and phrase labels positively.\n\n"+
				"## Don't\n\nUse a checkbox for mutually exclusive options; use a radio group.\n",
			"| State | Visual |\n|---|---|\n| Default | Empty square |\n| Checked | Filled square with check |\n| Disabled | 40% opacity |\n",
			"```html\n<input id=\"terms\" type=\"checkbox\">\n<label for=\"terms\">I accept the terms</label>\n```\n",
		),
		Tokens: componentTokens("checkbox", "background", "border"),
	},
	{
		Slug:        "radio",
		Name:        "Radio",
		Description: "Radio buttons select exactly one option from a set.",
		Anatomy: []Part{
			{"Radio control", true, "The circle that shows selected state"},
			{"Selection indicator", false, "Inner dot while selected"},
			{"Label", true, "Describes the option"},
		},
		Tabs: tabs(
			"Use radio groups when users must pick one of two to five visible options.\n",
			"## Do\n\nPreselect a sensible default.\n\n## Don't\n\nUse a radio group for more than seven options; use a select.\n",
			"| Property | Value |\n|---|---|\n| Control size | 16px |\n| Indicator | 8px |\n| Gap to label | `--space-8` |\n",
			"```html\n<input id=\"plan-pro\" type=\"radio\" name=\"plan\" value=\"pro\">\n<label for=\"plan-pro\">Pro</label>\n```\n",
		),
		Tokens: componentTokens("radio", "border", "icon"),
	},
	{
		Slug:        "select",
		Name:        "Select",
		Description: "Selects pick one option from a list that opens on demand.",
		Anatomy: []Part{
			{"Trigger", true, "Opens the list and shows the selected value"},
			{"Placeholder/Value", true, "Placeholder or selected option"},
			{"Chevron", true, "Shows that the control opens a list"},
		},
		Tabs: tabs(
			"Use a select when there are too many options for a radio group.\n",
			"## Do\n\nSort options logically and keep labels short.\n\n## Don't\n\nHide critical choices inside a select.\n",
			"| Property | Value |\n|---|---|\n| Trigger height | 40px |\n| Max list height | 320px |\n",
			"```html\n<select id=\"size\"><option>Small</option><option>Large</option></select>\n```\n",
		),
		Tokens: componentTokens("select", "background", "border"),
	},
	{
		Slug:        "switch",
		Name:        "Switch",
		Description: "Switches toggle a setting on or off with immediate effect.",
		Anatomy: []Part{
			{"Track", true, "The pill that shows on or off"},
			{"Thumb", true, "The knob that slides between positions"},
			{"Label", true, "Names the setting"},
		},
		Tabs: tabs(
			"Use a switch for settings that apply immediately, without a save step.\n",
			"## Do\n\nDescribe the setting, not the action.\n\n## Don't\n\nUse a switch inside a form that needs submitting.\n",
			"| Property | Value |\n|---|---|\n| Track | 36 x 20px |\n| Thumb | 16px |\n",
			"```html\n<button role=\"switch\" aria-checked=\"true\">Notifications</button>\n```\n",
		),
		Tokens: componentTokens("switch", "background", "icon"),
	},
	{
		Slug:        "textarea",
		Name:        "Textarea",
		Description: "Textareas accept multi-line text.",
		Anatomy: []Part{
			{"Label", true, "Identifies the field"},
			{"Text area", true, "The resizable multi-line container"},
			{"Character count", false, "Remaining characters when a limit applies"},
		},
		Tabs: tabs(
			"Use a textarea for comments, descriptions and other long-form input.\n",
			"## Do\n\nSize the default height to the expected content.\n\n## Don't\n\nDisable resizing without a reason.\n",
			"| Property | Value |\n|---|---|\n| Min height | 80px |\n| Padding | `--space-12` |\n",
			"```html\n<label for=\"notes\">Notes</label>\n<textarea id=\"notes\" rows=\"4\"></textarea>\n```\n",
		),
		Tokens: componentTokens("textarea", "border", "text"),
	},
}

// LookupComponent finds a component page by slug.
func LookupComponent(slug string) (Component, bool) {
	for _, c := range Components {
		if c.Slug == slug {
			return c, true
		}
	}
	return Component{}, false
}
