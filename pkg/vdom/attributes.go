package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr {
	nonEmpty := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	return attr("class", strings.Join(nonEmpty, " "))
}

// StyleAttr sets the style attribute (named to avoid conflict with Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("tab", "usage") → data-tab="usage"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaSelected sets the aria-selected attribute.
func AriaSelected(selected bool) Attr {
	if selected {
		return attr("aria-selected", "true")
	}
	return attr("aria-selected", "false")
}

// AriaControls sets the aria-controls attribute.
func AriaControls(id string) Attr { return attr("aria-controls", id) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Content sets the content attribute (meta tags).
func Content(content string) Attr { return attr("content", content) }

// Value sets the value attribute.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// For sets the for attribute on labels.
func For(id string) Attr { return attr("for", id) }

// Method sets the form method attribute.
func Method(m string) Attr { return attr("method", m) }

// Action sets the form action attribute.
func Action(url string) Attr { return attr("action", url) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Readonly sets the readonly attribute.
func Readonly() Attr { return attr("readonly", true) }

// Selected sets the selected attribute.
func Selected() Attr { return attr("selected", true) }

// Key sets the reconciliation key. It is not rendered.
func Key(key string) Attr { return attr("key", key) }
