package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/designdocs/pkg/vdom"
)

// HookProp is the prop key under which a HookConfig is stored on a node.
const HookProp = "_hook"

// HookConfig contains configuration for a client-side hook.
type HookConfig struct {
	Name   string // Hook name (e.g., "ScrollReveal", "Clipboard")
	Config any    // Hook-specific configuration, serialized as JSON
}

// booleanAttrs are rendered as bare attribute names when true.
var booleanAttrs = map[string]bool{
	"checked":  true,
	"defer":    true,
	"disabled": true,
	"hidden":   true,
	"readonly": true,
	"required": true,
	"selected": true,
	"async":    true,
}

// Renderer handles server-side rendering of VNode trees to HTML.
// A Renderer holds no per-render state and may be shared.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node)
	case vdom.KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case vdom.KindFragment:
		return r.renderChildren(w, node)
	case vdom.KindComponent:
		if node.Comp == nil {
			return nil
		}
		return r.renderNode(w, node.Comp.Render())
	case vdom.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	default:
		return fmt.Errorf("render: unknown node kind: %d", node.Kind)
	}
}

func (r *Renderer) renderChildren(w io.Writer, node *vdom.VNode) error {
	for _, child := range node.Children {
		if err := r.renderNode(w, child); err != nil {
			return err
		}
	}
	return nil
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode) error {
	if node.Tag == "" {
		return fmt.Errorf("render: element without tag")
	}
	if _, err := io.WriteString(w, "<"+node.Tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if vdom.IsVoidElement(node.Tag) {
		return nil
	}

	// Script and style bodies are written verbatim; escaping would break them.
	if node.Tag == "script" || node.Tag == "style" {
		for _, child := range node.Children {
			if child != nil && (child.Kind == vdom.KindText || child.Kind == vdom.KindRaw) {
				if _, err := io.WriteString(w, child.Text); err != nil {
					return err
				}
			}
		}
	} else if err := r.renderChildren(w, node); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "</%s>", node.Tag)
	return err
}

// renderAttributes renders all attributes for an element in sorted order.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	if len(node.Props) == 0 {
		return nil
	}

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]

		if key == HookProp {
			if hc, ok := value.(HookConfig); ok {
				if err := renderHookConfig(w, hc); err != nil {
					return err
				}
			}
			continue
		}
		// Remaining internal props are never rendered.
		if strings.HasPrefix(key, "_") {
			continue
		}

		if booleanAttrs[key] {
			if b, ok := value.(bool); ok {
				if b {
					if _, err := io.WriteString(w, " "+key); err != nil {
						return err
					}
				}
				continue
			}
		}

		if s := attrToString(value); s != "" {
			if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(s)); err != nil {
				return err
			}
		}
	}

	return nil
}

// renderHookConfig renders hook configuration as data attributes.
func renderHookConfig(w io.Writer, hc HookConfig) error {
	if _, err := fmt.Fprintf(w, ` data-hook="%s"`, escapeAttr(hc.Name)); err != nil {
		return err
	}
	if hc.Config == nil {
		return nil
	}
	configJSON, err := json.Marshal(hc.Config)
	if err != nil {
		return fmt.Errorf("render: marshal hook config: %w", err)
	}
	_, err = fmt.Fprintf(w, ` data-hook-config="%s"`, escapeAttr(string(configJSON)))
	return err
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
