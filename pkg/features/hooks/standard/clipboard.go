package standard

import (
	"github.com/vango-dev/designdocs/pkg/features/hooks"
	"github.com/vango-dev/designdocs/pkg/vdom"
)

// ClipboardHook is the client hook name for copy-to-clipboard buttons.
const ClipboardHook = "Clipboard"

// CopiedEvent is sent by the client after a successful copy.
const CopiedEvent = "copied"

// ClipboardConfig configures the Clipboard hook.
type ClipboardConfig struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Clipboard creates a Clipboard hook attribute.
func Clipboard(config ClipboardConfig) vdom.Attr {
	return hooks.Hook(ClipboardHook, config)
}
