package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/vango-dev/designdocs/internal/errors"
	"github.com/vango-dev/designdocs/pkg/features/hooks"
)

// MaxFrameSize is the largest frame either side may send.
const MaxFrameSize = 64 << 10

// Type identifies a frame.
type Type string

const (
	TypeHello      Type = "hello"
	TypeHook       Type = "hook"
	TypeTab        Type = "tab"
	TypeTransition Type = "transition"
	TypeRevealed   Type = "revealed"
	TypeReplace    Type = "replace"
	TypeError      Type = "error"
)

// ClientFrame is a decoded client → server frame: *Hello, *Hook or *Tab.
type ClientFrame interface {
	FrameType() Type
}

// Caps lists client capabilities.
type Caps struct {
	IntersectionObserver bool `json:"intersectionObserver"`
}

// Hello is the first frame a client sends after connecting.
type Hello struct {
	Caps Caps `json:"caps"`
}

// Hook carries an event raised by a client hook.
type Hook struct {
	Key  string         `json:"key"`
	Name string         `json:"name"`
	Data map[string]any `json:"data,omitempty"`
}

// Event converts the frame into a hooks.HookEvent.
func (h *Hook) Event() hooks.HookEvent {
	return hooks.HookEvent{Key: h.Key, Name: h.Name, Data: h.Data}
}

// Tab asks the server to show another tab of a tab group.
type Tab struct {
	Group string `json:"group"`
	Tab   string `json:"tab"`
}

func (*Hello) FrameType() Type { return TypeHello }
func (*Hook) FrameType() Type  { return TypeHook }
func (*Tab) FrameType() Type   { return TypeTab }

// DecodeClient parses a client frame. Failures carry codes E200 (malformed),
// E201 (unknown type) and E202 (too large).
func DecodeClient(data []byte) (ClientFrame, error) {
	if len(data) > MaxFrameSize {
		return nil, errors.New("E202").WithDetailf("%d bytes", len(data))
	}
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.New("E200").Wrap(err)
	}

	var frame ClientFrame
	switch head.Type {
	case TypeHello:
		frame = &Hello{}
	case TypeHook:
		frame = &Hook{}
	case TypeTab:
		frame = &Tab{}
	case "":
		return nil, errors.New("E200").WithDetail("missing type")
	default:
		return nil, errors.New("E201").WithDetailf("type %q", head.Type)
	}
	if err := json.Unmarshal(data, frame); err != nil {
		return nil, errors.New("E200").WithDetailf("type %q", head.Type).Wrap(err)
	}
	if err := validate(frame); err != nil {
		return nil, err
	}
	return frame, nil
}

func validate(f ClientFrame) error {
	switch f := f.(type) {
	case *Hook:
		if f.Key == "" || f.Name == "" {
			return errors.New("E200").WithDetail("hook frame needs key and name")
		}
	case *Tab:
		if f.Group == "" || f.Tab == "" {
			return errors.New("E200").WithDetail("tab frame needs group and tab")
		}
	}
	return nil
}

// EncodeClient is the inverse of DecodeClient. The thin client builds its
// frames in JavaScript; this exists for tests and tooling.
func EncodeClient(f ClientFrame) ([]byte, error) {
	return encode(f.FrameType(), f)
}

// encode marshals v and prepends the type member.
func encode(t Type, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(body) + len(t) + 10)
	buf.WriteString(`{"type":`)
	typ, _ := json.Marshal(string(t))
	buf.Write(typ)
	if rest := bytes.TrimSpace(body[1:]); len(rest) > 1 {
		buf.WriteByte(',')
		buf.Write(rest)
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}
