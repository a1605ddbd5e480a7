package protocol

import (
	"encoding/json"

	"github.com/vango-dev/designdocs/internal/errors"
)

// ServerFrame is a server → client frame.
type ServerFrame interface {
	FrameType() Type
}

// Transition starts the reveal animation of one element.
type Transition struct {
	Key        string `json:"key"`
	Style      string `json:"style"`
	Transition string `json:"transition"`
}

// Revealed marks an element as settled; the client drops the
// transition property and its observer.
type Revealed struct {
	Key   string `json:"key"`
	Style string `json:"style,omitempty"`
}

// Replace swaps the inner HTML of the element with id Target.
type Replace struct {
	Target string `json:"target"`
	HTML   string `json:"html"`
}

// Error reports a failure. Fatal errors are followed by a close.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Fatal   bool   `json:"fatal,omitempty"`
}

func (*Transition) FrameType() Type { return TypeTransition }
func (*Revealed) FrameType() Type   { return TypeRevealed }
func (*Replace) FrameType() Type    { return TypeReplace }
func (*Error) FrameType() Type      { return TypeError }

// ErrorFrame builds an Error frame from err, keeping its code when it is
// an *errors.Error.
func ErrorFrame(err error, fatal bool) *Error {
	e := errors.FromError(err, "E200")
	return &Error{Code: e.Code, Message: e.Message, Fatal: fatal}
}

// Encode marshals a server frame.
func Encode(f ServerFrame) ([]byte, error) {
	data, err := encode(f.FrameType(), f)
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFrameSize {
		return nil, errors.New("E202").WithDetailf("%s frame of %d bytes", f.FrameType(), len(data))
	}
	return data, nil
}

// DecodeServer parses a server frame.
func DecodeServer(data []byte) (ServerFrame, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.New("E200").Wrap(err)
	}
	var frame ServerFrame
	switch head.Type {
	case TypeTransition:
		frame = &Transition{}
	case TypeRevealed:
		frame = &Revealed{}
	case TypeReplace:
		frame = &Replace{}
	case TypeError:
		frame = &Error{}
	default:
		return nil, errors.New("E201").WithDetailf("type %q", head.Type)
	}
	if err := json.Unmarshal(data, frame); err != nil {
		return nil, errors.New("E200").Wrap(err)
	}
	return frame, nil
}
