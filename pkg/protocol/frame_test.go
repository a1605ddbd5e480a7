package protocol

import (
	"strings"
	"testing"

	"github.com/vango-dev/designdocs/internal/errors"
)

func TestDecodeClient(t *testing.T) {
	t.Run("hello", func(t *testing.T) {
		f, err := DecodeClient([]byte(`{"type":"hello","caps":{"intersectionObserver":true}}`))
		if err != nil {
			t.Fatalf("DecodeClient() error = %v", err)
		}
		hello, ok := f.(*Hello)
		if !ok {
			t.Fatalf("frame = %T, want *Hello", f)
		}
		if !hello.Caps.IntersectionObserver {
			t.Error("IntersectionObserver = false, want true")
		}
	})

	t.Run("hook", func(t *testing.T) {
		f, err := DecodeClient([]byte(`{"type":"hook","key":"r3","name":"intersect","data":{"ratio":0.5}}`))
		if err != nil {
			t.Fatalf("DecodeClient() error = %v", err)
		}
		hook := f.(*Hook)
		ev := hook.Event()
		if ev.Key != "r3" || ev.Name != "intersect" {
			t.Errorf("event = %+v", ev)
		}
		if got := ev.Float("ratio"); got != 0.5 {
			t.Errorf("ratio = %v, want 0.5", got)
		}
	})

	t.Run("tab", func(t *testing.T) {
		f, err := DecodeClient([]byte(`{"type":"tab","group":"button","tab":"states"}`))
		if err != nil {
			t.Fatalf("DecodeClient() error = %v", err)
		}
		if tab := f.(*Tab); tab.Group != "button" || tab.Tab != "states" {
			t.Errorf("tab = %+v", tab)
		}
	})
}

func TestDecodeClient_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code string
	}{
		{"not json", `{"type":`, "E200"},
		{"missing type", `{"key":"r1"}`, "E200"},
		{"unknown type", `{"type":"scroll"}`, "E201"},
		{"server type from client", `{"type":"revealed","key":"r1"}`, "E201"},
		{"hook without key", `{"type":"hook","name":"intersect"}`, "E200"},
		{"tab without group", `{"type":"tab","tab":"usage"}`, "E200"},
		{"wrong field type", `{"type":"hook","key":7,"name":"x"}`, "E200"},
		{"oversize", `{"type":"hook","key":"r1","name":"x","data":{"pad":"` + strings.Repeat("a", MaxFrameSize) + `"}}`, "E202"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeClient([]byte(tt.data))
			if got := errors.Code(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		frame ServerFrame
		want  string
	}{
		{
			"transition",
			&Transition{Key: "r1", Style: "opacity:1", Transition: "opacity 0.5s ease 0s"},
			`{"type":"transition","key":"r1","style":"opacity:1","transition":"opacity 0.5s ease 0s"}`,
		},
		{"revealed", &Revealed{Key: "r1"}, `{"type":"revealed","key":"r1"}`},
		{"replace", &Replace{Target: "p", HTML: "<b>x</b>"}, `{"type":"replace","target":"p","html":"<b>x</b>"}`},
		{"error", &Error{Code: "E210", Message: "gone", Fatal: true}, `{"type":"error","code":"E210","message":"gone","fatal":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.frame)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode() = %s\nwant      %s", got, tt.want)
			}
		})
	}
}

func TestEncode_TooLarge(t *testing.T) {
	_, err := Encode(&Replace{Target: "p", HTML: strings.Repeat("x", MaxFrameSize)})
	if errors.Code(err) != "E202" {
		t.Errorf("Encode() err = %v, want E202", err)
	}
}

func TestDecodeServer(t *testing.T) {
	data, err := Encode(&Replace{Target: "button-panel", HTML: "<p>hi</p>"})
	if err != nil {
		t.Fatal(err)
	}
	f, err := DecodeServer(data)
	if err != nil {
		t.Fatalf("DecodeServer() error = %v", err)
	}
	r, ok := f.(*Replace)
	if !ok || r.Target != "button-panel" || r.HTML != "<p>hi</p>" {
		t.Errorf("DecodeServer() = %#v", f)
	}

	if _, err := DecodeServer([]byte(`{"type":"hello"}`)); errors.Code(err) != "E201" {
		t.Errorf("client frame decoded as server frame: %v", err)
	}
}

func TestEncodeClient(t *testing.T) {
	data, err := EncodeClient(&Hello{Caps: Caps{IntersectionObserver: false}})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"hello","caps":{"intersectionObserver":false}}` {
		t.Errorf("EncodeClient() = %s", data)
	}
	f, err := DecodeClient(data)
	if err != nil {
		t.Fatal(err)
	}
	if f.FrameType() != TypeHello {
		t.Errorf("FrameType() = %s", f.FrameType())
	}
}

func TestErrorFrame(t *testing.T) {
	f := ErrorFrame(errors.New("E210"), true)
	if f.Code != "E210" || !f.Fatal || f.Message == "" {
		t.Errorf("ErrorFrame() = %+v", f)
	}
}
