package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"config error", "E102", "Invalid server port", CategoryConfig},
		{"protocol error", "E210", "Session not found", CategoryProtocol},
		{"publish error", "E301", "S3 upload failed", CategoryPublish},
		{"validation error", "E400", "Unknown token category", CategoryValidation},
		{"unknown error code", "E999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New("E102").WithDetailf("port %d", 70000)
	if got := err.Error(); got != "E102: Invalid server port: port 70000" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := New("E100").Wrap(fmt.Errorf("open x: no such file"))
	if got := wrapped.Error(); got != "E100: Configuration file could not be read: open x: no such file" {
		t.Errorf("Error() = %q", got)
	}

	if got := Newf(CategoryCLI, "bad %s", "flag").Error(); got != "bad flag" {
		t.Errorf("Newf Error() = %q", got)
	}
}

func TestIsAndUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := fmt.Errorf("loading: %w", New("E101").Wrap(cause))

	if !stderrors.Is(err, New("E101")) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(err, New("E102")) {
		t.Error("errors.Is should not match a different code")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
	if Code(err) != "E101" {
		t.Errorf("Code() = %q, want E101", Code(err))
	}
	if Code(cause) != "" {
		t.Error("Code() of a plain error should be empty")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E300") != nil {
		t.Error("FromError(nil) should be nil")
	}
	orig := New("E301")
	if got := FromError(fmt.Errorf("ctx: %w", orig), "E300"); got != orig {
		t.Error("FromError should return the existing *Error")
	}
	got := FromError(stderrors.New("disk full"), "E300")
	if got.Code != "E300" || got.Wrapped == nil {
		t.Errorf("FromError = %+v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E102").WithDetail("port 0").Wrap(stderrors.New("parse")).Format()
	for _, want := range []string{"ERROR E102: Invalid server port", "port 0", "Cause: parse", "Hint: Use a port"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if got := New("E200").FormatCompact(); got != "E200: Malformed frame" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q longer than 20", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestPrint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b bytes.Buffer
	Print(&b, New("E210"))
	if !strings.Contains(b.String(), "ERROR E210") {
		t.Errorf("Print(coded) = %q", b.String())
	}
	b.Reset()
	Print(&b, stderrors.New("plain"))
	if !strings.Contains(b.String(), "ERROR: plain") {
		t.Errorf("Print(plain) = %q", b.String())
	}
}
