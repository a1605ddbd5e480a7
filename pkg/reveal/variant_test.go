package reveal_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/designdocs/pkg/reveal"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    reveal.Variant
		wantErr bool
	}{
		{"", reveal.FadeUp, false},
		{"fade-up", reveal.FadeUp, false},
		{" Fade-Left ", reveal.FadeLeft, false},
		{"fade-right", reveal.FadeRight, false},
		{"scale", reveal.Scale, false},
		{"fade", reveal.Fade, false},
		{"spin", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := reveal.ParseVariant(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, reveal.ErrInvalidOptions) {
				t.Errorf("err = %v, want ErrInvalidOptions", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVariantPoses(t *testing.T) {
	tests := []struct {
		v    reveal.Variant
		want reveal.Pose
		css  string
	}{
		{reveal.FadeUp, reveal.Pose{Y: 30, Scale: 1}, "opacity:0;transform:translate3d(0px,30px,0) scale(1)"},
		{reveal.FadeLeft, reveal.Pose{X: 30, Scale: 1}, "opacity:0;transform:translate3d(30px,0px,0) scale(1)"},
		{reveal.FadeRight, reveal.Pose{X: -30, Scale: 1}, "opacity:0;transform:translate3d(-30px,0px,0) scale(1)"},
		{reveal.Scale, reveal.Pose{Scale: 0.95}, "opacity:0;transform:translate3d(0px,0px,0) scale(0.95)"},
		{reveal.Fade, reveal.Pose{Scale: 1}, "opacity:0;transform:translate3d(0px,0px,0) scale(1)"},
	}
	if len(tests) != len(reveal.Variants) {
		t.Fatalf("table covers %d variants, want %d", len(tests), len(reveal.Variants))
	}
	for _, tt := range tests {
		t.Run(string(tt.v), func(t *testing.T) {
			if got := tt.v.Hidden(); got != tt.want {
				t.Errorf("Hidden() = %+v, want %+v", got, tt.want)
			}
			if got := tt.v.Hidden().CSS(); got != tt.css {
				t.Errorf("Hidden().CSS() = %q, want %q", got, tt.css)
			}
			if got := tt.v.Visible(); got != reveal.Resting {
				t.Errorf("Visible() = %+v, want resting", got)
			}
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    reveal.Options
		wantErr bool
		msg     string
	}{
		{"zero value", reveal.Options{}, false, ""},
		{"full", reveal.Options{Variant: reveal.Scale, Delay: time.Second, Duration: time.Second}, false, ""},
		{"negative delay", reveal.Options{Delay: -time.Millisecond}, true, "negative delay"},
		{"negative duration", reveal.Options{Duration: -time.Millisecond}, true, "negative duration"},
		{"bad variant", reveal.Options{Variant: "zoom"}, true, `variant "zoom"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, reveal.ErrInvalidOptions) {
				t.Errorf("err = %v, want ErrInvalidOptions", err)
			}
			if err != nil && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("err = %q, want it to mention %q", err, tt.msg)
			}
		})
	}
}
