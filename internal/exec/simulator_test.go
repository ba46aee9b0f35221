package exec

import (
	"context"
	"strings"
	"testing"
)

func TestSimulatedRunner_Success(t *testing.T) {
	s := &SimulatedRunner{}

	var lines []string
	err := s.RunStream(context.Background(), func(ln string) {
		lines = append(lines, ln)
	}, "winget", "upgrade", "--id", "Vendor.App", "--exact")
	if err != nil {
		t.Fatalf("RunStream() error: %v", err)
	}

	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Found Vendor.App", "Downloading", "install", "Successfully installed"} {
		if !strings.Contains(joined, want) {
			t.Errorf("output missing %q:\n%s", want, joined)
		}
	}
}

func TestSimulatedRunner_ScriptedFailure(t *testing.T) {
	s := &SimulatedRunner{FailIDs: map[string]struct{}{"Vendor.Bad": {}}}

	var lines []string
	err := s.RunStream(context.Background(), func(ln string) {
		lines = append(lines, ln)
	}, "winget", "upgrade", "--id", "Vendor.Bad")
	if err == nil {
		t.Fatal("RunStream() must fail for a scripted failure id")
	}
	if joined := strings.Join(lines, "\n"); !strings.Contains(joined, "1603") {
		t.Errorf("failure output missing installer error:\n%s", joined)
	}
}

func TestSimulatedRunner_ReportPlayback(t *testing.T) {
	s := &SimulatedRunner{Report: "canned report\n"}
	out, err := s.Run(context.Background(), "winget", "upgrade")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if string(out) != "canned report\n" {
		t.Errorf("Run() = %q", out)
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"separate value", []string{"upgrade", "--id", "Vendor.App"}, "Vendor.App"},
		{"equals form", []string{"upgrade", "--id=Vendor.App"}, "Vendor.App"},
		{"missing", []string{"upgrade"}, ""},
		{"flag at end", []string{"upgrade", "--id"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagValue(tt.args, "--id"); got != tt.want {
				t.Errorf("flagValue(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}
