package task

import (
	"testing"

	"github.com/upsweep-dev/upsweep/internal/registry"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
	}{
		{
			name: "status downloading",
			line: "STATUS:Downloading:Mozilla.Firefox",
			want: Event{Kind: KindStatus, Phase: registry.StateDownloading, ID: "Mozilla.Firefox"},
		},
		{
			name: "status completed",
			line: "STATUS:Completed:7zip.7zip",
			want: Event{Kind: KindStatus, Phase: registry.StateCompleted, ID: "7zip.7zip"},
		},
		{
			name: "error with colons in message",
			line: "ERROR:Some.App:installer failed: exit code: 1603",
			want: Event{Kind: KindError, ID: "Some.App", Text: "installer failed: exit code: 1603"},
		},
		{
			name: "error detail",
			line: "ERRORDETAIL:Some.App:line one | line two",
			want: Event{Kind: KindErrorDetail, ID: "Some.App", Text: "line one | line two"},
		},
		{
			name: "unknown phase",
			line: "STATUS:Teleporting:Some.App",
			want: Event{},
		},
		{
			name: "status missing id",
			line: "STATUS:Downloading",
			want: Event{},
		},
		{
			name: "error missing message separator",
			line: "ERROR:Some.App",
			want: Event{},
		},
		{
			name: "free text",
			line: "Downloading https://example.com/installer.exe",
			want: Event{},
		},
		{
			name: "empty line",
			line: "",
			want: Event{},
		},
		{
			name: "errordetail not misread as error",
			line: "ERRORDETAIL:App:detail",
			want: Event{Kind: KindErrorDetail, ID: "App", Text: "detail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEvent(tt.line)
			if got != tt.want {
				t.Errorf("ParseEvent(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestProtocolRoundTrip(t *testing.T) {
	ev := ParseEvent(StatusLine(registry.StateInstalling, "Vendor.App"))
	if ev.Kind != KindStatus || ev.Phase != registry.StateInstalling || ev.ID != "Vendor.App" {
		t.Errorf("status round trip = %+v", ev)
	}

	ev = ParseEvent(ErrorLine("Vendor.App", "boom"))
	if ev.Kind != KindError || ev.Text != "boom" {
		t.Errorf("error round trip = %+v", ev)
	}

	ev = ParseEvent(ErrorDetailLine("Vendor.App", "tail"))
	if ev.Kind != KindErrorDetail || ev.Text != "tail" {
		t.Errorf("error detail round trip = %+v", ev)
	}
}
