package log

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

// TestRelPathHandler_RewritesSitePaths tests that site-rooted paths are
// shortened to site-relative form.
func TestRelPathHandler_RewritesSitePaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "path under site root is shortened",
			value: filepath.Join(root, "Recordings", "index.html"),
			want:  filepath.Join("Recordings", "index.html"),
		},
		{
			name:  "site root itself becomes dot",
			value: root,
			want:  ".",
		},
		{
			name:  "absolute path outside root passes through",
			value: filepath.Join(string(filepath.Separator), "etc", "hostname"),
			want:  filepath.Join(string(filepath.Separator), "etc", "hostname"),
		},
		{
			name:  "relative value passes through",
			value: "index.html",
			want:  "index.html",
		},
		{
			name:  "ordinary string passes through",
			value: "broken link",
			want:  "broken link",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			handler := NewRelPathHandler(slog.NewTextHandler(&buf, nil), root)
			logger := slog.New(handler)

			logger.Info("event", "path", tt.value)

			got := buf.String()
			if !strings.Contains(got, "path="+tt.want) && !strings.Contains(got, "path=\""+tt.want+"\"") {
				t.Errorf("output %q does not contain rewritten value %q", got, tt.want)
			}
		})
	}
}

// TestRelPathHandler_Groups tests that values inside groups are rewritten too.
func TestRelPathHandler_Groups(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inside := filepath.Join(root, "page.html")

	var buf bytes.Buffer
	logger := slog.New(NewRelPathHandler(slog.NewTextHandler(&buf, nil), root))
	logger.Info("event", slog.Group("doc", slog.String("path", inside)))

	if strings.Contains(buf.String(), root) {
		t.Errorf("grouped path was not rewritten: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "page.html") {
		t.Errorf("rewritten path missing: %q", buf.String())
	}
}

// TestNewSiteLogger_Levels tests the verbose flag's effect on the level.
func TestNewSiteLogger_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	quiet := NewSiteLogger(&buf, t.TempDir(), false)
	quiet.Debug("hidden")
	quiet.Info("also hidden")
	if buf.Len() != 0 {
		t.Errorf("non-verbose logger should suppress debug and info: %q", buf.String())
	}

	buf.Reset()
	verbose := NewSiteLogger(&buf, t.TempDir(), true)
	verbose.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("verbose logger should emit debug output: %q", buf.String())
	}
}
