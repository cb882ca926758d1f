package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	tu "github.com/desertthunder/galx/internal/testing"
)

func TestNormalizeTitle(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "basic normalization", input: "Summer Banner", want: "summerbanner"},
		{name: "punctuation and dashes", input: "summer-banner_2024!", want: "summerbanner_2024"},
		{name: "mixed case", input: "SuMmEr BaNnEr", want: "summerbanner"},
		{name: "html entities", input: "Summer &#8211; Banner", want: "summerbanner"},
		{name: "unicode letters kept", input: "Café Logo", want: "cafélogo"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFileStem(t *testing.T) {
	tc := []struct {
		url      string
		wantName string
		wantStem string
	}{
		{"https://shop.example.com/wp-content/uploads/2024/05/banner.jpg", "banner.jpg", "banner"},
		{"https://shop.example.com/a/b/photo.final.png", "photo.final.png", "photo"},
		{"banner", "banner", "banner"},
		{"https://shop.example.com/dir/", "", ""},
	}

	for _, tt := range tc {
		t.Run(tt.url, func(t *testing.T) {
			if got := FileName(tt.url); got != tt.wantName {
				t.Errorf("FileName() = %q, want %q", got, tt.wantName)
			}
			if got := FileStem(tt.url); got != tt.wantStem {
				t.Errorf("FileStem() = %q, want %q", got, tt.wantStem)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&buf)

		SetLogLevel(l, "warn")
		if l.GetLevel() != log.WarnLevel {
			t.Errorf("expected warn level, got %v", l.GetLevel())
		}

		SetLogLevel(l, "nonsense")
		if l.GetLevel() != log.WarnLevel {
			t.Errorf("expected level to stay warn, got %v", l.GetLevel())
		}

		l.Info("hidden")
		l.Warn("shown")
		if strings.Contains(buf.String(), "hidden") {
			t.Error("info line should be filtered at warn level")
		}
		if !strings.Contains(buf.String(), "shown") {
			t.Error("warn line should be written")
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "galx.log")
		l, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		l.Info("hello file")

		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "hello file") {
			t.Error("expected log line in file")
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == b || len(a) != 36 {
			t.Errorf("unexpected ids %q %q", a, b)
		}
	})
}
