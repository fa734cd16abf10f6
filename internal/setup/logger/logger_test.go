package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, test := range tests {
		t.Run(test.level, func(t *testing.T) {
			l := New(test.level, &bytes.Buffer{})
			if l.GetLevel() != test.want {
				t.Errorf("Level: %v, want: %v", l.GetLevel(), test.want)
			}
		})
	}
}

func TestNew_InstallsGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	New("info", &buf)

	log.Info().Msg("hello from filter")
	log.Debug().Msg("filtered out")

	out := buf.String()
	if !strings.Contains(out, "hello from filter") {
		t.Errorf("Expected global logger to write to buffer, got %q", out)
	}
	if strings.Contains(out, "filtered out") {
		t.Errorf("Expected debug message to be filtered, got %q", out)
	}
}
