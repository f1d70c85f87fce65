package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestZerologAdapterFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf))

	l.Info("step size selected",
		String("engine", "big"),
		Int("targetBits", 22),
		Uint64("stepSize", 45),
	)
	line := buf.String()
	for _, want := range []string{
		`"engine":"big"`,
		`"targetBits":22`,
		`"stepSize":45`,
		`"message":"step size selected"`,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

func TestZerologAdapterErrField(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf))

	l.Debug("run interrupted", Err(errors.New("context canceled")))
	if got := buf.String(); !strings.Contains(got, `"error":"context canceled"`) {
		t.Errorf("log line %q missing the error field", got)
	}
}

func TestZerologAdapterError(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf))

	l.Error("run failed", errors.New("boom"), String("engine", "big"))
	line := buf.String()
	for _, want := range []string{`"level":"error"`, `"error":"boom"`, `"engine":"big"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

func TestNewLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "factor")

	l.Info("run complete")
	line := buf.String()
	if !strings.Contains(line, `"component":"factor"`) {
		t.Errorf("log line %q missing the component tag", line)
	}
	if !strings.Contains(line, `"time"`) {
		t.Errorf("log line %q missing a timestamp", line)
	}
}
