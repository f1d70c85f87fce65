package app

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	cases := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-version"}, true},
		{[]string{"-V"}, true},
		{[]string{"-n", "91", "--version"}, true},
		{[]string{"-n", "91"}, false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := HasVersionFlag(tc.args); got != tc.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tc.args, got, tc.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintVersion(&buf)
	out := buf.String()
	for _, want := range []string{"psfactor", "Commit", "Go version", "OS/Arch"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}

func TestNewRejectsBadFlags(t *testing.T) {
	if _, err := New([]string{"psfactor", "-bogus"}, io.Discard); err == nil {
		t.Error("New accepted an unknown flag")
	}
	if _, err := New([]string{"psfactor", "-n", "ninety-one"}, io.Discard); err == nil {
		t.Error("New accepted a malformed target")
	}
}

func TestNewHelpError(t *testing.T) {
	_, err := New([]string{"psfactor", "-h"}, io.Discard)
	if err == nil {
		t.Fatal("expected flag.ErrHelp")
	}
	if !IsHelpError(err) {
		t.Errorf("IsHelpError(%v) = false, want true", err)
	}
}

func runApp(t *testing.T, args ...string) (int, string) {
	t.Helper()
	application, err := New(append([]string{"psfactor"}, args...), io.Discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var out bytes.Buffer
	code := application.Run(context.Background(), &out)
	return code, out.String()
}

func TestRunQuietFactoring(t *testing.T) {
	code, out := runApp(t, "-n", "91", "-q", "-timeout", "30s")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (output: %s)", code, out)
	}
	if strings.TrimSpace(out) != "7 13" {
		t.Errorf("quiet output = %q, want %q", strings.TrimSpace(out), "7 13")
	}
}

func TestRunQuietNoFactor(t *testing.T) {
	code, out := runApp(t, "-n", "1000003", "-q", "-timeout", "30s")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (output: %s)", code, out)
	}
	if strings.TrimSpace(out) != "none" {
		t.Errorf("quiet output = %q, want %q", strings.TrimSpace(out), "none")
	}
}

func TestRunJSONOutput(t *testing.T) {
	code, out := runApp(t, "-n", "3837523", "-json", "-timeout", "30s")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (output: %s)", code, out)
	}
	line := strings.TrimSpace(out)
	if !strings.HasPrefix(line, "{") || !strings.Contains(line, "\"factor\":\"1093\"") {
		t.Errorf("JSON output = %q", line)
	}
}

func TestRunInvalidTarget(t *testing.T) {
	application, err := New([]string{"psfactor", "-n", "1", "-q"}, io.Discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	application.ErrWriter = io.Discard
	if code := application.Run(context.Background(), io.Discard); code != 4 {
		t.Errorf("exit code = %d, want 4 for a target below 2", code)
	}
}

func TestRunProofMode(t *testing.T) {
	t.Run("Upheld", func(t *testing.T) {
		code, out := runApp(t, "-n", "3837523", "-prove-smallest-factor", "1093", "-timeout", "30s")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0 (output: %s)", code, out)
		}
		if !strings.Contains(out, "Claim upheld") {
			t.Errorf("output missing the proof conclusion:\n%s", out)
		}
	})

	t.Run("Disproved", func(t *testing.T) {
		code, out := runApp(t, "-n", "3837523", "-prove-smallest-factor", "3511", "-timeout", "30s")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0 (output: %s)", code, out)
		}
		if !strings.Contains(out, "Claim disproved") {
			t.Errorf("output missing the disproof:\n%s", out)
		}
	})

	t.Run("NonDividingClaim", func(t *testing.T) {
		application, err := New([]string{"psfactor", "-n", "3837523", "-prove-smallest-factor", "1091"}, io.Discard)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		application.ErrWriter = io.Discard
		if code := application.Run(context.Background(), io.Discard); code != 4 {
			t.Errorf("exit code = %d, want 4 for a non-dividing claim", code)
		}
	})
}

func TestRunTimeout(t *testing.T) {
	application, err := New([]string{"psfactor", "-n", "3837523", "-q", "-timeout", "1ns"}, io.Discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	application.ErrWriter = io.Discard
	var out bytes.Buffer
	code := application.Run(context.Background(), &out)
	if code != 2 {
		t.Errorf("exit code = %d, want 2 for a timed-out run", code)
	}
}

func TestSetupLifecycleTimeout(t *testing.T) {
	ctx, cancels := SetupLifecycle(context.Background(), 10*time.Millisecond)
	defer cancels.Cleanup()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not expire with the configured timeout")
	}
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctx.Err())
	}
}
