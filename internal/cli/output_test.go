package cli

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/agbru/psfactor/internal/factor"
	"github.com/agbru/psfactor/internal/ui"
)

func foundResult() *factor.Result {
	return &factor.Result{
		Outcome:    factor.OutcomeFactorFound,
		Factor:     big.NewInt(1093),
		Complement: big.NewInt(3511),
		StepSize:   factor.StepSize{L: 45, Source: factor.StepSizeDefault},
		Engine:     "big",
		Duration:   42 * time.Millisecond,
	}
}

func noColor(t *testing.T) {
	t.Helper()
	prev := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(prev) })
}

func TestDisplayQuietResult(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		var buf bytes.Buffer
		DisplayQuietResult(&buf, foundResult())
		if got := buf.String(); got != "1093 3511\n" {
			t.Errorf("quiet output = %q, want %q", got, "1093 3511\n")
		}
	})

	t.Run("None", func(t *testing.T) {
		var buf bytes.Buffer
		DisplayQuietResult(&buf, &factor.Result{Outcome: factor.OutcomeNoFactor})
		if got := buf.String(); got != "none\n" {
			t.Errorf("quiet output = %q, want %q", got, "none\n")
		}
	})
}

func TestDisplayFactorResultHuman(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	DisplayFactorResult(&buf, foundResult(), big.NewInt(3837523), OutputConfig{Details: true})

	out := buf.String()
	for _, want := range []string{
		"Factor found",
		"1,093",
		"3,511",
		"Engine",
		"big",
		"Step size (L)",
		"45",
		"[1, 2,025]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDisplayFactorResultDegenerate(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	res := &factor.Result{
		Outcome:    factor.OutcomeNoFactor,
		Degenerate: true,
		Engine:     "big",
	}
	DisplayFactorResult(&buf, res, big.NewInt(10007), OutputConfig{})
	out := buf.String()
	if !strings.Contains(out, "No factor found") {
		t.Errorf("output missing the no-factor line:\n%s", out)
	}
	if !strings.Contains(out, "backtracking search was exhausted") {
		t.Errorf("output missing the degenerate explanation:\n%s", out)
	}
}

func TestDisplayFactorResultClampNote(t *testing.T) {
	noColor(t)
	res := foundResult()
	res.StepSize.Clamped = true
	var buf bytes.Buffer
	DisplayFactorResult(&buf, res, big.NewInt(3837523), OutputConfig{Details: true})
	if !strings.Contains(buf.String(), "clamped by the memory budget") {
		t.Errorf("output missing the clamp note:\n%s", buf.String())
	}
}

func TestDisplayFactorResultJSON(t *testing.T) {
	var buf bytes.Buffer
	DisplayFactorResult(&buf, foundResult(), big.NewInt(3837523), OutputConfig{JSON: true})

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output %q: %v", buf.String(), err)
	}
	if decoded["outcome"] != "factor found" {
		t.Errorf("outcome = %v", decoded["outcome"])
	}
	if decoded["factor"] != "1093" || decoded["complement"] != "3511" {
		t.Errorf("factor/complement = %v/%v", decoded["factor"], decoded["complement"])
	}
	if decoded["target"] != "3837523" {
		t.Errorf("target = %v", decoded["target"])
	}
	if decoded["stepSize"] != float64(45) {
		t.Errorf("stepSize = %v", decoded["stepSize"])
	}
	if decoded["coverage"] != "2025" {
		t.Errorf("coverage = %v", decoded["coverage"])
	}
}

func TestDisplayFactorResultJSONNoFactor(t *testing.T) {
	var buf bytes.Buffer
	res := &factor.Result{Outcome: factor.OutcomeNoFactor, Engine: "big"}
	DisplayFactorResult(&buf, res, big.NewInt(10007), OutputConfig{JSON: true})

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output %q: %v", buf.String(), err)
	}
	if decoded["outcome"] != "no factor found" {
		t.Errorf("outcome = %v", decoded["outcome"])
	}
	if _, present := decoded["factor"]; present {
		t.Error("factor field present for a no-factor result")
	}
}

func TestTruncateNumber(t *testing.T) {
	t.Parallel()
	if got := truncateNumber("1234", 50); got != "1,234" {
		t.Errorf("short number = %q, want %q", got, "1,234")
	}
	long := strings.Repeat("9", 100)
	got := truncateNumber(long, 50)
	if !strings.Contains(got, "...") || len(got) >= 100 {
		t.Errorf("long number was not truncated: %q", got)
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	PrintExecutionConfig(&buf, big.NewInt(3837523), big.NewInt(4000), 1<<30, []string{"big"}, time.Minute)
	out := buf.String()
	for _, want := range []string{"3,837,523", "bound 4,000", "1.0 GiB", "big", "1m0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
