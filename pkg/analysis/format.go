package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/moore/pkg/domain"
)

const rule = "========================================"

// FormatResult renders the outcome of ProcessWord as plain text.
// A failed run lists the steps executed before the error and the partial output.
func FormatResult(res *domain.Result, err error) string {
	var b strings.Builder

	if err != nil {
		fmt.Fprintf(&b, "ERROR: %v\n%s\n", err, rule)
		if res == nil || len(res.Steps) == 0 {
			return b.String()
		}
		b.WriteString("\nExecuted steps:\n")
		writeSteps(&b, res.Steps)
		fmt.Fprintf(&b, "\nPartial output: %s\n", res.Output)
		return b.String()
	}

	fmt.Fprintf(&b, "OK\n%s\n\nSteps:\n", rule)
	writeSteps(&b, res.Steps)
	fmt.Fprintf(&b, "\n%s\nOutput word: %s\nFinal state: %s\n", rule, res.Output, res.FinalState)
	return b.String()
}

// FormatStep renders one step as a single line.
func FormatStep(s domain.Step) string {
	out := s.Output
	if out == "" {
		out = "-"
	}
	return fmt.Sprintf("Step %d: q=%s, in=%s -> out=%s, q'=%s", s.Index, s.From, s.Input, out, s.To)
}

func writeSteps(b *strings.Builder, steps []domain.Step) {
	for _, s := range steps {
		b.WriteString(FormatStep(s))
		b.WriteByte('\n')
	}
}

// FailureKind classifies a processing error for short status lines.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrStuck):
		return "stuck"
	case errors.Is(err, domain.ErrStaleState):
		return "stale"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
