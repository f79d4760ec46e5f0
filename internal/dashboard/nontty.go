package dashboard

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// RunNonTTY executes the steps and streams prefixed output for
// non-interactive environments. Returns the suite exit code.
func RunNonTTY(ctx context.Context, specs []StepSpec, out io.Writer) int {
	steps, updates := StartSteps(ctx, specs)

	// Align the stream by padding every prefix to the widest one.
	prefixWidth := 0
	for _, spec := range specs {
		if w := runewidth.StringWidth(stepLabel(spec)); w > prefixWidth {
			prefixWidth = w
		}
	}

	for update := range updates {
		step := steps[update.Index]
		if update.Line != "" {
			step.appendLine(update.Line)
			prefix := runewidth.FillRight(stepLabel(step.Spec), prefixWidth)
			fmt.Fprintf(out, "[%s] %s\n", prefix, update.Line)
		}
	}
	return renderSummary(out, steps)
}

func stepLabel(spec StepSpec) string {
	return spec.Group + "/" + spec.Name
}

func renderSummary(out io.Writer, steps []*Step) int {
	failures := 0
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")

	lastGroup := ""
	for _, step := range steps {
		if step.Spec.Group != lastGroup {
			lastGroup = step.Spec.Group
			fmt.Fprintf(out, "  %s\n", titleCaser.String(step.Spec.Group))
		}
		var status string
		switch step.Status {
		case StepFailed:
			status = "✗"
			failures++
		case StepSkipped:
			status = "-"
		default:
			status = "✓"
		}
		duration := step.Duration().Round(10 * time.Millisecond)
		fmt.Fprintf(out, "    %s %s (%s)\n", status, step.Spec.Name, duration)
	}
	if failures > 0 {
		fmt.Fprintf(out, "\n%d step(s) failed\n", failures)
		return 1
	}
	return 0
}

// JoinOutput joins a step's buffered output for tests.
func JoinOutput(step *Step) string {
	return strings.Join(step.GetOutput(), "\n")
}
