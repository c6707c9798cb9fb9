package suggest

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Render writes the ranked suggestions as a short terminal report.
func Render(w io.Writer, res *Result) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "%s\n\n", cyan(fmt.Sprintf("Suggestions for %s", res.Weekday)))

	if res.Empty {
		fmt.Fprintf(w, "  %s\n", gray(res.Reason))
		return
	}

	for i, s := range res.Suggestions {
		fmt.Fprintf(w, "  %d. %s %s\n", i+1, s.Task, priorityLabel(s.Priority))
		detail := fmt.Sprintf("score %.2f", s.Score)
		if s.Category != "" {
			detail += fmt.Sprintf(", %s", s.Category)
		}
		if s.EstimatedMinutes > 0 {
			detail += fmt.Sprintf(", ~%dmin", s.EstimatedMinutes)
		}
		if s.EstimatedTime != "" {
			detail += fmt.Sprintf(", around %s", s.EstimatedTime)
		}
		fmt.Fprintf(w, "     %s\n", gray(detail))
	}
}

func priorityLabel(priority int) string {
	switch priority {
	case 1:
		return color.New(color.FgRed, color.Bold).Sprint("[High]")
	case 2:
		return color.New(color.FgYellow).Sprint("[Medium]")
	default:
		return color.New(color.FgGreen).Sprint("[Low]")
	}
}
