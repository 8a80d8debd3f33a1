package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// DecisionMarkdown formats a decision as a markdown report.
func DecisionMarkdown(d *domain.TransitionDecision) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Next steps (%s)\n\n", d.Mode)

	if d.EmptyPool {
		fmt.Fprintf(&sb, "Nothing to suggest right now: `%s`.\n", d.EmptyPoolReason)
		return sb.String()
	}

	sb.WriteString("| # | Node | Badge | Provider | Probability | Why |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for i, c := range d.Candidates {
		node := fmt.Sprintf("%d", c.NodeID)
		if d.SelectedNodeID != nil && *d.SelectedNodeID == c.NodeID {
			node = "**" + node + "**"
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %.1f%% | %s |\n",
			i+1, node, c.Badge, c.Provider, c.Probability*100, strings.ReplaceAll(c.Explain, "|", "/"))
	}

	fmt.Fprintf(&sb, "\n_%d of %d candidates, t=%.2f, epsilon=%.2f", len(d.Candidates), d.PoolSize, d.Temperature, d.Epsilon)
	if d.ServedFromCache {
		sb.WriteString(", cached")
	}
	if d.EmergencyUsed {
		sb.WriteString(", emergency")
	}
	sb.WriteString("_\n")
	return sb.String()
}

// RenderDecision renders a decision for the terminal.
func RenderDecision(d *domain.TransitionDecision) (string, error) {
	return NewRenderer()(DecisionMarkdown(d))
}
