package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// GenerateMermaid draws a decision as a Mermaid flowchart.
// It applies semantic styling:
// - Origin: ((Circle))
// - Route window: [/Parallelogram/] chained most recent first with dotted arrows
// - Candidates: [Rectangle] shaped by badge, edges labelled with provider and probability
// The selected candidate is styled as current and route-window nodes as visited.
func GenerateMermaid(tc domain.TransitionContext, d *domain.TransitionDecision) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	origin := "here"
	if tc.OriginNodeID != nil {
		origin = nodeID(*tc.OriginNodeID)
		sb.WriteString(fmt.Sprintf("    %s((\"%d\"))\n", origin, *tc.OriginNodeID))
	} else {
		sb.WriteString("    here((\"start\"))\n")
	}

	// Trail, oldest visit first so the arrows point toward the present.
	prev := ""
	for i := len(tc.RouteWindow) - 1; i >= 0; i-- {
		id := nodeID(tc.RouteWindow[i])
		sb.WriteString(fmt.Sprintf("    %s[/\"%d\"/]\n", id, tc.RouteWindow[i]))
		if prev != "" && prev != id {
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", prev, id))
		}
		prev = id
	}
	if prev != "" && prev != origin {
		sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", prev, origin))
	}

	if d == nil {
		return sb.String()
	}

	for _, c := range d.Candidates {
		id := nodeID(c.NodeID)
		opener, closer := "[", "]"
		switch c.Badge {
		case domain.BadgeSimilar:
			opener, closer = "([", "])" // Stadium
		case domain.BadgeTrail:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%d\"%s\n", id, opener, c.NodeID, closer))
		sb.WriteString(fmt.Sprintf("    %s -- \"%s %.2f\" --> %s\n", origin, c.Provider, c.Probability, id))
	}

	if d.EmptyPool {
		sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> none[\"no candidates\"]\n", origin, d.EmptyPoolReason))
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

	visited := make(map[int64]bool)
	for _, id := range tc.RouteWindow {
		if !visited[id] {
			visited[id] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(id)))
		}
	}
	if d.SelectedNodeID != nil {
		sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(*d.SelectedNodeID)))
	}

	return sb.String()
}

// nodeID prefixes numeric ids, which Mermaid does not accept as bare identifiers.
func nodeID(id int64) string {
	if id < 0 {
		return fmt.Sprintf("n_%d", -id)
	}
	return fmt.Sprintf("n%d", id)
}
