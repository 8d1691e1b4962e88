package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/jobflow/pkg/domain"
)

const startNode = "__start"

// GenerateMermaid produces a Mermaid flowchart from a flow blueprint.
// It applies semantic shapes:
// - Root state: (["Stadium"])
// - Router: {"Rhombus"}
// - Text prompt: [/"Parallelogram"/]
// - Other prompts: ["Rectangle"]
// - Terminal: (("Circle"))
// Cancellation edges (esc) are dotted.
func GenerateMermaid(bp domain.Blueprint) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    %s(( )) --> %s\n", startNode, sanitizeMermaidID(string(bp.Initial)))

	var terminals []domain.Terminal
	seen := make(map[domain.Terminal]bool)

	for _, s := range bp.States {
		safeID := sanitizeMermaidID(string(s.ID))

		opener, closer := "[", "]"
		switch {
		case s.Root:
			opener, closer = "([", "])"
		case s.Kind == domain.KindRouter:
			opener, closer = "{", "}"
		case s.Kind == string(domain.PromptText):
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(string(s.ID)), closer)

		for _, t := range s.Transitions {
			to := sanitizeMermaidID(string(t.Target))
			if term, ok := t.Target.Terminal(); ok {
				to = terminalID(term)
				if !seen[term] {
					seen[term] = true
					terminals = append(terminals, term)
				}
			}

			label := escapeLabel(string(t.Event))
			arrow := fmt.Sprintf("-- \"%s\" -->", label)
			if t.Event == domain.EventCancel {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, to)
		}
	}

	for _, term := range terminals {
		fmt.Fprintf(&sb, "    %s((\"%s\"))\n", terminalID(term), term)
	}

	if len(terminals) > 0 {
		sb.WriteString("\n    classDef terminal fill:#eceff1,stroke:#455a64,color:#000;\n")
		ids := make([]string, len(terminals))
		for i, term := range terminals {
			ids[i] = terminalID(term)
		}
		fmt.Fprintf(&sb, "    class %s terminal;\n", strings.Join(ids, ","))
	}

	return sb.String()
}

func terminalID(t domain.Terminal) string {
	return "end_" + sanitizeMermaidID(string(t))
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
