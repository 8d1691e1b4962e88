package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/jobflow/internal/buildserver"
)

// StatusReport renders a build as markdown.
func StatusReport(b buildserver.Build) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s #%d: %s\n\n", b.Job, b.Number, b.Status())

	sb.WriteString("| | |\n|---|---|\n")
	if !b.Started.IsZero() {
		fmt.Fprintf(&sb, "| Started | %s |\n", b.Started.Format(time.RFC1123))
	}
	switch {
	case b.Building && b.Estimated > 0:
		fmt.Fprintf(&sb, "| Estimated | %s |\n", b.Estimated.Round(time.Second))
	case b.Duration > 0:
		fmt.Fprintf(&sb, "| Duration | %s |\n", b.Duration.Round(time.Second))
	}
	if len(b.Causes) > 0 {
		fmt.Fprintf(&sb, "| Cause | %s |\n", strings.Join(b.Causes, "; "))
	}
	if b.URL != "" {
		fmt.Fprintf(&sb, "| URL | %s |\n", b.URL)
	}

	if len(b.Parameters) > 0 {
		names := make([]string, 0, len(b.Parameters))
		for name := range b.Parameters {
			names = append(names, name)
		}
		sort.Strings(names)

		sb.WriteString("\n### Parameters\n\n")
		for _, name := range names {
			fmt.Fprintf(&sb, "- `%s` = `%s`\n", name, b.Parameters[name])
		}
	}
	return sb.String()
}
