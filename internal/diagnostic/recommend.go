package diagnostic

import (
	"bytes"
	"text/template"

	"github.com/ngcli/ng/internal/analyzer"
)

// recommendationTemplates maps a diagnostic Kind to a text/template body
// interpolating the diagnostic's Name field, adapted from the variable
// substitution the teacher's transform package applies to file content —
// here applied to a fixed recommendation string instead.
var recommendationTemplates = map[analyzer.Kind]string{
	analyzer.KindSyntaxError:       "check for a missing ';', unbalanced '{}', or an unterminated string near this location.",
	analyzer.KindUndefinedVariable: "'{{.Name}}' is not bound here — check for a typo, or that it is in scope (a missing function argument, 'with', or 'let' binding).",
	analyzer.KindUnusedBinding:     "'{{.Name}}' is never used — remove it, or prefix it with '_' to mark it intentionally unused.",
}

// Recommend renders the recommendation text for d, or the empty string
// for KindOther (no recommendation) or a kind with no template.
func Recommend(d analyzer.Diagnostic) string {
	tmplText, ok := recommendationTemplates[d.Kind]
	if !ok {
		return ""
	}
	tmpl, err := template.New("recommend").Parse(tmplText)
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return ""
	}
	return buf.String()
}

// buildLogRecommendations heuristically scans a fetched build log for
// known failure signatures, adapted from original_source's
// scan_log_for_recommendations.
func buildLogRecommendations(log string) []string {
	var recs []string
	if containsAny(log, "not found", "no matching package") {
		recs = append(recs, "a referenced package could not be found — check the name and that the relevant overlay/channel is present.")
	}
	if containsAny(log, "permission denied") {
		recs = append(recs, "the build hit a permission error — check file ownership in the source tree and that the build doesn't need elevated access.")
	}
	if containsAny(log, "network", "connection", "timeout", "could not resolve") {
		recs = append(recs, "a network operation failed during the build — check connectivity and that any required substituters are reachable.")
	}
	return recs
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if containsFold(s, n) {
			return true
		}
	}
	return false
}
