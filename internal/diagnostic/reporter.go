// Package diagnostic renders analyzer.Diagnostic values and raw process
// failures to a user-facing error stream, with source excerpts, caret
// underlines, and severity coloring that degrades to plain text off a
// terminal.
package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/ngcli/ng/internal/analyzer"
	"github.com/ngcli/ng/internal/style"
)

// Reporter renders diagnostics and process failures to Out.
type Reporter struct {
	Out     io.Writer
	profile *style.Profile
}

// NewReporter builds a Reporter writing to out, detecting its color
// capability once at construction time.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{Out: out, profile: style.NewProfile(out)}
}

// Report renders stage's diagnostics in the order given, each with a header,
// file:line:col location, a syntax-highlighted excerpt with caret
// underline, and a recommendation.
func (r *Reporter) Report(stage string, diags []analyzer.Diagnostic, db *analyzer.DB) {
	for _, d := range diags {
		r.reportOne(stage, d, db)
	}
}

func (r *Reporter) reportOne(stage string, d analyzer.Diagnostic, db *analyzer.DB) {
	fmt.Fprintf(r.Out, "%s  %s\n", r.profile.Header(stage), severityMarker(r.profile, d.Severity))

	line, col := lineColFor(d, db)
	fmt.Fprintf(r.Out, "  %s %s:%d:%d\n", r.profile.Info("-->"), d.Path, line, col)
	fmt.Fprintf(r.Out, "  %s\n", d.Message)

	if db != nil {
		if id, ok := db.FileIDForPath(d.Path); ok {
			if text := db.Text(id); text != "" {
				r.printExcerpt(text, d.Range)
			}
		}
	}

	if rec := Recommend(d); rec != "" {
		fmt.Fprintf(r.Out, "  %s %s\n", r.profile.Hint("help:"), rec)
	}
	fmt.Fprintln(r.Out)
}

func lineColFor(d analyzer.Diagnostic, db *analyzer.DB) (int, int) {
	if db == nil {
		return 1, 1
	}
	id, ok := db.FileIDForPath(d.Path)
	if !ok {
		return 1, 1
	}
	return lineCol(db.Text(id), d.Range.Start)
}

func (r *Reporter) printExcerpt(text string, rng analyzer.Range) {
	startLine, _, lines := excerptLines(text, rng.Start, rng.End)
	startCol, _ := lineCol(text, rng.Start)
	_, endCol := lineCol(text, rng.End)

	for i, line := range lines {
		lineNo := startLine + i
		highlighted := r.highlightLine(line)
		fmt.Fprintf(r.Out, "  %4d | %s\n", lineNo, highlighted)

		curLineStartLine, _ := lineCol(text, rng.Start)
		curLineEndLine, _ := lineCol(text, rng.End)
		if lineNo >= curLineStartLine && lineNo <= curLineEndLine {
			carets := caretLine(line, lineNo, startCol, endCol, curLineStartLine, curLineEndLine)
			if carets != "" {
				fmt.Fprintf(r.Out, "       | %s\n", r.profile.Error(carets))
			}
		}
	}
}

func caretLine(line string, lineNo, startCol, endCol, startLine, endLine int) string {
	lo := 1
	hi := len(line) + 1
	if lineNo == startLine {
		lo = startCol
	}
	if lineNo == endLine {
		hi = endCol
	}
	if hi <= lo {
		hi = lo + 1
	}
	var sb strings.Builder
	for i := 1; i < lo; i++ {
		sb.WriteByte(' ')
	}
	for i := lo; i < hi; i++ {
		sb.WriteByte('^')
	}
	return sb.String()
}

// highlightLine syntax-highlights line using chroma. No Nix lexer ships
// with chroma, so a shell-like lexer is used as the closest fallback
// (both languages share '#' comments and bare-word/string-heavy syntax).
// Highlighting is skipped entirely off a terminal.
func (r *Reporter) highlightLine(line string) string {
	if !r.profile.IsTTY() {
		return line
	}
	var buf strings.Builder
	if err := quick.Highlight(&buf, line, "bash", "terminal256", "monokai"); err != nil {
		return line
	}
	return strings.TrimRight(buf.String(), "\n")
}

func severityMarker(p *style.Profile, sev analyzer.Severity) string {
	switch sev {
	case analyzer.SeverityError:
		return p.Error("error")
	case analyzer.SeverityWarning:
		return p.Warning("warning")
	case analyzer.SeverityInfo:
		return p.Info("info")
	default:
		return p.Hint("hint")
	}
}

// ReportProcessFailure renders a failure surfaced by internal/nix where no
// structured Diagnostic exists: a bordered block with the stage, a colored
// reason, bulleted recommendations, and an optional raw detail body.
func (r *Reporter) ReportProcessFailure(stage, reason, detail string, recommendations []string) {
	var body strings.Builder
	fmt.Fprintf(&body, "%s\n", r.profile.Header(stage))
	fmt.Fprintf(&body, "%s\n", r.profile.Error(reason))
	for _, rec := range recommendations {
		fmt.Fprintf(&body, "  • %s\n", rec)
	}
	if detail != "" {
		fmt.Fprintf(&body, "\n%s", detail)
	}
	fmt.Fprintln(r.Out, r.profile.Bordered(strings.TrimRight(body.String(), "\n")))
}

// ReportBuildFailureLog renders a fetched build log's recommendations
// alongside the raw log text, used when internal/nix.Build fails and the
// caller has fetched the log for the failed derivation.
func (r *Reporter) ReportBuildFailureLog(drvPath, log string) {
	recs := buildLogRecommendations(log)
	r.ReportProcessFailure("Build", "builder failed for "+drvPath, log, recs)
}
