// Package style centralizes terminal styling: severity colors, headers,
// and a minimal spinner, so every component renders output with the same
// visual vocabulary instead of reinventing ANSI escapes locally.
package style

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Profile wraps the detected color capability of an output stream,
// letting callers build lipgloss styles that degrade to plain text when
// the stream is not a terminal.
type Profile struct {
	renderer *lipgloss.Renderer
	isTTY    bool
}

// NewProfile detects the color profile of w (falling back to no color
// when w is not a terminal file, e.g. in tests or when output is piped).
func NewProfile(w io.Writer) *Profile {
	r := lipgloss.NewRenderer(w)
	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = isatty(f) && termenv.ColorProfile() != termenv.Ascii
	}
	if !isTTY {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Profile{renderer: r, isTTY: isTTY}
}

func isatty(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// IsTTY reports whether this profile will emit color/box-drawing output.
func (p *Profile) IsTTY() bool { return p.isTTY }

var (
	colorError   = lipgloss.Color("9")
	colorWarning = lipgloss.Color("11")
	colorInfo    = lipgloss.Color("14")
	colorHint    = lipgloss.Color("8")
	colorSuccess = lipgloss.Color("10")
)

// Severity-tagged text styles.
func (p *Profile) Error(s string) string   { return p.renderer.NewStyle().Foreground(colorError).Bold(true).Render(s) }
func (p *Profile) Warning(s string) string { return p.renderer.NewStyle().Foreground(colorWarning).Render(s) }
func (p *Profile) Info(s string) string    { return p.renderer.NewStyle().Foreground(colorInfo).Render(s) }
func (p *Profile) Hint(s string) string    { return p.renderer.NewStyle().Foreground(colorHint).Render(s) }
func (p *Profile) Success(s string) string { return p.renderer.NewStyle().Foreground(colorSuccess).Bold(true).Render(s) }
func (p *Profile) Bold(s string) string    { return p.renderer.NewStyle().Bold(true).Render(s) }

// Header renders a bold stage label, e.g. "Parse Check".
func (p *Profile) Header(stage string) string {
	return p.renderer.NewStyle().Bold(true).Underline(true).Render(stage)
}

// Bordered wraps body in a rounded border, used for process-failure
// reports.
func (p *Profile) Bordered(body string) string {
	return p.renderer.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(body)
}

// Spinner is a minimal start/update/finish progress indicator. When the
// underlying stream is not a TTY, it degrades to plain log lines instead
// of redrawing in place.
type Spinner struct {
	profile *Profile
	out     io.Writer
	message string
	done    chan struct{}
}

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// StartSpinner begins a spinner with message. If the stream is not a TTY
// the message is printed once and the spinner performs no redraw.
func StartSpinner(out io.Writer, p *Profile, message string) *Spinner {
	s := &Spinner{profile: p, out: out, message: message, done: make(chan struct{})}
	if !p.IsTTY() {
		fmt.Fprintln(out, message)
		return s
	}
	go func() {
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				fmt.Fprintf(out, "\r%c %s", spinnerFrames[i%len(spinnerFrames)], s.message)
				i++
			}
		}
	}()
	return s
}

// UpdateMessage changes the spinner's displayed text.
func (s *Spinner) UpdateMessage(message string) {
	s.message = message
	if !s.profile.IsTTY() {
		fmt.Fprintln(s.out, message)
	}
}

// Success stops the spinner and prints a success line.
func (s *Spinner) Success(message string) {
	s.stop()
	fmt.Fprintf(s.out, "\r%s %s\n", s.profile.Success("✓"), message)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(message string) {
	s.stop()
	fmt.Fprintf(s.out, "\r%s %s\n", s.profile.Error("✗"), message)
}

func (s *Spinner) stop() {
	if s.profile.IsTTY() {
		close(s.done)
	}
}

// Confirm prompts with a yes/no question on out and reads the answer from
// in. Anything other than an answer beginning with 'y' or 'Y' (including
// end-of-input) counts as "no".
func Confirm(in io.Reader, out io.Writer, p *Profile, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s %s ", p.Bold(prompt), p.Hint("[y/N]"))
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	answer := strings.TrimSpace(scanner.Text())
	return len(answer) > 0 && (answer[0] == 'y' || answer[0] == 'Y'), nil
}
