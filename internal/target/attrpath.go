// Package target describes what nix command should operate on: a flake
// reference, a file, an inline expression, or a resolved store path, each
// carrying an optional dotted attribute path.
package target

import (
	"fmt"
	"strings"
)

// ParseAttributePath parses a dotted Nix attribute path such as
// `foo.bar` or `foo."bar.baz"` into its segments. A bare identifier segment
// matches Nix's own identifier grammar: an ASCII letter or underscore
// followed by letters, digits, underscores, apostrophes or hyphens.
// Any other segment must be double-quoted, with `\"` and `\\` as the only
// recognized escapes. The empty string parses to a zero-length path.
func ParseAttributePath(s string) ([]string, error) {
	p := &attrParser{input: s}
	segs, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, fmt.Errorf("attribute path: unexpected character %q at offset %d", p.peek(), p.pos)
	}
	return segs, nil
}

type attrParser struct {
	input string
	pos   int
}

func (p *attrParser) atEnd() bool { return p.pos >= len(p.input) }

func (p *attrParser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.input[p.pos]
}

func (p *attrParser) parsePath() ([]string, error) {
	if p.atEnd() {
		return nil, nil
	}

	var segs []string
	seg, err := p.parseSegment()
	if err != nil {
		return nil, err
	}
	segs = append(segs, seg)

	for !p.atEnd() && p.peek() == '.' {
		p.pos++
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func (p *attrParser) parseSegment() (string, error) {
	if p.atEnd() {
		return "", fmt.Errorf("attribute path: expected a segment at offset %d, found end of input", p.pos)
	}
	if p.peek() == '"' {
		return p.parseQuoted()
	}
	return p.parseIdentifier()
}

func isIdentFirst(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentRest(c byte) bool {
	return isIdentFirst(c) || (c >= '0' && c <= '9') || c == '\'' || c == '-'
}

func (p *attrParser) parseIdentifier() (string, error) {
	start := p.pos
	if p.atEnd() || !isIdentFirst(p.peek()) {
		return "", fmt.Errorf("attribute path: invalid segment at offset %d", p.pos)
	}
	p.pos++
	for !p.atEnd() && isIdentRest(p.peek()) {
		p.pos++
	}
	return p.input[start:p.pos], nil
}

func (p *attrParser) parseQuoted() (string, error) {
	// caller already checked peek() == '"'
	p.pos++
	var sb strings.Builder
	for {
		if p.atEnd() {
			return "", fmt.Errorf("attribute path: unterminated quoted segment starting near offset %d", p.pos)
		}
		c := p.input[p.pos]
		if c == '"' {
			p.pos++
			return sb.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.atEnd() {
				return "", fmt.Errorf("attribute path: dangling escape at offset %d", p.pos)
			}
			sb.WriteByte(p.input[p.pos])
			p.pos++
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
}

// JoinAttributePath renders segments back into a dotted attribute path,
// quoting any segment that is not itself a valid bare Nix identifier
// (empty, contains a dot, or contains a character outside the identifier
// alphabet). It is the inverse of ParseAttributePath for every path that
// parser accepts.
func JoinAttributePath(segments []string) string {
	var sb strings.Builder
	for i, seg := range segments {
		if i > 0 {
			sb.WriteByte('.')
		}
		if needsQuoting(seg) {
			sb.WriteByte('"')
			sb.WriteString(escapeQuoted(seg))
			sb.WriteByte('"')
		} else {
			sb.WriteString(seg)
		}
	}
	return sb.String()
}

// escapeQuoted escapes the two characters parseQuoted treats specially
// (`\` and `"`) so a round-tripped segment re-parses to the same bytes.
func escapeQuoted(s string) string {
	if !strings.ContainsAny(s, `\"`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	if !isIdentFirst(s[0]) {
		return true
	}
	for i := 0; i < len(s); i++ {
		if !isIdentRest(s[i]) {
			return true
		}
	}
	return false
}
