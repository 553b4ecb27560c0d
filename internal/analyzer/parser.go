package analyzer

import "fmt"

// parser is a tolerant recursive-descent parser: on a malformed
// construct it records a SyntaxError diagnostic, skips forward to a
// resynchronization token (';', '}', ')', ']', or EOF), and substitutes
// an ErrorNode so the surrounding tree stays walkable.
type parser struct {
	lex  *lexer
	tok  token
	path string
}

func newParser(path, src string) *parser {
	lex := newLexer(path, src)
	p := &parser{lex: lex, path: path}
	p.tok = lex.next()
	return p
}

func (p *parser) advance() { p.tok = p.lex.next() }

func (p *parser) errorf(r Range, format string, args ...any) {
	p.lex.errs = append(p.lex.errs, Diagnostic{
		Severity: SeverityError, Path: p.path, Kind: KindSyntaxError,
		Range: r, Message: fmt.Sprintf(format, args...),
	})
}

// expectPunct consumes tok if it matches text; otherwise records a syntax
// error at the current position and leaves the cursor in place.
func (p *parser) expectPunct(text string) bool {
	if p.tok.kind == tokPunct && p.tok.text == text {
		p.advance()
		return true
	}
	p.errorf(Range{Start: p.tok.start, End: p.tok.end}, "expected %q", text)
	return false
}

// resync advances until one of the given punctuation texts, or EOF, is
// found, without consuming it (so the caller can still expectPunct it).
func (p *parser) resync(stopAt ...string) {
	for p.tok.kind != tokEOF {
		if p.tok.kind == tokPunct {
			for _, s := range stopAt {
				if p.tok.text == s {
					return
				}
			}
		}
		p.advance()
	}
}

// Parse parses the full source as a single expression (the body of an
// implicit top-level let/rec-less scope) and returns the tree plus any
// syntax errors collected along the way. Parsing is total: it always
// returns a non-nil root, synthesizing an ErrorNode when the source is
// empty or unrecoverable.
func Parse(path, src string) (Node, []Diagnostic) {
	p := newParser(path, src)
	if p.tok.kind == tokEOF {
		return &ErrorNode{Range: Range{Start: 0, End: 0}}, nil
	}
	root := p.parseExpr()
	if p.tok.kind != tokEOF {
		p.errorf(Range{Start: p.tok.start, End: p.tok.end}, "unexpected trailing input %q", p.tok.text)
	}
	return root, p.lex.errs
}

func (p *parser) parseExpr() Node {
	switch {
	case p.tok.kind == tokKeyword && p.tok.text == "let":
		return p.parseLet()
	case p.tok.kind == tokKeyword && p.tok.text == "with":
		return p.parseWith()
	case p.tok.kind == tokKeyword && p.tok.text == "if":
		return p.parseIf()
	default:
		return p.parseBinOp()
	}
}

var binOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "++": true, "//": true,
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
	"&&": true, "||": true, "->": true,
}

func (p *parser) parseBinOp() Node {
	left := p.parseApply()
	for p.tok.kind == tokPunct && binOperators[p.tok.text] {
		op := p.tok.text
		start := left
		p.advance()
		right := p.parseApply()
		left = &BinOp{Op: op, Left: start, Right: right, Range: spanOf(start, right)}
	}
	return left
}

// parseApply parses juxtaposition (function application), left-associative.
func (p *parser) parseApply() Node {
	fn := p.parseSelect()
	for p.startsAtom() {
		arg := p.parseSelect()
		fn = &Apply{Fn: fn, Arg: arg, Range: spanOf(fn, arg)}
	}
	return fn
}

func (p *parser) startsAtom() bool {
	switch p.tok.kind {
	case tokIdent, tokString, tokNumber, tokPath:
		return true
	case tokKeyword:
		return p.tok.text == "true" || p.tok.text == "false" || p.tok.text == "null" || p.tok.text == "rec" || p.tok.text == "import"
	case tokPunct:
		return p.tok.text == "{" || p.tok.text == "[" || p.tok.text == "("
	default:
		return false
	}
}

func (p *parser) parseSelect() Node {
	base := p.parseAtom()
	for p.tok.kind == tokPunct && p.tok.text == "." {
		start := p.tok.start
		p.advance()
		if p.tok.kind != tokIdent && p.tok.kind != tokString {
			p.errorf(Range{Start: p.tok.start, End: p.tok.end}, "expected attribute name after '.'")
			break
		}
		name := p.tok.text
		end := p.tok.end
		p.advance()
		sel, ok := base.(*Select)
		if ok {
			sel.Path = append(sel.Path, name)
			sel.Range.End = end
			base = sel
		} else {
			base = &Select{Expr: base, Path: []string{name}, Range: Range{Start: start, End: end}}
		}
	}
	return base
}

func (p *parser) parseAtom() Node {
	switch {
	case p.tok.kind == tokIdent:
		n := &Ident{Name: p.tok.text, Range: Range{Start: p.tok.start, End: p.tok.end}}
		p.advance()
		return n
	case p.tok.kind == tokString || p.tok.kind == tokNumber || p.tok.kind == tokPath:
		n := &Literal{Text: p.tok.text, Range: Range{Start: p.tok.start, End: p.tok.end}}
		p.advance()
		return n
	case p.tok.kind == tokKeyword && (p.tok.text == "true" || p.tok.text == "false" || p.tok.text == "null"):
		n := &Literal{Text: p.tok.text, Range: Range{Start: p.tok.start, End: p.tok.end}}
		p.advance()
		return n
	case p.tok.kind == tokKeyword && p.tok.text == "rec":
		start := p.tok.start
		p.advance()
		set := p.parseAttrSetBody(start)
		set.Rec = true
		return set
	case p.tok.kind == tokKeyword && p.tok.text == "import":
		start := p.tok.start
		p.advance()
		arg := p.parseSelect()
		return &Apply{Fn: &Ident{Name: "import", Range: Range{Start: start, End: start + 6}}, Arg: arg, Range: spanOf2(start, arg)}
	case p.tok.kind == tokPunct && p.tok.text == "{":
		return p.parseAttrSetBody(p.tok.start)
	case p.tok.kind == tokPunct && p.tok.text == "[":
		return p.parseList()
	case p.tok.kind == tokPunct && p.tok.text == "(":
		start := p.tok.start
		p.advance()
		inner := p.parseExpr()
		end := p.tok.end
		p.expectPunct(")")
		_ = start
		_ = end
		return inner
	default:
		r := Range{Start: p.tok.start, End: p.tok.end}
		p.errorf(r, "unexpected token %q", p.tok.text)
		p.resync(";", "}", ")", "]", "in", "then", "else")
		return &ErrorNode{Range: r}
	}
}

func (p *parser) parseList() *List {
	start := p.tok.start
	p.advance() // '['
	var items []Node
	for !(p.tok.kind == tokPunct && p.tok.text == "]") && p.tok.kind != tokEOF {
		items = append(items, p.parseSelect())
	}
	end := p.tok.end
	p.expectPunct("]")
	return &List{Items: items, Range: Range{Start: start, End: end}}
}

func (p *parser) parseAttrSetBody(start int) *AttrSet {
	p.expectPunct("{")
	var bindings []Binding
	for !(p.tok.kind == tokPunct && p.tok.text == "}") && p.tok.kind != tokEOF {
		if p.tok.kind == tokKeyword && p.tok.text == "inherit" {
			p.advance()
			if p.tok.kind == tokPunct && p.tok.text == "(" {
				p.advance()
				p.parseExpr()
				p.expectPunct(")")
			}
			for p.tok.kind == tokIdent {
				bindings = append(bindings, Binding{Name: p.tok.text, NameRange: Range{Start: p.tok.start, End: p.tok.end}, Value: &Ident{Name: p.tok.text, Range: Range{Start: p.tok.start, End: p.tok.end}}})
				p.advance()
			}
			p.expectPunct(";")
			continue
		}
		b, ok := p.parseBinding()
		if !ok {
			p.resync(";", "}")
			if p.tok.kind == tokPunct && p.tok.text == ";" {
				p.advance()
			}
			continue
		}
		bindings = append(bindings, b)
	}
	end := p.tok.end
	p.expectPunct("}")
	return &AttrSet{Bindings: bindings, Range: Range{Start: start, End: end}}
}

func (p *parser) parseBinding() (Binding, bool) {
	if p.tok.kind != tokIdent && p.tok.kind != tokString {
		p.errorf(Range{Start: p.tok.start, End: p.tok.end}, "expected binding name")
		return Binding{}, false
	}
	name := p.tok.text
	nameRange := Range{Start: p.tok.start, End: p.tok.end}
	p.advance()
	for p.tok.kind == tokPunct && p.tok.text == "." {
		p.advance()
		if p.tok.kind == tokIdent || p.tok.kind == tokString {
			p.advance()
		}
	}
	if !p.expectPunct("=") {
		return Binding{}, false
	}
	value := p.parseExpr()
	p.expectPunct(";")
	return Binding{Name: name, NameRange: nameRange, Value: value}, true
}

func (p *parser) parseLet() *Let {
	start := p.tok.start
	p.advance() // 'let'
	var bindings []Binding
	for !(p.tok.kind == tokKeyword && p.tok.text == "in") && p.tok.kind != tokEOF {
		b, ok := p.parseBinding()
		if !ok {
			p.resync(";", "in")
			if p.tok.kind == tokPunct && p.tok.text == ";" {
				p.advance()
			}
			continue
		}
		bindings = append(bindings, b)
	}
	if !(p.tok.kind == tokKeyword && p.tok.text == "in") {
		p.errorf(Range{Start: p.tok.start, End: p.tok.end}, "expected 'in'")
	} else {
		p.advance()
	}
	body := p.parseExpr()
	return &Let{Bindings: bindings, Body: body, Range: Range{Start: start, End: endOf(body)}}
}

func (p *parser) parseWith() *With {
	start := p.tok.start
	p.advance() // 'with'
	expr := p.parseExpr()
	p.expectPunct(";")
	body := p.parseExpr()
	return &With{Expr: expr, Body: body, Range: Range{Start: start, End: endOf(body)}}
}

func (p *parser) parseIf() *If {
	start := p.tok.start
	p.advance() // 'if'
	cond := p.parseExpr()
	if p.tok.kind == tokKeyword && p.tok.text == "then" {
		p.advance()
	} else {
		p.errorf(Range{Start: p.tok.start, End: p.tok.end}, "expected 'then'")
	}
	thenBranch := p.parseExpr()
	if p.tok.kind == tokKeyword && p.tok.text == "else" {
		p.advance()
	} else {
		p.errorf(Range{Start: p.tok.start, End: p.tok.end}, "expected 'else'")
	}
	elseBranch := p.parseExpr()
	return &If{Cond: cond, Then: thenBranch, Else: elseBranch, Range: Range{Start: start, End: endOf(elseBranch)}}
}

func endOf(n Node) int {
	switch v := n.(type) {
	case *Ident:
		return v.Range.End
	case *Literal:
		return v.Range.End
	case *Let:
		return v.Range.End
	case *With:
		return v.Range.End
	case *If:
		return v.Range.End
	case *AttrSet:
		return v.Range.End
	case *List:
		return v.Range.End
	case *Select:
		return v.Range.End
	case *Apply:
		return v.Range.End
	case *BinOp:
		return v.Range.End
	case *ErrorNode:
		return v.Range.End
	default:
		return 0
	}
}

func startOf(n Node) int {
	switch v := n.(type) {
	case *Ident:
		return v.Range.Start
	case *Literal:
		return v.Range.Start
	case *Let:
		return v.Range.Start
	case *With:
		return v.Range.Start
	case *If:
		return v.Range.Start
	case *AttrSet:
		return v.Range.Start
	case *List:
		return v.Range.Start
	case *Select:
		return v.Range.Start
	case *Apply:
		return v.Range.Start
	case *BinOp:
		return v.Range.Start
	case *ErrorNode:
		return v.Range.Start
	default:
		return 0
	}
}

func spanOf(a, b Node) Range         { return Range{Start: startOf(a), End: endOf(b)} }
func spanOf2(start int, b Node) Range { return Range{Start: start, End: endOf(b)} }
