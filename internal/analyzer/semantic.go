package analyzer

// builtins lists the identifiers always considered bound, mirroring Nix's
// top-level builtin environment closely enough to avoid false positives
// on the common ones a configuration file actually uses.
var builtins = map[string]bool{
	"builtins": true, "import": true, "derivation": true, "abort": true,
	"throw": true, "toString": true, "map": true, "filter": true,
	"removeAttrs": true, "baseNameOf": true, "dirOf": true, "fetchTarball": true,
	"fetchGit": true, "pkgs": true, "lib": true, "config": true, "inputs": true,
	"self": true, "system": true, "true": true, "false": true, "null": true,
}

// scope is a singly-linked lexical scope used while walking the tree.
type scope struct {
	parent     *scope
	names      map[string]bool
	withActive bool
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: map[string]bool{}}
}

func (s *scope) define(name string) { s.names[name] = true }

func (s *scope) resolves(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.names[name] {
			return true
		}
	}
	return builtins[name]
}

func (s *scope) hasWith() bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.withActive {
			return true
		}
	}
	return false
}

type checker struct {
	path  string
	diags []Diagnostic
}

// walk descends the tree resolving identifier references against scope,
// emitting UndefinedVariable for references that resolve nowhere and
// UnusedBinding for let-bindings never referenced within their own body.
// The undefined-variable check degrades silently (no diagnostic) on any
// `with` expression in an enclosing scope, since `with` can inject arbitrary
// names at runtime that static analysis cannot enumerate — a false
// "undefined" there would be worse than silence. The unused-binding check
// does not look at `with`.
func (c *checker) walk(n Node, s *scope) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *Ident:
		if !s.resolves(v.Name) && !s.hasWith() {
			c.diags = append(c.diags, Diagnostic{
				Severity: SeverityWarning, Path: c.path, Kind: KindUndefinedVariable,
				Range: v.Range, Message: "undefined variable '" + v.Name + "'", Name: v.Name,
			})
		}
	case *Literal, *ErrorNode:
		// nothing to resolve
	case *Let:
		inner := newScope(s)
		for _, b := range v.Bindings {
			inner.define(b.Name)
		}
		for _, b := range v.Bindings {
			c.walk(b.Value, inner)
		}
		c.walk(v.Body, inner)
		c.checkUnused(v, inner)
	case *AttrSet:
		inner := s
		if v.Rec {
			inner = newScope(s)
			for _, b := range v.Bindings {
				inner.define(b.Name)
			}
		}
		for _, b := range v.Bindings {
			c.walk(b.Value, inner)
		}
	case *With:
		c.walk(v.Expr, s)
		withScope := newScope(s)
		withScope.withActive = true
		c.walk(v.Body, withScope)
	case *If:
		c.walk(v.Cond, s)
		c.walk(v.Then, s)
		c.walk(v.Else, s)
	case *List:
		for _, item := range v.Items {
			c.walk(item, s)
		}
	case *Select:
		c.walk(v.Expr, s)
	case *Apply:
		c.walk(v.Fn, s)
		c.walk(v.Arg, s)
	case *BinOp:
		c.walk(v.Left, s)
		c.walk(v.Right, s)
	}
}

// checkUnused reports bindings in a Let that are referenced nowhere in the
// let's own body or in any sibling binding's value.
func (c *checker) checkUnused(let *Let, inner *scope) {
	used := map[string]bool{}
	collectRefs(let.Body, used)
	for _, b := range let.Bindings {
		collectRefs(b.Value, used)
	}
	for _, b := range let.Bindings {
		if len(b.Name) > 0 && b.Name[0] == '_' {
			continue
		}
		if !used[b.Name] {
			c.diags = append(c.diags, Diagnostic{
				Severity: SeverityHint, Path: c.path, Kind: KindUnusedBinding,
				Range: b.NameRange, Message: "unused binding '" + b.Name + "'", Name: b.Name,
			})
		}
	}
}

func collectRefs(n Node, used map[string]bool) {
	switch v := n.(type) {
	case *Ident:
		used[v.Name] = true
	case *Let:
		for _, b := range v.Bindings {
			collectRefs(b.Value, used)
		}
		collectRefs(v.Body, used)
	case *AttrSet:
		for _, b := range v.Bindings {
			collectRefs(b.Value, used)
		}
	case *With:
		collectRefs(v.Expr, used)
		collectRefs(v.Body, used)
	case *If:
		collectRefs(v.Cond, used)
		collectRefs(v.Then, used)
		collectRefs(v.Else, used)
	case *List:
		for _, item := range v.Items {
			collectRefs(item, used)
		}
	case *Select:
		collectRefs(v.Expr, used)
	case *Apply:
		collectRefs(v.Fn, used)
		collectRefs(v.Arg, used)
	case *BinOp:
		collectRefs(v.Left, used)
		collectRefs(v.Right, used)
	}
}
