package analyzer

import "sync"

// FileID identifies a file registered with a DB.
type FileID int

type sourceFile struct {
	path string
	text string
	tree Node
}

// DB is the in-memory source database for a single rebuild invocation.
// All mutating operations are serialized by mu, matching the requirement
// that Analyzer state mutations are not interleaved across goroutines
// even though the parse pre-flight check registers files concurrently.
type DB struct {
	mu    sync.Mutex
	files []sourceFile
}

// NewDB returns an empty source database.
func NewDB() *DB {
	return &DB{}
}

// RegisterAndParse ingests text under path, parses it tolerantly, and
// returns the assigned FileID plus any syntax errors found. Parsing always
// produces a tree, even for malformed input.
func (d *DB) RegisterAndParse(path, text string) (FileID, []Diagnostic) {
	tree, diags := Parse(path, text)

	d.mu.Lock()
	defer d.mu.Unlock()
	id := FileID(len(d.files))
	d.files = append(d.files, sourceFile{path: path, text: text, tree: tree})
	return id, diags
}

// Text returns the registered text for id.
func (d *DB) Text(id FileID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if int(id) < 0 || int(id) >= len(d.files) {
		return ""
	}
	return d.files[id].text
}

// Path returns the registered path for id.
func (d *DB) Path(id FileID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if int(id) < 0 || int(id) >= len(d.files) {
		return ""
	}
	return d.files[id].path
}

// Count returns the number of files registered so far.
func (d *DB) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.files)
}

// FileIDForPath returns the FileID most recently registered under path,
// and false if no file was ever registered under it.
func (d *DB) FileIDForPath(path string) (FileID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.files) - 1; i >= 0; i-- {
		if d.files[i].path == path {
			return FileID(i), true
		}
	}
	return 0, false
}

// SemanticDiagnostics runs the best-effort name-resolution and
// unused-binding pass over the parsed tree for id. It is always available
// in this build (no external semantic engine is wired in), but stays
// conservative: it only flags identifiers it can prove unresolved against
// the builtin set and enclosing lexical scopes, and only flags a let
// binding unused when it is provably never referenced in its own body.
func (d *DB) SemanticDiagnostics(id FileID) []Diagnostic {
	d.mu.Lock()
	tree := (Node)(nil)
	path := ""
	if int(id) >= 0 && int(id) < len(d.files) {
		tree = d.files[id].tree
		path = d.files[id].path
	}
	d.mu.Unlock()

	if tree == nil {
		return nil
	}
	c := &checker{path: path}
	c.walk(tree, newScope(nil))
	return c.diags
}
