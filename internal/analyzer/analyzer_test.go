package analyzer

import "testing"

func TestRegisterAndParseCleanFile(t *testing.T) {
	db := NewDB()
	id, diags := db.RegisterAndParse("flake.nix", `let x = 1; in x`)
	if len(diags) != 0 {
		t.Fatalf("unexpected syntax errors: %#v", diags)
	}
	if db.Text(id) != `let x = 1; in x` {
		t.Fatalf("Text mismatch")
	}
}

func TestRegisterAndParseToleratesErrors(t *testing.T) {
	db := NewDB()
	// Unterminated string: should still register and parse something.
	id, diags := db.RegisterAndParse("broken.nix", `let x = "unterminated; in x`)
	if len(diags) == 0 {
		t.Fatalf("expected at least one syntax error")
	}
	for _, d := range diags {
		if d.Kind != KindSyntaxError {
			t.Fatalf("expected SyntaxError kind, got %v", d.Kind)
		}
	}
	if db.Text(id) == "" {
		t.Fatalf("expected text still registered despite parse errors")
	}
}

func TestSemanticUndefinedVariable(t *testing.T) {
	db := NewDB()
	id, _ := db.RegisterAndParse("f.nix", `let x = 1; in y`)
	diags := db.SemanticDiagnostics(id)
	found := false
	for _, d := range diags {
		if d.Kind == KindUndefinedVariable && d.Name == "y" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected undefined variable diagnostic for 'y', got %#v", diags)
	}
}

func TestSemanticUnusedBinding(t *testing.T) {
	db := NewDB()
	id, _ := db.RegisterAndParse("f.nix", `let x = 1; y = 2; in y`)
	diags := db.SemanticDiagnostics(id)
	found := false
	for _, d := range diags {
		if d.Kind == KindUnusedBinding && d.Name == "x" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unused binding diagnostic for 'x', got %#v", diags)
	}
}

func TestSemanticUnderscorePrefixSuppressesUnused(t *testing.T) {
	db := NewDB()
	id, _ := db.RegisterAndParse("f.nix", `let _x = 1; y = 2; in y`)
	diags := db.SemanticDiagnostics(id)
	for _, d := range diags {
		if d.Kind == KindUnusedBinding && d.Name == "_x" {
			t.Fatalf("underscore-prefixed binding should not be flagged unused")
		}
	}
}

func TestSemanticWithSuppressesUndefined(t *testing.T) {
	db := NewDB()
	id, _ := db.RegisterAndParse("f.nix", `with pkgs; mystery`)
	diags := db.SemanticDiagnostics(id)
	for _, d := range diags {
		if d.Kind == KindUndefinedVariable && d.Name == "mystery" {
			t.Fatalf("identifiers under 'with' should not be flagged undefined")
		}
	}
}

func TestSemanticDiagnosticsUnknownFileID(t *testing.T) {
	db := NewDB()
	if diags := db.SemanticDiagnostics(FileID(99)); diags != nil {
		t.Fatalf("expected nil for unknown FileID, got %#v", diags)
	}
}

func TestParseEmptyFile(t *testing.T) {
	tree, diags := Parse("empty.nix", "")
	if tree == nil {
		t.Fatalf("expected non-nil tree for empty input")
	}
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics for empty input, got %#v", diags)
	}
}

func TestParseAttrSet(t *testing.T) {
	_, diags := Parse("f.nix", `{ a = 1; b = "two"; }`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %#v", diags)
	}
}
