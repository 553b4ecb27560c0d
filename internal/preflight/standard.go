package preflight

// CoreChecks returns the standard pre-flight sequence run before every
// rebuild, in the fixed order VCSWarning, Parse, Lint, Eval, DryBuild. Eval
// and DryBuild no-op unless the operation requested medium/full checks
// respectively, so building the sequence unconditionally keeps the gating
// logic in one place instead of scattered through the caller.
func CoreChecks() Sequence {
	return Sequence{
		Checks: []Check{
			VCSWarning{},
			Parse{},
			Lint{},
			Eval{},
			DryBuild{},
		},
	}
}
