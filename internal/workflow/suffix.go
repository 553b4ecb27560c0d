// Package workflow implements the rebuild engine (C7): the shared
// orchestration steps every platform goes through, and the OS/home-manager/
// darwin strategies that specialize them.
package workflow

// toplevelSuffix is the attribute path appended after a platform's
// top-level configuration attribute to reach its build output — the
// name-to-attribute-suffix table that replaces the teacher's
// name-to-destination-path ToolMap for this domain.
var toplevelSuffix = []string{"config", "system", "build", "toplevel"}

// homeActivationSuffix is home-manager's equivalent build output
// attribute, a different final leaf than the OS/Darwin toplevel.
var homeActivationSuffix = []string{"config", "home", "activationPackage"}

const (
	osConfigurationsAttr     = "nixosConfigurations"
	darwinConfigurationsAttr = "darwinConfigurations"
	homeConfigurationsAttr   = "homeConfigurations"
)

// specialisationSuffix returns the attribute suffix for building a named
// specialisation's toplevel instead of the base one.
func specialisationSuffix(name string) []string {
	return append([]string{"specialisation", name}, toplevelSuffix...)
}
