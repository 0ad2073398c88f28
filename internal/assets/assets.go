package assets

import "fmt"

// Names of the built-in scripts.
const (
	ScriptVirtualTime = "virtualtime"
	ScriptAdvance     = "advance"
	ScriptSetVars     = "setvars"
	ScriptBounds      = "bounds"
)

var defaultLoader = NewEmbeddedLoader()

// LoadScript loads a script by name using the default embedded loader.
func LoadScript(name string) (string, error) {
	return defaultLoader.LoadScript(name)
}

// MustLoadScript is like LoadScript but panics if the script is missing.
// Only use it with the built-in script names, which are embedded at
// compile time.
func MustLoadScript(name string) string {
	s, err := LoadScript(name)
	if err != nil {
		panic(fmt.Sprintf("assets: %v", err))
	}
	return s
}
