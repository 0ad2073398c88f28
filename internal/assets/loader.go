package assets

// ScriptLoader loads page scripts by name (without the .js extension).
type ScriptLoader interface {
	// LoadScript returns the script source.
	// Returns ErrScriptNotFound if the script doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadScript(name string) (string, error)
}
