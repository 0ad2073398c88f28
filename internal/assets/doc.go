// Package assets provides the JavaScript snippets evaluated inside the
// captured page.
//
// # Scripts
//
// Scripts are embedded at compile time under scripts/:
//
//	scripts/
//	├── virtualtime.js   # installed before page scripts run; replaces the clock
//	├── advance.js       # function expression: (ms) => advances the virtual clock
//	├── setvars.js       # function expression: (vars) => sets CSS custom properties
//	└── bounds.js        # function expression: (selector) => element bounding box
//
// virtualtime.js is a plain script passed to the browser as-is. The other
// files are function expressions meant to be called with JSON arguments.
//
// # Security
//
// Script names are validated so callers cannot reach files outside scripts/.
package assets
