package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-html2video/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time and configuration.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config // replaced by the loaded file when --config is set
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
	}
}
