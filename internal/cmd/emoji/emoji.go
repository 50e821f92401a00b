// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used for status lines so every command reports outcomes the same way.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Stop marks a shutdown.
	Stop = "✗"

	// Warning marks something the user should look at.
	Warning = "!"

	// Info marks an informational line.
	Info = "i"
)
