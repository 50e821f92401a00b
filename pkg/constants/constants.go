// Package constants provides shared constants used throughout the inventory codebase.
// This includes timeouts, file permissions, storage keys, and other values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for fetching the canonical dataset
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// ShutdownTimeout bounds graceful shutdown of the editing server
	ShutdownTimeout = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Storage constants
const (
	// EditsKey is the fixed logical key the patch store is persisted under.
	EditsKey = "inventory_edits_v1"

	// ExportFilename is the suggested filename for exported patch files.
	ExportFilename = "inventory-updates.json"

	// DefaultStoreDir is where durable local state lives.
	DefaultStoreDir = "~/.inventory"

	// DefaultDataPath is the default location of the canonical dataset.
	DefaultDataPath = "data/items.json"
)

// Record constants
const (
	// NewItemPrefix prefixes client-generated item ids so they never collide
	// with canonical "<SPEC>-<nn>-p<pp>" ids.
	NewItemPrefix = "NEW-"

	// NewItemArea is the area assigned to records created locally.
	NewItemArea = "Public Areas"

	// NewItemZone is the zone assigned to records created locally.
	NewItemZone = "Public Spaces"

	// DateLayout is the calendar date layout used by every date field.
	DateLayout = "2006-01-02"
)

// Limit constants
const (
	// MaxImportBytes caps the size of an imported patch file (32 MiB).
	MaxImportBytes = 32 << 20

	// DefaultExpiringDays is the default warranty look-ahead window for summaries.
	DefaultExpiringDays = 90
)
