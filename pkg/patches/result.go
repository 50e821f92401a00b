package patches

// LoadStatus tells apart the three ways a load can end.
type LoadStatus int

const (
	// LoadEmpty means there were no stored edits.
	LoadEmpty LoadStatus = iota
	// LoadRestored means stored edits were read back.
	LoadRestored
	// LoadDiscarded means stored content was unreadable and has been erased.
	LoadDiscarded
)

// String returns the status name.
func (s LoadStatus) String() string {
	switch s {
	case LoadEmpty:
		return "empty"
	case LoadRestored:
		return "restored"
	case LoadDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// LoadResult is the outcome of Store.Load.
type LoadResult struct {
	Status LoadStatus
	Count  int   // patches restored
	Cause  error // why content was discarded
}
