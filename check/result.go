package check

// Result is the outcome of a single mountpoint check. The numeric values
// double as process exit codes and as the values reported to the alert
// sink, so they must not be reordered.
type Result int

const (
	// OK means the mountpoint passed every applicable check.
	OK Result = iota
	// NotMounted means the path is not mounted (and could not be mounted).
	NotMounted
	// Stale means the path is mounted but listing it fails.
	Stale
	// CheckDirUnavailable means the checkdir is missing and could not be created.
	CheckDirUnavailable
	// WriteFailed means the checkfile could not be written.
	WriteFailed
	// ConfigMissing is used as the process exit code when no usable
	// configuration is found at startup.
	ConfigMissing
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case NotMounted:
		return "not mounted"
	case Stale:
		return "stale"
	case CheckDirUnavailable:
		return "checkdir unavailable"
	case WriteFailed:
		return "write failed"
	case ConfigMissing:
		return "config missing"
	default:
		return "unknown"
	}
}
