package drift

// Centralized severity and message helpers for schema changes.
// Rules:
// - BLOCK for changes that break the source key
// - WARN for changes that yield nulls or lossy casts
// - INFO for safe changes

const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityBlock = "BLOCK"
)

// Change kinds supported:
// "column_added", "column_removed", "pk_column_removed", "type_changed"
func SeverityForChange(kind string) string {
	switch kind {
	case "pk_column_removed":
		return SeverityBlock
	case "column_removed", "type_changed":
		return SeverityWarn
	case "column_added":
		return SeverityInfo
	default:
		return SeverityInfo
	}
}

// MessageForChange returns a concise message for the given change kind.
func MessageForChange(kind, column, from, to string) string {
	switch kind {
	case "column_added":
		return "present in row schema but not declared"
	case "column_removed":
		return "declared but missing in row schema"
	case "pk_column_removed":
		return "primary key column missing in row schema"
	case "type_changed":
		return "type mismatch: declared " + from + ", row schema " + to
	default:
		return ""
	}
}
