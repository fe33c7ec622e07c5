package checks

// Check outcomes reported in every report's Status field.
const (
	StatusOK      = "ok"
	StatusMissing = "missing"
	StatusError   = "error"
)
