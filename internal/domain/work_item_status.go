package domain

// StatusCode enumerates the fixed work-item status catalog codes.
type StatusCode string

const (
	StatusPending    StatusCode = "PEN"
	StatusInProgress StatusCode = "ENPRO"
	StatusCompleted  StatusCode = "COMP"
)

// WorkItemStatus is a catalog entry seeded at startup; read-only afterwards.
type WorkItemStatus struct {
	ID          string
	Name        string
	Code        StatusCode
	Description string
}
