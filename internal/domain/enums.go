package domain

type ProjectStatus string

const (
	StatusActive             ProjectStatus = "Active"
	StatusAwaitingCompletion ProjectStatus = "Awaiting Completion"
	StatusPaused             ProjectStatus = "Paused"
	StatusCompleted          ProjectStatus = "Completed"
	StatusFinished           ProjectStatus = "Finished"
)

// ValidStatuses is the canonical set of accepted project status strings.
var ValidStatuses = map[ProjectStatus]bool{
	StatusActive:             true,
	StatusAwaitingCompletion: true,
	StatusPaused:             true,
	StatusCompleted:          true,
	StatusFinished:           true,
}

// Terminal reports whether the status stamps an end date on the project.
// Only Finished does; moving back to any other status clears it.
func (s ProjectStatus) Terminal() bool {
	return s == StatusFinished
}
