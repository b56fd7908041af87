package domain

type ActivityKind string

const (
	ActivityBrowserTab      ActivityKind = "browser_tab"
	ActivityLMSAssignment   ActivityKind = "lms_assignment"
	ActivityPDFText         ActivityKind = "pdf_text"
	ActivityVideoTranscript ActivityKind = "video_transcript"
	ActivityManualInput     ActivityKind = "manual_input"
)

// ValidActivityKinds is the canonical set of accepted signal kinds.
var ValidActivityKinds = map[ActivityKind]bool{
	ActivityBrowserTab:      true,
	ActivityLMSAssignment:   true,
	ActivityPDFText:         true,
	ActivityVideoTranscript: true,
	ActivityManualInput:     true,
}

type Complexity string

const (
	ComplexityLow      Complexity = "low"
	ComplexityMedium   Complexity = "medium"
	ComplexityHigh     Complexity = "high"
	ComplexityVeryHigh Complexity = "very-high"
)

// complexityHours maps each complexity to the effort assumed when a project
// carries no explicit estimate.
var complexityHours = map[Complexity]float64{
	ComplexityLow:      3,
	ComplexityMedium:   8,
	ComplexityHigh:     16,
	ComplexityVeryHigh: 30,
}

// DefaultHours returns the estimated hours for c, or false when c is unknown.
func (c Complexity) DefaultHours() (float64, bool) {
	h, ok := complexityHours[c]
	return h, ok
}

func (c Complexity) Valid() bool {
	_, ok := complexityHours[c]
	return ok
}

type ProjectStatus string

const (
	ProjectProposed   ProjectStatus = "proposed"
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectDeferred   ProjectStatus = "deferred"
)

type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskBlocked    TaskStatus = "blocked"
	TaskCompleted  TaskStatus = "completed"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"todo": true, "in-progress": true, "blocked": true, "completed": true,
}

type Decision string

const (
	DecisionExecuteNow Decision = "EXECUTE_NOW"
	DecisionBreakDown  Decision = "BREAK_DOWN"
	DecisionDefer      Decision = "DEFER"
)
