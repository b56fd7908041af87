package app

import "strings"

type AnalysisErrorCode string

const (
	ErrInvalidInput        AnalysisErrorCode = "INVALID_INPUT"
	ErrUpstreamUnavailable AnalysisErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrSuggestionFailed    AnalysisErrorCode = "SUGGESTION_FAILED"
	ErrProjectNotFound     AnalysisErrorCode = "PROJECT_NOT_FOUND"
	ErrInternal            AnalysisErrorCode = "INTERNAL_ERROR"
)

type Stage string

const (
	StageValidate  Stage = "validate"
	StageLoad      Stage = "load"
	StageScore     Stage = "score"
	StageDecide    Stage = "decide"
	StageRank      Stage = "rank"
	StageSuggest   Stage = "suggest"
	StageBreakdown Stage = "breakdown"
	StageCommit    Stage = "commit"
)

// AnalysisError reports a failure with the project and pipeline stage it
// happened in.
type AnalysisError struct {
	Code    AnalysisErrorCode
	Stage   Stage
	Project string
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	if e.Stage != "" {
		b.WriteString("stage=" + string(e.Stage) + " ")
	}
	if e.Project != "" {
		b.WriteString("project=" + e.Project + " ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *AnalysisError) Unwrap() error { return e.Err }
