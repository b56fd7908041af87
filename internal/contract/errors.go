package contract

import (
	"errors"

	"github.com/alexanderramin/cadence/internal/app"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Stage   string `json:"stage,omitempty"`
	Project string `json:"project,omitempty"`
	Message string `json:"message"`
}

// FromError maps err onto an envelope. Errors that are not an
// app.AnalysisError are reported as INTERNAL_ERROR.
func FromError(err error) ErrorBody {
	var ae *app.AnalysisError
	if errors.As(err, &ae) {
		return ErrorBody{
			Code:    string(ae.Code),
			Stage:   string(ae.Stage),
			Project: ae.Project,
			Message: ae.Error(),
		}
	}
	return ErrorBody{Code: string(app.ErrInternal), Message: err.Error()}
}

// InvalidInput builds an INVALID_INPUT envelope for request decoding errors.
func InvalidInput(err error) ErrorBody {
	return ErrorBody{Code: string(app.ErrInvalidInput), Stage: string(app.StageValidate), Message: err.Error()}
}
