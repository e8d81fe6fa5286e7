package apperr

import "fmt"

const (
	MetaReason    = "reason"
	MetaStage     = "stage"
	MetaField     = "field"
	MetaRunID     = "run_id"
	MetaXPath     = "xpath"
	MetaURL       = "url"
	MetaStepIndex = "step_index"
	MetaStepType  = "step_type"

	StageBrowser    = "browser"
	StageNavigation = "navigation"
	StageDetection  = "detection"
	StageGeneration = "generation"
	StageExecution  = "execution"
	StageScreenshot = "screenshot"

	CodeInternal         = "internal"
	CodeInvalidArgument  = "invalid_argument"
	CodeNotFound         = "not_found"
	CodeTimeout          = "timeout"
	CodeBrowserNotReady  = "browser_not_ready"
	CodeActionFailed     = "action_failed"
	CodeGenerationFailed = "generation_failed"
	CodeBadResponse      = "bad_response"
)

type Error struct {
	Op       string
	Code     string
	Err      error
	Metadata map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(op, code string, err error, metadata map[string]any) error {
	if metadata == nil {
		metadata = make(map[string]any)
	}

	return &Error{
		Op:       op,
		Code:     code,
		Err:      err,
		Metadata: metadata,
	}
}

func WrapWithReason(op, code string, err error, reason string) error {
	return Wrap(op, code, err, map[string]any{
		MetaReason: reason,
	})
}

func WrapErrorWithReason(op, code, reason string) error {
	return Wrap(op, code, fmt.Errorf("%s", reason), map[string]any{
		MetaReason: reason,
	})
}

func InvalidReqError(op, field string, err error) error {
	return Wrap(op, CodeInvalidArgument, err, map[string]any{
		MetaField:  field,
		MetaReason: "invalid_request",
	})
}

func NotFoundError(op string, err error) error {
	return Wrap(op, CodeNotFound, err, map[string]any{
		MetaReason: "not_found",
	})
}

// Code returns the classification code of a wrapped error, CodeInternal
// for anything outside the apperr hierarchy.
func Code(err error) string {
	if err == nil {
		return ""
	}

	if e, ok := err.(*Error); ok {
		return e.Code
	}

	return CodeInternal
}
