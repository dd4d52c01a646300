package cleaner

import (
	"fmt"
	"strings"

	"github.com/socialmux/cleanser/model"
)

// ErrorKind is the closed failure taxonomy of the cleaning pipeline.
type ErrorKind string

const (
	ParseError      ErrorKind = "PARSE_ERROR"
	ValidationError ErrorKind = "VALIDATION_ERROR"
	DuplicateError  ErrorKind = "DUPLICATE_ERROR"
	StorageError    ErrorKind = "STORAGE_ERROR"
	TimeoutError    ErrorKind = "TIMEOUT_ERROR"
	MemoryError     ErrorKind = "MEMORY_ERROR"
	UnknownError    ErrorKind = "UNKNOWN_ERROR"
)

// errorKeywords is matched against the failure message in order, first match
// wins. Pipeline errors deliberately embed these phrases in their messages so
// wrapped causes classify the same as unwrapped ones.
var errorKeywords = []struct {
	kind     ErrorKind
	keywords []string
}{
	{ValidationError, []string{"validation", "invalid", "required field"}},
	{ParseError, []string{"parse", "unmarshal", "decode", "json", "serializ"}},
	{DuplicateError, []string{"duplicate"}},
	{StorageError, []string{"storage", "database", "mongo", "sql", "not found"}},
	{TimeoutError, []string{"timeout", "timed out", "deadline exceeded"}},
	{MemoryError, []string{"memory", "allocation"}},
}

// ClassifyError maps a failure onto the taxonomy by message keywords.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return UnknownError
	}
	msg := strings.ToLower(err.Error())
	for _, class := range errorKeywords {
		for _, keyword := range class.keywords {
			if strings.Contains(msg, keyword) {
				return class.kind
			}
		}
	}
	return UnknownError
}

// CleaningError is the fatal error surfaced by a single-record run. It keeps
// the original cause for diagnostics and carries enough context to trace the
// failure back to the raw record.
type CleaningError struct {
	Kind           ErrorKind
	CleaningId     string
	RawDataId      string
	SourceType     string
	SourcePlatform string
	Cause          error
}

func (e *CleaningError) Error() string {
	return fmt.Sprintf("cleaning %s failed for raw data %s (%s/%s): [%s] %v",
		e.CleaningId, e.RawDataId, e.SourcePlatform, e.SourceType, e.Kind, e.Cause)
}

func (e *CleaningError) Unwrap() error {
	return e.Cause
}

func newCleaningError(cleaningId string, notification *model.RawDataNotification, cause error) *CleaningError {
	return &CleaningError{
		Kind:           ClassifyError(cause),
		CleaningId:     cleaningId,
		RawDataId:      notification.RawDataId,
		SourceType:     notification.SourceType,
		SourcePlatform: notification.SourcePlatform,
		Cause:          cause,
	}
}
