package cleaner

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/socialmux/cleanser/model"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		message string
		want    ErrorKind
	}{
		{"parse error: malformed search payload", ParseError},
		{"failed to unmarshal notification", ParseError},
		{"data validation error: normalized content has no posts", ValidationError},
		{"duplicate content detected for hash abc", DuplicateError},
		{"storage error: raw data 42 not found", StorageError},
		{"database connection refused", StorageError},
		{"context deadline exceeded", TimeoutError},
		{"out of memory", MemoryError},
		{"something inexplicable happened", UnknownError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyError(errors.New(c.message)), c.message)
	}
	assert.Equal(t, UnknownError, ClassifyError(nil))
}

func TestClassifyErrorFirstMatchWins(t *testing.T) {
	// Validation is checked before parse, so a validation failure that
	// mentions parsing still classifies as validation.
	err := errors.New("data validation error: cannot parse field count")
	assert.Equal(t, ValidationError, ClassifyError(err))
}

func TestCleaningErrorKeepsCause(t *testing.T) {
	cause := errors.New("storage error: mongo unreachable")
	cleaningErr := newCleaningError("clean-1", &model.RawDataNotification{
		RawDataId:      "raw-1",
		SourceType:     model.SourceTypeWeiboSearch,
		SourcePlatform: model.SourcePlatformWeibo,
	}, cause)

	assert.Equal(t, StorageError, cleaningErr.Kind)
	assert.Equal(t, "raw-1", cleaningErr.RawDataId)
	assert.Equal(t, cause, errors.Unwrap(cleaningErr))
	assert.Contains(t, cleaningErr.Error(), "clean-1")
	assert.Contains(t, cleaningErr.Error(), "STORAGE_ERROR")
}
