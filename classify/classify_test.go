package classify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/kb"
	"github.com/poiesic/groundit/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassify_ServiceCodes(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		category  Category
		retryable bool
	}{
		{"access denied", apiError("AccessDeniedException", "no kb access"), CategoryPermission, false},
		{"unauthorized", apiError("UnauthorizedException", "bad credentials"), CategoryPermission, false},
		{"expired token", apiError("ExpiredTokenException", "token expired"), CategoryPermission, false},
		{"throttling", apiError("ThrottlingException", "slow down"), CategoryThrottled, true},
		{"too many requests", apiError("TooManyRequestsException", "slow down"), CategoryThrottled, true},
		{"quota exceeded", apiError("ServiceQuotaExceededException", "quota"), CategoryThrottled, true},
		{"provisioned throughput", apiError("ProvisionedThroughputExceededException", "tps"), CategoryThrottled, true},
		{"resource not found", apiError("ResourceNotFoundException", "no such kb"), CategoryNotFound, false},
		{"validation", apiError("ValidationException", "bad input"), CategoryMalformedInput, false},
		{"service unavailable", apiError("ServiceUnavailableException", "try later"), CategoryTransient, true},
		{"internal server", apiError("InternalServerException", "oops"), CategoryTransient, true},
		{"model timeout", apiError("ModelTimeoutException", "model slow"), CategoryTransient, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := Classify(tt.err, "retrieval")
			assert.Equal(t, tt.category, classified.Category)
			assert.Equal(t, tt.retryable, classified.Retryable)
			assert.Equal(t, "retrieval", classified.SourceComponent)
		})
	}
}

func TestClassify_UnknownCode(t *testing.T) {
	// An unrecognized service code falls through to Unknown, retryable.
	classified := Classify(apiError("FooException", "Foo"), "generation")
	assert.Equal(t, CategoryUnknown, classified.Category)
	assert.True(t, classified.Retryable)
}

func TestClassify_WrappedServiceCode(t *testing.T) {
	// Codes are found through wrapping layers such as kb.RetrievalError.
	err := &kb.RetrievalError{Cause: apiError("AccessDeniedException", "denied")}
	classified := Classify(err, "retrieval")
	assert.Equal(t, CategoryPermission, classified.Category)
	assert.False(t, classified.Retryable)

	err2 := &llm.GenerationError{Cause: apiError("ThrottlingException", "slow down")}
	classified = Classify(err2, "generation")
	assert.Equal(t, CategoryThrottled, classified.Category)
	assert.True(t, classified.Retryable)
}

func TestClassify_SchemaErrorsNotRetryable(t *testing.T) {
	classified := Classify(&llm.UnsupportedProviderError{ModelID: "ai21.j2"}, "assembly")
	assert.Equal(t, CategoryMalformedInput, classified.Category)
	assert.False(t, classified.Retryable)

	classified = Classify(&llm.MalformedResponseError{ModelID: "meta.llama3"}, "extraction")
	assert.Equal(t, CategoryMalformedInput, classified.Category)
	assert.False(t, classified.Retryable)
}

func TestClassify_ValidationSentinels(t *testing.T) {
	tests := []error{
		core.ErrEmptyQuery,
		fmt.Errorf("%w: got 0", core.ErrInvalidTopK),
		fmt.Errorf("%w: got 7", core.ErrInvalidTemperature),
		core.ErrMissingKnowledgeBase,
	}

	for _, err := range tests {
		t.Run(err.Error(), func(t *testing.T) {
			classified := Classify(err, "validation")
			assert.Equal(t, CategoryMalformedInput, classified.Category)
			assert.False(t, classified.Retryable)
		})
	}
}

func TestClassify_Timeouts(t *testing.T) {
	classified := Classify(context.DeadlineExceeded, "generation")
	assert.Equal(t, CategoryTransient, classified.Category)
	assert.True(t, classified.Retryable)

	classified = Classify(fmt.Errorf("invoke: %w", context.DeadlineExceeded), "generation")
	assert.Equal(t, CategoryTransient, classified.Category)
	assert.True(t, classified.Retryable)

	classified = Classify(timeoutError{}, "retrieval")
	assert.Equal(t, CategoryTransient, classified.Category)
	assert.True(t, classified.Retryable)
}

func TestClassify_MessagePatterns(t *testing.T) {
	tests := []struct {
		message  string
		category Category
	}{
		{"operation error: access denied for role", CategoryPermission},
		{"request was throttled, try again", CategoryThrottled},
		{"rate limit exceeded", CategoryThrottled},
		{"knowledge base does not exist", CategoryNotFound},
		{"read tcp: connection reset by peer", CategoryTransient},
		{"dial tcp: connection refused", CategoryTransient},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			classified := Classify(errors.New(tt.message), "retrieval")
			assert.Equal(t, tt.category, classified.Category)
		})
	}
}

func TestClassify_UnknownDefaultsRetryable(t *testing.T) {
	classified := Classify(errors.New("Foo"), "generation")
	assert.Equal(t, CategoryUnknown, classified.Category)
	assert.True(t, classified.Retryable)
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(nil, "anything"))
}

func TestClassifiedError_WrapsCause(t *testing.T) {
	cause := apiError("AccessDeniedException", "denied")
	classified := Classify(cause, "retrieval")

	require.ErrorIs(t, classified, cause)
	assert.Contains(t, classified.Error(), "permission")
	assert.Contains(t, classified.Error(), "retrieval")
	assert.Contains(t, classified.Error(), "denied")
}

func TestClassifiedError_Hints(t *testing.T) {
	for _, category := range []Category{
		CategoryPermission, CategoryThrottled, CategoryNotFound,
		CategoryMalformedInput, CategoryTransient, CategoryUnknown,
	} {
		err := &ClassifiedError{Category: category, Cause: errors.New("x")}
		assert.NotEmpty(t, err.Hint())
	}
}
