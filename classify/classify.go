// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package classify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/llm"
)

// Category is the actionable failure class a caller decides on.
type Category string

const (
	// CategoryPermission indicates access was denied (not retryable).
	CategoryPermission Category = "permission"

	// CategoryThrottled indicates rate or throughput limits were exceeded
	// (retryable with backoff).
	CategoryThrottled Category = "throttled"

	// CategoryNotFound indicates an unknown resource such as a knowledge
	// base or model id (not retryable).
	CategoryNotFound Category = "not_found"

	// CategoryMalformedInput indicates the outgoing request failed
	// validation or targets a mismatched schema (not retryable).
	CategoryMalformedInput Category = "malformed_input"

	// CategoryTransient indicates a timeout, connection failure, or
	// service-side fault (retryable).
	CategoryTransient Category = "transient"

	// CategoryUnknown indicates an unrecognized failure, conservatively
	// treated as retryable.
	CategoryUnknown Category = "unknown"
)

// ClassifiedError wraps a failure with its category and retry guidance.
type ClassifiedError struct {
	// Category is the actionable failure class.
	Category Category

	// Retryable reports whether a caller-level retry loop should
	// re-attempt the failed step.
	Retryable bool

	// SourceComponent names the component the failure came from,
	// e.g. "retrieval" or "generation".
	SourceComponent string

	// Cause is the original error, unmodified.
	Cause error
}

// Error returns the categorized failure with its original message.
func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s failure in %s: %s", e.Category, e.SourceComponent, e.Cause.Error())
}

// Unwrap returns the original error.
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// Hint returns a short human-readable suggestion for the category.
// Rendering beyond the category is a presentation concern; this is the
// minimal mapping hosting applications share.
func (e *ClassifiedError) Hint() string {
	switch e.Category {
	case CategoryPermission:
		return "check IAM permissions for the knowledge base and model"
	case CategoryThrottled:
		return "request rate exceeded; retry with backoff"
	case CategoryNotFound:
		return "verify the knowledge base and model identifiers"
	case CategoryMalformedInput:
		return "the request was rejected; check query, parameters, and model id"
	case CategoryTransient:
		return "temporary service issue; retrying may succeed"
	default:
		return "unrecognized failure; inspect the original error"
	}
}

// Service error codes grouped by category. Both the retrieval and
// generation runtimes raise these.
var codeCategories = map[string]Category{
	"AccessDeniedException":       CategoryPermission,
	"UnauthorizedException":       CategoryPermission,
	"AccessDenied":                CategoryPermission,
	"ExpiredTokenException":       CategoryPermission,
	"UnrecognizedClientException": CategoryPermission,

	"ThrottlingException":                    CategoryThrottled,
	"TooManyRequestsException":               CategoryThrottled,
	"ServiceQuotaExceededException":          CategoryThrottled,
	"ProvisionedThroughputExceededException": CategoryThrottled,

	"ResourceNotFoundException": CategoryNotFound,
	"NotFoundException":         CategoryNotFound,

	"ValidationException":    CategoryMalformedInput,
	"SerializationException": CategoryMalformedInput,

	"ServiceUnavailableException": CategoryTransient,
	"InternalServerException":     CategoryTransient,
	"InternalFailure":             CategoryTransient,
	"ModelTimeoutException":       CategoryTransient,
	"ModelNotReadyException":      CategoryTransient,
	"RequestTimeout":              CategoryTransient,
}

// Classify inspects an error raised by the retrieval or generation client
// and maps it to an actionable category. sourceComponent names the step the
// error came from. Classify performs no retries itself; it only produces
// the retry guidance.
func Classify(err error, sourceComponent string) *ClassifiedError {
	if err == nil {
		return nil
	}

	category, retryable := categorize(err)
	return &ClassifiedError{
		Category:        category,
		Retryable:       retryable,
		SourceComponent: sourceComponent,
		Cause:           err,
	}
}

func categorize(err error) (Category, bool) {
	// Schema mismatches are configuration errors, never retryable.
	var unsupported *llm.UnsupportedProviderError
	var malformed *llm.MalformedResponseError
	if errors.As(err, &unsupported) || errors.As(err, &malformed) {
		return CategoryMalformedInput, false
	}

	// Local validation failures never reached the network.
	if isValidationError(err) {
		return CategoryMalformedInput, false
	}

	// Service-reported error codes are the strongest signal.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if category, ok := codeCategories[apiErr.ErrorCode()]; ok {
			return category, category == CategoryThrottled || category == CategoryTransient
		}
	}

	// HTTP status from the transport, for errors without a modeled code.
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		if category, ok := statusCategory(respErr.HTTPStatusCode()); ok {
			return category, category == CategoryThrottled || category == CategoryTransient
		}
	}

	// Timeouts and connection failures.
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTransient, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTransient, true
	}

	// Fall back to message patterns for untyped errors.
	if category, ok := messageCategory(err); ok {
		return category, category == CategoryThrottled || category == CategoryTransient
	}

	// Conservative default: unknown failures are worth one more attempt.
	return CategoryUnknown, true
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrEmptyQuery,
		core.ErrInvalidTopK,
		core.ErrInvalidTemperature,
		core.ErrInvalidTopP,
		core.ErrInvalidMaxTokens,
		core.ErrMissingKnowledgeBase,
		core.ErrMissingModel,
		core.ErrMissingRegion,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func statusCategory(status int) (Category, bool) {
	switch {
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		return CategoryPermission, true
	case status == http.StatusTooManyRequests:
		return CategoryThrottled, true
	case status == http.StatusNotFound:
		return CategoryNotFound, true
	case status == http.StatusBadRequest:
		return CategoryMalformedInput, true
	case status >= 500:
		return CategoryTransient, true
	}
	return "", false
}

func messageCategory(err error) (Category, bool) {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "access denied") || strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "not authorized"):
		return CategoryPermission, true
	case strings.Contains(msg, "throttl") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests"):
		return CategoryThrottled, true
	case strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist"):
		return CategoryNotFound, true
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline") ||
		strings.Contains(msg, "connection reset") || strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe"):
		return CategoryTransient, true
	}
	return "", false
}
