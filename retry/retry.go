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


// Package retry provides the caller-side retry loop the pipeline itself
// deliberately omits. Re-attempts are driven by failure classification:
// only errors the classifier marks retryable are tried again.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/groundit/classify"
)

// ErrInvalidMaxAttempts indicates a non-positive attempt count.
var ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than zero")

// WithBackoff runs operation up to maxAttempts times with exponential
// backoff, re-attempting only failures classified as retryable.
// sourceComponent names the step for classification. Returns the last
// classified error when all attempts fail, or the classified error
// immediately when it is not retryable.
func WithBackoff(ctx context.Context, operation func() error, sourceComponent string,
	maxAttempts int, baseDelay time.Duration) error {

	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr *classify.ClassifiedError
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := operation()
		if err == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		lastErr = classify.Classify(err, sourceComponent)
		if !lastErr.Retryable {
			return lastErr
		}

		slog.Debug("operation failed, will retry",
			"attempt", attempt, "maxAttempts", maxAttempts,
			"category", lastErr.Category, "error", err)

		// Don't sleep after the last attempt
		if attempt == maxAttempts {
			break
		}

		// Exponential backoff: baseDelay * 2^(attempt-1)
		delay := baseDelay
		for i := 1; i < attempt; i++ {
			delay *= 2
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
