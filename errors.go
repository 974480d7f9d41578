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


package groundit

import (
	"errors"
	"fmt"

	"github.com/poiesic/groundit/guard"
)

var (
	// ErrRetrieverRequired indicates no retrieval client was provided.
	ErrRetrieverRequired = errors.New("retriever is required")

	// ErrGeneratorRequired indicates no generation client was provided.
	ErrGeneratorRequired = errors.New("generator is required")
)

// RejectedError indicates the prompt gate blocked the request before any
// retrieval ran.
type RejectedError struct {
	Category guard.Category
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("request rejected by prompt gate (category %s)", e.Category)
}
