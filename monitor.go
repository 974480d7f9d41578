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
	"time"

	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/guard"
	"github.com/poiesic/groundit/kb"
)

// Monitor provides hooks to observe the answer pipeline.
// Implement this interface to inspect raw intermediates at each stage.
type Monitor interface {
	Start(query string)
	Gated(category guard.Category, allowed bool)
	AfterRetrieve(results []kb.RawResult)
	AfterNormalize(passages []core.Passage)
	AfterAssemble(req *core.GenerationRequest)
	AfterGenerate(raw []byte, latency time.Duration)
	Finish(result *core.GenerationResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) Gated(_ guard.Category, _ bool)          {}
func (n *noopMonitor) AfterRetrieve(_ []kb.RawResult)          {}
func (n *noopMonitor) AfterNormalize(_ []core.Passage)         {}
func (n *noopMonitor) AfterAssemble(_ *core.GenerationRequest) {}
func (n *noopMonitor) AfterGenerate(_ []byte, _ time.Duration) {}
func (n *noopMonitor) Finish(_ *core.GenerationResult)         {}
