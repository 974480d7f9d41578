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


package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/groundit/core"
)

func TestTurnRoundTrip(t *testing.T) {
	original := core.Turn{
		Id:        core.IDFromContent("What is the refund policy?"),
		Role:      core.RoleUser,
		Content:   "What is the refund policy?",
		ModelID:   "anthropic.claude-3-haiku-20240307-v1:0",
		CreatedAt: time.Date(2025, 6, 12, 9, 30, 15, 123456000, time.UTC),
	}

	data := MarshalTurn(&original)
	restored, err := UnmarshalTurn(data)
	require.NoError(t, err)

	assert.Equal(t, original.Id, restored.Id)
	assert.Equal(t, original.Role, restored.Role)
	assert.Equal(t, original.Content, restored.Content)
	assert.Equal(t, original.ModelID, restored.ModelID)
	assert.True(t, original.CreatedAt.Equal(restored.CreatedAt))
}

func TestTurnRoundTrip_TruncatesToMicroseconds(t *testing.T) {
	original := core.Turn{
		Id:        1,
		Role:      core.RoleAssistant,
		Content:   "hello",
		CreatedAt: time.Date(2025, 6, 12, 9, 30, 15, 123456789, time.UTC),
	}

	restored, err := UnmarshalTurn(MarshalTurn(&original))
	require.NoError(t, err)

	expected := time.Date(2025, 6, 12, 9, 30, 15, 123456000, time.UTC)
	assert.True(t, expected.Equal(restored.CreatedAt))
	assert.Equal(t, time.UTC, restored.CreatedAt.Location())
}

func TestTurnRoundTrip_EmptyModelID(t *testing.T) {
	original := core.Turn{
		Id:        42,
		Role:      core.RoleUser,
		Content:   "hello",
		CreatedAt: time.Now().UTC(),
	}

	restored, err := UnmarshalTurn(MarshalTurn(&original))
	require.NoError(t, err)
	assert.Empty(t, restored.ModelID)
	assert.Equal(t, original.Content, restored.Content)
}

func TestUnmarshalTurn_Truncated(t *testing.T) {
	turn := core.Turn{
		Id:        7,
		Role:      core.RoleUser,
		Content:   "a question long enough to truncate",
		CreatedAt: time.Now().UTC(),
	}
	data := MarshalTurn(&turn)

	for _, cut := range []int{0, 1, len(data) / 2, len(data) - 1} {
		_, err := UnmarshalTurn(data[:cut])
		assert.Error(t, err, "cut at %d bytes", cut)
	}
}

func TestIDRoundTrip(t *testing.T) {
	for _, id := range []core.ID{0, 1, 1<<32 - 1, core.IDFromContent("hello")} {
		restored, err := UnmarshalID(MarshalID(id))
		require.NoError(t, err)
		assert.Equal(t, id, restored)
	}
}

func TestUnmarshalID_Empty(t *testing.T) {
	_, err := UnmarshalID(nil)
	assert.Error(t, err)
}
