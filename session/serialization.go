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
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/groundit/core"
)

// idSer serializes core.ID in MUS format.
type idSer struct{}

// IDMUS is the serializer for turn IDs.
var IDMUS = idSer{}

func (idSer) Marshal(id core.ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (id core.ID, n int, err error) {
	raw, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(raw), n, err
}

func (idSer) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

// turnSer serializes core.Turn in MUS format. Timestamps travel as Unix
// microseconds in UTC.
type turnSer struct{}

// TurnMUS is the serializer for transcript turns.
var TurnMUS = turnSer{}

func (turnSer) Marshal(t core.Turn, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(t.Id), bs)
	n += varint.Int.Marshal(int(t.Role), bs[n:])
	n += ord.String.Marshal(t.Content, bs[n:])
	n += ord.String.Marshal(t.ModelID, bs[n:])
	n += varint.Int64.Marshal(t.CreatedAt.UnixMicro(), bs[n:])
	return n
}

func (turnSer) Unmarshal(bs []byte) (t core.Turn, n int, err error) {
	var (
		id   uint64
		role int
		usec int64
		n1   int
	)
	if id, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	t.Id = core.ID(id)
	if role, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	t.Role = core.Role(role)
	if t.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.ModelID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if usec, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	t.CreatedAt = time.UnixMicro(usec).UTC()
	return t, n, nil
}

func (turnSer) Size(t core.Turn) (size int) {
	size = varint.Uint64.Size(uint64(t.Id))
	size += varint.Int.Size(int(t.Role))
	size += ord.String.Size(t.Content)
	size += ord.String.Size(t.ModelID)
	size += varint.Int64.Size(t.CreatedAt.UnixMicro())
	return size
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	return id, err
}

// MarshalTurn serializes a Turn to bytes.
func MarshalTurn(turn *core.Turn) []byte {
	buf := make([]byte, TurnMUS.Size(*turn))
	TurnMUS.Marshal(*turn, buf)
	return buf
}

// UnmarshalTurn deserializes a Turn from bytes.
func UnmarshalTurn(data []byte) (*core.Turn, error) {
	turn, _, err := TurnMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &turn, nil
}
