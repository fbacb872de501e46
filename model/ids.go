// Copyright 2025 the original author or authors.
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

package model

import (
	"sync/atomic"
)

// IDAllocator hands out IDs for objects created locally, in the negative
// range OSM editors reserve for objects not yet uploaded. Use one allocator
// per import session. It is safe for concurrent use.
type IDAllocator struct {
	last atomic.Int64
}

// NewIDAllocator returns an allocator whose first ID is -1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// NewIDAllocatorFrom returns an allocator whose first ID is below start,
// which is useful when resuming a session that already used IDs down to
// start.
func NewIDAllocatorFrom(start ID) *IDAllocator {
	a := &IDAllocator{}
	if start < 0 {
		a.last.Store(int64(start))
	}

	return a
}

// Next returns a fresh ID.
func (a *IDAllocator) Next() ID {
	return ID(a.last.Add(-1))
}

// NewNode creates a node at the given location with a fresh ID and the
// Create action.
func (a *IDAllocator) NewNode(lat, lon Degrees) *Node {
	n := NewNodeAt(lat, lon)
	n.ID = a.Next()
	n.SetAction(Create)

	return n
}

// NewWay creates a way with a fresh ID and the Create action.
func (a *IDAllocator) NewWay() *Way {
	w := NewWay(a.Next())
	w.SetAction(Create)

	return w
}

// NewRelation creates a relation with a fresh ID and the Create action.
func (a *IDAllocator) NewRelation() *Relation {
	r := NewRelation(a.Next())
	r.SetAction(Create)

	return r
}
