// Copyright 2017-25 the original author or authors.
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

package osmobj

import (
	"errors"
	"fmt"
	"sync"

	"github.com/paulmach/orb"

	"m4o.io/osmobj/model"
)

var ErrUnsupportedEntity = errors.New("unsupported entity")

// Index looks up entities by ID.  It is what the Resolver consumes to turn
// the weak references held by ways and relations into geometry.
type Index interface {
	Node(id model.ID) (*model.Node, bool)
	Way(id model.ID) (*model.Way, bool)
	Relation(id model.ID) (*model.Relation, bool)
}

// Counts is the number of entities held by a Store, per kind.
type Counts struct {
	Nodes     int `json:"nodes"`
	Ways      int `json:"ways"`
	Relations int `json:"relations"`
}

// Total is the sum of all kinds.
func (c Counts) Total() int {
	return c.Nodes + c.Ways + c.Relations
}

// Store is an in-memory Index.  It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	nodes     map[model.ID]*model.Node
	ways      map[model.ID]*model.Way
	relations map[model.ID]*model.Relation
}

var _ Index = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nodes:     make(map[model.ID]*model.Node),
		ways:      make(map[model.ID]*model.Way),
		relations: make(map[model.ID]*model.Relation),
	}
}

// Add stores entities, replacing any previously stored entity of the same
// kind and ID.
func (s *Store) Add(entities ...model.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entities {
		switch v := e.(type) {
		case *model.Node:
			s.nodes[v.ID] = v
		case *model.Way:
			s.ways[v.ID] = v
		case *model.Relation:
			s.relations[v.ID] = v
		default:
			return fmt.Errorf("%w: %T", ErrUnsupportedEntity, e)
		}
	}

	return nil
}

func (s *Store) Node(id model.ID) (*model.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]

	return n, ok
}

func (s *Store) Way(id model.ID) (*model.Way, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.ways[id]

	return w, ok
}

func (s *Store) Relation(id model.ID) (*model.Relation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.relations[id]

	return r, ok
}

func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Counts{
		Nodes:     len(s.nodes),
		Ways:      len(s.ways),
		Relations: len(s.relations),
	}
}

// Bounds returns the bounding box of every stored node that has a
// coordinate and of the resolved geometry of stored ways and relations.  The
// box IsEmpty when there is none.
func (s *Store) Bounds() *model.BoundingBox {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bbox := model.InitialBoundingBox()
	for _, n := range s.nodes {
		if n.Kind() == model.NODE {
			bbox.ExpandWithLatLng(n.Latitude(), n.Longitude())
		}
	}

	for _, w := range s.ways {
		bbox.ExpandWithGeometry(geometryOf(w))
	}

	for _, r := range s.relations {
		bbox.ExpandWithGeometry(geometryOf(r))
	}

	return bbox
}

// Within returns the entities that touch bbox, keeping their order: nodes
// inside it, and ways and relations whose resolved geometry reaches into it.
// Unresolved ways and relations are left out.
func Within(entities []model.Entity, bbox *model.BoundingBox) []model.Entity {
	bound := bbox.Bound()

	var kept []model.Entity

	for _, e := range entities {
		if n, ok := e.(*model.Node); ok {
			if n.Kind() == model.NODE && bbox.Contains(n.Latitude(), n.Longitude()) {
				kept = append(kept, e)
			}

			continue
		}

		if g := geometryOf(e); g != nil && g.Bound().Intersects(bound) {
			kept = append(kept, e)
		}
	}

	return kept
}

// geometryOf returns the resolved geometry of a way or relation, nil when
// there is none.
func geometryOf(e model.Entity) orb.Geometry {
	switch v := e.(type) {
	case *model.Way:
		if ls := v.LineString(); len(ls) > 0 {
			return ls
		}
	case *model.Relation:
		if mls := v.MultiLineString(); len(mls) > 0 {
			return mls
		}
	}

	return nil
}

// Entities returns the stored nodes, then ways, then relations, each by
// ascending ID.
func (s *Store) Entities() []model.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entities := make([]model.Entity, 0, len(s.nodes)+len(s.ways)+len(s.relations))
	entities = appendSorted(entities, s.nodes)
	entities = appendSorted(entities, s.ways)
	entities = appendSorted(entities, s.relations)

	return entities
}

func appendSorted[E model.Entity](entities []model.Entity, m map[model.ID]E) []model.Entity {
	for _, id := range model.SortedKeys(m) {
		entities = append(entities, m[id])
	}

	return entities
}
