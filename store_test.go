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
	"fmt"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmobj/model"
)

// node creates a node at the given longitude and latitude.
func node(id model.ID, lon, lat model.Degrees) *model.Node {
	n := model.NewNodeAt(lat, lon)
	n.ID = id

	return n
}

func way(id model.ID, refs ...model.ID) *model.Way {
	w := model.NewWay(id)
	for _, ref := range refs {
		w.AddRef(ref)
	}

	return w
}

func TestStore_AddAndLookup(t *testing.T) {
	s := NewStore()

	n := node(1, 2, 3)
	w := way(10, 1)
	r := model.NewRelation(100)

	require.NoError(t, s.Add(n, w, r))

	got, ok := s.Node(1)
	assert.True(t, ok)
	assert.Same(t, n, got)

	gotWay, ok := s.Way(10)
	assert.True(t, ok)
	assert.Same(t, w, gotWay)

	gotRel, ok := s.Relation(100)
	assert.True(t, ok)
	assert.Same(t, r, gotRel)

	_, ok = s.Node(10)
	assert.False(t, ok)

	_, ok = s.Way(1)
	assert.False(t, ok)

	assert.Equal(t, Counts{Nodes: 1, Ways: 1, Relations: 1}, s.Counts())
	assert.Equal(t, 3, s.Counts().Total())
}

func TestStore_AddReplaces(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(node(1, 0, 0)))

	replacement := node(1, 5, 5)
	require.NoError(t, s.Add(replacement))

	got, _ := s.Node(1)
	assert.Same(t, replacement, got)
	assert.Equal(t, 1, s.Counts().Nodes)
}

func TestStore_AddUnsupported(t *testing.T) {
	s := NewStore()

	err := s.Add(nil)
	assert.ErrorIs(t, err, ErrUnsupportedEntity)
}

func TestStore_Bounds(t *testing.T) {
	s := NewStore()
	assert.True(t, s.Bounds().IsEmpty())

	require.NoError(t, s.Add(
		node(1, -122.5, 45.25),
		node(2, -121.0, 46.5),
		model.NewNode(3),
	))

	expected := &model.BoundingBox{Left: -122.5, Right: -121.0, Bottom: 45.25, Top: 46.5}
	assert.True(t, expected.EqualWithin(s.Bounds(), model.E7))
}

func TestStore_BoundsCoversResolvedGeometry(t *testing.T) {
	s := NewStore()

	w := way(10, 1, 2)
	w.SetLineString(orb.LineString{{1, 2}, {3, 4}})

	r := model.NewRelation(20)
	r.SetGeometry(orb.MultiLineString{{{-1, -2}, {0, 0}}}, nil)

	require.NoError(t, s.Add(node(1, 0.5, 0.5), w, r, way(11), model.NewRelation(21)))

	expected := &model.BoundingBox{Left: -1, Right: 3, Bottom: -2, Top: 4}
	assert.True(t, expected.EqualWithin(s.Bounds(), model.E7))
}

func TestWithin(t *testing.T) {
	inside := node(1, 0.5, 0.5)
	outside := node(2, 5, 5)

	crossing := way(10, 1, 2)
	crossing.SetLineString(orb.LineString{{0.5, 0.5}, {5, 5}})

	away := way(11, 2, 3)
	away.SetLineString(orb.LineString{{5, 5}, {6, 6}})

	route := model.NewRelation(20)
	route.SetGeometry(orb.MultiLineString{{{-1, 0.5}, {2, 0.5}}}, nil)

	entities := []model.Entity{inside, outside, model.NewNode(3), crossing, away, way(12, 1), route, model.NewRelation(21)}

	bbox := &model.BoundingBox{Left: 0, Bottom: 0, Right: 1, Top: 1}

	var got []string
	for _, e := range Within(entities, bbox) {
		got = append(got, fmt.Sprintf("%s/%d", e.Kind(), e.GetID()))
	}

	assert.Equal(t, []string{"node/1", "way/10", "relation/20"}, got)
}

func TestStore_Entities(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(
		model.NewRelation(2),
		way(5),
		node(3, 0, 0),
		way(-1),
		node(-7, 0, 0),
		model.NewRelation(1),
		node(1, 0, 0),
	))

	var got []string
	for _, e := range s.Entities() {
		got = append(got, fmt.Sprintf("%s/%d", e.Kind(), e.GetID()))
	}

	assert.Equal(t, []string{
		"node/-7", "node/1", "node/3",
		"way/-1", "way/5",
		"relation/1", "relation/2",
	}, got)
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 100 {
				id := model.ID(i*100 + j)
				assert.NoError(t, s.Add(node(id, 0, 0)))
				_, ok := s.Node(id)
				assert.True(t, ok)
				_ = s.Counts()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 800, s.Counts().Nodes)
}
