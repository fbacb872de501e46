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
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmobj/model"
)

// corners maps node IDs 1..4 onto the unit square, counter-clockwise.
var corners = map[model.ID]orb.Point{
	1: {0, 0},
	2: {1, 0},
	3: {1, 1},
	4: {0, 1},
}

// bowtie is the unit square of corners plus a second square below and left
// of it that shares node 1.
var bowtie = map[model.ID]orb.Point{
	1: {0, 0},
	2: {1, 0},
	3: {1, 1},
	4: {0, 1},
	5: {-1, 0},
	6: {-1, -1},
	7: {0, -1},
}

func testPath(way model.ID, refs ...model.ID) path {
	return pathOver(corners, way, refs...)
}

func pathOver(points map[model.ID]orb.Point, way model.ID, refs ...model.ID) path {
	p := path{ways: []model.ID{way}}
	for _, ref := range refs {
		pt, ok := points[ref]
		p.vertices = append(p.vertices, vertex{ref: ref, point: pt, resolved: ok})
	}

	return p
}

func refs(p path) []model.ID {
	ids := make([]model.ID, len(p.vertices))
	for i, v := range p.vertices {
		ids[i] = v.ref
	}

	return ids
}

func TestPath_Join(t *testing.T) {
	test_cases := []struct {
		name     string
		p, q     path
		expected []model.ID
	}{
		{"head to tail", testPath(1, 1, 2), testPath(2, 2, 3), []model.ID{1, 2, 3}},
		{"tail to tail", testPath(1, 1, 2), testPath(2, 3, 2), []model.ID{1, 2, 3}},
		{"tail to head", testPath(1, 2, 3), testPath(2, 1, 2), []model.ID{1, 2, 3}},
		{"head to head", testPath(1, 2, 3), testPath(2, 2, 1), []model.ID{1, 2, 3}},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			joined, ok := tc.p.join(tc.q)
			require.True(t, ok)
			assert.Equal(t, tc.expected, refs(joined))
			assert.Equal(t, []model.ID{1, 2}, joined.ways)
		})
	}

	_, ok := testPath(1, 1, 2).join(testPath(2, 3, 4))
	assert.False(t, ok)
}

func TestPath_JoinDoesNotAlias(t *testing.T) {
	p := testPath(1, 1, 2)
	q := testPath(2, 3, 2)

	_, ok := p.join(q)
	require.True(t, ok)

	assert.Equal(t, []model.ID{1, 2}, refs(p))
	assert.Equal(t, []model.ID{3, 2}, refs(q))
}

func TestAssembleRings(t *testing.T) {
	rings, problems := assembleRings(model.RoleOuter, []path{
		testPath(1, 3, 4),
		testPath(2, 1, 2),
		testPath(3, 4, 1),
		testPath(4, 3, 2),
	})

	require.Empty(t, problems)
	require.Len(t, rings, 1)
	assert.Len(t, rings[0], 5)
	assert.Equal(t, rings[0][0], rings[0][4])
}

func TestAssembleRings_MissingEndpointStillCloses(t *testing.T) {
	// node 9 has no coordinate, the ring closes on the remaining points
	rings, problems := assembleRings(model.RoleOuter, []path{
		testPath(1, 9, 1, 2, 3, 4, 9),
	})

	require.Empty(t, problems)
	require.Len(t, rings, 1)
	assert.Equal(t, orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}, rings[0])
}

func TestAssembleRings_TouchingRings(t *testing.T) {
	test_cases := []struct {
		name  string
		paths []path
	}{
		{"interleaved members", []path{
			pathOver(bowtie, 1, 1, 2, 3),
			pathOver(bowtie, 2, 1, 5, 6),
			pathOver(bowtie, 3, 3, 4, 1),
			pathOver(bowtie, 4, 6, 7, 1),
		}},
		{"one way through the shared node", []path{
			pathOver(bowtie, 1, 1, 2, 3, 4, 1, 5, 6, 7, 1),
		}},
		{"chain passing the shared node", []path{
			pathOver(bowtie, 1, 6, 5, 1, 2),
			pathOver(bowtie, 2, 2, 3, 4, 1, 7, 6),
		}},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			rings, problems := assembleRings(model.RoleOuter, tc.paths)

			require.Empty(t, problems)
			require.Len(t, rings, 2)

			for _, ring := range rings {
				assert.Len(t, ring, 5)
				assert.Equal(t, ring[0], ring[len(ring)-1])
			}

			mp, problems := buildPolygons(rings, nil)
			require.Empty(t, problems)
			require.Len(t, mp, 2)
			assert.InDelta(t, 1.0, math.Abs(planar.Area(mp[0])), 1e-9)
			assert.InDelta(t, 1.0, math.Abs(planar.Area(mp[1])), 1e-9)
		})
	}
}

func TestSplitLoops(t *testing.T) {
	loops := splitLoops(pathOver(bowtie, 1, 6, 5, 1, 2, 3, 4, 1, 7, 6).vertices)
	require.Len(t, loops, 2)

	ids := func(vs []vertex) []model.ID {
		return refs(path{vertices: vs})
	}

	assert.Equal(t, []model.ID{1, 2, 3, 4, 1}, ids(loops[0]))
	assert.Equal(t, []model.ID{6, 5, 1, 7, 6}, ids(loops[1]))
}

func TestAssembleRings_Problems(t *testing.T) {
	_, problems := assembleRings(model.RoleInner, []path{testPath(1, 1, 2, 3)})
	require.Len(t, problems, 1)
	assert.ErrorIs(t, problems[0], ErrUnclosedRing)
	assert.Contains(t, problems[0].Error(), "inner ways [1]")

	_, problems = assembleRings(model.RoleOuter, []path{testPath(1, 1, 2, 1)})
	require.Len(t, problems, 1)
	assert.ErrorIs(t, problems[0], ErrDegenerateRing)
}

func TestBuildPolygons(t *testing.T) {
	outer := orb.Ring{{0, 0}, {0, 4}, {4, 4}, {4, 0}, {0, 0}}
	hole := orb.Ring{{1, 1}, {2, 1}, {2, 2}, {1, 2}, {1, 1}}
	stray := orb.Ring{{8, 8}, {9, 8}, {9, 9}, {8, 9}, {8, 8}}

	mp, problems := buildPolygons([]orb.Ring{outer}, []orb.Ring{hole, stray})

	require.Len(t, problems, 1)
	assert.ErrorIs(t, problems[0], ErrOrphanInner)

	require.Len(t, mp, 1)
	require.Len(t, mp[0], 2)
	assert.Equal(t, orb.CCW, mp[0][0].Orientation())
	assert.Equal(t, orb.CW, mp[0][1].Orientation())
}
