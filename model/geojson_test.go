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

package model_test

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmobj/model"
)

func decodeFeature(t *testing.T, e model.Entity, opts ...model.GeoJSONOption) map[string]any {
	t.Helper()

	s, err := e.AsGeoJSON(opts...)
	require.NoError(t, err)

	var f map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &f))

	return f
}

func TestNode_AsGeoJSON(t *testing.T) {
	n := model.NewNodeAt(45.0, -122.0)
	n.ID = 100
	n.AddTag("amenity", "cafe")

	f := decodeFeature(t, n)

	assert.Equal(t, "Feature", f["type"])
	assert.Equal(t, "node/100", f["id"])

	geometry := f["geometry"].(map[string]any)
	assert.Equal(t, "Point", geometry["type"])
	assert.Equal(t, []any{-122.0, 45.0}, geometry["coordinates"])
	assert.Equal(t, map[string]any{"amenity": "cafe"}, f["properties"])
}

func TestNode_AsGeoJSONRoundTrip(t *testing.T) {
	test_cases := []struct {
		lat, lon model.Degrees
	}{
		{45.0, -122.0},
		{51.5073219, -0.1276474},
		{-33.8567844, 151.2152967},
		{0.0000001, -0.0000001},
		{89.9999999, 179.9999999},
	}

	for _, tc := range test_cases {
		n := model.NewNodeAt(tc.lat, tc.lon)

		s, err := n.AsGeoJSON()
		require.NoError(t, err)

		f, err := geojson.UnmarshalFeature([]byte(s))
		require.NoError(t, err)

		p, ok := f.Geometry.(orb.Point)
		require.True(t, ok)
		assert.True(t, tc.lat.EqualWithin(model.Degrees(p.Lat()), model.E7))
		assert.True(t, tc.lon.EqualWithin(model.Degrees(p.Lon()), model.E7))
	}
}

func TestNode_AsGeoJSONDeferred(t *testing.T) {
	f := decodeFeature(t, model.NewNode(3))

	assert.Nil(t, f["geometry"])
	assert.Equal(t, "node/3", f["id"])
	assert.Equal(t, map[string]any{}, f["properties"])
}

func TestWay_AsGeoJSON(t *testing.T) {
	w := newWay(200, 1, 2, 3, 1)
	w.AddTag("building", "yes")

	f := decodeFeature(t, w)
	assert.Nil(t, f["geometry"])

	w.SetLineString(orb.LineString{{0, 0}, {1, 0}, {1, 1}, {0, 0}})
	f = decodeFeature(t, w)
	assert.Equal(t, "Polygon", f["geometry"].(map[string]any)["type"])
	assert.Equal(t, "way/200", f["id"])

	open := newWay(201, 1, 2, 3)
	open.SetLineString(orb.LineString{{0, 0}, {1, 0}, {1, 1}})
	f = decodeFeature(t, open)
	assert.Equal(t, "LineString", f["geometry"].(map[string]any)["type"])

	// closed by reference but a point did not resolve
	partial := newWay(202, 1, 2, 3, 1)
	partial.SetLineString(orb.LineString{{0, 0}, {1, 1}, {0, 0}})
	f = decodeFeature(t, partial)
	assert.Equal(t, "LineString", f["geometry"].(map[string]any)["type"])
}

func TestRelation_AsGeoJSON(t *testing.T) {
	r := model.NewRelation(300)
	r.AddTag("type", "multipolygon")

	f := decodeFeature(t, r)
	assert.Nil(t, f["geometry"])

	outer := orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	inner := orb.Ring{{1, 1}, {1, 2}, {2, 2}, {2, 1}, {1, 1}}
	r.SetGeometry(
		orb.MultiLineString{orb.LineString(outer), orb.LineString(inner)},
		orb.MultiPolygon{{outer, inner}},
	)

	f = decodeFeature(t, r)
	assert.Equal(t, "MultiPolygon", f["geometry"].(map[string]any)["type"])
	assert.Equal(t, "relation/300", f["id"])

	r.AddTag("type", "route")
	f = decodeFeature(t, r)
	assert.Equal(t, "MultiLineString", f["geometry"].(map[string]any)["type"])
}

func TestAsGeoJSON_Attributes(t *testing.T) {
	n := model.NewNodeAt(1, 2)
	n.AddTag("name", "Foo")
	n.AddAttribute("user", "alice")

	f := decodeFeature(t, n)
	assert.Equal(t, map[string]any{"name": "Foo"}, f["properties"])

	f = decodeFeature(t, n, model.WithAttributes())
	assert.Equal(t, map[string]any{
		"name":                   "Foo",
		model.AttributesProperty: map[string]any{"user": "alice"},
	}, f["properties"])
}

func TestAsGeoJSON_Deterministic(t *testing.T) {
	build := func() *model.Relation {
		r := model.NewRelation(9)
		for _, k := range []string{"type", "name", "ref", "network", "operator", "route"} {
			r.AddTag(k, k+"-value")
			r.AddAttribute(k, k)
		}
		r.SetGeometry(orb.MultiLineString{{{0, 0}, {1, 1}}}, nil)

		return r
	}

	a, err := build().AsGeoJSON(model.WithAttributes())
	require.NoError(t, err)

	b, err := build().AsGeoJSON(model.WithAttributes())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestAsGeoJSON_EscapesStrings(t *testing.T) {
	n := model.NewNodeAt(1, 2)
	n.AddTag("name", "quote \" backslash \\ newline \n")

	f := decodeFeature(t, n)
	assert.Equal(t, "quote \" backslash \\ newline \n", f["properties"].(map[string]any)["name"])
}
