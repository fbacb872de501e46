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
	"slices"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// minRingPoints is the smallest number of positions of a closed ring: a
// triangle plus the repeated first position.
const minRingPoints = 4

// Way is an ordered list of node references that define a polyline, or a
// polygon when closed.
type Way struct {
	Object

	refs       []ID
	linestring orb.LineString
	polygon    orb.Polygon
	center     orb.Point
}

var _ Entity = (*Way)(nil)

func NewWay(id ID) *Way {
	return &Way{Object: Object{ID: id, kind: WAY}}
}

// AddRef appends a node reference.
func (w *Way) AddRef(ref ID) {
	w.refs = append(w.refs, ref)
}

// Refs returns a copy of the node references.
func (w *Way) Refs() []ID {
	return slices.Clone(w.refs)
}

// NumRefs returns the number of node references.
func (w *Way) NumRefs() int {
	return len(w.refs)
}

// IsClosed reports whether the way has more than three references and ends
// where it starts.
func (w *Way) IsClosed() bool {
	return len(w.refs) > 3 && w.refs[0] == w.refs[len(w.refs)-1]
}

// SetLineString caches the resolved points of the way and derives its
// polygon and center from them.  The polygon ring winds counter-clockwise.
func (w *Way) SetLineString(ls orb.LineString) {
	w.linestring = ls
	w.polygon = nil

	if w.IsClosed() && isRing(ls) {
		ring := orb.Ring(slices.Clone(ls))
		if ring.Orientation() == orb.CW {
			ring.Reverse()
		}

		w.polygon = orb.Polygon{ring}
	}

	if w.polygon != nil {
		w.center = centroid(w.polygon)
	} else {
		w.center = centroid(ls)
	}
}

func (w *Way) LineString() orb.LineString {
	return w.linestring
}

// Polygon is nil unless the way is closed and its linestring forms a ring.
func (w *Way) Polygon() orb.Polygon {
	return w.polygon
}

func (w *Way) Center() orb.Point {
	return w.center
}

// NumPoints returns the number of resolved points, which is lower than the
// number of references when some did not resolve.
func (w *Way) NumPoints() int {
	return len(w.linestring)
}

// Length returns the great-circle length of the linestring in kilometers.
func (w *Way) Length() float64 {
	return lineLength(w.linestring)
}

func (w *Way) geometry() orb.Geometry {
	switch {
	case w.polygon != nil:
		return w.polygon
	case len(w.linestring) > 0:
		return w.linestring
	default:
		return nil
	}
}

// lineLength sums the haversine distance of consecutive points.
func lineLength(ls orb.LineString) float64 {
	var length float64

	for i := 1; i < len(ls); i++ {
		a := s2.LatLngFromDegrees(ls[i-1].Lat(), ls[i-1].Lon())
		b := s2.LatLngFromDegrees(ls[i].Lat(), ls[i].Lon())
		length += Angle(a.Distance(b)).Kilometers()
	}

	return length
}

// isRing reports whether ls has enough positions to be a closed ring and
// ends where it starts.
func isRing(ls orb.LineString) bool {
	return len(ls) >= minRingPoints && ls[0].Equal(ls[len(ls)-1])
}
