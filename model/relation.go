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

	"github.com/paulmach/orb"
)

// Roles of multipolygon members.
const (
	RoleOuter = "outer"
	RoleInner = "inner"
)

// Relation is a multipurpose data structure that documents a relationship
// between two or more data entities (nodes, ways, and/or other relations).
type Relation struct {
	Object

	members         []Member
	multilinestring orb.MultiLineString
	multipolygon    orb.MultiPolygon
	center          orb.Point
}

var _ Entity = (*Relation)(nil)

func NewRelation(id ID) *Relation {
	return &Relation{Object: Object{ID: id, kind: RELATION}}
}

// AddMember appends a member. The reference is not checked.
func (r *Relation) AddMember(ref ID, typ EntityType, role string) {
	r.members = append(r.members, Member{Ref: ref, Type: typ, Role: role})
}

// Members returns a copy of the members, in order.
func (r *Relation) Members() []Member {
	return slices.Clone(r.members)
}

// IsMultiPolygon reports whether the type tag marks the relation as composed
// of closed outer and inner rings. Member geometry is not inspected.
func (r *Relation) IsMultiPolygon() bool {
	switch r.Tag("type") {
	case "multipolygon", "boundary":
		return true
	default:
		return false
	}
}

// SetGeometry replaces the derived geometry and recomputes the center.
func (r *Relation) SetGeometry(mls orb.MultiLineString, mp orb.MultiPolygon) {
	r.multilinestring = mls
	r.multipolygon = mp

	if len(mp) > 0 {
		r.center = centroid(mp)
	} else {
		r.center = centroid(mls)
	}
}

func (r *Relation) MultiLineString() orb.MultiLineString {
	return r.multilinestring
}

func (r *Relation) MultiPolygon() orb.MultiPolygon {
	return r.multipolygon
}

func (r *Relation) Center() orb.Point {
	return r.center
}

func (r *Relation) geometry() orb.Geometry {
	switch {
	case r.IsMultiPolygon() && len(r.multipolygon) > 0:
		return r.multipolygon
	case len(r.multilinestring) > 0:
		return r.multilinestring
	default:
		return nil
	}
}
