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
	"github.com/paulmach/orb"
)

// Node represents a specific point on the earth's surface defined by its
// latitude and longitude. Each node comprises at least an id number and a
// pair of coordinates.
//
// Coordinates are not range checked; invalid values simply produce invalid
// downstream geometry.
type Node struct {
	Object

	point  orb.Point
	zOrder int
}

var _ Entity = (*Node)(nil)

// NewNode creates a node known only by its ID. Its kind stays EMPTY until a
// coordinate is set.
func NewNode(id ID) *Node {
	return &Node{Object: Object{ID: id}}
}

// NewNodeAt creates an unnumbered node at the given location.
func NewNodeAt(lat, lon Degrees) *Node {
	n := &Node{}
	n.SetPoint(lat, lon)

	return n
}

// SetLatitude sets the latitude of this node.
func (n *Node) SetLatitude(lat Degrees) {
	n.point[1] = float64(lat)
	n.kind = NODE
}

func (n *Node) Latitude() Degrees {
	return Degrees(n.point.Lat())
}

// SetLongitude sets the longitude of this node.
func (n *Node) SetLongitude(lon Degrees) {
	n.point[0] = float64(lon)
	n.kind = NODE
}

func (n *Node) Longitude() Degrees {
	return Degrees(n.point.Lon())
}

// SetPoint sets the location of this node.
func (n *Node) SetPoint(lat, lon Degrees) {
	n.point = orb.Point{float64(lon), float64(lat)}
	n.kind = NODE
}

// Point returns the location in longitude, latitude order.
func (n *Node) Point() orb.Point {
	return n.point
}

// ZOrder is an opaque rendering order hint.
func (n *Node) ZOrder() int {
	return n.zOrder
}

func (n *Node) SetZOrder(z int) {
	n.zOrder = z
}

// geometry returns nil while the location is still deferred.
func (n *Node) geometry() orb.Geometry {
	if n.kind != NODE {
		return nil
	}

	return n.point
}
