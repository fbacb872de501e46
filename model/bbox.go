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

package model

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

const (
	MaxLat Degrees = 90.0
	MaxLon Degrees = 180.0
	MinLat Degrees = -90.0
	MinLon Degrees = -180.0
)

// BoundingBox is simply a bounding box.
type BoundingBox struct {
	Top    Degrees `json:"top"`
	Left   Degrees `json:"left"`
	Bottom Degrees `json:"bottom"`
	Right  Degrees `json:"right"`
}

// ParseBoundingBox converts "left,bottom,right,top", the order the OSM API
// takes a bbox in.
func ParseBoundingBox(s string) (*BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bounding box %q needs left,bottom,right,top", s)
	}

	var edges [4]Degrees
	for i, part := range parts {
		d, err := ParseDegrees(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bounding box %q: %w", s, err)
		}

		edges[i] = d
	}

	b := &BoundingBox{Left: edges[0], Bottom: edges[1], Right: edges[2], Top: edges[3]}
	if b.IsEmpty() {
		return nil, fmt.Errorf("bounding box %q is empty", s)
	}

	return b, nil
}

// InitialBoundingBox creates a BoundingBox that is meant to be expanded.
func InitialBoundingBox() *BoundingBox {
	return &BoundingBox{
		Top:    MinLat,
		Left:   MaxLon,
		Bottom: MaxLat,
		Right:  MinLon,
	}
}

// IsEmpty reports whether nothing has been added to a box created by
// InitialBoundingBox.
func (b *BoundingBox) IsEmpty() bool {
	return b.Top < b.Bottom || b.Right < b.Left
}

// EqualWithin checks if two bounding boxes are within a specific epsilon.
func (b *BoundingBox) EqualWithin(o *BoundingBox, eps Epsilon) bool {
	return b.Left.EqualWithin(o.Left, eps) &&
		b.Right.EqualWithin(o.Right, eps) &&
		b.Top.EqualWithin(o.Top, eps) &&
		b.Bottom.EqualWithin(o.Bottom, eps)
}

// Contains checks if the bounding box contains the lat lng point.
func (b *BoundingBox) Contains(lat Degrees, lng Degrees) bool {
	return b.Left <= lng && lng <= b.Right && b.Bottom <= lat && lat <= b.Top
}

func (b *BoundingBox) ExpandWithLatLng(lat, lng Degrees) {
	if b.Top < lat {
		b.Top = lat
	}

	if b.Bottom > lat {
		b.Bottom = lat
	}

	if b.Left > lng {
		b.Left = lng
	}

	if b.Right < lng {
		b.Right = lng
	}
}

// ExpandWithGeometry grows the box to cover every point of g. A nil geometry
// leaves the box untouched.
func (b *BoundingBox) ExpandWithGeometry(g orb.Geometry) {
	if g == nil {
		return
	}

	bound := g.Bound()
	b.ExpandWithLatLng(Degrees(bound.Min.Lat()), Degrees(bound.Min.Lon()))
	b.ExpandWithLatLng(Degrees(bound.Max.Lat()), Degrees(bound.Max.Lon()))
}

// Bound returns the box as an orb.Bound.
func (b *BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{float64(b.Left), float64(b.Bottom)},
		Max: orb.Point{float64(b.Right), float64(b.Top)},
	}
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("[(%s, %s) (%s, %s)]",
		ftoa(float64(b.Top)), ftoa(float64(b.Left)),
		ftoa(float64(b.Bottom)), ftoa(float64(b.Right)))
}
