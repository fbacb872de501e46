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
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// AttributesProperty is the property that holds the OSM attributes of an
// entity when they are requested with WithAttributes.
const AttributesProperty = "@attributes"

// geojsonOptions provides optional configuration for GeoJSON serialization.
type geojsonOptions struct {
	attributes bool // include OSM attributes in the properties
}

// GeoJSONOption configures how an entity is written as GeoJSON.
type GeoJSONOption func(*geojsonOptions)

// WithAttributes adds the OSM attributes, nested under AttributesProperty,
// to the feature properties.
func WithAttributes() GeoJSONOption {
	return func(o *geojsonOptions) {
		o.attributes = true
	}
}

// feature is a GeoJSON Feature. A nil geometry is written as null.
type feature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties map[string]any    `json:"properties"`
}

// AsGeoJSON returns the node as a Point feature. The geometry is null while
// the location is deferred.
func (n *Node) AsGeoJSON(opts ...GeoJSONOption) (string, error) {
	return n.marshalFeature(NODE, n.geometry(), opts)
}

// AsGeoJSON returns the way as a Polygon feature when it is closed and its
// linestring forms a ring, and as a LineString feature otherwise. The
// geometry is null while the way is unresolved.
func (w *Way) AsGeoJSON(opts ...GeoJSONOption) (string, error) {
	return w.marshalFeature(WAY, w.geometry(), opts)
}

// AsGeoJSON returns the relation as a MultiPolygon feature when it is a
// multipolygon with rings, and as a MultiLineString feature otherwise. The
// geometry is null while the relation is unresolved.
func (r *Relation) AsGeoJSON(opts ...GeoJSONOption) (string, error) {
	return r.marshalFeature(RELATION, r.geometry(), opts)
}

func (o *Object) marshalFeature(kind EntityType, g orb.Geometry, opts []GeoJSONOption) (string, error) {
	var cfg geojsonOptions
	for _, opt := range opts {
		opt(&cfg)
	}

	f := feature{
		Type:       "Feature",
		ID:         kind.String() + "/" + strconv.FormatInt(int64(o.ID), 10),
		Properties: make(map[string]any, len(o.tags)+1),
	}

	if g != nil {
		f.Geometry = geojson.NewGeometry(g)
	}

	for k, v := range o.tags {
		f.Properties[k] = v
	}

	if cfg.attributes && len(o.attributes) > 0 {
		f.Properties[AttributesProperty] = o.Attributes()
	}

	// map keys are written in sorted order
	b, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("could not marshal %s %d as GeoJSON: %w", kind, o.ID, err)
	}

	return string(b), nil
}
