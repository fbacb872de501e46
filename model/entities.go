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

// Package model contains the OpenStreetMap object model: nodes, ways and
// relations, the geometry derived from them and their OSM-XML and GeoJSON
// representations.
//
// Entities reference each other by ID only. Turning those IDs into
// coordinates is the job of an external index; the model merely caches the
// resulting geometry. Entities are not safe for concurrent mutation.
package model

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// ID is the primary key of an entity. Zero means unassigned and negative
// values denote objects that do not exist upstream yet.
type ID int64

// Entity is the contract common to Node, Way and Relation.
type Entity interface {
	isEntity() // prevents extensions

	GetID() ID

	// Kind returns the type of the entity.
	Kind() EntityType

	// Base returns the metadata shared by all entities.
	Base() *Object

	// AsOsmXML returns the entity as an OSM-XML element.
	AsOsmXML() string

	// AsGeoJSON returns the entity as a GeoJSON Feature.
	AsGeoJSON(opts ...GeoJSONOption) (string, error)
}

// EntityType is an enumeration of OSM entity types.
type EntityType int32

const (
	// EMPTY denotes an entity whose type is not known yet.
	EMPTY EntityType = iota

	// NODE denotes a node.
	NODE

	// WAY denotes a way.
	WAY

	// RELATION denotes a relation.
	RELATION

	// MEMBER denotes a relation member.
	MEMBER
)

var entityTypeNames = [...]string{"empty", "node", "way", "relation", "member"}

func (t EntityType) String() string {
	if t < 0 || int(t) >= len(entityTypeNames) {
		return fmt.Sprintf("EntityType(%d)", int32(t))
	}

	return entityTypeNames[t]
}

// ParseEntityType converts the OSM-XML spelling of an entity type.
func ParseEntityType(s string) (EntityType, error) {
	for i, name := range entityTypeNames {
		if name == s {
			return EntityType(i), nil
		}
	}

	return EMPTY, fmt.Errorf("unknown entity type %q", s)
}

// Action is the change applied to an entity within a change set.
type Action int32

const (
	// None is an unchanged entity.
	None Action = iota

	// Create is a new entity.
	Create

	// Modify changes tags or membership of an entity.
	Modify

	// Remove deletes an entity.
	Remove

	// ModifyGeometry changes only the geometry of an entity.
	ModifyGeometry
)

var actionNames = [...]string{"none", "create", "modify", "delete", "modify_geom"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int32(a))
	}

	return actionNames[a]
}

// ParseAction converts the textual form of an action. The empty string is
// None.
func ParseAction(s string) (Action, error) {
	switch s {
	case "":
		return None, nil
	case "remove":
		return Remove, nil
	case "modify-geometry":
		return ModifyGeometry, nil
	}

	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}

	return None, fmt.Errorf("unknown action %q", s)
}

// timeLayouts are the ISO-8601 forms accepted by SetTimeString.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Object holds the data common to Node, Way, and Relation entities.
//
// Tags and attributes live in separate namespaces: tags describe the mapped
// feature, attributes carry OSM metadata such as user or changeset.
type Object struct {
	ID      ID
	Version int

	// Timestamp is the time of the entity's creation or last modification.
	Timestamp time.Time

	// TimeString is the timestamp exactly as it appeared in the input, kept
	// for round-tripping.
	TimeString string

	action     Action
	kind       EntityType
	tags       map[string]string
	attributes map[string]string
}

func (o *Object) isEntity() {}

func (o *Object) GetID() ID {
	return o.ID
}

func (o *Object) Kind() EntityType {
	return o.kind
}

func (o *Object) Base() *Object {
	return o
}

// AddTag inserts or overwrites a tag.
func (o *Object) AddTag(key, value string) {
	if o.tags == nil {
		o.tags = make(map[string]string)
	}

	o.tags[key] = value
}

// RemoveTag deletes a tag, if present.
func (o *Object) RemoveTag(key string) {
	delete(o.tags, key)
}

// Tag returns the value of a tag, or the empty string when it is absent.
func (o *Object) Tag(key string) string {
	return o.tags[key]
}

// Tags returns a copy of the tags.
func (o *Object) Tags() map[string]string {
	return maps.Clone(o.tags)
}

// AddAttribute inserts or overwrites an attribute.
func (o *Object) AddAttribute(key, value string) {
	if o.attributes == nil {
		o.attributes = make(map[string]string)
	}

	o.attributes[key] = value
}

// Attribute returns the value of an attribute, or the empty string when it
// is absent.
func (o *Object) Attribute(key string) string {
	return o.attributes[key]
}

// Attributes returns a copy of the attributes.
func (o *Object) Attributes() map[string]string {
	return maps.Clone(o.attributes)
}

// ContainsKey reports whether the tag is present.
func (o *Object) ContainsKey(key string) bool {
	_, ok := o.tags[key]

	return ok
}

// ContainsValue reports true when the tag named key is absent or empty, and
// otherwise when any tag, not only key, has the lower-cased value. Stored
// values are compared as is, so a tag holding "Yes" never matches.
func (o *Object) ContainsValue(key, value string) bool {
	if o.tags[key] == "" {
		return true
	}

	lower := strings.ToLower(value)
	for _, v := range o.tags {
		if v == lower {
			return true
		}
	}

	return false
}

func (o *Object) Action() Action {
	return o.action
}

// SetAction sets the action without checking it against the current one.
func (o *Object) SetAction(action Action) {
	o.action = action
}

// SetTimestamp sets the timestamp and its RFC 3339 text form.
func (o *Object) SetTimestamp(t time.Time) {
	o.Timestamp = t
	o.TimeString = t.UTC().Format(time.RFC3339)
}

// SetTimeString keeps s verbatim and parses it as an ISO-8601 time. Text
// that does not parse leaves Timestamp zero.
func (o *Object) SetTimeString(s string) {
	o.TimeString = s
	o.Timestamp = time.Time{}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			o.Timestamp = t

			return
		}
	}
}

// timeText is the timestamp written to OSM-XML, empty when unknown.
func (o *Object) timeText() string {
	switch {
	case o.TimeString != "":
		return o.TimeString
	case !o.Timestamp.IsZero():
		return o.Timestamp.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// Member represents an entity referenced by a relation.
type Member struct {
	Ref  ID
	Type EntityType
	Role string
}
