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

// Package document reads entity documents, JSON or YAML descriptions of
// nodes, ways and relations, into the object model.
package document

import (
	"errors"
	"fmt"

	"m4o.io/osmobj/model"
)

var ErrInvalidDocument = errors.New("invalid entity document")

// Document is the top level of an entity document.
type Document struct {
	Nodes     []Node     `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Ways      []Way      `json:"ways,omitempty" yaml:"ways,omitempty"`
	Relations []Relation `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// Base holds the fields common to all entities.  An ID of 0 asks for a
// freshly allocated one.
type Base struct {
	ID         int64             `json:"id" yaml:"id"`
	Version    int               `json:"version,omitempty" yaml:"version,omitempty"`
	Timestamp  string            `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Action     string            `json:"action,omitempty" yaml:"action,omitempty"`
	Tags       map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Node is a node, without a coordinate when Lat or Lon is missing.
type Node struct {
	Base `yaml:",inline"`

	Lat *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty" yaml:"lon,omitempty"`
}

type Way struct {
	Base `yaml:",inline"`

	Refs []int64 `json:"refs,omitempty" yaml:"refs,omitempty"`
}

type Member struct {
	Type string `json:"type" yaml:"type"`
	Ref  int64  `json:"ref" yaml:"ref"`
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}

type Relation struct {
	Base `yaml:",inline"`

	Members []Member `json:"members,omitempty" yaml:"members,omitempty"`
}

// Entities converts the document into model entities: nodes, then ways,
// then relations, in document order.  IDs of 0 are drawn from ids and the
// entity is marked as created unless it names another action.
func (d *Document) Entities(ids *model.IDAllocator) ([]model.Entity, error) {
	entities := make([]model.Entity, 0, len(d.Nodes)+len(d.Ways)+len(d.Relations))

	for i, n := range d.Nodes {
		node := model.NewNode(0)
		if n.Lat != nil && n.Lon != nil {
			node.SetPoint(model.Degrees(*n.Lat), model.Degrees(*n.Lon))
		}

		if err := n.apply(&node.Object, ids); err != nil {
			return nil, fmt.Errorf("%w: node %d: %w", ErrInvalidDocument, i, err)
		}

		entities = append(entities, node)
	}

	for i, w := range d.Ways {
		way := model.NewWay(0)
		for _, ref := range w.Refs {
			way.AddRef(model.ID(ref))
		}

		if err := w.apply(&way.Object, ids); err != nil {
			return nil, fmt.Errorf("%w: way %d: %w", ErrInvalidDocument, i, err)
		}

		entities = append(entities, way)
	}

	for i, r := range d.Relations {
		rel := model.NewRelation(0)

		for j, m := range r.Members {
			typ, err := model.ParseEntityType(m.Type)
			if err != nil || (typ != model.NODE && typ != model.WAY && typ != model.RELATION) {
				return nil, fmt.Errorf("%w: relation %d member %d: type %q", ErrInvalidDocument, i, j, m.Type)
			}

			rel.AddMember(model.ID(m.Ref), typ, m.Role)
		}

		if err := r.apply(&rel.Object, ids); err != nil {
			return nil, fmt.Errorf("%w: relation %d: %w", ErrInvalidDocument, i, err)
		}

		entities = append(entities, rel)
	}

	return entities, nil
}

func (b *Base) apply(o *model.Object, ids *model.IDAllocator) error {
	if b.Version < 0 {
		return fmt.Errorf("negative version %d", b.Version)
	}

	action, err := model.ParseAction(b.Action)
	if err != nil {
		return err
	}

	o.ID = model.ID(b.ID)
	if o.ID == 0 {
		o.ID = ids.Next()

		if action == model.None {
			action = model.Create
		}
	}

	o.Version = b.Version
	o.SetAction(action)

	if b.Timestamp != "" {
		o.SetTimeString(b.Timestamp)
	}

	for _, k := range model.SortedKeys(b.Tags) {
		o.AddTag(k, b.Tags[k])
	}

	for _, k := range model.SortedKeys(b.Attributes) {
		o.AddAttribute(k, b.Attributes[k])
	}

	return nil
}
