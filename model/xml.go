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
	"encoding/xml"
	"strconv"
	"strings"
)

const childIndent = "  "

// reservedXMLAttributes are written from the object itself and never taken
// from its free-form attributes.
var reservedXMLAttributes = map[string]bool{
	"id":        true,
	"version":   true,
	"timestamp": true,
	"action":    true,
	"lat":       true,
	"lon":       true,
}

// AsOsmXML returns the node as an OSM-XML <node> element.  The lat and lon
// attributes are left out until a coordinate is set.
func (n *Node) AsOsmXML() string {
	var b strings.Builder

	n.openElement(&b, "node")
	if n.kind == NODE {
		writeAttr(&b, "lat", ftoa(n.point.Lat()))
		writeAttr(&b, "lon", ftoa(n.point.Lon()))
	}
	n.closeElement(&b, "node", nil)

	return b.String()
}

// AsOsmXML returns the way as an OSM-XML <way> element with its node
// references in order.
func (w *Way) AsOsmXML() string {
	var b strings.Builder

	w.openElement(&b, "way")
	w.closeElement(&b, "way", func(b *strings.Builder) {
		for _, ref := range w.refs {
			b.WriteString(childIndent + "<nd")
			writeAttr(b, "ref", strconv.FormatInt(int64(ref), 10))
			b.WriteString("/>\n")
		}
	})

	return b.String()
}

// AsOsmXML returns the relation as an OSM-XML <relation> element with its
// members in order.
func (r *Relation) AsOsmXML() string {
	var b strings.Builder

	r.openElement(&b, "relation")
	r.closeElement(&b, "relation", func(b *strings.Builder) {
		for _, m := range r.members {
			b.WriteString(childIndent + "<member")
			writeAttr(b, "type", m.Type.String())
			writeAttr(b, "ref", strconv.FormatInt(int64(m.Ref), 10))
			writeAttr(b, "role", m.Role)
			b.WriteString("/>\n")
		}
	})

	return b.String()
}

// openElement writes the start of a start tag and the attributes common to
// all entities.
func (o *Object) openElement(b *strings.Builder, name string) {
	b.WriteString("<" + name)
	writeAttr(b, "id", strconv.FormatInt(int64(o.ID), 10))
	writeAttr(b, "version", strconv.Itoa(o.Version))

	if ts := o.timeText(); ts != "" {
		writeAttr(b, "timestamp", ts)
	}

	if action := xmlAction(o.action); action != "" {
		writeAttr(b, "action", action)
	}

	for _, k := range SortedKeys(o.attributes) {
		if reservedXMLAttributes[k] || !isXMLName(k) {
			continue
		}

		writeAttr(b, k, o.attributes[k])
	}
}

// closeElement writes the kind specific children, then the tags, then the
// end tag. An element without children is self-closing.
func (o *Object) closeElement(b *strings.Builder, name string, children func(*strings.Builder)) {
	var body strings.Builder
	if children != nil {
		children(&body)
	}

	for _, k := range SortedKeys(o.tags) {
		body.WriteString(childIndent + "<tag")
		writeAttr(&body, "k", k)
		writeAttr(&body, "v", o.tags[k])
		body.WriteString("/>\n")
	}

	if body.Len() == 0 {
		b.WriteString("/>")

		return
	}

	b.WriteString(">\n")
	b.WriteString(body.String())
	b.WriteString("</" + name + ">")
}

// xmlAction maps an action to the JOSM action attribute.
func xmlAction(a Action) string {
	switch a {
	case None:
		return ""
	case ModifyGeometry:
		return Modify.String()
	default:
		return a.String()
	}
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteString(" " + name + `="`)
	// writing to a strings.Builder cannot fail
	_ = xml.EscapeText(b, []byte(value))
	b.WriteString(`"`)
}

// isXMLName reports whether s can be used as an attribute name without
// escaping.
func isXMLName(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_' || r == ':' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z'):
		case i > 0 && (r == '-' || r == '.' || ('0' <= r && r <= '9')):
		default:
			return false
		}
	}

	return true
}
