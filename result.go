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
	"errors"
	"fmt"

	"m4o.io/osmobj/model"
)

var (
	// ErrMissingReference is reported when a referenced node, way or relation
	// is not in the index, or a node has no coordinate.
	ErrMissingReference = errors.New("missing reference")

	// ErrUnclosedRing is reported when multipolygon ways cannot be joined
	// into a closed ring.
	ErrUnclosedRing = errors.New("unclosed ring")

	// ErrDegenerateRing is reported when a closed ring has fewer than four
	// resolved positions.
	ErrDegenerateRing = errors.New("degenerate ring")

	// ErrOrphanInner is reported when an inner ring lies outside every outer
	// ring.
	ErrOrphanInner = errors.New("inner ring outside every outer ring")

	// ErrMembershipCycle is reported when a relation contains itself,
	// directly or through nested relations.
	ErrMembershipCycle = errors.New("relation membership cycle")

	// ErrNoGeometry is reported when nothing could be derived at all.
	ErrNoGeometry = errors.New("no geometry")
)

// Status summarizes the outcome of resolving a single entity.
type Status int

const (
	// Complete means every reference resolved and geometry was derived.
	Complete Status = iota

	// Partial means geometry was derived but problems were reported.
	Partial

	// Failed means no geometry could be derived.
	Failed
)

var statusNames = [...]string{
	Complete: "complete",
	Partial:  "partial",
	Failed:   "failed",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}

	return statusNames[s]
}

// Result is the outcome of resolving an entity.
type Result struct {
	Kind     model.EntityType
	ID       model.ID
	Status   Status
	Problems []error
}

// Err joins the problems into a single error, nil when there are none.
func (r Result) Err() error {
	return errors.Join(r.Problems...)
}

func (r Result) String() string {
	if len(r.Problems) == 0 {
		return fmt.Sprintf("%s %d: %s", r.Kind, r.ID, r.Status)
	}

	return fmt.Sprintf("%s %d: %s (%d problems)", r.Kind, r.ID, r.Status, len(r.Problems))
}

func newResult(kind model.EntityType, id model.ID, hasGeometry bool, problems []error) Result {
	status := Complete

	switch {
	case !hasGeometry:
		status = Failed
		if len(problems) == 0 {
			problems = append(problems, fmt.Errorf("%w: %s %d", ErrNoGeometry, kind, id))
		}
	case len(problems) > 0:
		status = Partial
	}

	return Result{Kind: kind, ID: id, Status: status, Problems: problems}
}
