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
	"context"
	"fmt"
	"log/slog"

	"github.com/destel/rill"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"

	"m4o.io/osmobj/model"
)

// wayPath is a way resolved against the index, along with the node
// references that did not resolve.
type wayPath struct {
	path    path
	missing []model.ID
}

// Resolver turns the node, way and relation references of entities into
// geometry, looking them up in an Index.
//
// A Resolver is safe for concurrent use provided each entity is resolved by
// one goroutine at a time.
type Resolver struct {
	index  Index
	cfg    resolverOptions
	logger *slog.Logger
	cache  *lru.Cache[model.ID, wayPath]
}

// NewResolver returns a new resolver, configured with options, that looks up
// references in index.
func NewResolver(index Index, opts ...ResolverOption) *Resolver {
	cfg := defaultResolverConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Resolver{
		index:  index,
		cfg:    cfg,
		logger: cfg.logger,
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	if cfg.cacheSize > 0 {
		cache, err := lru.New[model.ID, wayPath](cfg.cacheSize)
		if err != nil {
			r.logger.Error("could not create way cache, caching disabled", "error", err)
		} else {
			r.cache = cache
		}
	}

	return r
}

// Resolve derives the geometry of a node, way or relation.  Nodes carry
// their own coordinate so resolving one only checks that it has one.
func (r *Resolver) Resolve(e model.Entity) Result {
	switch v := e.(type) {
	case *model.Node:
		return r.resolveNode(v)
	case *model.Way:
		return r.ResolveWay(v)
	case *model.Relation:
		return r.ResolveRelation(v)
	default:
		return r.finish(Result{
			Kind:     model.EMPTY,
			Status:   Failed,
			Problems: []error{fmt.Errorf("%w: %T", ErrUnsupportedEntity, e)},
		})
	}
}

// ResolveAll resolves entities on a pool of workers and returns a result per
// entity, in the order given.
func (r *Resolver) ResolveAll(ctx context.Context, entities []model.Entity) ([]Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := rill.FromSlice(entities, nil)

	out := rill.OrderedMap(in, int(r.cfg.nCPU), func(e model.Entity) (Result, error) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		return r.Resolve(e), nil
	})

	results, err := rill.ToSlice(out)
	if err != nil {
		return nil, fmt.Errorf("could not resolve entities: %w", err)
	}

	return results, nil
}

func (r *Resolver) resolveNode(n *model.Node) Result {
	var problems []error

	if n.Kind() != model.NODE {
		problems = append(problems, fmt.Errorf("%w: node %d has no coordinate", ErrMissingReference, n.ID))
		r.cfg.metrics.recordMissing(1)
	}

	return r.finish(newResult(model.NODE, n.ID, len(problems) == 0, problems))
}

// ResolveWay looks up the nodes of w and sets its linestring to the points
// found.  Nodes that are not in the index are dropped and reported.
func (r *Resolver) ResolveWay(w *model.Way) Result {
	wp := r.wayPath(w)
	ls := wp.path.lineString()

	if len(ls) == 0 {
		ls = nil
	}

	w.SetLineString(ls)

	problems := r.missingNodes(w.ID, wp.missing)

	return r.finish(newResult(model.WAY, w.ID, len(ls) > 0, problems))
}

// ResolveRelation derives the multilinestring of r from its way members,
// flattening nested relations.  Multipolygon relations additionally get
// their rings assembled from the outer and inner members.
func (r *Resolver) ResolveRelation(rel *model.Relation) Result {
	var (
		problems []error
		mls      orb.MultiLineString
		mp       orb.MultiPolygon
	)

	onStack := map[model.ID]bool{rel.ID: true}
	visited := map[model.ID]bool{rel.ID: true}

	var outers, inners []path

	var walk func(rel *model.Relation, top bool)
	walk = func(rel *model.Relation, top bool) {
		for _, m := range rel.Members() {
			switch m.Type {
			case model.WAY:
				w, ok := r.index.Way(m.Ref)
				if !ok {
					problems = append(problems, fmt.Errorf("%w: relation %d way %d", ErrMissingReference, rel.ID, m.Ref))
					r.cfg.metrics.recordMissing(1)

					continue
				}

				wp := r.wayPath(w)
				problems = append(problems, r.missingNodes(w.ID, wp.missing)...)

				if ls := wp.path.lineString(); len(ls) > 0 {
					mls = append(mls, ls)
				}

				if top && len(wp.path.vertices) > 0 {
					switch m.Role {
					case model.RoleOuter, "":
						outers = append(outers, wp.path)
					case model.RoleInner:
						inners = append(inners, wp.path)
					}
				}
			case model.RELATION:
				if onStack[m.Ref] {
					problems = append(problems, fmt.Errorf("%w: relation %d contains relation %d", ErrMembershipCycle, rel.ID, m.Ref))
					continue
				}

				if visited[m.Ref] {
					continue
				}

				child, ok := r.index.Relation(m.Ref)
				if !ok {
					problems = append(problems, fmt.Errorf("%w: relation %d relation %d", ErrMissingReference, rel.ID, m.Ref))
					r.cfg.metrics.recordMissing(1)

					continue
				}

				visited[m.Ref] = true
				onStack[m.Ref] = true
				walk(child, false)
				onStack[m.Ref] = false
			}
		}
	}

	walk(rel, true)

	if rel.IsMultiPolygon() {
		outerRings, outerProblems := assembleRings(model.RoleOuter, outers)
		innerRings, innerProblems := assembleRings(model.RoleInner, inners)
		problems = append(problems, outerProblems...)
		problems = append(problems, innerProblems...)

		var polygonProblems []error
		mp, polygonProblems = buildPolygons(outerRings, innerRings)
		problems = append(problems, polygonProblems...)
	}

	rel.SetGeometry(mls, mp)

	hasGeometry := len(mls) > 0 || len(mp) > 0

	return r.finish(newResult(model.RELATION, rel.ID, hasGeometry, problems))
}

func (r *Resolver) wayPath(w *model.Way) wayPath {
	if r.cache != nil {
		if wp, ok := r.cache.Get(w.ID); ok {
			r.cfg.metrics.recordCache(true)
			return wp
		}

		r.cfg.metrics.recordCache(false)
	}

	refs := w.Refs()
	wp := wayPath{path: path{ways: []model.ID{w.ID}, vertices: make([]vertex, 0, len(refs))}}

	for _, ref := range refs {
		v := vertex{ref: ref}

		if n, ok := r.index.Node(ref); ok && n.Kind() == model.NODE {
			v.point = n.Point()
			v.resolved = true
		} else {
			wp.missing = append(wp.missing, ref)
		}

		wp.path.vertices = append(wp.path.vertices, v)
	}

	if r.cache != nil {
		r.cache.Add(w.ID, wp)
	}

	return wp
}

func (r *Resolver) missingNodes(way model.ID, missing []model.ID) []error {
	problems := make([]error, 0, len(missing))
	for _, ref := range missing {
		problems = append(problems, fmt.Errorf("%w: way %d node %d", ErrMissingReference, way, ref))
	}

	r.cfg.metrics.recordMissing(len(missing))

	return problems
}

func (r *Resolver) finish(res Result) Result {
	r.cfg.metrics.recordResult(res)

	switch res.Status {
	case Partial:
		r.logger.Warn("entity partially resolved", "kind", res.Kind, "id", res.ID, "error", res.Err())
	case Failed:
		r.logger.Error("entity not resolved", "kind", res.Kind, "id", res.ID, "error", res.Err())
	}

	return res
}
