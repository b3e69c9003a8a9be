/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package zones composes world generation from nested zones.
//
// A Store collects facet providers, entity providers and rasterizers. A Zone
// is itself a Store with a name and an optional region predicate; adding a
// zone to a parent store makes the parent adopt the zone's facet providers
// and run the zone as one of its rasterizers and entity providers.
//
// Stores are assembled during world setup and are not safe for concurrent
// mutation. Generate may run concurrently once assembly is finished.
package zones

import (
	"errors"
	"fmt"

	"dirpx.dev/typehandling/mathtypes"
)

// ErrNoZone is returned by Child when no direct child has the given name.
var ErrNoZone = errors.New("typehandling(zones): no zone with name")

// Region is the chunk being generated and the facets computed for it.
type Region struct {
	// Pos is the chunk position.
	Pos mathtypes.Vector3i
	// Facets holds facet data by name, filled in by facet providers.
	Facets map[string]any
	// Blocks receives rasterized content by name.
	Blocks map[string]any
}

// NewRegion returns an empty region at pos.
func NewRegion(pos mathtypes.Vector3i) *Region {
	return &Region{Pos: pos, Facets: map[string]any{}, Blocks: map[string]any{}}
}

// FacetProvider computes facet data for a region.
type FacetProvider interface {
	Process(r *Region, seed int64)
}

// Rasterizer turns facet data into content.
type Rasterizer interface {
	Rasterize(r *Region)
}

// EntityProvider lists entities to spawn in a region.
type EntityProvider interface {
	Entities(r *Region) []any
}

// Store is the root of a zone tree.
type Store struct {
	seed        int64
	seeded      bool
	facets      []FacetProvider
	rasterizers []Rasterizer
	entities    []EntityProvider
	children    []*Zone
}

// AddFacet registers a facet provider.
func (s *Store) AddFacet(f FacetProvider) *Store {
	s.facets = append(s.facets, f)
	return s
}

// AddEntities registers an entity provider.
func (s *Store) AddEntities(e EntityProvider) *Store {
	s.entities = append(s.entities, e)
	return s
}

// AddRasterizer registers a rasterizer.
func (s *Store) AddRasterizer(r Rasterizer) *Store {
	s.rasterizers = append(s.rasterizers, r)
	return s
}

// AddZone adds z as a child: z's parent becomes s, s adopts z's facet
// providers, and z is registered as a rasterizer and entity provider of s.
func (s *Store) AddZone(z *Zone) *Store {
	s.children = append(s.children, z)
	z.parent = s
	for _, f := range z.facets {
		s.AddFacet(f)
	}
	s.AddRasterizer(z)
	s.AddEntities(z)
	return s
}

// SetSeed sets the generation seed of s and, recursively, of every zone
// below it.
func (s *Store) SetSeed(seed int64) {
	s.seed = seed
	s.seeded = true
	for _, z := range s.children {
		z.SetSeed(seed)
	}
}

// Seed returns the generation seed and whether one was set.
func (s *Store) Seed() (int64, bool) {
	return s.seed, s.seeded
}

// Children returns the direct child zones in insertion order.
func (s *Store) Children() []*Zone {
	out := make([]*Zone, len(s.children))
	copy(out, s.children)
	return out
}

// Child returns the first direct child named name.
func (s *Store) Child(name string) (*Zone, error) {
	for _, z := range s.children {
		if z.name == name {
			return z, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrNoZone, name)
}

// Generate runs the facet providers, then the rasterizers, and returns the
// entities to spawn in r.
func (s *Store) Generate(r *Region) []any {
	for _, f := range s.facets {
		f.Process(r, s.seed)
	}
	for _, rz := range s.rasterizers {
		rz.Rasterize(r)
	}
	var out []any
	for _, e := range s.entities {
		out = append(out, e.Entities(r)...)
	}
	return out
}

// Zone is a named part of the world contributing its own providers.
type Zone struct {
	Store
	name     string
	contains func(mathtypes.Vector3i) bool
	parent   *Store
}

// NewZone returns a zone named name. contains limits the zone to the chunk
// positions it accepts; nil means everywhere.
func NewZone(name string, contains func(mathtypes.Vector3i) bool) *Zone {
	return &Zone{name: name, contains: contains}
}

// Name returns the zone name.
func (z *Zone) Name() string { return z.name }

// Parent returns the store z was added to, or nil.
func (z *Zone) Parent() *Store { return z.parent }

// Contains reports whether the zone covers pos.
func (z *Zone) Contains(pos mathtypes.Vector3i) bool {
	return z.contains == nil || z.contains(pos)
}

// Rasterize runs the zone's rasterizers for regions the zone covers.
func (z *Zone) Rasterize(r *Region) {
	if !z.Contains(r.Pos) {
		return
	}
	for _, rz := range z.rasterizers {
		rz.Rasterize(r)
	}
}

// Entities collects the zone's entities for regions the zone covers.
func (z *Zone) Entities(r *Region) []any {
	if !z.Contains(r.Pos) {
		return nil
	}
	var out []any
	for _, e := range z.entities {
		out = append(out, e.Entities(r)...)
	}
	return out
}
