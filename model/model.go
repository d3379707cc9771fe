// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package model presents the unit's view of the Juju model (units,
// applications, relations and their data, leadership, status,
// resources and pod specs) as an object graph backed by the hook-tool
// command surface. Access is lazy and cached for the lifetime of the
// hook invocation; a charm is re-invoked fresh for every event, so no
// cache here ever needs invalidating except the backend's own
// leadership window.
package model

import (
	"sort"

	"github.com/juju/errors"

	"github.com/juju/operator/charm"
)

// Model is the root of the object graph for one hook invocation.
type Model struct {
	backend Backend
	meta    *charm.Meta
	cache   *entityCache

	unit *Unit

	relations map[string][]*Relation

	config       ConfigData
	configLoaded bool

	resources *Resources
	pod       *Pod
}

// NewModel returns a Model for the given unit, charm metadata and
// backend. The unit name is normally discovered from the environment
// with hooktools.UnitNameFromEnv.
func NewModel(unitName string, meta *charm.Meta, backend Backend) (*Model, error) {
	if meta == nil {
		return nil, errors.NotValidf("nil charm metadata")
	}
	cache, err := newEntityCache(backend, unitName)
	if err != nil {
		return nil, errors.Trace(err)
	}
	unit, err := cache.unit(unitName)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Model{
		backend:   backend,
		meta:      meta,
		cache:     cache,
		unit:      unit,
		relations: make(map[string][]*Relation),
		resources: newResources(backend, meta),
		pod:       &Pod{backend: backend},
	}, nil
}

// Unit returns the unit the current hook is running for.
func (m *Model) Unit() *Unit {
	return m.unit
}

// Application returns the application our unit belongs to.
func (m *Model) Application() *Application {
	return m.unit.Application()
}

// Relations returns all relations established on the named endpoint,
// ordered by ascending relation id (creation order). The listing is
// fetched once and then cached. The endpoint must be declared in the
// charm metadata.
func (m *Model) Relations(name string) ([]*Relation, error) {
	if rels, ok := m.relations[name]; ok {
		return rels, nil
	}
	if !m.meta.RelationNames().Contains(name) {
		return nil, errors.NotFoundf("relation endpoint %q", name)
	}
	ids, err := m.backend.RelationIDs(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	sort.Ints(ids)
	rels := []*Relation{}
	for _, id := range ids {
		rel, err := newRelation(m.backend, name, id, m.cache)
		if err != nil {
			return nil, errors.Trace(err)
		}
		rels = append(rels, rel)
	}
	m.relations[name] = rels
	return rels, nil
}

// Relation returns the single relation established on the named
// endpoint: nil when there is none, and ErrTooManyRelatedApps when
// there are several, since an endpoint is expected to bind at most one
// application unless the charm explicitly handles more.
func (m *Model) Relation(name string) (*Relation, error) {
	rels, err := m.Relations(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	switch len(rels) {
	case 0:
		return nil, nil
	case 1:
		return rels[0], nil
	}
	return nil, errors.Annotatef(ErrTooManyRelatedApps, "endpoint %q has %d relations", name, len(rels))
}

// RelationWithID returns the relation with the given id on the named
// endpoint. An id that is no longer live yields a dead Relation, with
// empty local data and no remote participants, rather than an error,
// so a relation observed earlier can always still be inspected.
func (m *Model) RelationWithID(name string, id int) (*Relation, error) {
	rels, err := m.Relations(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for _, rel := range rels {
		if rel.ID() == id {
			return rel, nil
		}
	}
	return newRelation(m.backend, name, id, m.cache)
}

// Config returns the charm's configuration, fetched once per hook
// invocation.
func (m *Model) Config() (ConfigData, error) {
	if m.configLoaded {
		return m.config, nil
	}
	raw, err := m.backend.ConfigGet()
	if err != nil {
		return ConfigData{}, errors.Trace(err)
	}
	m.config = ConfigData{data: raw}
	m.configLoaded = true
	return m.config, nil
}

// Resources returns the accessor for the charm's declared resources.
func (m *Model) Resources() *Resources {
	return m.resources
}

// Pod returns the accessor for the application's pod spec.
func (m *Model) Pod() *Pod {
	return m.pod
}
