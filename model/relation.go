// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package model

import (
	"github.com/juju/errors"
)

// Relation represents an established integration between two
// application endpoints, identified by an id. A Relation whose id is
// no longer known to the controller is "dead": it can still be
// inspected, with empty local data and no remote participants.
type Relation struct {
	name string
	id   int

	units []*Unit
	app   *Application

	data map[Entity]*RelationData
}

// newRelation builds the view of one relation id: its remote units,
// the remote application, and the data views for every participant.
// A relation id the backend no longer knows yields a dead relation
// rather than an error.
func newRelation(backend Backend, name string, id int, cache *entityCache) (*Relation, error) {
	r := &Relation{
		name: name,
		id:   id,
		data: make(map[Entity]*RelationData),
	}
	ourUnit, err := cache.unit(cache.ourUnitName)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ourApp := ourUnit.Application()

	unitNames, err := backend.RelationList(id)
	if err != nil && !errors.Is(err, ErrRelationNotFound) {
		return nil, errors.Trace(err)
	}
	if errors.Is(err, ErrRelationNotFound) {
		// Dead relation: only the local participants remain
		// addressable, and their data is known to be empty.
		r.data[ourUnit] = deadRelationData(backend, r, ourUnit, ourUnit, ourApp)
		r.data[ourApp] = deadRelationData(backend, r, ourApp, ourUnit, ourApp)
		return r, nil
	}

	r.data[ourUnit] = newRelationData(backend, r, ourUnit, ourUnit, ourApp)
	r.data[ourApp] = newRelationData(backend, r, ourApp, ourUnit, ourApp)
	for _, unitName := range unitNames {
		u, err := cache.unit(unitName)
		if err != nil {
			return nil, errors.Trace(err)
		}
		r.units = append(r.units, u)
		r.data[u] = newRelationData(backend, r, u, ourUnit, ourApp)
		if r.app == nil {
			// An endpoint binds a single remote application at a
			// time, so every remote unit shares it.
			r.app = u.Application()
			r.data[r.app] = newRelationData(backend, r, r.app, ourUnit, ourApp)
		}
	}
	return r, nil
}

// Name returns the endpoint name this relation is established on.
func (r *Relation) Name() string {
	return r.name
}

// ID returns the relation's id, as assigned by the controller.
func (r *Relation) ID() int {
	return r.id
}

// Units returns the remote units participating in the relation, in
// the order the controller reports them. It is empty for a dead
// relation.
func (r *Relation) Units() []*Unit {
	return r.units
}

// Application returns the remote application on the other side of the
// relation, or nil when there is none.
func (r *Relation) Application() *Application {
	return r.app
}

// Data returns the relation data view for the given participant. The
// participant must be our unit, our application, one of the remote
// units, or the remote application.
func (r *Relation) Data(entity Entity) (*RelationData, error) {
	if entity == nil {
		return nil, errors.NotValidf("nil relation participant")
	}
	d, ok := r.data[entity]
	if !ok {
		return nil, errors.NotFoundf("relation data for %q", entity.Name())
	}
	return d, nil
}
