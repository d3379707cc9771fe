// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package model

import (
	"github.com/juju/errors"
)

// RelationData is a mapping view over the data one participant has
// published on one relation. The full settings map is fetched from the
// backend on the first access of any kind and then served from memory
// for the rest of the hook invocation; successful writes update the
// local copy in place, so no re-fetch ever happens.
//
// Writes are permitted only for participants representing us: our unit
// always, our application only while we hold leadership. Anything else
// fails with ErrRelationData before the backend is involved.
type RelationData struct {
	backend  Backend
	relation *Relation
	entity   Entity

	ourUnit *Unit
	ourApp  *Application

	loaded bool
	data   map[string]string
}

func newRelationData(backend Backend, relation *Relation, entity Entity, ourUnit *Unit, ourApp *Application) *RelationData {
	return &RelationData{
		backend:  backend,
		relation: relation,
		entity:   entity,
		ourUnit:  ourUnit,
		ourApp:   ourApp,
	}
}

// deadRelationData returns a view pre-loaded empty: the controller no
// longer knows the relation id, so there is nothing to fetch.
func deadRelationData(backend Backend, relation *Relation, entity Entity, ourUnit *Unit, ourApp *Application) *RelationData {
	d := newRelationData(backend, relation, entity, ourUnit, ourApp)
	d.loaded = true
	d.data = make(map[string]string)
	return d
}

// Entity returns the participant whose data this view exposes.
func (d *RelationData) Entity() Entity {
	return d.entity
}

func (d *RelationData) load() error {
	if d.loaded {
		return nil
	}
	data, err := d.backend.RelationGet(d.relation.id, d.entity.Name(), d.entity.isApp())
	if err != nil {
		return errors.Trace(err)
	}
	if data == nil {
		data = make(map[string]string)
	}
	d.data = data
	d.loaded = true
	return nil
}

// Map returns a copy of the full settings map.
func (d *RelationData) Map() (map[string]string, error) {
	if err := d.load(); err != nil {
		return nil, errors.Trace(err)
	}
	snapshot := make(map[string]string, len(d.data))
	for k, v := range d.data {
		snapshot[k] = v
	}
	return snapshot, nil
}

// Get returns the value published under key, and whether the key is
// present at all. A missing key is not an error.
func (d *RelationData) Get(key string) (string, bool, error) {
	if err := d.load(); err != nil {
		return "", false, errors.Trace(err)
	}
	value, ok := d.data[key]
	return value, ok, nil
}

// Has reports whether the key is present.
func (d *RelationData) Has(key string) (bool, error) {
	_, ok, err := d.Get(key)
	return ok, errors.Trace(err)
}

// Set publishes value under key. An empty value is the deletion
// convention: the backend still receives a set call, and the key
// disappears from the view.
func (d *RelationData) Set(key, value string) error {
	if err := d.checkWritable(); err != nil {
		return errors.Trace(err)
	}
	if key == "" {
		return errors.WithType(errors.New("relation data key must not be empty"), ErrRelationData)
	}
	if err := d.load(); err != nil {
		return errors.Trace(err)
	}
	if err := d.backend.RelationSet(d.relation.id, key, value, d.entity.isApp()); err != nil {
		// The backend's own rejection reaches the caller unchanged;
		// the local copy stays as it was.
		return errors.Trace(err)
	}
	if value == "" {
		delete(d.data, key)
	} else {
		d.data[key] = value
	}
	return nil
}

// Delete unpublishes key. It is expressed as writing an empty value,
// not a distinct backend operation.
func (d *RelationData) Delete(key string) error {
	return errors.Trace(d.Set(key, ""))
}

func (d *RelationData) checkWritable() error {
	switch {
	case d.entity == Entity(d.ourUnit):
		return nil
	case d.entity == Entity(d.ourApp):
		leader, err := d.backend.IsLeader()
		if err != nil {
			return errors.Annotate(err, "leadership status unknown")
		}
		if !leader {
			return errors.WithType(
				errors.Errorf("cannot write relation data for %q without leadership", d.entity.Name()),
				ErrRelationData)
		}
		return nil
	}
	return errors.WithType(
		errors.Errorf("cannot write relation data for remote entity %q", d.entity.Name()),
		ErrRelationData)
}
