// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package model

import (
	"github.com/juju/errors"
	"github.com/juju/names/v5"

	"github.com/juju/operator/core/status"
)

// Entity is a participant in the model: a Unit or an Application.
// Entities are interned, so two lookups of the same name yield the
// same pointer and may be compared directly.
type Entity interface {
	// Name returns the entity's name, e.g. "mysql/0" or "mysql".
	Name() string

	isApp() bool
}

// entityCache interns Unit and Application objects by name. Relation
// membership and data permissions rely on pointer identity, so the
// same name must always resolve to the same object.
type entityCache struct {
	backend Backend

	ourUnitName string
	ourAppName  string

	units map[string]*Unit
	apps  map[string]*Application
}

func newEntityCache(backend Backend, ourUnitName string) (*entityCache, error) {
	if !names.IsValidUnit(ourUnitName) {
		return nil, errors.NotValidf("unit name %q", ourUnitName)
	}
	appName, err := names.UnitApplication(ourUnitName)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &entityCache{
		backend:     backend,
		ourUnitName: ourUnitName,
		ourAppName:  appName,
		units:       make(map[string]*Unit),
		apps:        make(map[string]*Application),
	}, nil
}

func (c *entityCache) unit(name string) (*Unit, error) {
	if u, ok := c.units[name]; ok {
		return u, nil
	}
	if !names.IsValidUnit(name) {
		return nil, errors.NotValidf("unit name %q", name)
	}
	appName, err := names.UnitApplication(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	u := &Unit{
		name:    name,
		app:     c.application(appName),
		backend: c.backend,
		ourUnit: name == c.ourUnitName,
	}
	c.units[name] = u
	return u, nil
}

func (c *entityCache) application(name string) *Application {
	if a, ok := c.apps[name]; ok {
		return a
	}
	a := &Application{
		name:    name,
		backend: c.backend,
		ourApp:  name == c.ourAppName,
	}
	c.apps[name] = a
	return a
}

// Unit represents a single running instance of an application.
type Unit struct {
	name    string
	app     *Application
	backend Backend
	ourUnit bool

	// setStatus holds the status most recently recorded through
	// SetStatus, so reads after a successful write need no further
	// status-get round trip.
	setStatus *status.Info
}

// Name returns the unit's name, in the form "app-name/0".
func (u *Unit) Name() string {
	return u.name
}

func (u *Unit) isApp() bool {
	return false
}

// Application returns the application this unit is an instance of.
func (u *Unit) Application() *Application {
	return u.app
}

// IsOurUnit reports whether this is the unit the current hook is
// running for.
func (u *Unit) IsOurUnit() bool {
	return u.ourUnit
}

// IsLeader reports whether this unit currently holds leadership of its
// application. Leadership can only be determined for our own unit.
func (u *Unit) IsLeader() (bool, error) {
	if !u.ourUnit {
		return false, errors.Errorf("cannot determine leadership status of remote unit %q", u.name)
	}
	leader, err := u.backend.IsLeader()
	if err != nil {
		return false, errors.Annotate(err, "leadership status unknown")
	}
	return leader, nil
}

// Status returns the unit's workload status. Only our own unit's
// status can be read.
func (u *Unit) Status() (status.Info, error) {
	if !u.ourUnit {
		return status.Info{}, errors.Errorf("cannot read status of remote unit %q", u.name)
	}
	if u.setStatus != nil {
		return *u.setStatus, nil
	}
	st, err := u.backend.StatusGet(false)
	if err != nil {
		return status.Info{}, errors.Trace(err)
	}
	return st, nil
}

// SetStatus records the unit's workload status. Only our own unit's
// status can be set.
func (u *Unit) SetStatus(st status.Info) error {
	if !u.ourUnit {
		return errors.Errorf("cannot set status of remote unit %q", u.name)
	}
	if err := st.Validate(); err != nil {
		return errors.Trace(err)
	}
	if err := u.backend.StatusSet(st, false); err != nil {
		return errors.Trace(err)
	}
	u.setStatus = &st
	return nil
}

// Application represents a named deployed charm, composed of one or
// more units.
type Application struct {
	name    string
	backend Backend
	ourApp  bool

	setStatus *status.Info
}

// Name returns the application's name.
func (a *Application) Name() string {
	return a.name
}

func (a *Application) isApp() bool {
	return true
}

// IsOurApp reports whether this is the application the current hook's
// unit belongs to.
func (a *Application) IsOurApp() bool {
	return a.ourApp
}

// Status returns the application's workload status. A remote
// application's status is always Unknown. Reading our own
// application's status demands leadership, checked freshly on every
// read.
func (a *Application) Status() (status.Info, error) {
	if !a.ourApp {
		return status.UnknownStatus(), nil
	}
	if err := a.checkLeadership(); err != nil {
		return status.Info{}, errors.Trace(err)
	}
	if a.setStatus != nil {
		return *a.setStatus, nil
	}
	st, err := a.backend.StatusGet(true)
	if err != nil {
		return status.Info{}, errors.Trace(err)
	}
	return st, nil
}

// SetStatus records the application's workload status. Only the leader
// of our own application may set it; leadership is checked freshly on
// every write, before any status call.
func (a *Application) SetStatus(st status.Info) error {
	if !a.ourApp {
		return errors.Errorf("cannot set status of remote application %q", a.name)
	}
	if err := st.Validate(); err != nil {
		return errors.Trace(err)
	}
	if err := a.checkLeadership(); err != nil {
		return errors.Trace(err)
	}
	if err := a.backend.StatusSet(st, true); err != nil {
		return errors.Trace(err)
	}
	a.setStatus = &st
	return nil
}

// checkLeadership demands a fresh leadership answer, bypassing the
// backend's leadership cache.
func (a *Application) checkLeadership() error {
	a.backend.RefreshLeadership()
	leader, err := a.backend.IsLeader()
	if err != nil {
		return errors.Annotate(err, "leadership status unknown")
	}
	if !leader {
		return errors.Errorf("cannot access status of application %q: not the leader", a.name)
	}
	return nil
}
