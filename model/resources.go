// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package model

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/operator/charm"
)

// Resources fetches the filesystem paths of the charm's declared
// resources. Paths are cached per name after the first successful
// fetch.
type Resources struct {
	backend Backend
	names   set.Strings
	paths   map[string]string
}

func newResources(backend Backend, meta *charm.Meta) *Resources {
	names := set.NewStrings()
	for name := range meta.Resources {
		names.Add(name)
	}
	return &Resources{
		backend: backend,
		names:   names,
		paths:   make(map[string]string),
	}
}

// Names returns the declared resource names in sorted order.
func (r *Resources) Names() []string {
	return r.names.SortedValues()
}

// Fetch returns the local path of the named resource. Asking for a
// name the charm metadata does not declare is a programming error, not
// a backend failure.
func (r *Resources) Fetch(name string) (string, error) {
	if !r.names.Contains(name) {
		return "", errors.NotFoundf("resource %q not declared in metadata", name)
	}
	if path, ok := r.paths[name]; ok {
		return path, nil
	}
	path, err := r.backend.ResourceGet(name)
	if err != nil {
		return "", errors.Trace(err)
	}
	r.paths[name] = path
	return path, nil
}
