// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package model

import (
	"github.com/juju/errors"
)

// Pod pushes pod specs for the application. The operation is
// write-only: there is no corresponding read.
type Pod struct {
	backend Backend
}

// SetSpec pushes the given pod spec.
func (p *Pod) SetSpec(spec map[string]interface{}) error {
	return errors.Trace(p.backend.PodSpecSet(spec, nil))
}

// SetSpecWithResources pushes the given pod spec along with raw
// Kubernetes resource definitions.
func (p *Pod) SetSpecWithResources(spec, k8sResources map[string]interface{}) error {
	return errors.Trace(p.backend.PodSpecSet(spec, k8sResources))
}
