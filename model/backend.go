// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package model

import (
	"github.com/juju/operator/core/status"
)

// Backend abstracts the hook-tool command surface the model reads and
// writes through. The hooktools package provides the production
// implementation; tests substitute their own.
//
// Identity-scoped operations take an isApp flag selecting between the
// unit- and application-scoped variants of the same tool. Relation ids
// are plain integers as assigned by the controller.
type Backend interface {
	// RelationIDs returns the ids of all relations currently bound to
	// the named endpoint.
	RelationIDs(name string) ([]int, error)

	// RelationList returns the names of the remote units participating
	// in the given relation.
	RelationList(id int) ([]string, error)

	// RelationGet returns the full settings map the named member has
	// published on the given relation.
	RelationGet(id int, member string, isApp bool) (map[string]string, error)

	// RelationSet publishes a single key on the given relation, scoped
	// to the local unit or, with isApp, the local application. An empty
	// value unsets the key.
	RelationSet(id int, key, value string, isApp bool) error

	// ConfigGet returns the charm's current configuration.
	ConfigGet() (map[string]interface{}, error)

	// IsLeader reports whether the local unit holds leadership of its
	// application. Implementations may serve a cached answer within
	// the leadership guarantee window.
	IsLeader() (bool, error)

	// RefreshLeadership discards any cached leadership answer so that
	// the next IsLeader call consults the controller.
	RefreshLeadership()

	// ResourceGet returns the local filesystem path of the named
	// resource, downloading it if necessary.
	ResourceGet(name string) (string, error)

	// PodSpecSet pushes the pod spec, and optionally a set of
	// Kubernetes resource definitions, for the application.
	PodSpecSet(spec, k8sResources map[string]interface{}) error

	// StatusGet returns the workload status of the local unit or, with
	// isApp, the local application.
	StatusGet(isApp bool) (status.Info, error)

	// StatusSet records the workload status of the local unit or, with
	// isApp, the local application.
	StatusSet(st status.Info, isApp bool) error
}
