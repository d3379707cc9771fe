// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package model

import (
	"github.com/juju/errors"
)

const (
	// ErrModel is raised when a hook tool fails for any reason not
	// covered by a more specific error. The wrapped cause carries the
	// tool's stderr output.
	ErrModel = errors.ConstError("model operation failed")

	// ErrRelationNotFound is raised when a hook tool reports that the
	// relation id it was invoked with is not known to the controller.
	ErrRelationNotFound = errors.ConstError("relation not found")

	// ErrRelationData is raised on a relation data write that violates
	// the local permission or validity rules, before any hook tool is
	// invoked.
	ErrRelationData = errors.ConstError("invalid relation data access")

	// ErrTooManyRelatedApps is raised when an endpoint expected to be
	// bound to at most one application is bound to several and the
	// caller did not say which relation it meant.
	ErrTooManyRelatedApps = errors.ConstError("too many related applications")
)
