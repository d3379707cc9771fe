// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package status defines the workload statuses a charm can report.
// The set is closed: the status-set hook tool rejects anything else.
package status

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"
)

// Status represents the workload status of a unit or application.
type Status string

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

const (
	// Unknown is set when the charm has not yet reported a status,
	// and is what remote applications always report as.
	Unknown Status = "unknown"

	// Active is set when the charm is happily providing its service.
	Active Status = "active"

	// Maintenance is set when the charm is performing some work, such
	// as installing or upgrading software, and is not yet providing
	// its service.
	Maintenance Status = "maintenance"

	// Blocked is set when the charm needs manual intervention, such
	// as missing configuration or a missing relation, to proceed.
	Blocked Status = "blocked"

	// Waiting is set when the charm is waiting on something it
	// integrates with to make progress, with no operator action
	// required.
	Waiting Status = "waiting"
)

var knownWorkloadStatuses = set.NewStrings(
	Unknown.String(),
	Active.String(),
	Maintenance.String(),
	Blocked.String(),
	Waiting.String(),
)

// KnownWorkloadStatus reports whether the given status is one a
// workload may hold.
func KnownWorkloadStatus(status Status) bool {
	return knownWorkloadStatuses.Contains(status.String())
}

// Info holds a Status and its associated message.
type Info struct {
	Status  Status
	Message string
}

// New returns an Info for the given status and message, ensuring the
// status is a known workload status and that the message is permitted
// for it. Unknown and Active carry no message.
func New(status Status, message string) (Info, error) {
	if !KnownWorkloadStatus(status) {
		return Info{}, errors.NotValidf("status %q", status)
	}
	if message != "" && (status == Unknown || status == Active) {
		return Info{}, errors.NotValidf("message %q for status %q", message, status)
	}
	return Info{Status: status, Message: message}, nil
}

// UnknownStatus returns the status reported before the charm has set
// one, or for entities whose status cannot be known.
func UnknownStatus() Info {
	return Info{Status: Unknown}
}

// ActiveStatus returns the status of a workload providing its service.
func ActiveStatus() Info {
	return Info{Status: Active}
}

// MaintenanceStatus returns a maintenance status with the given message.
func MaintenanceStatus(message string) Info {
	return Info{Status: Maintenance, Message: message}
}

// BlockedStatus returns a blocked status with the given message.
func BlockedStatus(message string) Info {
	return Info{Status: Blocked, Message: message}
}

// WaitingStatus returns a waiting status with the given message.
func WaitingStatus(message string) Info {
	return Info{Status: Waiting, Message: message}
}

// Validate checks that the Info could have been produced by New.
func (i Info) Validate() error {
	_, err := New(i.Status, i.Message)
	return errors.Trace(err)
}
