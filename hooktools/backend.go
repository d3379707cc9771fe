// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hooktools implements the model backend on top of the hook
// tools Juju places on the PATH of a running hook: every read and
// write becomes a subprocess invocation of relation-get, relation-set,
// status-set, is-leader and friends.
package hooktools

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/operator/core/status"
	"github.com/juju/operator/model"
)

var logger = loggo.GetLogger("operator.hooktools")

// leaseRenewalPeriod is how long a positive or negative is-leader
// answer may be reused: the tool guarantees leadership for at least 30
// seconds, so within that window no re-check is needed.
const leaseRenewalPeriod = 30 * time.Second

// relationNotFoundSnippet is the stderr fragment the hook tools emit
// when invoked with a relation id the controller no longer knows.
const relationNotFoundSnippet = "relation not found"

// Config holds dependencies of a Backend.
type Config struct {
	// Clock is used for the leadership check window. Defaults to
	// clock.WallClock.
	Clock clock.Clock
}

// Backend runs hook tools as subprocesses and implements
// model.Backend. It holds no state besides the leadership check
// timestamp.
type Backend struct {
	clock clock.Clock

	leader        bool
	leaderChecked time.Time
}

// NewBackend returns a Backend using the given configuration.
func NewBackend(cfg Config) *Backend {
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	return &Backend{clock: cfg.Clock}
}

// UnitNameFromEnv returns the name of the unit the current hook is
// running for, as set by the orchestrator in JUJU_UNIT_NAME.
func UnitNameFromEnv() (string, error) {
	name := os.Getenv("JUJU_UNIT_NAME")
	if name == "" {
		return "", errors.NotFoundf("JUJU_UNIT_NAME in environment")
	}
	return name, nil
}

// run executes a hook tool and classifies its outcome: exit 0 yields
// stdout; a failure mentioning the relation-not-found error text
// yields ErrRelationNotFound; anything else yields ErrModel carrying
// the stderr text.
func (b *Backend) run(tool string, args ...string) ([]byte, error) {
	logger.Tracef("running %s %s", tool, strings.Join(args, " "))
	cmd := exec.Command(tool, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = err.Error()
		}
		logger.Debugf("%s failed: %s", tool, message)
		if strings.Contains(message, relationNotFoundSnippet) {
			return nil, errors.WithType(errors.New(message), model.ErrRelationNotFound)
		}
		return nil, errors.WithType(errors.Annotatef(errors.New(message), "running %s", tool), model.ErrModel)
	}
	return stdout.Bytes(), nil
}

// runJSON executes a hook tool with --format=json appended and decodes
// stdout into result. Empty output leaves result untouched.
func (b *Backend) runJSON(result interface{}, tool string, args ...string) error {
	out, err := b.run(tool, append(args, "--format=json")...)
	if err != nil {
		return errors.Trace(err)
	}
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil
	}
	if err := json.Unmarshal(out, result); err != nil {
		return errors.Annotatef(err, "parsing %s output", tool)
	}
	return nil
}

// RelationIDs implements model.Backend. The tool reports composite ids
// of the form "endpoint:id"; only the integer part is meaningful here.
func (b *Backend) RelationIDs(name string) ([]int, error) {
	var composites []string
	if err := b.runJSON(&composites, "relation-ids", name); err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]int, 0, len(composites))
	for _, composite := range composites {
		i := strings.LastIndex(composite, ":")
		if i < 0 {
			return nil, errors.Errorf("malformed relation id %q", composite)
		}
		id, err := strconv.Atoi(composite[i+1:])
		if err != nil {
			return nil, errors.Annotatef(err, "malformed relation id %q", composite)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RelationList implements model.Backend.
func (b *Backend) RelationList(id int) ([]string, error) {
	var units []string
	if err := b.runJSON(&units, "relation-list", "-r", strconv.Itoa(id)); err != nil {
		return nil, errors.Trace(err)
	}
	return units, nil
}

// RelationGet implements model.Backend.
func (b *Backend) RelationGet(id int, member string, isApp bool) (map[string]string, error) {
	var data map[string]string
	err := b.runJSON(&data, "relation-get",
		"-r", strconv.Itoa(id), "-", member, "--app="+strconv.FormatBool(isApp))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return data, nil
}

// RelationSet implements model.Backend.
func (b *Backend) RelationSet(id int, key, value string, isApp bool) error {
	_, err := b.run("relation-set",
		"-r", strconv.Itoa(id), key+"="+value, "--app="+strconv.FormatBool(isApp))
	return errors.Trace(err)
}

// ConfigGet implements model.Backend.
func (b *Backend) ConfigGet() (map[string]interface{}, error) {
	var config map[string]interface{}
	if err := b.runJSON(&config, "config-get"); err != nil {
		return nil, errors.Trace(err)
	}
	return config, nil
}

// IsLeader implements model.Backend. A successful check is reused
// until the renewal window elapses; RefreshLeadership forces the next
// call through to the tool.
func (b *Backend) IsLeader() (bool, error) {
	now := b.clock.Now()
	if !b.leaderChecked.IsZero() && now.Sub(b.leaderChecked) < leaseRenewalPeriod {
		return b.leader, nil
	}
	var leader bool
	if err := b.runJSON(&leader, "is-leader"); err != nil {
		return false, errors.Trace(err)
	}
	b.leader = leader
	b.leaderChecked = now
	return leader, nil
}

// RefreshLeadership implements model.Backend.
func (b *Backend) RefreshLeadership() {
	b.leaderChecked = time.Time{}
}

// ResourceGet implements model.Backend. The tool prints the path as
// plain text, not JSON.
func (b *Backend) ResourceGet(name string) (string, error) {
	out, err := b.run("resource-get", name)
	if err != nil {
		return "", errors.Trace(err)
	}
	return string(bytes.TrimSpace(out)), nil
}

// PodSpecSet implements model.Backend. The documents are passed to the
// tool through temporary files, which are removed again on every exit
// path.
func (b *Backend) PodSpecSet(spec, k8sResources map[string]interface{}) error {
	specPath, err := writeTempJSON("podspec-", spec)
	if err != nil {
		return errors.Trace(err)
	}
	defer os.Remove(specPath)
	args := []string{"--file", specPath}
	if k8sResources != nil {
		resourcesPath, err := writeTempJSON("podspec-k8sres-", k8sResources)
		if err != nil {
			return errors.Trace(err)
		}
		defer os.Remove(resourcesPath)
		args = append(args, "--k8s-resources-file", resourcesPath)
	}
	_, err = b.run("pod-spec-set", args...)
	return errors.Trace(err)
}

func writeTempJSON(prefix string, doc map[string]interface{}) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Trace(err)
	}
	f, err := os.CreateTemp("", prefix)
	if err != nil {
		return "", errors.Trace(err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.Trace(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", errors.Trace(err)
	}
	return f.Name(), nil
}

// StatusGet implements model.Backend.
func (b *Backend) StatusGet(isApp bool) (status.Info, error) {
	var payload struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	err := b.runJSON(&payload, "status-get", "--application="+strconv.FormatBool(isApp))
	if err != nil {
		return status.Info{}, errors.Trace(err)
	}
	if payload.Status == "" {
		return status.UnknownStatus(), nil
	}
	st := status.Status(payload.Status)
	if !status.KnownWorkloadStatus(st) {
		return status.Info{}, errors.WithType(
			errors.Errorf("status-get reported unknown status %q", payload.Status), model.ErrModel)
	}
	return status.Info{Status: st, Message: payload.Message}, nil
}

// StatusSet implements model.Backend. Kind validation is left to the
// tool so that its own rejection surfaces the same way as any other
// tool failure.
func (b *Backend) StatusSet(st status.Info, isApp bool) error {
	_, err := b.run("status-set",
		"--application="+strconv.FormatBool(isApp), st.Status.String(), st.Message)
	return errors.Trace(err)
}
