// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hooktesting provides fake hook tools for tests: shell stubs
// placed on the PATH which record exactly how they were invoked.
package hooktesting

import (
	"os"
	"path/filepath"
	"strings"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

// PathPatcher prepends a directory to the PATH for the duration of a
// test. jujutesting.IsolationSuite satisfies it.
type PathPatcher interface {
	PatchEnvPathPrepend(string)
}

// Scripts manages a directory of fake hook tools. Each tool appends a
// line "name;arg;arg;..." to calls.txt before running its script body,
// so tests can assert the exact argv of every invocation.
type Scripts struct {
	dir string
}

// NewScripts returns a Scripts whose directory is on the PATH until
// the end of the test.
func NewScripts(c *gc.C, patcher PathPatcher) *Scripts {
	dir := c.MkDir()
	patcher.PatchEnvPathPrepend(dir)
	return &Scripts{dir: dir}
}

const preamble = `#!/bin/bash
{ printf '%s' "${0##*/}"; for a in "$@"; do printf ';%s' "$a"; done; printf '\n'; } >> "${0%/*}/calls.txt"
`

// Add installs a fake hook tool with the given shell body. Installing
// the same name again replaces it.
func (s *Scripts) Add(c *gc.C, name, script string) {
	err := os.WriteFile(filepath.Join(s.dir, name), []byte(preamble+script+"\n"), 0755)
	c.Assert(err, jc.ErrorIsNil)
}

// Path returns the location of a file inside the scripts directory.
func (s *Scripts) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Calls returns every recorded invocation, one argv per entry.
func (s *Scripts) Calls(c *gc.C) [][]string {
	data, err := os.ReadFile(filepath.Join(s.dir, "calls.txt"))
	if os.IsNotExist(err) {
		return nil
	}
	c.Assert(err, jc.ErrorIsNil)
	var calls [][]string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		calls = append(calls, strings.Split(line, ";"))
	}
	return calls
}

// ResetCalls clears the recorded invocations.
func (s *Scripts) ResetCalls(c *gc.C) {
	err := os.Remove(filepath.Join(s.dir, "calls.txt"))
	if !os.IsNotExist(err) {
		c.Assert(err, jc.ErrorIsNil)
	}
}
