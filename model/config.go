// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package model

import (
	"sort"
)

// ConfigData is a read-only snapshot of the charm's configuration.
// There is deliberately no mutator: configuration belongs to the
// controller and only changes between hook invocations.
type ConfigData struct {
	data map[string]interface{}
}

// Get returns the raw value for key.
func (c ConfigData) Get(key string) (interface{}, bool) {
	v, ok := c.data[key]
	return v, ok
}

// String returns the value for key if it is a string option.
func (c ConfigData) String(key string) (string, bool) {
	s, ok := c.data[key].(string)
	return s, ok
}

// Int returns the value for key if it is an integer option. JSON
// decoding may have produced any numeric type for it.
func (c ConfigData) Int(key string) (int64, bool) {
	switch v := c.data[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

// Bool returns the value for key if it is a boolean option.
func (c ConfigData) Bool(key string) (bool, bool) {
	b, ok := c.data[key].(bool)
	return b, ok
}

// Keys returns the configured option names in sorted order.
func (c ConfigData) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the whole snapshot.
func (c ConfigData) Map() map[string]interface{} {
	snapshot := make(map[string]interface{}, len(c.data))
	for k, v := range c.data {
		snapshot[k] = v
	}
	return snapshot
}
