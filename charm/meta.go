// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charm provides the parts of a charm's metadata.yaml that the
// model layer needs: the relation endpoints declared by the charm and
// the resources it may fetch.
package charm

import (
	"io"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/yaml.v3"
)

const (
	ScopeGlobal    = "global"
	ScopeContainer = "container"
)

// Relation represents a single relation endpoint defined in the charm
// metadata.yaml file.
type Relation struct {
	Interface string
	Optional  bool
	Limit     int
	Scope     string
}

// Resource represents a single resource declared in the charm
// metadata.yaml file.
type Resource struct {
	Type        string
	Filename    string
	Description string
}

// Meta represents all the known content that may be defined
// within a charm's metadata.yaml file.
type Meta struct {
	Name        string
	Summary     string
	Description string
	Subordinate bool
	Provides    map[string]Relation
	Requires    map[string]Relation
	Peers       map[string]Relation
	Resources   map[string]Resource
}

// ReadMeta reads the content of a metadata.yaml file and returns
// its representation.
func ReadMeta(r io.Reader) (*Meta, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	raw := make(map[interface{}]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Annotate(err, "metadata")
	}
	v, err := charmSchema.Coerce(raw, nil)
	if err != nil {
		return nil, errors.Annotate(err, "metadata")
	}
	m := v.(map[string]interface{})
	meta := &Meta{
		Name:        m["name"].(string),
		Summary:     m["summary"].(string),
		Description: m["description"].(string),
		Provides:    parseRelations(m["provides"]),
		Requires:    parseRelations(m["requires"]),
		Peers:       parseRelations(m["peers"]),
		Resources:   parseResources(m["resources"]),
	}
	if names := meta.duplicateRelationNames(); len(names) != 0 {
		return nil, errors.Errorf("metadata: relation names must be unique, got duplicates: %v", names)
	}
	// Subordinate charms must have at least one relation with
	// container scope, otherwise they can't relate to the principal.
	if subordinate := m["subordinate"]; subordinate != nil {
		valid := false
		for _, rel := range meta.Requires {
			if rel.Scope == ScopeContainer {
				valid = true
				break
			}
		}
		if !valid {
			return nil, errors.Errorf("subordinate charm %q lacks requires relation with container scope", meta.Name)
		}
		meta.Subordinate = subordinate.(bool)
	}
	return meta, nil
}

// RelationNames returns the names of every relation endpoint declared
// by the charm, across the provides, requires and peers sections.
func (m *Meta) RelationNames() set.Strings {
	names := set.NewStrings()
	for name := range m.Provides {
		names.Add(name)
	}
	for name := range m.Requires {
		names.Add(name)
	}
	for name := range m.Peers {
		names.Add(name)
	}
	return names
}

// Relations returns all relation endpoints declared by the charm,
// keyed by endpoint name.
func (m *Meta) Relations() map[string]Relation {
	relations := make(map[string]Relation)
	for name, rel := range m.Provides {
		relations[name] = rel
	}
	for name, rel := range m.Requires {
		relations[name] = rel
	}
	for name, rel := range m.Peers {
		relations[name] = rel
	}
	return relations
}

func (m *Meta) duplicateRelationNames() []string {
	counts := map[string]int{}
	for name := range m.Provides {
		counts[name]++
	}
	for name := range m.Requires {
		counts[name]++
	}
	for name := range m.Peers {
		counts[name]++
	}
	var dupes []string
	for name, count := range counts {
		if count > 1 {
			dupes = append(dupes, name)
		}
	}
	return dupes
}

func parseRelations(relations interface{}) map[string]Relation {
	if relations == nil {
		return nil
	}
	result := make(map[string]Relation)
	for name, rel := range relations.(map[string]interface{}) {
		relMap := rel.(map[string]interface{})
		relation := Relation{
			Interface: relMap["interface"].(string),
			Optional:  relMap["optional"].(bool),
		}
		if scope := relMap["scope"]; scope != nil {
			relation.Scope = scope.(string)
		}
		if relMap["limit"] != nil {
			// Schema decodes as int64, but the int range is
			// more than enough for relation limits.
			relation.Limit = int(relMap["limit"].(int64))
		}
		result[name] = relation
	}
	return result
}

func parseResources(resources interface{}) map[string]Resource {
	if resources == nil {
		return nil
	}
	result := make(map[string]Resource)
	for name, res := range resources.(map[string]interface{}) {
		resource := Resource{Type: "file"}
		resMap, _ := res.(map[string]interface{})
		if t := resMap["type"]; t != nil {
			resource.Type = t.(string)
		}
		if f := resMap["filename"]; f != nil {
			resource.Filename = f.(string)
		}
		if d := resMap["description"]; d != nil {
			resource.Description = d.(string)
		}
		result[name] = resource
	}
	return result
}

// Schema coercer that expands the interface shorthand notation.
// A consistent format is easier to work with than considering the
// potential difference everywhere.
//
// Supports the following variants:
//
//	provides:
//	  server: riak
//	  admin: http
//	  foobar:
//	    interface: blah
//
//	provides:
//	  server:
//	    interface: mysql
//	    limit:
//	    optional: false
//
// In all input cases, the output is the fully specified interface
// representation as seen in the mysql interface description above.
func ifaceExpander(limit interface{}) schema.Checker {
	return ifaceExpC{limit}
}

type ifaceExpC struct {
	limit interface{}
}

var (
	stringC = schema.String()
	mapC    = schema.StringMap(schema.Any())
)

func (c ifaceExpC) Coerce(v interface{}, path []string) (newv interface{}, err error) {
	s, err := stringC.Coerce(v, path)
	if err == nil {
		newv = map[string]interface{}{
			"interface": s,
			"limit":     c.limit,
			"optional":  false,
			"scope":     ScopeGlobal,
		}
		return
	}

	// Optional values are context-sensitive and/or have
	// defaults, which is different than what KeyDict can
	// readily support. So just do it here first, then
	// coerce to the real schema.
	v, err = mapC.Coerce(v, path)
	if err != nil {
		return
	}
	m := v.(map[string]interface{})
	if _, ok := m["limit"]; !ok {
		m["limit"] = c.limit
	}
	if _, ok := m["optional"]; !ok {
		m["optional"] = false
	}
	if _, ok := m["scope"]; !ok {
		m["scope"] = ScopeGlobal
	}
	return ifaceSchema.Coerce(m, path)
}

var ifaceSchema = schema.FieldMap(
	schema.Fields{
		"interface": schema.String(),
		"limit":     schema.OneOf(schema.Const(nil), schema.Int()),
		"scope":     schema.OneOf(schema.Const(ScopeGlobal), schema.Const(ScopeContainer)),
		"optional":  schema.Bool(),
	},
	schema.Defaults{"scope": schema.Omit},
)

var resourceSchema = schema.FieldMap(
	schema.Fields{
		"type":        schema.String(),
		"filename":    schema.String(),
		"description": schema.String(),
	},
	schema.Defaults{
		"type":        schema.Omit,
		"filename":    schema.Omit,
		"description": schema.Omit,
	},
)

var charmSchema = schema.FieldMap(
	schema.Fields{
		"name":        schema.String(),
		"summary":     schema.String(),
		"description": schema.String(),
		"peers":       schema.StringMap(ifaceExpander(int64(1))),
		"provides":    schema.StringMap(ifaceExpander(nil)),
		"requires":    schema.StringMap(ifaceExpander(int64(1))),
		"resources":   schema.StringMap(schema.OneOf(schema.Const(nil), resourceSchema)),
		"subordinate": schema.Bool(),
	},
	schema.Defaults{
		"provides":    schema.Omit,
		"requires":    schema.Omit,
		"peers":       schema.Omit,
		"resources":   schema.Omit,
		"subordinate": schema.Omit,
	},
)
