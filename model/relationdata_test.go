// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package model_test

import (
	"github.com/juju/errors"
	jujutesting "github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/operator/model"
)

type RelationDataSuite struct {
	jujutesting.IsolationSuite

	backend *stubBackend
	model   *model.Model
}

var _ = gc.Suite(&RelationDataSuite{})

func (s *RelationDataSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.backend = newStubBackend()
	m, err := model.NewModel("myapp/0", testMeta(), s.backend)
	c.Assert(err, jc.ErrorIsNil)
	s.model = m
}

func (s *RelationDataSuite) data(c *gc.C, endpoint string, entity model.Entity) *model.RelationData {
	rel, err := s.model.Relation(endpoint)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(rel, gc.NotNil)
	data, err := rel.Data(entity)
	c.Assert(err, jc.ErrorIsNil)
	return data
}

func (s *RelationDataSuite) remoteUnit(c *gc.C, endpoint string) *model.Unit {
	rel, err := s.model.Relation(endpoint)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(rel.Units(), gc.Not(gc.HasLen), 0)
	return rel.Units()[0]
}

func (s *RelationDataSuite) TestReadRemoteUnit(c *gc.C) {
	data := s.data(c, "db1", s.remoteUnit(c, "db1"))
	m, err := data.Map()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(m, jc.DeepEquals, map[string]string{"host": "remoteapp1-0"})
	s.backend.stub.CheckCalls(c, []jujutesting.StubCall{
		{FuncName: "RelationIDs", Args: []interface{}{"db1"}},
		{FuncName: "RelationList", Args: []interface{}{4}},
		{FuncName: "RelationGet", Args: []interface{}{4, "remoteapp1/0", false}},
	})
}

func (s *RelationDataSuite) TestReadRemoteApplication(c *gc.C) {
	rel, err := s.model.Relation("db1")
	c.Assert(err, jc.ErrorIsNil)
	data := s.data(c, "db1", rel.Application())
	m, err := data.Map()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(m, jc.DeepEquals, map[string]string{"secret": "cafedeadbeef"})
	c.Assert(s.backend.stub.Calls()[2], jc.DeepEquals,
		jujutesting.StubCall{FuncName: "RelationGet", Args: []interface{}{4, "remoteapp1", true}})
}

func (s *RelationDataSuite) TestFetchedOnce(c *gc.C) {
	data := s.data(c, "db1", s.model.Unit())
	_, err := data.Map()
	c.Assert(err, jc.ErrorIsNil)
	_, ok, err := data.Get("host")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)
	has, err := data.Has("host")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(has, jc.IsTrue)
	c.Assert(s.backend.callCount("RelationGet"), gc.Equals, 1)
}

func (s *RelationDataSuite) TestGetMissingKey(c *gc.C) {
	data := s.data(c, "db1", s.model.Unit())
	value, ok, err := data.Get("nope")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsFalse)
	c.Assert(value, gc.Equals, "")
}

func (s *RelationDataSuite) TestWriteOurUnit(c *gc.C) {
	data := s.data(c, "db1", s.model.Unit())
	has, err := data.Has("host")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(has, jc.IsTrue)

	err = data.Set("host", "bar")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(s.backend.stub.Calls()[len(s.backend.stub.Calls())-1], jc.DeepEquals,
		jujutesting.StubCall{FuncName: "RelationSet", Args: []interface{}{4, "host", "bar", false}})

	// Write-through: the new value is served locally, no re-fetch.
	value, ok, err := data.Get("host")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)
	c.Assert(value, gc.Equals, "bar")
	c.Assert(s.backend.callCount("RelationGet"), gc.Equals, 1)
}

func (s *RelationDataSuite) TestWriteRemoteUnitDenied(c *gc.C) {
	data := s.data(c, "db1", s.remoteUnit(c, "db1"))
	m, err := data.Map()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(m, gc.HasLen, 1)

	err = data.Set("foo", "bar")
	c.Assert(err, jc.ErrorIs, model.ErrRelationData)
	c.Assert(s.backend.callCount("RelationSet"), gc.Equals, 0)
	has, err := data.Has("foo")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(has, jc.IsFalse)
}

func (s *RelationDataSuite) TestWriteOurApplicationAsLeader(c *gc.C) {
	s.backend.leader = true
	data := s.data(c, "db1", s.model.Application())
	m, err := data.Map()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(m, jc.DeepEquals, map[string]string{"password": "deadbeefcafe"})

	err = data.Set("password", "foo")
	c.Assert(err, jc.ErrorIsNil)

	value, ok, err := data.Get("password")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)
	c.Assert(value, gc.Equals, "foo")

	s.backend.stub.CheckCalls(c, []jujutesting.StubCall{
		{FuncName: "RelationIDs", Args: []interface{}{"db1"}},
		{FuncName: "RelationList", Args: []interface{}{4}},
		{FuncName: "RelationGet", Args: []interface{}{4, "myapp", true}},
		{FuncName: "IsLeader"},
		{FuncName: "RelationSet", Args: []interface{}{4, "password", "foo", true}},
	})
}

func (s *RelationDataSuite) TestWriteOurApplicationAsMinion(c *gc.C) {
	s.backend.leader = false
	data := s.data(c, "db1", s.model.Application())
	m, err := data.Map()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(m, jc.DeepEquals, map[string]string{"password": "deadbeefcafe"})

	err = data.Set("password", "foobar")
	c.Assert(err, jc.ErrorIs, model.ErrRelationData)
	c.Assert(s.backend.callCount("RelationSet"), gc.Equals, 0)

	// The local copy was not touched.
	value, _, err := data.Get("password")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(value, gc.Equals, "deadbeefcafe")
}

func (s *RelationDataSuite) TestWriteEmptyKey(c *gc.C) {
	data := s.data(c, "db1", s.model.Unit())
	err := data.Set("", "value")
	c.Assert(err, jc.ErrorIs, model.ErrRelationData)
	c.Assert(s.backend.callCount("RelationSet"), gc.Equals, 0)
}

func (s *RelationDataSuite) TestDelete(c *gc.C) {
	data := s.data(c, "db1", s.model.Unit())
	has, err := data.Has("host")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(has, jc.IsTrue)

	err = data.Delete("host")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(s.backend.stub.Calls()[len(s.backend.stub.Calls())-1], jc.DeepEquals,
		jujutesting.StubCall{FuncName: "RelationSet", Args: []interface{}{4, "host", "", false}})

	has, err = data.Has("host")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(has, jc.IsFalse)
}

func (s *RelationDataSuite) TestBackendWriteFailureLeavesCache(c *gc.C) {
	s.backend.relationSetErrs[5] = errors.New("pow")
	rels, err := s.model.Relations("db2")
	c.Assert(err, jc.ErrorIsNil)
	data, err := rels[0].Data(s.model.Unit())
	c.Assert(err, jc.ErrorIsNil)
	has, err := data.Has("host")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(has, jc.IsTrue)

	err = data.Set("host", "bar")
	c.Assert(err, gc.ErrorMatches, "pow")
	value, _, err := data.Get("host")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(value, gc.Equals, "myapp-0")

	err = data.Delete("host")
	c.Assert(err, gc.ErrorMatches, "pow")
	has, err = data.Has("host")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(has, jc.IsTrue)
}

func (s *RelationDataSuite) TestWriteDeadRelationPropagatesBackendError(c *gc.C) {
	s.backend.relationSetErrs[7] = model.ErrRelationNotFound
	rel, err := s.model.RelationWithID("db1", 7)
	c.Assert(err, jc.ErrorIsNil)
	data, err := rel.Data(s.model.Unit())
	c.Assert(err, jc.ErrorIsNil)

	err = data.Set("host", "ghost")
	c.Assert(err, jc.ErrorIs, model.ErrRelationNotFound)
}
