// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package exclusive_test

import (
	"slices"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/resourcelock/core/exclusive"
)

type resourceSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&resourceSuite{})

func (s *resourceSuite) TestEquality(c *gc.C) {
	a := exclusive.NewResource("db", exclusive.Read)
	b := exclusive.Resource{Key: "db", Mode: exclusive.Read}
	c.Check(a == b, jc.IsTrue)
	c.Check(a == exclusive.NewResource("db", exclusive.ReadWrite), jc.IsFalse)
}

func (s *resourceSuite) TestGlobalDescriptors(c *gc.C) {
	c.Check(exclusive.GlobalRead.IsGlobal(), jc.IsTrue)
	c.Check(exclusive.GlobalReadWrite.IsGlobal(), jc.IsTrue)
	c.Check(exclusive.GlobalRead.Mode, gc.Equals, exclusive.Read)
	c.Check(exclusive.GlobalReadWrite.Mode, gc.Equals, exclusive.ReadWrite)
	c.Check(exclusive.NewResource("db", exclusive.Read).IsGlobal(), jc.IsFalse)
}

func (s *resourceSuite) TestString(c *gc.C) {
	c.Check(exclusive.NewResource("db", exclusive.Read).String(), gc.Equals, "db (read)")
	c.Check(exclusive.NewResource("db", exclusive.ReadWrite).String(), gc.Equals, "db (read-write)")
	c.Check(exclusive.LockMode(7).String(), gc.Equals, "unknown(7)")
}

func (s *resourceSuite) TestValidate(c *gc.C) {
	c.Check(exclusive.NewResource("db", exclusive.Read).Validate(), jc.ErrorIsNil)
	c.Check(exclusive.GlobalReadWrite.Validate(), jc.ErrorIsNil)

	err := exclusive.NewResource("  ", exclusive.Read).Validate()
	c.Check(err, jc.Satisfies, errors.IsNotValid)

	err = exclusive.NewResource("db", exclusive.LockMode(3)).Validate()
	c.Check(err, jc.Satisfies, errors.IsNotValid)
	c.Check(err, gc.ErrorMatches, `resource "db": lock mode 3 not valid`)
}

func (s *resourceSuite) TestCompareGlobalFirst(c *gc.C) {
	a := exclusive.NewResource("a", exclusive.ReadWrite)
	c.Check(exclusive.Compare(exclusive.GlobalRead, a) < 0, jc.IsTrue)
	c.Check(exclusive.Compare(a, exclusive.GlobalRead) > 0, jc.IsTrue)
	c.Check(exclusive.Compare(exclusive.GlobalReadWrite, exclusive.GlobalRead) < 0, jc.IsTrue)
}

func (s *resourceSuite) TestCompareKeyThenMode(c *gc.C) {
	c.Check(exclusive.Compare(
		exclusive.NewResource("a", exclusive.Read),
		exclusive.NewResource("b", exclusive.ReadWrite),
	) < 0, jc.IsTrue)
	c.Check(exclusive.Compare(
		exclusive.NewResource("a", exclusive.ReadWrite),
		exclusive.NewResource("a", exclusive.Read),
	) < 0, jc.IsTrue)
	c.Check(exclusive.Compare(
		exclusive.NewResource("a", exclusive.Read),
		exclusive.NewResource("a", exclusive.Read),
	), gc.Equals, 0)
}

func (s *resourceSuite) TestSortIsCanonical(c *gc.C) {
	resources := []exclusive.Resource{
		exclusive.NewResource("zeta", exclusive.Read),
		exclusive.NewResource("alpha", exclusive.Read),
		exclusive.GlobalRead,
		exclusive.NewResource("alpha", exclusive.ReadWrite),
	}
	slices.SortFunc(resources, exclusive.Compare)
	c.Check(resources, jc.DeepEquals, []exclusive.Resource{
		exclusive.GlobalRead,
		exclusive.NewResource("alpha", exclusive.ReadWrite),
		exclusive.NewResource("alpha", exclusive.Read),
		exclusive.NewResource("zeta", exclusive.Read),
	})
}
