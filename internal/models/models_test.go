package models_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"

	"github.com/go-ports/projroot/internal/models"
)

func TestNewResolved_HappyPath(t *testing.T) {
	c := qt.New(t)

	r := models.NewResolved("/ws", "/ws/proj/src/lib.rs", "/ws/proj", "document")
	_, err := uuid.Parse(r.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(r.Outcome, qt.Equals, models.OutcomeResolved)
	c.Assert(r.Root, qt.Equals, "/ws/proj")
	c.Assert(r.Strategy, qt.Equals, "document")
	c.Assert(r.Error, qt.Equals, "")
	c.Assert(r.ResolvedAt.Location().String(), qt.Equals, "UTC")
}

func TestNewFailed_HappyPath(t *testing.T) {
	c := qt.New(t)

	r := models.NewFailed("/ws", "", errors.New("could not determine project root: no active document"))
	c.Assert(r.Outcome, qt.Equals, models.OutcomeFailed)
	c.Assert(r.Root, qt.Equals, "")
	c.Assert(r.Error, qt.Contains, "no active document")

	other := models.NewFailed("/ws", "", errors.New("x"))
	c.Assert(other.ID, qt.Not(qt.Equals), r.ID)
}
