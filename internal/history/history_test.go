package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/projroot/internal/history"
	"github.com/go-ports/projroot/internal/models"
)

// openTestDB opens a fresh journal in a temp directory and registers
// t.Cleanup to close it.
func openTestDB(t *testing.T) *history.DB {
	t.Helper()
	d, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("openTestDB: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// ---------------------------------------------------------------------------
// Open
// ---------------------------------------------------------------------------

func TestOpen_HappyPath(t *testing.T) {
	c := qt.New(t)
	d := openTestDB(t)
	c.Assert(d, qt.IsNotNil)
	c.Assert(filepath.Base(d.Path()), qt.Equals, "history.db")
}

func TestOpen_ReopenKeepsRecords(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	d, err := history.Open(path)
	c.Assert(err, qt.IsNil)
	c.Assert(d.Record(ctx, models.NewResolved("/ws", "", "/ws", "workspace")), qt.IsNil)
	c.Assert(d.Close(), qt.IsNil)

	d, err = history.Open(path)
	c.Assert(err, qt.IsNil)
	defer d.Close()
	n, err := d.Count(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 1)
}

// ---------------------------------------------------------------------------
// Record / Recent
// ---------------------------------------------------------------------------

func TestRecordAndRecent_HappyPath(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	d := openTestDB(t)

	first := models.NewResolved("/ws", "/ws/proj/src/lib.rs", "/ws/proj", "document")
	second := models.NewFailed("/ws", "", errors.New("could not determine project root: no active document"))
	third := models.NewResolved("/other", "", "/other", "workspace")
	for _, r := range []*models.Record{first, second, third} {
		c.Assert(d.Record(ctx, r), qt.IsNil)
	}

	c.Run("newest first across workspaces", func(c *qt.C) {
		got, err := d.Recent(ctx, 10, "")
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.HasLen, 3)
		c.Assert(got[0].ID, qt.Equals, third.ID)
		c.Assert(got[2].ID, qt.Equals, first.ID)
	})

	c.Run("filtered by workspace", func(c *qt.C) {
		got, err := d.Recent(ctx, 10, "/ws")
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.HasLen, 2)
		c.Assert(got[0].Outcome, qt.Equals, models.OutcomeFailed)
		c.Assert(got[0].Error, qt.Contains, "no active document")
		c.Assert(got[1].Root, qt.Equals, "/ws/proj")
		c.Assert(got[1].Strategy, qt.Equals, "document")
		c.Assert(got[1].Document, qt.Equals, "/ws/proj/src/lib.rs")
		c.Assert(got[1].ResolvedAt.Equal(first.ResolvedAt), qt.IsTrue)
	})

	c.Run("limit applies", func(c *qt.C) {
		got, err := d.Recent(ctx, 1, "")
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.HasLen, 1)
	})
}

func TestRecent_LimitBounds(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	d := openTestDB(t)

	for range 3 {
		c.Assert(d.Record(ctx, models.NewResolved("/ws", "", "/ws", "workspace")), qt.IsNil)
	}

	cases := []struct {
		name  string
		limit int
	}{
		{"zero uses the default", 0},
		{"negative uses the default", -5},
		{"huge limit is capped", 1 << 62},
		{"just above the cap", history.MaxRecentLimit + 1},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			got, err := d.Recent(ctx, tc.limit, "")
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.HasLen, 3)
		})
	}
}

func TestRecord_DuplicateIDRejected(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	d := openTestDB(t)

	rec := models.NewResolved("/ws", "", "/ws", "workspace")
	c.Assert(d.Record(ctx, rec), qt.IsNil)
	c.Assert(d.Record(ctx, rec), qt.ErrorMatches, "Record: .*")
}

// ---------------------------------------------------------------------------
// Clear
// ---------------------------------------------------------------------------

func TestClear_HappyPath(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	d := openTestDB(t)

	for range 3 {
		c.Assert(d.Record(ctx, models.NewResolved("/ws", "", "/ws", "workspace")), qt.IsNil)
	}
	n, err := d.Clear(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(3))

	count, err := d.Count(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, 0)
}
