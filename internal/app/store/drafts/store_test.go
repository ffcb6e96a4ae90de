package drafts_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/clubdesk/internal/app/store/drafts"
	"github.com/dalemusser/clubdesk/internal/testutil"
)

func TestStore_SaveLoadDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := drafts.New(db, time.Hour)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	if _, err := store.Load(ctx, "s1", "vendor"); !errors.Is(err, drafts.ErrNotFound) {
		t.Fatalf("Load before save = %v, want ErrNotFound", err)
	}

	d := drafts.Draft{SessionID: "s1", Name: "vendor", Step: "email", Values: map[string]string{"email": "a@b.c"}}
	if err := store.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	d.Step = "vendor"
	d.Branch = "convert"
	if err := store.Save(ctx, d); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.Load(ctx, "s1", "vendor")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Step != "vendor" || got.Branch != "convert" || got.Values["email"] != "a@b.c" {
		t.Errorf("Load = %+v", got)
	}

	if err := store.Delete(ctx, "s1", "vendor"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, "s1", "vendor"); !errors.Is(err, drafts.ErrNotFound) {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}
}
