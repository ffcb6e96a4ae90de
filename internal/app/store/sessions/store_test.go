package sessions_test

import (
	"testing"
	"time"

	"github.com/dalemusser/clubdesk/internal/app/store/sessions"
	"github.com/dalemusser/clubdesk/internal/testutil"
)

func TestStore_CreateGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db, []byte("test-session-key-0123456789abcdef"))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sess := &sessions.Session{
		UserID:    "42",
		Role:      "MAIN_ADMIN",
		Name:      "Ada",
		Email:     "ada@example.com",
		Token:     "tok-123",
		ExpiresAt: time.Now().Add(time.Hour),
		IP:        "10.0.0.1",
	}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected ID to be assigned")
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Token != "tok-123" {
		t.Errorf("Token: got %q, want %q", got.Token, "tok-123")
	}
	if got.Role != "MAIN_ADMIN" {
		t.Errorf("Role: got %q", got.Role)
	}
}

func TestStore_Revoke(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db, []byte("test-session-key-0123456789abcdef"))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sess := &sessions.Session{UserID: "1", Token: "t", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Revoke(ctx, sess.ID, sessions.EndUnauthorized); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); err != sessions.ErrNotFound {
		t.Errorf("Get after revoke: err = %v, want ErrNotFound", err)
	}
	// Revoking twice is harmless.
	if err := store.Revoke(ctx, sess.ID, sessions.EndLogout); err != nil {
		t.Errorf("second Revoke: %v", err)
	}
}

func TestStore_GetExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db, []byte("k"))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sess := &sessions.Session{UserID: "1", Token: "t", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); err != sessions.ErrNotFound {
		t.Errorf("Get expired: err = %v, want ErrNotFound", err)
	}
}

func TestStore_CloseExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db, []byte("k"))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stale := &sessions.Session{UserID: "1", Token: "t", ExpiresAt: time.Now().Add(-time.Minute)}
	live := &sessions.Session{UserID: "2", Token: "t", ExpiresAt: time.Now().Add(time.Hour)}
	for _, s := range []*sessions.Session{stale, live} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	n, err := store.CloseExpired(ctx)
	if err != nil {
		t.Fatalf("CloseExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("closed %d sessions, want 1", n)
	}
	if active, _ := store.CountActive(ctx); active != 1 {
		t.Errorf("CountActive = %d, want 1", active)
	}
	if n, _ := store.CloseExpired(ctx); n != 0 {
		t.Errorf("second sweep closed %d, want 0", n)
	}
}
