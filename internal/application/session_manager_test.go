package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/roombook/internal/directory"
	"github.com/example/roombook/internal/persistence"
	"github.com/example/roombook/internal/testfixtures"
)

func TestSessionManager_Authenticate(t *testing.T) {
	t.Parallel()

	t.Run("every directory entry can sign in with its own secret", func(t *testing.T) {
		t.Parallel()

		for _, person := range testfixtures.ScenarioPeople() {
			mgr := NewSessionManager(testfixtures.ScenarioDirectory(), newStorageStub(), nil)
			session, err := mgr.Authenticate(context.Background(), person.Identity, person.Secret)
			if err != nil {
				t.Fatalf("Authenticate(%s) failed: %v", person.Identity, err)
			}
			if session.Identity != person.Identity || session.DisplayName != person.DisplayName {
				t.Fatalf("session %#v does not match %#v", session, person)
			}
		}
	})

	t.Run("persists the session under the session key", func(t *testing.T) {
		t.Parallel()

		storage := newStorageStub()
		mgr := NewSessionManager(testfixtures.ScenarioDirectory(), storage, nil)
		if _, err := mgr.Authenticate(context.Background(), "R1", "S1"); err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}

		raw, err := storage.Store.Get(context.Background(), persistence.SessionKey)
		if err != nil {
			t.Fatalf("expected persisted session: %v", err)
		}
		if string(raw) != `{"name":"Alice","rollNumber":"R1"}` {
			t.Fatalf("unexpected persisted session %s", raw)
		}
		if current, ok := mgr.Current(); !ok || current.DisplayName != "Alice" {
			t.Fatalf("expected Alice to be current, got %#v ok=%v", current, ok)
		}
	})

	t.Run("secret is case-normalized but identity is not", func(t *testing.T) {
		t.Parallel()

		mgr := NewSessionManager(testfixtures.ScenarioDirectory(), newStorageStub(), nil)
		if _, err := mgr.Authenticate(context.Background(), "R1", " s1 "); err != nil {
			t.Fatalf("expected lower-case secret to match: %v", err)
		}
		if _, err := mgr.Authenticate(context.Background(), "r1", "S1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for lower-case identity, got %v", err)
		}
	})

	t.Run("mismatched pairs are rejected and clear any held session", func(t *testing.T) {
		t.Parallel()

		storage := newStorageStub()
		mgr := NewSessionManager(testfixtures.ScenarioDirectory(), storage, nil)
		if _, err := mgr.Authenticate(context.Background(), "R1", "S1"); err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}

		cases := [][2]string{{"R1", "S2"}, {"R2", "S1"}, {"R9", "S9"}, {"", "S1"}, {"R1", ""}}
		for _, c := range cases {
			if _, err := mgr.Authenticate(context.Background(), c[0], c[1]); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("Authenticate(%q, %q) expected ErrInvalidCredentials, got %v", c[0], c[1], err)
			}
		}

		if _, ok := mgr.Current(); ok {
			t.Fatal("expected no session after failed attempts")
		}
		if _, err := storage.Store.Get(context.Background(), persistence.SessionKey); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected persisted session to be removed, got %v", err)
		}
	})

	t.Run("empty directory rejects everyone", func(t *testing.T) {
		t.Parallel()

		mgr := NewSessionManager(directory.Empty(), newStorageStub(), nil)
		if _, err := mgr.Authenticate(context.Background(), "R1", "S1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("hashed secrets are verified", func(t *testing.T) {
		t.Parallel()

		params := DefaultArgon2idParams
		params.Memory = 8 * 1024
		params.Iterations = 1
		hashed, err := HashSecret("k7pq2m", params)
		if err != nil {
			t.Fatalf("HashSecret failed: %v", err)
		}
		dir := directory.New([]directory.Person{{Identity: "H1", DisplayName: "Hashed", Secret: hashed}})
		mgr := NewSessionManager(dir, newStorageStub(), nil)

		if _, err := mgr.Authenticate(context.Background(), "H1", "K7PQ2M"); err != nil {
			t.Fatalf("expected hashed secret to verify: %v", err)
		}
		if _, err := mgr.Authenticate(context.Background(), "H1", "WRONG"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("disk full")
		storage := newStorageStub()
		storage.setErr = expected
		mgr := NewSessionManager(testfixtures.ScenarioDirectory(), storage, nil)

		if _, err := mgr.Authenticate(context.Background(), "R1", "S1"); !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
		if _, ok := mgr.Current(); ok {
			t.Fatal("session must not be held when it could not be persisted")
		}
	})
}

func TestSessionManager_Restore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("restores a session whose identity still exists", func(t *testing.T) {
		t.Parallel()

		storage := newStorageStub()
		first := NewSessionManager(testfixtures.ScenarioDirectory(), storage, nil)
		if _, err := first.Authenticate(ctx, "R2", "S2"); err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}

		second := NewSessionManager(testfixtures.ScenarioDirectory(), storage, nil)
		session, ok, err := second.Restore(ctx)
		if err != nil || !ok {
			t.Fatalf("Restore returned ok=%v err=%v", ok, err)
		}
		if session.Identity != "R2" || session.DisplayName != "Bob" {
			t.Fatalf("unexpected restored session %#v", session)
		}
		if current, ok := second.Current(); !ok || current != session {
			t.Fatalf("expected restored session to be current")
		}
	})

	t.Run("takes the display name from the directory", func(t *testing.T) {
		t.Parallel()

		storage := newStorageStub()
		_ = storage.Store.Set(ctx, persistence.SessionKey, []byte(`{"name":"Old Alice","rollNumber":"R1"}`))

		mgr := NewSessionManager(testfixtures.ScenarioDirectory(), storage, nil)
		session, ok, err := mgr.Restore(ctx)
		if err != nil || !ok {
			t.Fatalf("Restore returned ok=%v err=%v", ok, err)
		}
		if session.DisplayName != "Alice" {
			t.Fatalf("expected directory name Alice, got %q", session.DisplayName)
		}
		raw, _ := storage.Store.Get(ctx, persistence.SessionKey)
		if string(raw) != `{"name":"Alice","rollNumber":"R1"}` {
			t.Fatalf("expected persisted session to be refreshed, got %s", raw)
		}
	})

	t.Run("no persisted session", func(t *testing.T) {
		t.Parallel()

		mgr := NewSessionManager(testfixtures.ScenarioDirectory(), newStorageStub(), nil)
		if _, ok, err := mgr.Restore(ctx); ok || err != nil {
			t.Fatalf("expected nothing restored, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("discards sessions for identities no longer in the directory", func(t *testing.T) {
		t.Parallel()

		storage := newStorageStub()
		_ = storage.Store.Set(ctx, persistence.SessionKey, []byte(`{"name":"Ghost","rollNumber":"R404"}`))

		mgr := NewSessionManager(testfixtures.ScenarioDirectory(), storage, nil)
		if _, ok, err := mgr.Restore(ctx); ok || err != nil {
			t.Fatalf("expected stale session to be discarded, got ok=%v err=%v", ok, err)
		}
		if _, err := storage.Store.Get(ctx, persistence.SessionKey); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected stale session to be deleted, got %v", err)
		}
	})

	t.Run("discards unreadable sessions", func(t *testing.T) {
		t.Parallel()

		storage := newStorageStub()
		_ = storage.Store.Set(ctx, persistence.SessionKey, []byte(`not json`))

		mgr := NewSessionManager(testfixtures.ScenarioDirectory(), storage, nil)
		if _, ok, err := mgr.Restore(ctx); ok || err != nil {
			t.Fatalf("expected unreadable session to be discarded, got ok=%v err=%v", ok, err)
		}
		if storage.Len() != 0 {
			t.Fatalf("expected storage to be empty, got %d keys", storage.Len())
		}
	})

	t.Run("propagates read failures", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("io error")
		storage := newStorageStub()
		storage.getErr = expected

		mgr := NewSessionManager(testfixtures.ScenarioDirectory(), storage, nil)
		if _, _, err := mgr.Restore(ctx); !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
	})
}

func TestSessionManager_End(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newStorageStub()
	mgr := NewSessionManager(testfixtures.ScenarioDirectory(), storage, nil)

	if err := mgr.End(ctx); err != nil {
		t.Fatalf("End without a session failed: %v", err)
	}

	if _, err := mgr.Authenticate(ctx, "R3", "S3"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if err := mgr.End(ctx); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if _, ok := mgr.Current(); ok {
		t.Fatal("expected no current session after End")
	}
	if storage.Len() != 0 {
		t.Fatalf("expected persisted session to be removed, got %d keys", storage.Len())
	}
}
