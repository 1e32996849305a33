package newsletter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/teachstack/edudir/internal/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "data", "subscribers.json"), logger.New("error", false))
}

func TestAddIsIdempotentPerEmail(t *testing.T) {
	s := testStore(t)

	first, created, err := s.Add("teacher@example.org", "homepage", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !created {
		t.Fatalf("first Add() must report created")
	}
	if first.ID == "" || first.VerificationToken == "" {
		t.Errorf("new subscriber needs id and verification token: %+v", first)
	}
	if first.IsVerified {
		t.Errorf("new subscriber must start unverified")
	}

	again, created, err := s.Add("teacher@example.org", "footer", "admins")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if created {
		t.Errorf("second Add() with the same email must not create")
	}
	if again.ID != first.ID {
		t.Errorf("existing record must be returned unchanged, got id %q want %q", again.ID, first.ID)
	}

	if got := len(s.List()); got != 1 {
		t.Errorf("List() = %d subscribers, want 1", got)
	}
}

func TestVerifyClearsToken(t *testing.T) {
	s := testStore(t)

	sub, _, err := s.Add("teacher@example.org", "", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ok, err := s.Verify(sub.VerificationToken)
	if err != nil || !ok {
		t.Fatalf("Verify() = %v, %v; want true", ok, err)
	}

	list := s.List()
	if len(list) != 1 || !list[0].IsVerified || list[0].VerificationToken != "" {
		t.Errorf("verified subscriber should have cleared token: %+v", list)
	}

	if ok, _ := s.Verify(sub.VerificationToken); ok {
		t.Errorf("a cleared token must not verify again")
	}
	if ok, _ := s.Verify(""); ok {
		t.Errorf("empty token must not verify")
	}
}

func TestRemove(t *testing.T) {
	s := testStore(t)

	sub, _, err := s.Add("teacher@example.org", "", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if ok, _ := s.Remove("no-such-id"); ok {
		t.Errorf("removing an unknown id must return false")
	}
	ok, err := s.Remove(sub.ID)
	if err != nil || !ok {
		t.Fatalf("Remove() = %v, %v; want true", ok, err)
	}
	if got := len(s.List()); got != 0 {
		t.Errorf("List() = %d subscribers after remove, want 0", got)
	}
}

func TestCorruptFileDegradesToEmptyList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subscribers.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path, logger.New("error", false))
	if got := len(s.List()); got != 0 {
		t.Errorf("corrupt file should read as empty list, got %d", got)
	}

	// Adding still works; the corrupt content is replaced.
	if _, created, err := s.Add("teacher@example.org", "", ""); err != nil || !created {
		t.Fatalf("Add() after corrupt file = created %v, err %v", created, err)
	}
}
