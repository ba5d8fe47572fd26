package kv

import (
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFlags(t *testing.T) {
	s := openStore(t)

	set, err := s.Flag(FlagDemoSeeded)
	if err != nil {
		t.Fatalf("Flag failed: %v", err)
	}
	if set {
		t.Error("unset flag reads true, want false")
	}

	if err := s.SetFlag(FlagDemoSeeded, true); err != nil {
		t.Fatalf("SetFlag failed: %v", err)
	}

	set, err = s.Flag(FlagDemoSeeded)
	if err != nil {
		t.Fatalf("Flag failed: %v", err)
	}
	if !set {
		t.Error("flag reads false after SetFlag(true)")
	}
}

func TestLedger(t *testing.T) {
	s := openStore(t)

	found, err := s.LedgerContains("ABC123")
	if err != nil {
		t.Fatalf("LedgerContains failed: %v", err)
	}
	if found {
		t.Error("empty ledger contains ABC123")
	}

	if err := s.LedgerAdd("ABC123"); err != nil {
		t.Fatalf("LedgerAdd failed: %v", err)
	}
	// Adding twice is fine
	if err := s.LedgerAdd("ABC123"); err != nil {
		t.Fatalf("LedgerAdd (repeat) failed: %v", err)
	}

	found, err = s.LedgerContains("ABC123")
	if err != nil {
		t.Fatalf("LedgerContains failed: %v", err)
	}
	if !found {
		t.Error("ledger missing ABC123 after add")
	}

	ids, err := s.LedgerIDs()
	if err != nil {
		t.Fatalf("LedgerIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "ABC123" {
		t.Errorf("LedgerIDs = %v, want [ABC123]", ids)
	}
}

func TestLedger_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.LedgerAdd("XYZ"); err != nil {
		t.Fatalf("LedgerAdd failed: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	found, err := s.LedgerContains("XYZ")
	if err != nil {
		t.Fatalf("LedgerContains failed: %v", err)
	}
	if !found {
		t.Error("ledger entry lost across reopen")
	}
}

func TestTouch(t *testing.T) {
	s := openStore(t)

	zero, err := s.LastTouch(KeyLastActive)
	if err != nil {
		t.Fatalf("LastTouch failed: %v", err)
	}
	if !zero.IsZero() {
		t.Errorf("LastTouch on fresh store = %v, want zero time", zero)
	}

	now := time.Now().Truncate(time.Second)
	if err := s.Touch(KeyLastActive, now); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	got, err := s.LastTouch(KeyLastActive)
	if err != nil {
		t.Fatalf("LastTouch failed: %v", err)
	}
	if !got.Equal(now) {
		t.Errorf("LastTouch = %v, want %v", got, now)
	}
}

// The store takes an exclusive file lock: two processes can never share
// it. Anything that needs both the heartbeat writer and the import gate
// must hold a single Store (the serve command does exactly that).
func TestOpenIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer first.Close()

	second, err := Open(path)
	if err == nil {
		second.Close()
		t.Fatal("second Open on a held store succeeded, want lock timeout")
	}
}
