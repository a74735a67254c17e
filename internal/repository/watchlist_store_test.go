package repository

import (
	"os"
	"path/filepath"
	"testing"

	"StockPulse/pkg/logger"
)

func writeUserFiles(t *testing.T, dir, user, watchlists, groupsOrder string) {
	t.Helper()
	userDir := filepath.Join(dir, user)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "watchlists.json"), []byte(watchlists), 0o644); err != nil {
		t.Fatalf("write watchlists: %v", err)
	}
	if groupsOrder != "" {
		if err := os.WriteFile(filepath.Join(userDir, "groups_order.json"), []byte(groupsOrder), 0o644); err != nil {
			t.Fatalf("write groups_order: %v", err)
		}
	}
}

const sampleWatchlists = `{
	"Tech": {
		"AAPL": "Apple",
		"MSFT": {"name": "Microsoft", "yf_code": "MSFT"}
	},
	"Asia": {
		"TENCENT": {"name": "Tencent", "yf_code": "0700.HK"},
		"AAPL": "Apple Duplicate"
	}
}`

func TestLoadPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	writeUserFiles(t, dir, "alice", sampleWatchlists, "")
	store := NewWatchlistStore(dir, logger.Nop())

	groups, order, err := store.Load("alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(order) != 2 || order[0] != "Tech" || order[1] != "Asia" {
		t.Fatalf("unexpected group order %v", order)
	}
	tech := groups["Tech"]
	if len(tech.Symbols) != 2 || tech.Symbols[0] != "AAPL" || tech.Symbols[1] != "MSFT" {
		t.Fatalf("symbol order lost: %v", tech.Symbols)
	}
	if tech.Names["MSFT"].Name != "Microsoft" {
		t.Fatalf("structured name not parsed: %+v", tech.Names["MSFT"])
	}
	if tech.Names["AAPL"].Name != "Apple" {
		t.Fatalf("plain string name not parsed: %+v", tech.Names["AAPL"])
	}
}

func TestLoadGroupsOrderOverride(t *testing.T) {
	dir := t.TempDir()
	writeUserFiles(t, dir, "alice", sampleWatchlists, `{"groups_order": ["Asia", "Tech"]}`)
	store := NewWatchlistStore(dir, logger.Nop())

	_, order, err := store.Load("alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(order) != 2 || order[0] != "Asia" || order[1] != "Tech" {
		t.Fatalf("declared order not honored: %v", order)
	}
}

func TestFlattenAllDeduplicates(t *testing.T) {
	dir := t.TempDir()
	writeUserFiles(t, dir, "alice", sampleWatchlists, "")
	store := NewWatchlistStore(dir, logger.Nop())

	symbols, names, err := store.FlattenAll("alice")
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	want := []string{"AAPL", "MSFT", "TENCENT"}
	if len(symbols) != len(want) {
		t.Fatalf("unexpected symbols %v", symbols)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Fatalf("symbols[%d] = %q, want %q", i, symbols[i], want[i])
		}
	}
	// First occurrence wins.
	if names["AAPL"].Name != "Apple" {
		t.Fatalf("first occurrence must win: %+v", names["AAPL"])
	}
	if names["TENCENT"].ProviderCode("TENCENT") != "0700.HK" {
		t.Fatalf("provider code lost: %+v", names["TENCENT"])
	}
}

func TestLoadFallsBackToDefaultUser(t *testing.T) {
	dir := t.TempDir()
	writeUserFiles(t, dir, "default", `{"G": {"SPY": "Index"}}`, "")
	store := NewWatchlistStore(dir, logger.Nop())

	symbols, _, err := store.FlattenAll("ghost")
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if len(symbols) != 1 || symbols[0] != "SPY" {
		t.Fatalf("expected default-user fallback, got %v", symbols)
	}
}

func TestLoadMissingEverything(t *testing.T) {
	store := NewWatchlistStore(t.TempDir(), logger.Nop())
	if _, _, err := store.Load("nobody"); err == nil {
		t.Fatalf("expected error when no files exist")
	}
}
