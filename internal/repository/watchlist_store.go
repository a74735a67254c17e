// Package repository holds the file-backed stores: user watchlists and the
// generated report directory.
package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/pkg/logger"
)

const defaultUser = "default"

// WatchlistStore reads per-user watchlists from JSON files laid out as
// <dir>/<user>/watchlists.json with an optional sibling groups_order.json.
// Group and symbol order inside the file is preserved.
type WatchlistStore struct {
	dir string
	log *logger.Logger
}

// NewWatchlistStore creates a store rooted at dir (e.g. config/users).
func NewWatchlistStore(dir string, log *logger.Logger) *WatchlistStore {
	return &WatchlistStore{dir: dir, log: log}
}

// Load returns the group map and the effective group order for the user. A
// missing user directory falls back to the default user's files. The order
// comes from groups_order.json when present, else from file declaration
// order.
func (s *WatchlistStore) Load(user string) (map[string]repository.OrderedSymbols, []string, error) {
	if user == "" {
		user = defaultUser
	}
	path := filepath.Join(s.dir, user, "watchlists.json")
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(s.dir, defaultUser, "watchlists.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read watchlists: %w", err)
	}

	groups, fileOrder, err := parseGroups(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse watchlists %s: %w", path, err)
	}

	order := fileOrder
	if declared := s.readGroupsOrder(filepath.Dir(path)); len(declared) > 0 {
		order = declared
	}
	return groups, order, nil
}

// FlattenAll returns every symbol across all groups in group-declaration
// order, de-duplicated on first occurrence, plus the symbol-to-name mapping.
func (s *WatchlistStore) FlattenAll(user string) ([]string, map[string]models.SymbolName, error) {
	groups, order, err := s.Load(user)
	if err != nil {
		return nil, nil, err
	}

	var symbols []string
	names := make(map[string]models.SymbolName)
	for _, group := range order {
		entry, ok := groups[group]
		if !ok {
			continue
		}
		for _, sym := range entry.Symbols {
			if _, dup := names[sym]; dup {
				continue
			}
			symbols = append(symbols, sym)
			names[sym] = entry.Names[sym]
		}
	}
	return symbols, names, nil
}

func (s *WatchlistStore) readGroupsOrder(dir string) []string {
	data, err := os.ReadFile(filepath.Join(dir, "groups_order.json"))
	if err != nil {
		return nil
	}
	var doc struct {
		GroupsOrder []string `json:"groups_order"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warn("unreadable groups_order.json", logger.Error(err))
		return nil
	}
	return doc.GroupsOrder
}

// parseGroups decodes {group: {symbol: name-or-struct}} keeping both group
// and symbol declaration order, which encoding/json maps would lose.
func parseGroups(data []byte) (map[string]repository.OrderedSymbols, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}

	groups := make(map[string]repository.OrderedSymbols)
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		group, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected group key %v", tok)
		}

		entry, err := parseGroupEntries(dec)
		if err != nil {
			return nil, nil, fmt.Errorf("group %q: %w", group, err)
		}
		groups[group] = entry
		order = append(order, group)
	}
	return groups, order, nil
}

func parseGroupEntries(dec *json.Decoder) (repository.OrderedSymbols, error) {
	var entry repository.OrderedSymbols
	entry.Names = make(map[string]models.SymbolName)

	if err := expectDelim(dec, '{'); err != nil {
		return entry, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return entry, err
		}
		symbol, ok := tok.(string)
		if !ok {
			return entry, fmt.Errorf("unexpected symbol key %v", tok)
		}

		var name models.SymbolName
		if err := dec.Decode(&name); err != nil {
			return entry, fmt.Errorf("symbol %q: %w", symbol, err)
		}
		entry.Symbols = append(entry.Symbols, symbol)
		entry.Names[symbol] = name
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return entry, err
	}
	return entry, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
