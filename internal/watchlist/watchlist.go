// Package watchlist persists the tracked symbol list as a small JSON
// file, same whole-file overwrite discipline as the portfolio ledger.
package watchlist

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
)

// fileShape matches the on-disk document: {"stocks": ["AAPL", ...]}.
type fileShape struct {
	Stocks []string `json:"stocks"`
}

// Store is a file-backed watchlist.
type Store struct {
	mu      sync.Mutex
	path    string
	symbols []string
}

// NewStore loads the watchlist from path. A missing file yields an
// empty watchlist.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	var f fileShape
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	s.symbols = f.Stocks
	return s, nil
}

// Symbols returns a copy of the current list in stored order.
func (s *Store) Symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Add appends an uppercased symbol. Returns false when the symbol is
// already present or blank.
func (s *Store) Add(symbol string) (bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.symbols {
		if existing == symbol {
			return false, nil
		}
	}
	s.symbols = append(s.symbols, symbol)
	return true, s.save()
}

// Remove drops a symbol. Returns false when it was not present.
func (s *Store) Remove(symbol string) (bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.symbols {
		if existing == symbol {
			s.symbols = append(s.symbols[:i], s.symbols[i+1:]...)
			return true, s.save()
		}
	}
	return false, nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(fileShape{Stocks: s.symbols}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
