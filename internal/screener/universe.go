package screener

import (
	"encoding/json"
	"fmt"
	"os"
)

// defaultUniverseSize caps how many symbols a default screen touches,
// keeping a full-universe scan inside free-tier API limits.
const defaultUniverseSize = 50

// Universe is the named symbol lists used for screening.
type Universe struct {
	Nasdaq100 []string            `json:"nasdaq_100"`
	Sectors   map[string][]string `json:"sectors"`
}

// LoadUniverse reads the universe file. A missing file yields an empty
// universe rather than an error, so screening is simply a no-op.
func LoadUniverse(path string) (Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Universe{}, nil
		}
		return Universe{}, fmt.Errorf("read universe file: %w", err)
	}
	var u Universe
	if err := json.Unmarshal(data, &u); err != nil {
		return Universe{}, fmt.Errorf("parse universe file: %w", err)
	}
	return u, nil
}

// Default returns the slice of the universe screened when the caller
// passes no symbols.
func (u Universe) Default() []string {
	if len(u.Nasdaq100) > defaultUniverseSize {
		return u.Nasdaq100[:defaultUniverseSize]
	}
	return u.Nasdaq100
}
