package portfolio

import (
	"encoding/json"
	"os"
	"time"

	"StockWatch/internal/model"
)

// state is the on-disk shape of the whole ledger: one JSON document,
// rewritten on every mutating call. Last successful write wins.
type state struct {
	Cash         float64                   `json:"cash"`
	Positions    map[string]model.Position `json:"positions"`
	Transactions []model.Transaction       `json:"transactions"`
	LastUpdated  time.Time                 `json:"last_updated"`
}

// loadState reads ledger state from disk. A missing file yields ok=false
// so the caller can start from initial capital.
func loadState(path string) (state, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return state{}, false, nil
		}
		return state{}, false, err
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return state{}, false, err
	}
	if st.Positions == nil {
		st.Positions = map[string]model.Position{}
	}
	return st, true, nil
}

func saveState(path string, st state) error {
	st.LastUpdated = time.Now()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
