package fintrack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/eshaffer321/fintrack-go/internal/storage"
	pkgerrors "github.com/pkg/errors"
)

// Slot is a durable key-value slot. Read must return an error matching
// ErrSlotEmpty when the key has never been written.
type Slot interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Close() error
}

// NewMemorySlot returns an in-process slot
func NewMemorySlot() Slot {
	return storage.NewMemorySlot()
}

// OpenSlot opens a slot by backend name: "memory", "file" (path is a
// directory) or "sqlite" (path is a database file).
func OpenSlot(backend, path string) (Slot, error) {
	return storage.Open(backend, path)
}

// LoadSource says where the loaded state came from
type LoadSource string

const (
	// LoadedStored means the persisted document was decoded
	LoadedStored LoadSource = "stored"
	// LoadedSeed means nothing was stored yet
	LoadedSeed LoadSource = "seed"
	// LoadedRecovered means the stored document was unreadable and the seed was used
	LoadedRecovered LoadSource = "recovered"
)

// persistence serializes the whole state into one slot key
type persistence struct {
	slot   Slot
	key    string
	logger Logger
}

func (p *persistence) save(ctx context.Context, state FinanceState) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}
	if err := p.slot.Write(ctx, p.key, data); err != nil {
		return pkgerrors.Wrap(err, "failed to write finance state")
	}
	return nil
}

// load never fails: absence and corruption both yield the seed state
func (p *persistence) load(ctx context.Context) (FinanceState, LoadSource) {
	data, err := p.slot.Read(ctx, p.key)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			if p.logger != nil {
				p.logger.Info("No stored finance state, using seed", "key", p.key)
			}
			return DefaultState(), LoadedSeed
		}
		if p.logger != nil {
			p.logger.Error("Failed to read finance state, using seed", "key", p.key, "error", err)
		}
		return DefaultState(), LoadedRecovered
	}

	state, err := DecodeState(data)
	if err != nil {
		if p.logger != nil {
			p.logger.Error("Stored finance state is corrupt, using seed", "key", p.key, "error", err, "bytes", len(data))
		}
		return DefaultState(), LoadedRecovered
	}

	if p.logger != nil {
		p.logger.Debug("Finance state loaded", "key", p.key, "transactions", len(state.Transactions))
	}
	return state, LoadedStored
}

// EncodeState serializes state into the persisted document layout
func EncodeState(state FinanceState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to marshal finance state")
	}
	return data, nil
}

// documentFields must be present and non-null in a persisted document
var documentFields = []string{"transactions", "categories", "budgets", "currency"}

// DecodeState parses a persisted document. Anything other than a JSON
// object of the expected shape is an error, as is a record that could
// never have been committed.
func DecodeState(data []byte) (FinanceState, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return FinanceState{}, pkgerrors.New("finance state is not a JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return FinanceState{}, pkgerrors.Wrap(err, "failed to unmarshal finance state")
	}
	ve := &ValidationErrors{}
	for _, name := range documentFields {
		if raw, ok := fields[name]; !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			ve.add(name, "is required", nil)
		}
	}
	if err := ve.err(); err != nil {
		return FinanceState{}, pkgerrors.Wrap(err, "finance state is missing fields")
	}

	var state FinanceState
	if err := json.Unmarshal(trimmed, &state); err != nil {
		return FinanceState{}, pkgerrors.Wrap(err, "failed to unmarshal finance state")
	}
	if err := validateDocument(state); err != nil {
		return FinanceState{}, pkgerrors.Wrap(err, "finance state holds invalid records")
	}

	// Documents written before goals or rates existed omit them
	if state.SavingsGoals == nil {
		state.SavingsGoals = []SavingsGoal{}
	}
	if state.ExchangeRates == nil {
		state.ExchangeRates = map[string]float64{}
	}
	return state, nil
}
