package fintrack

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"github.com/pkg/errors"
)

// csvHeader is the first row of every CSV export
var csvHeader = []string{"Date", "Description", "Amount", "Type", "Category"}

// exportService implements the ExportService interface
type exportService struct {
	client *Client
}

// CSV renders one row per transaction in stored order
func (s *exportService) CSV(ctx context.Context) ([]byte, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	if len(state.Transactions) == 0 {
		return nil, ErrNothingToExport
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, errors.Wrap(err, "failed to write csv header")
	}
	for _, t := range state.Transactions {
		row := []string{
			t.Date.String(),
			t.Description,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			string(t.Type),
			resolveCategory(state.Categories, t.CategoryID).Name,
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "failed to write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush csv")
	}
	return buf.Bytes(), nil
}

// JSON returns the in-memory state in the persisted document layout
func (s *exportService) JSON(ctx context.Context) ([]byte, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	return EncodeState(state)
}

// BackupFileName returns fintrack-backup-YYYY-MM-DD.json for today
func (s *exportService) BackupFileName() string {
	return "fintrack-backup-" + DateOf(s.client.now()).String() + ".json"
}
