package fintrack

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() string {
	var n int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, atomic.AddInt64(&n, 1))
	}
}

// newTestClient opens a loaded client with a fixed clock and predictable IDs
func newTestClient(t *testing.T, opts *ClientOptions) *Client {
	t.Helper()
	if opts == nil {
		opts = &ClientOptions{}
	}
	if opts.Clock == nil {
		opts.Clock = fixedClock(testNow)
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = sequentialIDs("id")
	}

	c, err := Open(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func addTransaction(t *testing.T, c *Client, desc string, amount float64, typ TransactionType, categoryID, date string) *Transaction {
	t.Helper()
	txn, err := c.Transactions.Create(context.Background(), &CreateTransactionParams{
		Description: desc,
		Amount:      amount,
		Type:        typ,
		CategoryID:  categoryID,
		Date:        MustParseDate(date),
	})
	require.NoError(t, err)
	return txn
}

// MockSlot is a mock implementation of Slot
type MockSlot struct {
	mock.Mock
}

func (m *MockSlot) Read(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockSlot) Write(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockSlot) Close() error {
	return m.Called().Error(0)
}

type logEntry struct {
	level string
	msg   string
}

// recordingLogger keeps every message for assertions
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg})
}

func (l *recordingLogger) Debug(msg string, _ ...interface{}) { l.record("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...interface{})  { l.record("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...interface{})  { l.record("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...interface{}) { l.record("error", msg) }

func (l *recordingLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}
