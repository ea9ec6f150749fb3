package fintrack

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/eshaffer321/fintrack-go/internal/cache"
	"github.com/eshaffer321/fintrack-go/internal/transport"
	internalTypes "github.com/eshaffer321/fintrack-go/internal/types"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// DefaultRatesURL is the default exchange-rate API base URL
	DefaultRatesURL = internalTypes.DefaultRatesURL

	// DefaultTimeout is the default HTTP client timeout for the rates fetch
	DefaultTimeout = internalTypes.DefaultTimeout

	// DefaultCacheSize is the number of derived summaries kept in memory
	DefaultCacheSize = 16

	// DefaultCacheTTL is how long a derived summary stays cached
	DefaultCacheTTL = 10 * time.Minute
)

// Client owns one finance state. It is safe for concurrent use: mutations
// are serialized and reads see the last committed state.
type Client struct {
	// Service interfaces
	Transactions TransactionService
	Categories   CategoryService
	Budgets      BudgetService
	Goals        GoalService
	Summary      SummaryService
	Settings     SettingsService
	Export       ExportService

	// Internal fields
	options      *ClientOptions
	store        *persistence
	calc         *calculator
	cacheManager *cache.Manager
	rates        *transport.RatesTransport

	mu         sync.RWMutex
	state      FinanceState
	loaded     bool
	version    uint64
	loadSource LoadSource

	ratesMu     sync.Mutex
	ratesStatus RatesStatus

	subs subscribers
}

// ClientOptions configures the client
type ClientOptions struct {
	// Slot is where the state is persisted. Defaults to an in-memory slot.
	Slot Slot

	// StorageKey overrides the slot key. Defaults to StorageKey.
	StorageKey string

	// RatesURL overrides the exchange-rate API base URL
	RatesURL string

	// HTTPClient allows using a custom HTTP client for the rates fetch
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// RetryConfig enables retries for the rates fetch. Nil means a single attempt.
	RetryConfig *RetryConfig

	// CacheSize bounds the derived-summary cache
	CacheSize int

	// CacheTTL expires cached summaries. Zero keeps them until evicted.
	CacheTTL time.Duration

	// CacheCleanupInterval runs a background expiry sweep when positive
	CacheCleanupInterval time.Duration

	// Clock supplies timestamps. Defaults to time.Now in UTC.
	Clock func() time.Time

	// IDGenerator supplies record IDs. Defaults to random UUIDs.
	IDGenerator func() string

	// Logger for debug logging
	Logger Logger

	// Hooks for observability
	Hooks *Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NewClient creates a client. The state is not available until Load is called.
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	if opts.CacheSize < 0 {
		return nil, &ValidationErrors{Errors: []*ValidationError{{Field: "CacheSize", Message: "must not be negative", Value: opts.CacheSize}}}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		// Log error but don't fail client creation
		if err := sentry.Init(sentryOpts); err != nil && opts.Logger != nil {
			opts.Logger.Error("Failed to initialize Sentry", "error", err)
		}
	}

	// Set defaults
	if opts.Slot == nil {
		opts.Slot = NewMemorySlot()
	}

	if opts.StorageKey == "" {
		opts.StorageKey = StorageKey
	}

	if opts.RatesURL == "" {
		opts.RatesURL = DefaultRatesURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	if opts.CacheSize == 0 {
		opts.CacheSize = DefaultCacheSize
	}

	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}

	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}

	if opts.IDGenerator == nil {
		opts.IDGenerator = func() string { return uuid.New().String() }
	}

	c := &Client{
		options: opts,
		store: &persistence{
			slot:   opts.Slot,
			key:    opts.StorageKey,
			logger: opts.Logger,
		},
		calc: newCalculator(opts.CacheSize, opts.CacheTTL, opts.Logger),
		rates: transport.NewRatesTransport(&transport.Options{
			BaseURL:     opts.RatesURL,
			HTTPClient:  opts.HTTPClient,
			RetryConfig: opts.RetryConfig,
			Logger:      opts.Logger,
			Hooks:       opts.Hooks,
		}),
	}

	c.cacheManager = cache.NewManager(func(removed int) {
		if opts.Logger != nil {
			opts.Logger.Debug("Expired summaries removed", "count", removed)
		}
	})
	c.cacheManager.Register(c.calc.cache)
	c.cacheManager.StartCleanup(opts.CacheCleanupInterval)

	c.initServices()

	return c, nil
}

// Open creates a client and loads its state
func Open(ctx context.Context, opts *ClientOptions) (*Client, error) {
	c, err := NewClient(opts)
	if err != nil {
		return nil, err
	}
	if err := c.Load(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Transactions = &transactionService{client: c}
	c.Categories = &categoryService{client: c}
	c.Budgets = &budgetService{client: c}
	c.Goals = &goalService{client: c}
	c.Summary = &summaryService{client: c}
	c.Settings = &settingsService{client: c}
	c.Export = &exportService{client: c}
}

// Load reads the persisted state, falling back to the seed state when
// nothing is stored or the stored document is unreadable. Calling it again
// reloads from the slot.
func (c *Client) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	state, source := c.store.load(ctx)

	c.mu.Lock()
	c.state = state
	c.loaded = true
	c.loadSource = source
	c.mu.Unlock()

	if source == LoadedRecovered {
		c.reportError(ctx, "load", errors.New("stored finance state was unreadable; seed state restored"))
	}

	if c.options.Logger != nil {
		c.options.Logger.Info("Finance state ready", "source", string(source))
	}
	return nil
}

// Loaded reports whether Load has completed
func (c *Client) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// LoadSource reports where the current state was loaded from
func (c *Client) LoadSource() LoadSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadSource
}

// Version increases by one on every committed mutation
func (c *Client) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// State returns a copy of the current state
func (c *Client) State(ctx context.Context) (FinanceState, error) {
	state, err := c.current()
	if err != nil {
		return FinanceState{}, err
	}
	return state.Clone(), nil
}

// Reset replaces the state with the seed default
func (c *Client) Reset(ctx context.Context) error {
	_, err := c.dispatch(ctx, Reset{})
	return err
}

// Close stops background work, closes the slot and flushes pending Sentry events
func (c *Client) Close() error {
	c.cacheManager.Stop()
	err := c.options.Slot.Close()
	sentry.Flush(2 * time.Second)
	return err
}

// current returns the committed state. Callers must not modify it.
func (c *Client) current() (FinanceState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return FinanceState{}, ErrNotLoaded
	}
	return c.state, nil
}

func (c *Client) now() time.Time {
	return c.options.Clock()
}

func (c *Client) newID() string {
	return c.options.IDGenerator()
}

func (c *Client) dispatch(ctx context.Context, intent Intent) (FinanceState, error) {
	return c.mutate(ctx, func(FinanceState) (Intent, error) { return intent, nil })
}

// mutate builds an intent from the current state and commits its result.
// build runs under the write lock, so read-validate-write is atomic.
// A failed save is reported but never undoes the commit.
func (c *Client) mutate(ctx context.Context, build func(state FinanceState) (Intent, error)) (FinanceState, error) {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return FinanceState{}, ErrNotLoaded
	}

	intent, err := build(c.state)
	if err != nil {
		c.mu.Unlock()
		return FinanceState{}, err
	}

	next := Reduce(c.state, intent)
	c.state = next
	c.version++
	version := c.version

	saveErr := c.store.save(context.WithoutCancel(ctx), next)
	c.mu.Unlock()

	name := intentName(intent)
	if saveErr != nil {
		c.reportError(ctx, "save", saveErr)
	}

	if c.options.Logger != nil {
		c.options.Logger.Debug("State committed", "intent", name, "version", version)
	}

	if c.options.Hooks != nil && c.options.Hooks.OnCommit != nil {
		c.options.Hooks.OnCommit(ctx, name, version)
	}

	c.notify(name, version, next)

	return next, nil
}

// reportError logs err and forwards it to hooks and Sentry
func (c *Client) reportError(ctx context.Context, op string, err error) {
	if c.options.Logger != nil {
		c.options.Logger.Error("Finance operation failed", "operation", op, "error", err)
	}

	if c.options.Hooks != nil && c.options.Hooks.OnError != nil {
		c.options.Hooks.OnError(ctx, err)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("fintrack.operation", op)
			hub.CaptureException(err)
		})
	} else {
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("fintrack.operation", op)
			sentry.CaptureException(err)
		})
	}
}
