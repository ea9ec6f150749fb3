package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	stdlog "log"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/eshaffer321/fintrack-go/internal/config"
	"github.com/eshaffer321/fintrack-go/internal/log"
	"github.com/eshaffer321/fintrack-go/pkg/fintrack"
)

// ValidatorConfig holds configuration for the validator
type ValidatorConfig struct {
	EnvFile   string
	Backend   string
	DataPath  string
	OutputDir string
	Verbose   bool
}

// CheckResult represents the result of one validation check
type CheckResult struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ValidationReport represents the full validation report
type ValidationReport struct {
	Timestamp   time.Time                 `json:"timestamp"`
	Backend     string                    `json:"backend"`
	DataPath    string                    `json:"data_path,omitempty"`
	LoadSource  fintrack.LoadSource       `json:"load_source"`
	TotalChecks int                       `json:"total_checks"`
	Passed      int                       `json:"passed"`
	Failed      int                       `json:"failed"`
	SuccessRate float64                   `json:"success_rate"`
	Summary     *fintrack.Summary         `json:"summary,omitempty"`
	Issues      []fintrack.IntegrityIssue `json:"issues"`
	Results     []CheckResult             `json:"results"`
}

func main() {
	os.Exit(run())
}

func run() int {
	vc := parseFlags()

	cfg := config.LoadWithDotEnv(dotEnvFiles(vc.EnvFile)...)
	if vc.Backend != "" {
		cfg.StorageBackend = vc.Backend
	}
	if vc.DataPath != "" {
		cfg.DataPath = vc.DataPath
	}
	if err := cfg.Validate(); err != nil {
		stdlog.Printf("Invalid configuration: %v", err)
		return 2
	}

	level := log.ParseLevel(cfg.LogLevel)
	if vc.Verbose {
		level = log.ParseLevel("debug")
	}
	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentValidator,
		Format:    cfg.LogFormat,
		Output:    os.Stderr,
	})

	// Create output directory
	if err := os.MkdirAll(vc.OutputDir, 0755); err != nil {
		stdlog.Printf("Failed to create output directory: %v", err)
		return 2
	}

	// Run validation
	validator, err := NewValidator(cfg, logger)
	if err != nil {
		stdlog.Printf("Failed to open finance state: %v", err)
		return 2
	}
	defer validator.Close()

	report := validator.Run(context.Background())

	// Save report
	reportPath := filepath.Join(vc.OutputDir, fmt.Sprintf("validation_report_%d.json", time.Now().Unix()))
	if err := saveReport(report, reportPath); err != nil {
		stdlog.Printf("Failed to save report: %v", err)
		return 2
	}

	printSummary(report, reportPath)

	// Exit with non-zero if any check failed
	if report.Failed > 0 {
		return 1
	}
	return 0
}

func parseFlags() *ValidatorConfig {
	vc := &ValidatorConfig{}

	flag.StringVar(&vc.EnvFile, "env", "", "Path to a .env file (defaults to ./.env when present)")
	flag.StringVar(&vc.Backend, "backend", "", "Storage backend: memory, file or sqlite (overrides FINTRACK_STORAGE)")
	flag.StringVar(&vc.DataPath, "data", "", "Data directory or database file (overrides FINTRACK_DATA_PATH)")
	flag.StringVar(&vc.OutputDir, "output", "./validation_results", "Output directory for results")
	flag.BoolVar(&vc.Verbose, "verbose", false, "Verbose output")

	flag.Parse()
	return vc
}

func dotEnvFiles(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}

// Validator checks a stored finance document
type Validator struct {
	cfg    *config.Config
	logger *log.Logger
	client *fintrack.Client
}

// NewValidator opens the configured slot and loads its state
func NewValidator(cfg *config.Config, logger *log.Logger) (*Validator, error) {
	slot, err := fintrack.OpenSlot(cfg.StorageBackend, cfg.DataPath)
	if err != nil {
		return nil, err
	}

	client, err := fintrack.Open(context.Background(), &fintrack.ClientOptions{
		Slot:      slot,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Logger:    logger,
	})
	if err != nil {
		slot.Close()
		return nil, err
	}

	return &Validator{cfg: cfg, logger: logger, client: client}, nil
}

// Close releases the slot
func (v *Validator) Close() {
	if err := v.client.Close(); err != nil {
		v.logger.Warn("Failed to close slot", log.FieldError, err)
	}
}

// Run executes every check against the loaded state
func (v *Validator) Run(ctx context.Context) *ValidationReport {
	report := &ValidationReport{
		Timestamp:  time.Now(),
		Backend:    v.cfg.StorageBackend,
		DataPath:   v.cfg.DataPath,
		LoadSource: v.client.LoadSource(),
		Issues:     []fintrack.IntegrityIssue{},
		Results:    make([]CheckResult, 0),
	}

	state, err := v.client.State(ctx)
	if err != nil {
		report.Results = append(report.Results, CheckResult{Name: "load", Detail: err.Error()})
		report.tally()
		return report
	}

	summary, err := v.client.Summary.Get(ctx)
	if err == nil {
		report.Summary = summary
	}

	checks := []struct {
		name string
		run  func() (bool, string)
	}{
		{"load", func() (bool, string) { return v.checkLoad() }},
		{"round_trip", func() (bool, string) { return checkRoundTrip(state) }},
		{"balance_identity", func() (bool, string) { return checkBalance(summary) }},
		{"derived_state", func() (bool, string) { return checkDerived(state, summary) }},
		{"budget_status", func() (bool, string) { return checkBudgets(summary) }},
		{"integrity", func() (bool, string) {
			integrity := fintrack.CheckIntegrity(state)
			report.Issues = integrity.Issues
			if integrity.OK() {
				return true, ""
			}
			return false, fmt.Sprintf("%d integrity issue(s)", len(integrity.Issues))
		}},
	}

	for _, check := range checks {
		v.logger.Debug("Running check", "check", check.name)

		start := time.Now()
		passed, detail := check.run()
		report.Results = append(report.Results, CheckResult{
			Name:     check.name,
			Passed:   passed,
			Detail:   detail,
			Duration: time.Since(start),
		})

		if !passed {
			v.logger.Warn("Check failed", "check", check.name, "detail", detail)
		}
	}

	report.tally()
	return report
}

func (r *ValidationReport) tally() {
	r.Passed, r.Failed = 0, 0
	for _, result := range r.Results {
		if result.Passed {
			r.Passed++
		} else {
			r.Failed++
		}
	}
	r.TotalChecks = len(r.Results)
	if r.TotalChecks > 0 {
		r.SuccessRate = float64(r.Passed) / float64(r.TotalChecks) * 100
	}
}

func (v *Validator) checkLoad() (bool, string) {
	if v.client.LoadSource() == fintrack.LoadedRecovered {
		return false, "stored document was unreadable; the seed state was used"
	}
	return true, string(v.client.LoadSource())
}

func checkRoundTrip(state fintrack.FinanceState) (bool, string) {
	data, err := fintrack.EncodeState(state)
	if err != nil {
		return false, err.Error()
	}
	decoded, err := fintrack.DecodeState(data)
	if err != nil {
		return false, err.Error()
	}
	if !reflect.DeepEqual(state, decoded) {
		return false, "state changed after encode and decode"
	}
	return true, ""
}

func checkBalance(s *fintrack.Summary) (bool, string) {
	if s == nil {
		return false, "summary unavailable"
	}
	if math.Abs(s.Balance-(s.TotalIncome-s.TotalExpenses)) > 1e-6 {
		return false, fmt.Sprintf("balance %.2f != income %.2f - expenses %.2f", s.Balance, s.TotalIncome, s.TotalExpenses)
	}
	return true, ""
}

// checkDerived compares the memoised summary against a fresh computation
func checkDerived(state fintrack.FinanceState, s *fintrack.Summary) (bool, string) {
	if s == nil {
		return false, "summary unavailable"
	}
	fresh := fintrack.Calculate(state.Transactions, state.Categories, state.Budgets)
	if !reflect.DeepEqual(fresh, s) {
		return false, "cached summary differs from a fresh computation"
	}
	return true, ""
}

func checkBudgets(s *fintrack.Summary) (bool, string) {
	if s == nil {
		return false, "summary unavailable"
	}
	for id, status := range s.BudgetStatus {
		if status.Percentage < 0 || status.Percentage > 100 {
			return false, fmt.Sprintf("budget %s percentage %.2f out of range", id, status.Percentage)
		}
		if math.Abs(status.Remaining-(status.Budget-status.Spent)) > 1e-6 {
			return false, fmt.Sprintf("budget %s remaining %.2f != budget - spent", id, status.Remaining)
		}
	}
	return true, ""
}

func saveReport(report *ValidationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printSummary(report *ValidationReport, path string) {
	fmt.Println("\n=== Validation Report ===")
	fmt.Printf("Storage: %s (%s)\n", report.Backend, report.LoadSource)
	fmt.Printf("Total Checks: %d\n", report.TotalChecks)
	fmt.Printf("Passed: %d\n", report.Passed)
	fmt.Printf("Failed: %d\n", report.Failed)
	fmt.Printf("Success Rate: %.1f%%\n", report.SuccessRate)

	if report.Failed > 0 {
		fmt.Println("\nFailed Checks:")
		for _, result := range report.Results {
			if !result.Passed {
				fmt.Printf("  - %s: %s\n", result.Name, result.Detail)
			}
		}
	}

	if len(report.Issues) > 0 {
		fmt.Println("\nIntegrity Issues:")
		for _, issue := range report.Issues {
			fmt.Printf("  - [%s] %s\n", issue.Kind, issue.Message)
		}
	}

	fmt.Printf("\nReport saved to: %s\n", path)
}
