package fintrack

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// settingsService implements the SettingsService interface
type settingsService struct {
	client *Client
}

func (s *settingsService) Currency(ctx context.Context) (string, error) {
	state, err := s.client.current()
	if err != nil {
		return "", err
	}
	return state.Currency, nil
}

func (s *settingsService) SetCurrency(ctx context.Context, code string) error {
	_, err := s.client.mutate(ctx, func(FinanceState) (Intent, error) {
		normalized, err := normalizeCurrency(code)
		if err != nil {
			return nil, err
		}
		return SetCurrency{Currency: normalized}, nil
	})
	return err
}

func (s *settingsService) ExchangeRates(ctx context.Context) (map[string]float64, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	rates := cloneMap(state.ExchangeRates)
	if rates == nil {
		rates = map[string]float64{}
	}
	return rates, nil
}

func (s *settingsService) SetExchangeRates(ctx context.Context, rates map[string]float64) error {
	_, err := s.client.mutate(ctx, func(FinanceState) (Intent, error) {
		if err := validateRates(rates); err != nil {
			return nil, err
		}
		return SetExchangeRates{Rates: rates}, nil
	})
	return err
}

// RefreshRates fetches USD-based rates. On failure the stored rates and
// currency stay as they were and the error is recorded in RatesStatus.
func (s *settingsService) RefreshRates(ctx context.Context) (map[string]float64, error) {
	if !s.client.Loaded() {
		return nil, ErrNotLoaded
	}

	s.client.ratesMu.Lock()
	s.client.ratesStatus.InFlight = true
	s.client.ratesStatus.LastAttempt = s.client.now()
	s.client.ratesMu.Unlock()

	resp, err := s.client.rates.Fetch(ctx, baseCurrency)

	s.client.ratesMu.Lock()
	s.client.ratesStatus.InFlight = false
	if err != nil {
		s.client.ratesStatus.LastError = err.Error()
	} else {
		s.client.ratesStatus.LastError = ""
		s.client.ratesStatus.LastSuccess = s.client.now()
	}
	s.client.ratesMu.Unlock()

	if err != nil {
		s.client.reportError(ctx, "refresh_rates", err)
		rerr := WrapError(fmt.Errorf("%w: %w", ErrRatesUnavailable, err), "RATES_UNAVAILABLE", "failed to fetch exchange rates")
		rerr.StatusCode = statusCodeOf(err)
		rerr.Details = map[string]interface{}{"base": baseCurrency}
		return nil, rerr
	}

	if err := s.SetExchangeRates(ctx, resp.Rates); err != nil {
		return nil, err
	}

	if s.client.options.Logger != nil {
		s.client.options.Logger.Info("Exchange rates refreshed", "count", len(resp.Rates), "date", resp.Date)
	}
	return cloneMap(resp.Rates), nil
}

func (s *settingsService) RatesStatus() RatesStatus {
	s.client.ratesMu.Lock()
	defer s.client.ratesMu.Unlock()
	return s.client.ratesStatus
}

// Convert multiplies amount by the stored rate for to. A missing rate is an
// error even when from equals to.
func (s *settingsService) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	state, err := s.client.current()
	if err != nil {
		return 0, err
	}
	return ConvertAmount(state.ExchangeRates, amount, from, to)
}

// ConvertAmount multiplies amount by rates[to]. Rates are relative to USD.
// A zero rate counts as missing.
func ConvertAmount(rates map[string]float64, amount float64, from, to string) (float64, error) {
	rate, ok := rates[to]
	if !ok || rate == 0 {
		return 0, errors.Wrapf(ErrNoRate, "no rate for %s", to)
	}
	if from == to {
		return amount, nil
	}
	return amount * rate, nil
}
