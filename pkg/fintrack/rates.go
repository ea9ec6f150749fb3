package fintrack

import (
	"errors"

	internalTypes "github.com/eshaffer321/fintrack-go/internal/types"
)

// baseCurrency is the fixed base of every stored exchange rate
const baseCurrency = internalTypes.BaseCurrency

func statusCodeOf(err error) int {
	var transportErr *internalTypes.Error
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode
	}
	return 0
}
