package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData matches every *InsufficientDataError via errors.Is
	ErrInsufficientData = errors.New("insufficient data")

	// ErrZeroBase is returned for a percentage change over a zero, NaN or infinite base
	ErrZeroBase = errors.New("zero or missing base price")

	// ErrEmptySeries is returned when the provider answered with no usable bars
	ErrEmptySeries = errors.New("empty series")
)

// FetchError is a provider, network or parse failure for one symbol
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// InsufficientDataError means fewer bars arrived than a calculator needs
type InsufficientDataError struct {
	Symbol string
	Have   int
	Need   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: have %d bars, need %d", e.Symbol, e.Have, e.Need)
}

// Is lets errors.Is(err, ErrInsufficientData) match
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
