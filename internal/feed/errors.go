package feed

import (
	"errors"

	"MarketReplay/internal/model"
)

var (
	// ErrUnknownSymbol is returned by lookups on a symbol the engine was
	// never constructed with, and by construction with an empty symbol set.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrNoDataYet is returned by latest-bar queries before any bar has
	// been revealed for the symbol.
	ErrNoDataYet = errors.New("no data revealed yet")

	// ErrNonMonotonicSeries is returned at construction when an adapter
	// delivers an empty, unsorted, or duplicate-timestamped series.
	ErrNonMonotonicSeries = errors.New("non-monotonic series")

	// ErrUnknownField mirrors model.ErrUnknownField for callers that only
	// import this package.
	ErrUnknownField = model.ErrUnknownField
)
