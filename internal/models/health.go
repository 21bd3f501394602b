package models

import (
	"fmt"
	"time"
)

// HealthFactorUpdate is one immutable observation emitted by the external
// indexing pipeline. Field names follow the indexer's column names, which is
// what the pg_notify payload carries.
type HealthFactorUpdate struct {
	ChainID      int       `json:"chainId"`
	Silo         string    `json:"silo"`
	Account      string    `json:"account"`
	HealthFactor float64   `json:"healthFactor"`
	BlockNumber  int64     `json:"block"`
	ObservedAt   time.Time `json:"observedAt"`
}

// Key returns the position key the update refers to.
func (u *HealthFactorUpdate) Key() PositionKey {
	return PositionKey{ChainID: u.ChainID, Silo: u.Silo, Account: u.Account}.Normalize()
}

func (u *HealthFactorUpdate) Validate() error {
	if err := u.Key().Validate(); err != nil {
		return err
	}
	if u.HealthFactor < 0 {
		return fmt.Errorf("%w: health factor must be non-negative, got %g", ErrValidation, u.HealthFactor)
	}
	if u.BlockNumber < 0 {
		return fmt.Errorf("%w: block number must be non-negative, got %d", ErrValidation, u.BlockNumber)
	}
	return nil
}

// Position is one lending position returned by the external position lookup.
type Position struct {
	ChainID int     `json:"chainId"`
	Silo    string  `json:"silo"`
	Asset   string  `json:"asset"`
	Balance float64 `json:"balance"`
}
