package ingest

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/silowatch/silowatch/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseUpdate decodes one notification payload into a HealthFactorUpdate.
// The payload is the row_to_json form of the indexer's accountHealthFactor
// row, so field names are the indexer's column names.
func ParseUpdate(raw []byte) (*models.HealthFactorUpdate, error) {
	var update models.HealthFactorUpdate
	if err := json.Unmarshal(raw, &update); err != nil {
		return nil, fmt.Errorf("failed to decode update payload: %w", err)
	}
	if update.ObservedAt.IsZero() {
		update.ObservedAt = time.Now()
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	return &update, nil
}
