package ingest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/pkg/logger"
)

func testUpdate(account string, block int64) *models.HealthFactorUpdate {
	return &models.HealthFactorUpdate{
		ChainID:      1,
		Silo:         testSilo,
		Account:      account,
		HealthFactor: 0.9,
		BlockNumber:  block,
	}
}

func TestPipelinePreservesPerPositionOrder(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string][]int64)

	pipeline := NewPipeline(4, func(_ context.Context, u *models.HealthFactorUpdate) {
		mu.Lock()
		seen[u.Account] = append(seen[u.Account], u.BlockNumber)
		mu.Unlock()
	}, logger.NewNop())
	pipeline.Start(context.Background())

	accounts := make([]string, 8)
	for i := range accounts {
		accounts[i] = fmt.Sprintf("0x%040x", i+1)
	}
	for block := int64(1); block <= 50; block++ {
		for _, account := range accounts {
			pipeline.Submit(testUpdate(account, block))
		}
	}
	pipeline.Stop()

	for _, account := range accounts {
		blocks := seen[account]
		if len(blocks) != 50 {
			t.Fatalf("account %s: processed %d updates, want 50", account, len(blocks))
		}
		for i, block := range blocks {
			if block != int64(i+1) {
				t.Fatalf("account %s: out of order at %d: got block %d", account, i, block)
			}
		}
	}
}

func TestPipelineSurvivesHandlerPanic(t *testing.T) {
	var mu sync.Mutex
	var processed []int64

	pipeline := NewPipeline(1, func(_ context.Context, u *models.HealthFactorUpdate) {
		if u.BlockNumber == 2 {
			panic("boom")
		}
		mu.Lock()
		processed = append(processed, u.BlockNumber)
		mu.Unlock()
	}, logger.NewNop())
	pipeline.Start(context.Background())

	for block := int64(1); block <= 3; block++ {
		pipeline.Submit(testUpdate(testAccount, block))
	}
	pipeline.Stop()

	if len(processed) != 2 || processed[0] != 1 || processed[1] != 3 {
		t.Errorf("processed = %v, want [1 3]", processed)
	}
}
