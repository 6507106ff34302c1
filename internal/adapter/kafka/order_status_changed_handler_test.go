package kafka

import (
	"context"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aq2208/gshop-api/internal/adapter/memory"
	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/usecase"
)

func TestMapStatus(t *testing.T) {
	assert.Equal(t, domain.StatusConfirmed, MapStatus("SUCCESS"))
	assert.Equal(t, domain.StatusFailed, MapStatus("DECLINED"))
	assert.Equal(t, domain.StatusFailed, MapStatus(""))
}

func TestOrderStatusChangedHandler(t *testing.T) {
	tests := []struct {
		name       string
		start      string
		event      string
		wantStatus string
		wantCached bool
	}{
		{"success confirms", "PROCESSING", "SUCCESS", "CONFIRMED", true},
		{"failure fails", "PROCESSING", "ERROR", "FAILED", true},
		{"pending is not touched", "PENDING", "SUCCESS", "PENDING", false},
		{"settled is not touched", "CONFIRMED", "ERROR", "CONFIRMED", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := memory.NewOrderRepo()
			cache := memory.NewOrderCache()
			require.NoError(t, repo.Create(ctx, &usecase.OrderRecord{ID: "o1", Status: tt.start}))

			h := NewOrderStatusChangedHandler(repo, cache, nil)
			require.NoError(t, h.Handle(ctx, usecase.OrderStatusChangedMsg{OrderID: "o1", Status: tt.event}))

			rec, _ := repo.GetByID(ctx, "o1")
			assert.Equal(t, tt.wantStatus, rec.Status)
			st, ok, _ := cache.GetStatus(ctx, "o1")
			assert.Equal(t, tt.wantCached, ok)
			if ok {
				assert.Equal(t, tt.wantStatus, st)
			}
		})
	}
}

func TestCgHandler_Process(t *testing.T) {
	var seen []string
	h := &cgHandler{
		handle: func(_ context.Context, ev usecase.OrderStatusChangedMsg) error {
			seen = append(seen, ev.OrderID)
			if ev.Status == "RETRY" {
				return assert.AnError
			}
			return nil
		},
		log: zap.NewNop(),
	}
	ctx := context.Background()

	assert.True(t, h.process(ctx, &sarama.ConsumerMessage{Value: []byte(`{"orderId":"o1","status":"SUCCESS"}`)}))
	assert.False(t, h.process(ctx, &sarama.ConsumerMessage{Value: []byte(`{"orderId":"o2","status":"RETRY"}`)}))
	// poison is committed without reaching the handler
	assert.True(t, h.process(ctx, &sarama.ConsumerMessage{Value: []byte(`not json`)}))
	assert.True(t, h.process(ctx, &sarama.ConsumerMessage{Value: []byte(`{"status":"SUCCESS"}`)}))

	assert.Equal(t, []string{"o1", "o2"}, seen)
}
