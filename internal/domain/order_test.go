package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lapak/internal/domain"
)

func TestOrderStatusCanTransition(t *testing.T) {
	allowed := map[domain.OrderStatus][]domain.OrderStatus{
		domain.StatusPending:    {domain.StatusProcessing, domain.StatusCancelled},
		domain.StatusProcessing: {domain.StatusShipped},
		domain.StatusShipped:    {domain.StatusDelivered},
		domain.StatusDelivered:  nil,
		domain.StatusCancelled:  nil,
	}

	all := []domain.OrderStatus{
		domain.StatusPending, domain.StatusProcessing, domain.StatusShipped,
		domain.StatusDelivered, domain.StatusCancelled,
	}
	for from, nexts := range allowed {
		ok := map[domain.OrderStatus]bool{}
		for _, n := range nexts {
			ok[n] = true
		}
		for _, to := range all {
			assert.Equal(t, ok[to], from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, domain.StatusPending.Valid())
	assert.True(t, domain.StatusCancelled.Valid())
	assert.False(t, domain.OrderStatus("REFUNDED").Valid())
	assert.False(t, domain.OrderStatus("").Valid())
	assert.False(t, domain.OrderStatus("pending").Valid(), "statuses are uppercase")
}
