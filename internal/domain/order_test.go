package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, ValidOrderStatus(s), s)
	}
	assert.False(t, ValidOrderStatus(""))
	assert.False(t, ValidOrderStatus("Pending"))
	assert.False(t, ValidOrderStatus("returned"))
}
