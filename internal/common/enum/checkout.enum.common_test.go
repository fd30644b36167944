package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckoutStateCanSubmit(t *testing.T) {
	tests := []struct {
		state CheckoutStateEnum
		want  bool
	}{
		{CHECKOUT_IDLE, true},
		{CHECKOUT_FAILED, true},
		{CHECKOUT_PROCESSING, false},
		{CHECKOUT_SUCCEEDED, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.ToString(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.CanSubmit())
			assert.True(t, tt.state.IsValid())
		})
	}

	assert.False(t, CheckoutStateEnum("navigated").IsValid())
}
