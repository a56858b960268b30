package allowlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsAllowed(t *testing.T) {
	checker := NewChecker([]string{" Example.COM ", "training.test", ""}, zap.NewNop())

	tests := []struct {
		address string
		allowed bool
	}{
		{"alice@example.com", true},
		{"Bob@EXAMPLE.com", true},
		{"carol@training.test", true},
		{"dave@sub.example.com", false},
		{"eve@evil.test", false},
		{"no-at-sign", false},
		{"@example.com", false},
		{"trailing@", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.allowed, checker.IsAllowed(tt.address))
		})
	}
}

func TestIsAllowed_EmptyListRefusesAll(t *testing.T) {
	checker := NewChecker(nil, nil)
	assert.False(t, checker.IsAllowed("alice@example.com"))
}
