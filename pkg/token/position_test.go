package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/framelint/framelint/pkg/token"
)

func TestPosition_IsValid(t *testing.T) {
	assert.True(t, token.Position{Line: 1, Column: 1}.IsValid())
	assert.False(t, token.Position{}.IsValid())
	assert.False(t, token.Position{Line: 0, Column: 5}.IsValid())
}

func TestPosition_Before(t *testing.T) {
	tests := []struct {
		name string
		a, b token.Position
		want bool
	}{
		{"earlier line", token.Position{Line: 1, Column: 9}, token.Position{Line: 2, Column: 1}, true},
		{"same line earlier column", token.Position{Line: 3, Column: 2}, token.Position{Line: 3, Column: 7}, true},
		{"same position", token.Position{Line: 3, Column: 2}, token.Position{Line: 3, Column: 2}, false},
		{"later line", token.Position{Line: 4, Column: 1}, token.Position{Line: 2, Column: 9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Before(tt.b))
		})
	}
}

func TestSpan_IsValid(t *testing.T) {
	valid := token.Span{Start: token.Position{Line: 1, Column: 1}, End: token.Position{Line: 1, Column: 2}}
	assert.True(t, valid.IsValid())
	assert.False(t, token.Span{}.IsValid())
	assert.False(t, token.Span{Start: token.Position{Line: 1, Column: 1}}.IsValid())
}
