package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Manila Fresh Goods", "manila-fresh-goods"},
		{"  Cafe   24/7  ", "cafe-24-7"},
		{"ACME", "acme"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StoreSlug(tt.name), tt.name)
	}
}
