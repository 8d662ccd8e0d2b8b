package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryPrefix(t *testing.T) {
	assert.Equal(t, "cu", CategoryCustomer.Prefix())
	assert.Equal(t, "fr", CategoryFranchise.Prefix())
	assert.Equal(t, "wm", CategoryWebmaster.Prefix())
	assert.Equal(t, "ts", CategoryTest.Prefix())
	assert.Empty(t, Category("vendor").Prefix())
}

func TestCategoryFromID(t *testing.T) {
	tests := []struct {
		id   string
		want Category
		ok   bool
	}{
		{"cu000001", CategoryCustomer, true},
		{"fr000010", CategoryFranchise, true},
		{"wm000001", CategoryWebmaster, true},
		{"ts000002", CategoryTest, true},
		{"xx000001", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := CategoryFromID(tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.want, got, tt.id)
	}
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("shop_owner1"))
	assert.True(t, ValidUsername("abcd"))
	assert.False(t, ValidUsername("abc"))                     // too short
	assert.False(t, ValidUsername("this_name_is_way_too_long_for_us"))
	assert.False(t, ValidUsername("bad name"))                // space
	assert.False(t, ValidUsername("bad-name"))                // hyphen
	assert.False(t, ValidUsername(""))
}

func TestRequiresUsername(t *testing.T) {
	assert.False(t, (&User{Category: CategoryCustomer}).RequiresUsername())
	assert.True(t, (&User{Category: CategoryFranchise}).RequiresUsername())
	assert.True(t, (&User{Category: CategoryWebmaster}).RequiresUsername())
}
