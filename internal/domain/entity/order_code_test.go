package entity

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestOrderCode(t *testing.T) {
	items := []OrderItem{
		{Name: "Tomato", Price: 2.5, Quantity: 3},
	}

	code := OrderCode(items, "1000", "PH", 1, "fr000001")
	assert.Equal(t, "cu1000phto1fr000001", code)
}

func TestOrderCode_MultipleItemsKeepInputOrder(t *testing.T) {
	items := []OrderItem{
		{Name: "Tomato"},
		{Name: "Basil"},
		{Name: "Rice"},
	}

	code := OrderCode(items, "6000", "PH", 12, "fr000002")
	assert.Equal(t, "cu6000phtobari12fr000002", code)
}

func TestOrderCode_NoFranchise(t *testing.T) {
	items := []OrderItem{{Name: "Bundle"}}

	code := OrderCode(items, "1000", "PH", 2, "")
	assert.Equal(t, "cu1000phbu2none", code)
}

func TestOrderCode_ShortItemName(t *testing.T) {
	// Names shorter than two characters contribute what they have,
	// without padding.
	items := []OrderItem{{Name: "A"}, {Name: ""}}

	code := OrderCode(items, "1000", "PH", 1, "fr000001")
	assert.Equal(t, "cu1000pha1fr000001", code)
}

func TestOrderCode_MultibyteItemName(t *testing.T) {
	// Item segments are cut by character, not by byte, so non-ASCII
	// names stay valid UTF-8 in the code.
	items := []OrderItem{{Name: "Ñame"}, {Name: "龍眼"}}

	code := OrderCode(items, "1000", "PH", 1, "fr000001")
	assert.Equal(t, "cu1000phña龍眼1fr000001", code)
	assert.True(t, utf8.ValidString(code))
}

func TestOrderCode_Deterministic(t *testing.T) {
	items := []OrderItem{{Name: "Tomato"}, {Name: "Onion"}}

	first := OrderCode(items, "1000", "PH", 5, "fr000001")
	second := OrderCode(items, "1000", "PH", 5, "fr000001")
	assert.Equal(t, first, second)
}

func TestOrderCode_LowercasesCountryAndItems(t *testing.T) {
	items := []OrderItem{{Name: "TOMATO"}}

	code := OrderCode(items, "1000", "US", 1, "fr000009")
	assert.Equal(t, "cu1000usto1fr000009", code)
}

func TestNewTrackingNumber(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tn := NewTrackingNumber()
		assert.Len(t, tn, TrackingNumberLength)
		for _, r := range tn {
			assert.True(t, strings.ContainsRune(trackingAlphabet, r),
				"tracking number %q contains unexpected character %q", tn, r)
		}
		seen[tn] = true
	}

	// 100 draws from a 36^10 space colliding would point at a broken
	// generator rather than bad luck.
	assert.Greater(t, len(seen), 90)
}
