package entity

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// OrderCode derives the semi-human-readable composite code of an order:
// the literal "cu", the shipping postal code verbatim, the lower-cased
// country code, the first two lower-cased characters of each item name
// in item order, the per-customer order sequence unpadded, and the
// franchise identifier (or "none" when absent).
//
// The code is deterministic in its inputs but NOT unique; the tracking
// number is the opaque customer-facing identifier. Item names shorter
// than two characters contribute fewer characters, with no padding.
func OrderCode(items []OrderItem, zipCode, countryCode string, orderNumber int, franchiseID string) string {
	var sb strings.Builder
	sb.WriteString("cu")
	sb.WriteString(zipCode)
	sb.WriteString(strings.ToLower(countryCode))
	for _, item := range items {
		sb.WriteString(strings.ToLower(firstN(item.Name, 2)))
	}
	sb.WriteString(strconv.Itoa(orderNumber))
	if franchiseID == "" {
		sb.WriteString("none")
	} else {
		sb.WriteString(franchiseID)
	}

	return sb.String()
}

// firstN takes the leading n characters of s, counted in runes so a
// multibyte item name never contributes a truncated code point.
func firstN(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}

const trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TrackingNumberLength is the length of generated tracking numbers.
const TrackingNumberLength = 10

// NewTrackingNumber produces an opaque random alphanumeric identifier
// for customer-facing tracking. Collisions are avoided only
// probabilistically; no storage check is performed here.
func NewTrackingNumber() string {
	buf := make([]byte, TrackingNumberLength)
	for i := range buf {
		buf[i] = trackingAlphabet[rand.IntN(len(trackingAlphabet))]
	}

	return string(buf)
}
