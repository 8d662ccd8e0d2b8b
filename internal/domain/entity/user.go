// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"regexp"
	"strings"
	"time"
)

// Category is the role/type of a user record. It decides which identifier
// namespace the user lives in and which optional fields are required.
type Category string

const (
	CategoryCustomer  Category = "customer"
	CategoryFranchise Category = "franchise"
	CategoryWebmaster Category = "webmaster"
	CategoryTest      Category = "test"
)

// Identifier prefixes per category namespace.
const (
	PrefixCustomer  = "cu"
	PrefixFranchise = "fr"
	PrefixWebmaster = "wm"
	PrefixTest      = "ts"
)

// SchemaVersion marks user records written by the current schema.
// Records carrying an older version need attribute backfill.
const SchemaVersion = 1

// Prefix returns the identifier prefix of the category namespace.
func (c Category) Prefix() string {
	switch c {
	case CategoryCustomer:
		return PrefixCustomer
	case CategoryFranchise:
		return PrefixFranchise
	case CategoryWebmaster:
		return PrefixWebmaster
	case CategoryTest:
		return PrefixTest
	}

	return ""
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c.Prefix() != ""
}

// CategoryFromID derives the category from an identifier's prefix.
// The boolean is false when the prefix belongs to no known namespace.
func CategoryFromID(id string) (Category, bool) {
	switch {
	case strings.HasPrefix(id, PrefixCustomer):
		return CategoryCustomer, true
	case strings.HasPrefix(id, PrefixFranchise):
		return CategoryFranchise, true
	case strings.HasPrefix(id, PrefixWebmaster):
		return CategoryWebmaster, true
	case strings.HasPrefix(id, PrefixTest):
		return CategoryTest, true
	}

	return "", false
}

// StoreStatus tracks the lifecycle of a franchise storefront.
type StoreStatus string

const (
	StoreStatusBuilding StoreStatus = "building"
	StoreStatusActive   StoreStatus = "active"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{4,20}$`)

// ValidUsername reports whether s satisfies the username rules:
// 4-20 characters, letters, digits and underscore only.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// User is a person/account record. The identifier is category-prefixed
// and immutable once assigned; a category change retires the record and
// births a new one under a new identifier (see the migration usecase).
type User struct {
	ID           string   // Category-prefixed, zero-padded sequence number, e.g. "cu000001".
	Category     Category // Role of the record; decides required fields.
	Email        string   // Unique across all users.
	FirstName    string
	LastName     string
	PasswordHash string // bcrypt hash; never the plaintext password.
	Username     string // Required for every category except customer.

	Phone          string
	PrimaryPhone   string
	SecondaryPhone string
	Address        string
	City           string
	State          string
	Country        string
	CountryCode    string
	ZipCode        string

	StoreName   string      // Franchise only.
	StoreSlug   string      // Franchise only.
	StoreStatus StoreStatus // Franchise only.

	IsActive      bool
	IsOnline      bool
	SchemaVersion int

	// Lineage pointers written by category migration. PreviousID records
	// the customer identifier vacated by an upgrade; PreviousFranchiseID
	// records the franchise identifier vacated by a revert, so a later
	// re-upgrade can reclaim it.
	PreviousID          string
	PreviousFranchiseID string

	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
	LastActiveAt *time.Time
}

// RequiresUsername reports whether the user's category makes the
// username field mandatory.
func (u *User) RequiresUsername() bool {
	return u.Category != CategoryCustomer
}
