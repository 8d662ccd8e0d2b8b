// Package model contains the persistence representations of the domain
// entities, tagged for Firestore document mapping.
package model

import (
	"time"

	"storefront/internal/domain/entity"
)

// UserModel mirrors a document in the 'users' collection. The document ID
// is the category-prefixed identifier, so it is not stored as a field.
type UserModel struct {
	Category     string `firestore:"category"`
	Email        string `firestore:"email"`
	FirstName    string `firestore:"firstName"`
	LastName     string `firestore:"lastName"`
	PasswordHash string `firestore:"passwordHash"`
	Username     string `firestore:"userName"`

	Phone          string `firestore:"phone"`
	PrimaryPhone   string `firestore:"primaryPhone"`
	SecondaryPhone string `firestore:"secondaryPhone"`
	Address        string `firestore:"address"`
	City           string `firestore:"city"`
	State          string `firestore:"state"`
	Country        string `firestore:"country"`
	CountryCode    string `firestore:"countryCode"`
	ZipCode        string `firestore:"zipCode"`

	StoreName   string `firestore:"storeName,omitempty"`
	StoreSlug   string `firestore:"storeSlug,omitempty"`
	StoreStatus string `firestore:"storeStatus,omitempty"`

	IsActive      bool `firestore:"isActive"`
	IsOnline      bool `firestore:"isOnline"`
	SchemaVersion int  `firestore:"schemaVersion"`

	PreviousID          string `firestore:"previousId,omitempty"`
	PreviousFranchiseID string `firestore:"previousFranchiseId,omitempty"`

	CreatedAt    time.Time  `firestore:"createdAt"`
	UpdatedAt    time.Time  `firestore:"updatedAt"`
	LastLoginAt  *time.Time `firestore:"lastLoginAt,omitempty"`
	LastActiveAt *time.Time `firestore:"lastActiveAt,omitempty"`
}

// FromUserDomain maps a domain user to its persistence model.
func FromUserDomain(user *entity.User) *UserModel {
	return &UserModel{
		Category:            string(user.Category),
		Email:               user.Email,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		PasswordHash:        user.PasswordHash,
		Username:            user.Username,
		Phone:               user.Phone,
		PrimaryPhone:        user.PrimaryPhone,
		SecondaryPhone:      user.SecondaryPhone,
		Address:             user.Address,
		City:                user.City,
		State:               user.State,
		Country:             user.Country,
		CountryCode:         user.CountryCode,
		ZipCode:             user.ZipCode,
		StoreName:           user.StoreName,
		StoreSlug:           user.StoreSlug,
		StoreStatus:         string(user.StoreStatus),
		IsActive:            user.IsActive,
		IsOnline:            user.IsOnline,
		SchemaVersion:       user.SchemaVersion,
		PreviousID:          user.PreviousID,
		PreviousFranchiseID: user.PreviousFranchiseID,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
		LastLoginAt:         user.LastLoginAt,
		LastActiveAt:        user.LastActiveAt,
	}
}

// ToUserDomain maps a persistence model back to a pure domain entity.
// The document ID is supplied by the caller.
func (m *UserModel) ToUserDomain(id string) *entity.User {
	return &entity.User{
		ID:                  id,
		Category:            entity.Category(m.Category),
		Email:               m.Email,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		PasswordHash:        m.PasswordHash,
		Username:            m.Username,
		Phone:               m.Phone,
		PrimaryPhone:        m.PrimaryPhone,
		SecondaryPhone:      m.SecondaryPhone,
		Address:             m.Address,
		City:                m.City,
		State:               m.State,
		Country:             m.Country,
		CountryCode:         m.CountryCode,
		ZipCode:             m.ZipCode,
		StoreName:           m.StoreName,
		StoreSlug:           m.StoreSlug,
		StoreStatus:         entity.StoreStatus(m.StoreStatus),
		IsActive:            m.IsActive,
		IsOnline:            m.IsOnline,
		SchemaVersion:       m.SchemaVersion,
		PreviousID:          m.PreviousID,
		PreviousFranchiseID: m.PreviousFranchiseID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		LastLoginAt:         m.LastLoginAt,
		LastActiveAt:        m.LastActiveAt,
	}
}
