package model

import (
	"time"

	"storefront/internal/domain/entity"
)

// StoreModel mirrors a document in the 'stores' collection, keyed by slug.
type StoreModel struct {
	FranchiseID string    `firestore:"franchiseId"`
	Name        string    `firestore:"name"`
	Status      string    `firestore:"status"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

// FromStoreDomain maps a domain store to its persistence model.
func FromStoreDomain(store *entity.Store) *StoreModel {
	return &StoreModel{
		FranchiseID: store.FranchiseID,
		Name:        store.Name,
		Status:      string(store.Status),
		CreatedAt:   store.CreatedAt,
		UpdatedAt:   store.UpdatedAt,
	}
}

// ToStoreDomain maps a persistence model back to a pure domain entity.
// The document ID is the slug, supplied by the caller.
func (m *StoreModel) ToStoreDomain(slug string) *entity.Store {
	return &entity.Store{
		Slug:        slug,
		FranchiseID: m.FranchiseID,
		Name:        m.Name,
		Status:      entity.StoreStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CounterModel mirrors a document in the 'counters' collection. A missing
// counter document reads as zero.
type CounterModel struct {
	Value int64 `firestore:"value"`
}
