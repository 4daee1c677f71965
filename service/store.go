package service

import (
	"context"
	"errors"

	"github.com/brunomainardes-tech/v0-contract-management-system/model"
)

// ErrNotFound is returned when a contract does not exist in the store.
var ErrNotFound = errors.New("contract not found")

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Status   string
	Category string
	// Search matches contract number, description and contractor,
	// case-insensitively.
	Search string
}

// ContractStore is the persistence boundary for contracts. The import
// pipeline only uses the two insert calls; handlers use the rest.
type ContractStore interface {
	Insert(ctx context.Context, contract *model.Contract) error
	InsertBatch(ctx context.Context, contracts []model.Contract) error
	Get(ctx context.Context, id string) (*model.Contract, error)
	List(ctx context.Context, filter ListFilter) ([]*model.Contract, error)
	Update(ctx context.Context, contract *model.Contract) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Stats(ctx context.Context) (*model.DashboardStats, error)
	// ExpiringWithin returns active contracts whose end date falls within
	// the next days days, soonest first.
	ExpiringWithin(ctx context.Context, days int) ([]*model.Contract, error)
	Close()
}
