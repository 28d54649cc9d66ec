package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/lancebay/contracts-service/internal/model"
)

// Store is the persistence surface the contract service needs. A Store
// passed to the callback of InTransaction is bound to that transaction;
// returning an error rolls the whole unit of work back, so the contract
// mutation and its notification commit or fail together.
type Store interface {
	// GetContract returns the contract with project, proposal and both
	// parties populated, or gorm.ErrRecordNotFound.
	GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	// GetContractForUpdate locks the contract row for the duration of the
	// surrounding transaction so concurrent writers serialize.
	GetContractForUpdate(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	ListContractsByUser(ctx context.Context, userID uuid.UUID) ([]model.Contract, error)
	ContractExistsForProposal(ctx context.Context, proposalID uuid.UUID) (bool, error)
	CreateContract(ctx context.Context, contract *model.Contract) error
	SaveContract(ctx context.Context, contract *model.Contract) error
	// UpdateContractStatus sets the status only if the row still holds
	// from; the boolean reports whether a row was updated.
	UpdateContractStatus(ctx context.Context, id uuid.UUID, from, to model.ContractStatus) (bool, error)
	DeleteContract(ctx context.Context, id uuid.UUID) error

	// GetProposal returns the proposal with its project (and the
	// project's employer) and freelancer populated.
	GetProposal(ctx context.Context, id uuid.UUID) (*model.Proposal, error)
	UpdateProjectStatus(ctx context.Context, projectID uuid.UUID, status model.ProjectStatus) error

	CreateNotification(ctx context.Context, notification *model.Notification) error

	InTransaction(ctx context.Context, fn func(tx Store) error) error
}

// NotificationStore is the read/update surface of the notification gateway.
type NotificationStore interface {
	GetNotification(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	ListNotificationsByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
}
