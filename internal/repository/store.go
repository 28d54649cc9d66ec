package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lancebay/contracts-service/internal/model"
	"github.com/lancebay/contracts-service/internal/service"
)

// Store implements the service persistence interfaces on gorm. A Store
// obtained through InTransaction shares a single database transaction, so
// every write made through it commits or rolls back together.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var (
	_ service.Store             = (*Store)(nil)
	_ service.NotificationStore = (*Store)(nil)
)

func (s *Store) InTransaction(ctx context.Context, fn func(tx service.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// hydrated attaches the preloads callers of GetContract and
// ListContractsByUser rely on: project (with its employer), proposal and
// both parties.
func hydrated(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Project").
		Preload("Project.Employer").
		Preload("Proposal").
		Preload("Employer").
		Preload("Freelancer")
}

func (s *Store) GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := hydrated(s.db.WithContext(ctx)).First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (s *Store) GetContractForUpdate(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	tx := s.db.WithContext(ctx)
	// sqlite (used by the tests) has no row locks; its writers already
	// serialize on the database lock.
	if tx.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var contract model.Contract
	if err := tx.First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (s *Store) ListContractsByUser(ctx context.Context, userID uuid.UUID) ([]model.Contract, error) {
	var contracts []model.Contract
	err := hydrated(s.db.WithContext(ctx)).
		Where("employer_id = ? OR freelancer_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (s *Store) ContractExistsForProposal(ctx context.Context, proposalID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("proposal_id = ?", proposalID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) CreateContract(ctx context.Context, contract *model.Contract) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(contract).Error
}

func (s *Store) SaveContract(ctx context.Context, contract *model.Contract) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(contract).Error
}

func (s *Store) UpdateContractStatus(ctx context.Context, id uuid.UUID, from, to model.ContractStatus) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

func (s *Store) DeleteContract(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&model.Contract{}, "id = ?", id).Error
}

func (s *Store) GetProposal(ctx context.Context, id uuid.UUID) (*model.Proposal, error) {
	var proposal model.Proposal
	err := s.db.WithContext(ctx).
		Preload("Project").
		Preload("Project.Employer").
		Preload("Freelancer").
		First(&proposal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (s *Store) UpdateProjectStatus(ctx context.Context, projectID uuid.UUID, status model.ProjectStatus) error {
	return s.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (s *Store) CreateNotification(ctx context.Context, notification *model.Notification) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(notification).Error
}

func (s *Store) GetNotification(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var notification model.Notification
	if err := s.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (s *Store) ListNotificationsByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}
