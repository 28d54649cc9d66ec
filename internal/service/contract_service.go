package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lancebay/contracts-service/internal/lifecycle"
	"github.com/lancebay/contracts-service/internal/model"
)

// PDFGenerator renders a contract as a downloadable document.
type PDFGenerator interface {
	Generate(contract model.Contract) ([]byte, error)
}

// ExcelGenerator renders a contract list as a workbook.
type ExcelGenerator interface {
	Generate(contracts []model.Contract) ([]byte, error)
}

type ContractService struct {
	store Store
	pdf   PDFGenerator
	excel ExcelGenerator
}

func NewContractService(store Store, pdf PDFGenerator, excel ExcelGenerator) *ContractService {
	return &ContractService{
		store: store,
		pdf:   pdf,
		excel: excel,
	}
}

type CreateContractInput struct {
	ProposalID uuid.UUID
	Principal  model.Principal
}

// UpdateDraftInput carries partial-update semantics: nil fields are left
// untouched.
type UpdateDraftInput struct {
	Title     *string
	Content   *string
	Amount    *float64
	StartDate *time.Time
	EndDate   *time.Time
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// CreateFromProposal builds a draft contract from an accepted proposal. The
// caller must be the employer of the proposal's project, the proposal must
// be ACCEPTED, and no contract may already reference it. The contract row
// and the freelancer's notification are written in one transaction.
func (s *ContractService) CreateFromProposal(ctx context.Context, input CreateContractInput) (*model.Contract, error) {
	if input.ProposalID == uuid.Nil {
		return nil, fmt.Errorf("%w: proposal_id is required", ErrInvalidInput)
	}

	var contractID uuid.UUID
	err := s.store.InTransaction(ctx, func(tx Store) error {
		proposal, err := tx.GetProposal(ctx, input.ProposalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: proposal", ErrNotFound)
			}
			return err
		}
		if proposal.Project.EmployerID != input.Principal.UserID {
			return fmt.Errorf("%w: caller does not own this proposal's project", ErrPermissionDenied)
		}
		if proposal.Status != model.ProposalStatusAccepted {
			return fmt.Errorf("%w: proposal status is %s, want %s", ErrInvalidInput, proposal.Status, model.ProposalStatusAccepted)
		}
		exists, err := tx.ContractExistsForProposal(ctx, proposal.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: a contract already exists for this proposal", ErrConflict)
		}

		project := proposal.Project
		now := time.Now()
		endDate := now
		if project.CompletionDeadline != nil {
			endDate = *project.CompletionDeadline
		}

		contract := &model.Contract{
			ID:           uuid.New(),
			ProjectID:    project.ID,
			ProposalID:   proposal.ID,
			EmployerID:   project.EmployerID,
			FreelancerID: proposal.FreelancerID,
			Title:        project.Title,
			Content:      renderContractDraft(project, *proposal),
			Amount:       defaultAmount(project),
			StartDate:    now,
			EndDate:      endDate,
			Status:       model.ContractStatusNegotiating,
			Version:      1,
		}
		if err := tx.CreateContract(ctx, contract); err != nil {
			return err
		}
		contractID = contract.ID

		message := "Review the contract content and confirm signing."
		return tx.CreateNotification(ctx, &model.Notification{
			ID:      uuid.New(),
			UserID:  contract.FreelancerID,
			Title:   fmt.Sprintf("Employer created a contract draft %q", contract.Title),
			Message: &message,
			LinkURL: contractLink(contract.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.store.GetContract(ctx, contractID)
}

// Get returns a hydrated contract. Only the two parties may read it.
func (s *ContractService) Get(ctx context.Context, contractID uuid.UUID, principal model.Principal) (*model.Contract, error) {
	contract, err := s.store.GetContract(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contract", ErrNotFound)
		}
		return nil, err
	}
	if !contract.IsParty(principal.UserID) {
		return nil, fmt.Errorf("%w: caller is not a party to this contract", ErrPermissionDenied)
	}
	return contract, nil
}

// ListMine returns every contract where the caller is either party, newest
// updated first.
func (s *ContractService) ListMine(ctx context.Context, principal model.Principal) ([]model.Contract, error) {
	return s.store.ListContractsByUser(ctx, principal.UserID)
}

// UpdateDraft applies a partial update to a NEGOTIATING contract. Only the
// employer may edit, only supplied fields change, and version increments by
// exactly one.
func (s *ContractService) UpdateDraft(ctx context.Context, contractID uuid.UUID, input UpdateDraftInput, principal model.Principal) (*model.Contract, error) {
	if input.Amount != nil && *input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	err := s.store.InTransaction(ctx, func(tx Store) error {
		contract, err := s.loadOwnedDraft(ctx, tx, contractID, principal)
		if err != nil {
			return err
		}

		if input.Title != nil {
			contract.Title = *input.Title
		}
		if input.Content != nil {
			contract.Content = *input.Content
		}
		if input.Amount != nil {
			contract.Amount = *input.Amount
		}
		if input.StartDate != nil {
			contract.StartDate = *input.StartDate
		}
		if input.EndDate != nil {
			contract.EndDate = *input.EndDate
		}
		contract.Version++
		contract.UpdatedAt = time.Now()

		return tx.SaveContract(ctx, contract)
	})
	if err != nil {
		return nil, err
	}

	return s.store.GetContract(ctx, contractID)
}

// DeleteDraft withdraws a NEGOTIATING contract. Employer only; the single
// case where a contract is hard-deleted.
func (s *ContractService) DeleteDraft(ctx context.Context, contractID uuid.UUID, principal model.Principal) error {
	return s.store.InTransaction(ctx, func(tx Store) error {
		contract, err := s.loadOwnedDraft(ctx, tx, contractID, principal)
		if err != nil {
			return err
		}
		return tx.DeleteContract(ctx, contract.ID)
	})
}

func (s *ContractService) loadOwnedDraft(ctx context.Context, tx Store, contractID uuid.UUID, principal model.Principal) (*model.Contract, error) {
	contract, err := tx.GetContractForUpdate(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contract", ErrNotFound)
		}
		return nil, err
	}
	if !contract.IsParty(principal.UserID) {
		return nil, fmt.Errorf("%w: caller is not a party to this contract", ErrPermissionDenied)
	}
	if contract.EmployerID != principal.UserID {
		return nil, fmt.Errorf("%w: only the employer may edit a contract draft", ErrPermissionDenied)
	}
	if contract.Status != model.ContractStatusNegotiating {
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidState, contract.Status)
	}
	return contract, nil
}

// ApplyTransition moves a contract along one edge of the lifecycle state
// machine. Validation order: the contract must exist, the caller must be a
// party, the edge must be legal, and the caller's role must be allowed on
// that edge. The status write, the counter-party notification and (on the
// signing edge) the project staffing all commit atomically.
func (s *ContractService) ApplyTransition(ctx context.Context, contractID uuid.UUID, newStatus model.ContractStatus, principal model.Principal) (*model.Contract, error) {
	err := s.store.InTransaction(ctx, func(tx Store) error {
		contract, err := tx.GetContractForUpdate(ctx, contractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: contract", ErrNotFound)
			}
			return err
		}
		if !contract.IsParty(principal.UserID) {
			return fmt.Errorf("%w: caller is not a party to this contract", ErrPermissionDenied)
		}

		rule, ok := lifecycle.Lookup(contract.Status, newStatus)
		if !ok {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, contract.Status, newStatus)
		}
		if !rule.Allows(principal.Role) {
			return fmt.Errorf("%w: role %s may not apply %s -> %s", ErrPermissionDenied, principal.Role, contract.Status, newStatus)
		}

		notification := &model.Notification{
			ID:      uuid.New(),
			UserID:  contract.CounterpartyID(principal.Role),
			Title:   rule.Title(contract.Title, principal.Role),
			LinkURL: contractLink(contract.ID),
		}
		if err := tx.CreateNotification(ctx, notification); err != nil {
			return err
		}

		updated, err := tx.UpdateContractStatus(ctx, contract.ID, contract.Status, newStatus)
		if err != nil {
			return err
		}
		if !updated {
			return fmt.Errorf("%w: contract status changed concurrently", ErrConflict)
		}

		if rule.StaffProject {
			if err := tx.UpdateProjectStatus(ctx, contract.ProjectID, model.ProjectStatusStaffed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.store.GetContract(ctx, contractID)
}

// ExportPDF renders the contract document for either party.
func (s *ContractService) ExportPDF(ctx context.Context, contractID uuid.UUID, principal model.Principal) (*ExportResult, error) {
	contract, err := s.Get(ctx, contractID, principal)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*contract)
	if err != nil {
		return nil, err
	}
	name := sanitizeFileName(contract.Title)
	if name == "" {
		name = contract.ID.String()
	}
	return &ExportResult{
		FileName: fmt.Sprintf("contract-%s-v%d.pdf", name, contract.Version),
		Content:  content,
	}, nil
}

// ExportExcel renders the caller's contract list as a workbook.
func (s *ContractService) ExportExcel(ctx context.Context, principal model.Principal) (*ExportResult, error) {
	contracts, err := s.store.ListContractsByUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(contracts)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("contracts-%s.xlsx", time.Now().Format("20060102")),
		Content:  content,
	}, nil
}

func contractLink(id uuid.UUID) string {
	return "/contracts/" + id.String()
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
