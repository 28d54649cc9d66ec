package model

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusNegotiating                   ContractStatus = "NEGOTIATING"
	ContractStatusActive                        ContractStatus = "ACTIVE"
	ContractStatusEmployerRequestsRevision      ContractStatus = "EMPLOYER_REQUESTS_REVISION"
	ContractStatusFreelancerRequestsRevision    ContractStatus = "FREELANCER_REQUESTS_REVISION"
	ContractStatusEmployerRequestsTermination   ContractStatus = "EMPLOYER_REQUESTS_TERMINATION"
	ContractStatusFreelancerRequestsTermination ContractStatus = "FREELANCER_REQUESTS_TERMINATION"
	ContractStatusFreelancerRequestsAcceptance  ContractStatus = "FREELANCER_REQUESTS_ACCEPTANCE"
	ContractStatusCompleted                     ContractStatus = "COMPLETED"
	ContractStatusTerminated                    ContractStatus = "TERMINATED"
)

// Contract is the negotiated agreement between a project's employer and the
// freelancer whose proposal was accepted. Exactly one contract may exist per
// proposal. Status is mutated only through the lifecycle engine; the content
// fields only through the draft editor while status is NEGOTIATING.
type Contract struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"contract_id"`
	ProjectID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	ProposalID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"proposal_id"`
	EmployerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"employer_id"`
	FreelancerID uuid.UUID      `gorm:"type:uuid;not null;index" json:"freelancer_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	Amount       float64        `gorm:"not null" json:"amount"`
	StartDate    time.Time      `gorm:"not null" json:"start_date"`
	EndDate      time.Time      `gorm:"not null" json:"end_date"`
	Status       ContractStatus `gorm:"size:40;not null;default:NEGOTIATING" json:"status"`
	Version      int            `gorm:"default:1" json:"version"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Project    Project  `gorm:"foreignKey:ProjectID" json:"project"`
	Proposal   Proposal `gorm:"foreignKey:ProposalID" json:"proposal"`
	Employer   User     `gorm:"foreignKey:EmployerID" json:"employer"`
	Freelancer User     `gorm:"foreignKey:FreelancerID" json:"freelancer"`
}

// IsParty reports whether the given user is the employer or the freelancer
// named on the contract.
func (c *Contract) IsParty(userID uuid.UUID) bool {
	return c.EmployerID == userID || c.FreelancerID == userID
}

// CounterpartyID returns the other party relative to the given role.
func (c *Contract) CounterpartyID(role Role) uuid.UUID {
	if role == RoleEmployer {
		return c.FreelancerID
	}
	return c.EmployerID
}
