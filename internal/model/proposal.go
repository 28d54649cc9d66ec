package model

import (
	"time"

	"github.com/google/uuid"
)

type ProposalStatus string

const (
	ProposalStatusSubmitted ProposalStatus = "SUBMITTED"
	ProposalStatusAccepted  ProposalStatus = "ACCEPTED"
	ProposalStatusRejected  ProposalStatus = "REJECTED"
)

type Proposal struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"proposal_id"`
	ProjectID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	FreelancerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"freelancer_id"`
	BriefDescription string         `gorm:"type:text" json:"brief_description"`
	AttachmentURL    string         `gorm:"size:500" json:"attachment_url"`
	Status           ProposalStatus `gorm:"size:32;not null;default:SUBMITTED" json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	Project    Project `gorm:"foreignKey:ProjectID" json:"project"`
	Freelancer User    `gorm:"foreignKey:FreelancerID" json:"freelancer"`
}
