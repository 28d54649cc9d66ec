package model

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusRecruiting ProjectStatus = "RECRUITING"
	ProjectStatusClosed     ProjectStatus = "CLOSED"
	ProjectStatusStaffed    ProjectStatus = "STAFFED"
)

type Project struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primaryKey" json:"project_id"`
	EmployerID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"employer_id"`
	Title              string        `gorm:"size:255;not null" json:"title"`
	Description        string        `gorm:"type:text;not null" json:"description"`
	Status             ProjectStatus `gorm:"size:32;not null;default:RECRUITING" json:"status"`
	WorkType           string        `gorm:"size:32" json:"work_type"`
	Location           string        `gorm:"size:255" json:"location"`
	BudgetMin          *float64      `json:"budget_min"`
	BudgetMax          *float64      `json:"budget_max"`
	ProposalsDeadline  *time.Time    `json:"proposals_deadline"`
	CompletionDeadline *time.Time    `json:"completion_deadline"`
	RequiredPeople     int           `gorm:"default:1" json:"required_people"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	Employer User `gorm:"foreignKey:EmployerID" json:"employer"`
}
