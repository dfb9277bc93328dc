package model

import (
	"time"

	"gorm.io/gorm"
)

// Reviewer is one panel member's scoring row for the applicant.
type Reviewer struct {
	ID              string `gorm:"primaryKey;size:36"`
	// Unique among rows that are not soft-deleted.
	Name            string `gorm:"size:50;not null;uniqueIndex:idx_reviewers_active_name,where:deleted_at IS NULL"`
	SkillScore      int
	ExperienceScore int
	Hire            bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// Hire decisions as they travel over the wire.
const (
	HireYes = 1
	HireNo  = -1
)

// HireValue converts the stored decision to its wire value.
func HireValue(hire bool) int {
	if hire {
		return HireYes
	}
	return HireNo
}

// Record is the JSON shape of a reviewer row shared by the resource and its clients.
type Record struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	SkillScore      int    `json:"skill_score"`
	ExperienceScore int    `json:"experience_score"`
	Hire            int    `json:"hire"`
}

func (r Reviewer) Record() Record {
	return Record{
		ID:              r.ID,
		Name:            r.Name,
		SkillScore:      r.SkillScore,
		ExperienceScore: r.ExperienceScore,
		Hire:            HireValue(r.Hire),
	}
}

// AverageSummary has the Record shape with every score replaced by its mean.
type AverageSummary struct {
	Name            string  `json:"name"`
	SkillScore      float64 `json:"skill_score"`
	ExperienceScore float64 `json:"experience_score"`
	Hire            float64 `json:"hire"`
}

const AverageLabel = "Average"
