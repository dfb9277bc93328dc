package service

import (
	"context"
	"errors"
	"fmt"

	"evaluation/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sortColumns maps the sort_column index to its column, in list-response order.
var sortColumns = []string{"id", "name", "skill_score", "experience_score", "hire"}

// SortCriteria orders a reviewer listing by column index.
type SortCriteria struct {
	Column int
	Asc    bool
}

func DefaultSort() SortCriteria {
	return SortCriteria{Column: 0, Asc: true}
}

func (c SortCriteria) orderClause() (string, error) {
	if c.Column < 0 || c.Column >= len(sortColumns) {
		return "", fmt.Errorf("%w: %d", ErrInvalidSortColumn, c.Column)
	}
	dir := "desc"
	if c.Asc {
		dir = "asc"
	}
	return sortColumns[c.Column] + " " + dir, nil
}

// ReviewerInput carries the writable fields. Nil means "not supplied".
type ReviewerInput struct {
	Name            string
	SkillScore      *int
	ExperienceScore *int
	Hire            *int
}

type ReviewerService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReviewerService(db *gorm.DB, log *zap.Logger) *ReviewerService {
	return &ReviewerService{db: db, log: log.Named("reviewer")}
}

// Create stores a new row. Missing scores default to 0 and a missing hire
// decision to "no".
func (s *ReviewerService) Create(ctx context.Context, in ReviewerInput) (*model.Reviewer, error) {
	if err := in.ValidateCreate(); err != nil {
		return nil, err
	}
	rev := &model.Reviewer{
		ID:   uuid.NewString(),
		Name: in.Name,
	}
	applyInput(rev, in)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Reviewer{}).Where("name = ?", rev.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyExistingName
		}
		if err := tx.Create(rev).Error; err != nil {
			return err
		}
		return createAuditLog(tx, rev, model.AuditLogCreate)
	})
	if err != nil {
		return nil, createError(in.Name, err)
	}

	s.log.Info("reviewer created", zap.String("id", rev.ID), zap.String("name", rev.Name))
	return rev, nil
}

// Update changes the supplied fields of an active row and keeps the rest.
func (s *ReviewerService) Update(ctx context.Context, name string, in ReviewerInput) (*model.Reviewer, error) {
	if err := in.ValidateUpdate(); err != nil {
		return nil, err
	}
	var rev *model.Reviewer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rev, err = findActiveByName(tx, name)
		if err != nil {
			return err
		}
		applyInput(rev, in)
		if err := tx.Model(rev).Select("skill_score", "experience_score", "hire", "updated_at").Updates(rev).Error; err != nil {
			return err
		}
		return createAuditLog(tx, rev, model.AuditLogUpdate)
	})
	if err != nil {
		if errors.Is(err, ErrReviewerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update reviewer %s: %w", name, err)
	}

	s.log.Info("reviewer updated", zap.String("id", rev.ID), zap.String("name", rev.Name))
	return rev, nil
}

// Delete soft-deletes an active row; its name becomes free again.
func (s *ReviewerService) Delete(ctx context.Context, name string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rev, err := findActiveByName(tx, name)
		if err != nil {
			return err
		}
		if err := tx.Delete(rev).Error; err != nil {
			return err
		}
		return createAuditLog(tx, rev, model.AuditLogDelete)
	})
	if err != nil {
		if errors.Is(err, ErrReviewerNotFound) {
			return err
		}
		return fmt.Errorf("delete reviewer %s: %w", name, err)
	}

	s.log.Info("reviewer deleted", zap.String("name", name))
	return nil
}

func (s *ReviewerService) GetByName(ctx context.Context, name string) (*model.Reviewer, error) {
	return findActiveByName(s.db.WithContext(ctx), name)
}

// List returns every active row in the requested order. Ties break on id.
func (s *ReviewerService) List(ctx context.Context, sort SortCriteria) ([]model.Reviewer, error) {
	order, err := sort.orderClause()
	if err != nil {
		return nil, err
	}

	var reviewers []model.Reviewer
	if err := s.db.WithContext(ctx).Order(order).Order("id asc").Find(&reviewers).Error; err != nil {
		return nil, fmt.Errorf("list reviewers: %w", err)
	}
	return reviewers, nil
}

// Average computes the mean of every active row. Hire decisions count as
// 1 and -1, so 0 means the panel is split. An empty panel averages to zero.
func (s *ReviewerService) Average(ctx context.Context) (model.AverageSummary, error) {
	var row struct {
		Skill      float64
		Experience float64
		Hire       float64
	}
	err := s.db.WithContext(ctx).Model(&model.Reviewer{}).
		Select("COALESCE(AVG(skill_score), 0) AS skill, " +
			"COALESCE(AVG(experience_score), 0) AS experience, " +
			"COALESCE(AVG(CASE WHEN hire THEN 1.0 ELSE -1.0 END), 0) AS hire").
		Scan(&row).Error
	if err != nil {
		return model.AverageSummary{}, fmt.Errorf("average reviewers: %w", err)
	}

	return model.AverageSummary{
		Name:            model.AverageLabel,
		SkillScore:      row.Skill,
		ExperienceScore: row.Experience,
		Hire:            row.Hire,
	}, nil
}

// Count returns the number of active rows.
func (s *ReviewerService) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Reviewer{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count reviewers: %w", err)
	}
	return count, nil
}

// createError folds a concurrent insert that lost the unique index race into
// the same error the count check gives.
func createError(name string, err error) error {
	switch {
	case errors.Is(err, ErrAlreadyExistingName):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", ErrAlreadyExistingName, name)
	}
	return fmt.Errorf("create reviewer %s: %w", name, err)
}

func findActiveByName(db *gorm.DB, name string) (*model.Reviewer, error) {
	var rev model.Reviewer
	err := db.Where("name = ?", name).First(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrReviewerNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("find reviewer %s: %w", name, err)
	}
	return &rev, nil
}

func applyInput(rev *model.Reviewer, in ReviewerInput) {
	if in.SkillScore != nil {
		rev.SkillScore = *in.SkillScore
	}
	if in.ExperienceScore != nil {
		rev.ExperienceScore = *in.ExperienceScore
	}
	if in.Hire != nil {
		rev.Hire = *in.Hire > 0
	}
}

func createAuditLog(tx *gorm.DB, rev *model.Reviewer, typ model.AuditLogType) error {
	return tx.Create(&model.AuditLog{
		ID:          uuid.NewString(),
		EntityID:    rev.ID,
		EntityClass: "Reviewer",
		Type:        typ,
		Message:     rev.Name,
	}).Error
}
