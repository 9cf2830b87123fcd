package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	Save(ctx context.Context, submission *models.Submission) error
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (models.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
	ListGradedByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
	CountByStudent(ctx context.Context, studentID string) (int64, error)
	CountByAssignment(ctx context.Context, assignmentID string) (int64, error)
	CountGradedByAssignment(ctx context.Context, assignmentID string) (int64, error)
	CountStudentsGradedByTeacher(ctx context.Context, teacherID string) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Save(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListGradedByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Assignment").
		Where("student_id = ? AND status = ?", studentID, models.SubmissionStatusGraded).
		Order("graded_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountByAssignment(ctx context.Context, assignmentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("assignment_id = ?", assignmentID).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountGradedByAssignment(ctx context.Context, assignmentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("assignment_id = ? AND status = ?", assignmentID, models.SubmissionStatusGraded).
		Count(&count).Error
	return count, err
}

// CountStudentsGradedByTeacher counts distinct students holding a graded
// submission on any of the teacher's assignments.
func (r *submissionRepository) CountStudentsGradedByTeacher(ctx context.Context, teacherID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Distinct("submissions.student_id").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("assignments.teacher_id = ? AND submissions.status = ?", teacherID, models.SubmissionStatusGraded).
		Count(&count).Error
	return count, err
}
