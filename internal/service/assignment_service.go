package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/repository"
	"github.com/noah-isme/aula-go-api/internal/validation"
)

var assignmentRequiredFields = []string{"title", "description", "course", "due_date"}

// AssignmentService manages the assignment lifecycle for teachers and the
// shared read paths.
type AssignmentService interface {
	Create(ctx context.Context, teacherID string, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Get(ctx context.Context, id string) (dto.AssignmentResponse, error)
	List(ctx context.Context) ([]dto.AssignmentResponse, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]dto.TeacherAssignmentResponse, error)
	Update(ctx context.Context, teacherID, id string, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, teacherID, id string) error
	TeacherStats(ctx context.Context, teacherID string) (dto.TeacherStatsResponse, error)
}

type assignmentService struct {
	assignments   repository.AssignmentRepository
	submissions   repository.SubmissionRepository
	users         repository.UserRepository
	notifications NotificationService
	cache         *StatsCache
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	scoring       Scoring
	logger        zerolog.Logger
	now           func() time.Time
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	users repository.UserRepository,
	notifications NotificationService,
	cache *StatsCache,
	validate *validator.Validate,
	scoring Scoring,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments:   assignments,
		submissions:   submissions,
		users:         users,
		notifications: notifications,
		cache:         cache,
		validator:     validate,
		sanitizer:     bluemonday.StrictPolicy(),
		scoring:       scoring,
		logger:        logger.With().Str("component", "assignment_service").Logger(),
		now:           time.Now,
	}
}

func (s *assignmentService) Create(ctx context.Context, teacherID string, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if field := validation.FirstMissingField(payload.Fields(), assignmentRequiredFields); field != "" {
		return dto.AssignmentResponse{}, requiredFieldError(field)
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, &ValidationError{Field: "due_date", Message: "due date must be a valid RFC 3339 timestamp"}
	}

	if !dueDate.After(s.now()) {
		return dto.AssignmentResponse{}, &ValidationError{Field: "due_date", Message: "due date must be in the future"}
	}

	maxPoints := s.scoring.Max
	if payload.MaxPoints != nil {
		maxPoints = *payload.MaxPoints
	}

	kind := models.AssignmentKindHomework
	if payload.Kind != "" {
		kind = models.AssignmentKind(payload.Kind)
	}

	assignment := models.Assignment{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(payload.Title),
		Description:  payload.Description,
		Course:       strings.TrimSpace(payload.Course),
		TeacherID:    teacherID,
		DueDate:      dueDate,
		MaxPoints:    maxPoints,
		Kind:         kind,
		Status:       models.AssignmentStatusActive,
		Instructions: s.sanitizer.Sanitize(payload.Instructions),
		Attachments:  encodeAttachments(payload.Attachments),
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.broadcastToStudents(ctx, assignment)
	s.logger.Info().Str("assignment_id", assignment.ID).Str("teacher_id", teacherID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

// broadcastToStudents notifies every registered student about the new
// assignment and drops their cached stats, since the pending count depends
// on the total number of assignments. Failures are logged and do not fail
// the creation.
func (s *assignmentService) broadcastToStudents(ctx context.Context, assignment models.Assignment) {
	students, err := s.users.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to list students for assignment broadcast")
		return
	}

	for _, student := range students {
		s.cache.InvalidateStudent(ctx, student.ID)

		if _, err := s.notifications.Notify(ctx, NotificationInput{
			UserID:     student.ID,
			Kind:       models.NotificationInfo,
			Title:      "New assignment available",
			Message:    fmt.Sprintf("%s - %s", assignment.Title, assignment.Course),
			ActionType: "view_assignment",
			ActionRef:  assignment.ID,
		}); err != nil {
			s.logger.Warn().Err(err).Str("student_id", student.ID).Msg("failed to notify student about new assignment")
		}
	}
}

func (s *assignmentService) Get(ctx context.Context, id string) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) List(ctx context.Context) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) ListByTeacher(ctx context.Context, teacherID string) ([]dto.TeacherAssignmentResponse, error) {
	assignments, err := s.assignments.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TeacherAssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		total, err := s.submissions.CountByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, err
		}
		graded, err := s.submissions.CountGradedByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, err
		}

		responses = append(responses, dto.TeacherAssignmentResponse{
			AssignmentResponse: dto.NewAssignmentResponse(assignment),
			TotalSubmissions:   total,
			GradedCount:        graded,
		})
	}

	return responses, nil
}

func (s *assignmentService) Update(ctx context.Context, teacherID, id string, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	// Ownership is enforced symmetrically with delete.
	if assignment.TeacherID != teacherID {
		return dto.AssignmentResponse{}, ErrNotAssignmentOwner
	}

	if payload.Title != nil {
		assignment.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		assignment.Description = *payload.Description
	}
	if payload.Course != nil {
		assignment.Course = strings.TrimSpace(*payload.Course)
	}
	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, &ValidationError{Field: "due_date", Message: "due date must be a valid RFC 3339 timestamp"}
		}
		if !dueDate.After(s.now()) {
			return dto.AssignmentResponse{}, &ValidationError{Field: "due_date", Message: "due date must be in the future"}
		}
		assignment.DueDate = dueDate
	}
	if payload.MaxPoints != nil {
		assignment.MaxPoints = *payload.MaxPoints
	}
	if payload.Kind != nil {
		assignment.Kind = models.AssignmentKind(*payload.Kind)
	}
	if payload.Status != nil {
		assignment.Status = models.AssignmentStatus(*payload.Status)
	}
	if payload.Instructions != nil {
		assignment.Instructions = s.sanitizer.Sanitize(*payload.Instructions)
	}

	if err := s.assignments.Save(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, teacherID, id string) error {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	if assignment.TeacherID != teacherID {
		return ErrNotAssignmentOwner
	}

	// Capture affected students before the cascade removes their submissions.
	submissions, err := s.submissions.ListByAssignment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.assignments.DeleteWithSubmissions(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	for _, submission := range submissions {
		s.cache.InvalidateStudent(ctx, submission.StudentID)
	}

	s.logger.Info().Str("assignment_id", id).Str("teacher_id", teacherID).Msg("assignment deleted")

	return nil
}

func (s *assignmentService) TeacherStats(ctx context.Context, teacherID string) (dto.TeacherStatsResponse, error) {
	total, err := s.assignments.CountByTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherStatsResponse{}, err
	}

	active, err := s.assignments.CountActiveByTeacher(ctx, teacherID, s.now())
	if err != nil {
		return dto.TeacherStatsResponse{}, err
	}

	graded, err := s.submissions.CountStudentsGradedByTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherStatsResponse{}, err
	}

	return dto.TeacherStatsResponse{
		TotalAssignments:  total,
		ActiveAssignments: active,
		StudentsGraded:    graded,
	}, nil
}

func encodeAttachments(attachments []string) datatypes.JSON {
	if len(attachments) == 0 {
		return datatypes.JSON([]byte("[]"))
	}

	payload, err := json.Marshal(attachments)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(payload)
}
