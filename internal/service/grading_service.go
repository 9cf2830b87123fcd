package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/observability"
	"github.com/noah-isme/aula-go-api/internal/repository"
)

// GradingService encapsulates the teacher-driven grading workflow: a grade
// may be assigned before the student ever submitted anything, in which case
// the submission record is created at grading time.
type GradingService interface {
	Grade(ctx context.Context, teacherID string, payload dto.GradeRequest) (dto.SubmissionResponse, error)
	ListForAssignment(ctx context.Context, assignmentID string) ([]dto.SubmissionWithStudentResponse, error)
	AssignmentStats(ctx context.Context, assignmentID string) (dto.AssignmentStatsResponse, error)
}

type gradingService struct {
	submissions   repository.SubmissionRepository
	assignments   repository.AssignmentRepository
	users         repository.UserRepository
	notifications NotificationService
	cache         *StatsCache
	validator     *validator.Validate
	scoring       Scoring
	logger        zerolog.Logger
	now           func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	users repository.UserRepository,
	notifications NotificationService,
	cache *StatsCache,
	validate *validator.Validate,
	scoring Scoring,
	logger zerolog.Logger,
) GradingService {
	return &gradingService{
		submissions:   submissions,
		assignments:   assignments,
		users:         users,
		notifications: notifications,
		cache:         cache,
		validator:     validate,
		scoring:       scoring,
		logger:        logger.With().Str("component", "grading_service").Logger(),
		now:           time.Now,
	}
}

func (s *gradingService) Grade(ctx context.Context, teacherID string, payload dto.GradeRequest) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/aula-go-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.assign", trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(
		attribute.String("grading.assignment_id", payload.AssignmentID),
		attribute.String("grading.student_id", payload.StudentID),
		attribute.String("grading.teacher_id", teacherID),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "assignment_not_found")
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	if assignment.TeacherID != teacherID {
		span.SetStatus(codes.Error, "not_owner")
		return dto.SubmissionResponse{}, ErrNotAssignmentOwner
	}

	score := *payload.Score
	if !s.scoring.InRange(score) {
		span.SetStatus(codes.Error, "score_out_of_range")
		return dto.SubmissionResponse{}, &ValidationError{
			Field:   "score",
			Message: fmt.Sprintf("score must be between %g and %g", s.scoring.Min, s.scoring.Max),
		}
	}

	student, err := s.users.GetByID(ctx, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "student_not_found")
			return dto.SubmissionResponse{}, ErrStudentNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}
	if student.Role != models.RoleStudent {
		span.SetStatus(codes.Error, "target_not_student")
		return dto.SubmissionResponse{}, ErrStudentNotFound
	}

	comment := strings.TrimSpace(payload.Comment)
	gradedAt := s.now()

	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, payload.AssignmentID, payload.StudentID)
	switch {
	case err == nil:
		// Re-grading overwrites the existing record; this is intended.
		submission.Score = &score
		submission.Comment = comment
		submission.Status = models.SubmissionStatusGraded
		submission.GradedAt = &gradedAt
		if err := s.submissions.Save(ctx, &submission); err != nil {
			span.RecordError(err)
			return dto.SubmissionResponse{}, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		submission = models.Submission{
			ID:           uuid.NewString(),
			AssignmentID: payload.AssignmentID,
			StudentID:    payload.StudentID,
			Score:        &score,
			Comment:      comment,
			SubmittedAt:  gradedAt,
			Status:       models.SubmissionStatusGraded,
			GradedAt:     &gradedAt,
			Attempts:     1,
		}
		if err := s.submissions.Create(ctx, &submission); err != nil {
			span.RecordError(err)
			return dto.SubmissionResponse{}, err
		}
	default:
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	s.cache.InvalidateStudent(ctx, payload.StudentID)

	outcome := "failed"
	kind := models.NotificationWarning
	if s.scoring.IsPassing(score) {
		outcome = "passed"
		kind = models.NotificationSuccess
	}

	if _, err := s.notifications.Notify(ctx, NotificationInput{
		UserID:     payload.StudentID,
		Kind:       kind,
		Title:      "Assignment graded",
		Message:    fmt.Sprintf("%s: %g/%g", assignment.Title, score, assignment.MaxPoints),
		ActionType: "view_grade",
		ActionRef:  assignment.ID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("student_id", payload.StudentID).Msg("failed to notify student about grade")
	}

	observability.GradesAssigned().WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.Float64("grading.score", score))

	return dto.NewSubmissionResponse(submission), nil
}

func (s *gradingService) ListForAssignment(ctx context.Context, assignmentID string) ([]dto.SubmissionWithStudentResponse, error) {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubmissionWithStudentResponse, 0, len(submissions))
	for _, submission := range submissions {
		response := dto.SubmissionWithStudentResponse{
			SubmissionResponse: dto.NewSubmissionResponse(submission),
		}

		student, err := s.users.GetByID(ctx, submission.StudentID)
		if err == nil {
			response.Student = &dto.StudentRef{
				ID:          student.ID,
				FullName:    student.FullName(),
				AvatarColor: student.AvatarColor,
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		responses = append(responses, response)
	}

	return responses, nil
}

func (s *gradingService) AssignmentStats(ctx context.Context, assignmentID string) (dto.AssignmentStatsResponse, error) {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentStatsResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentStatsResponse{}, err
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return dto.AssignmentStatsResponse{}, err
	}

	stats := dto.AssignmentStatsResponse{Total: int64(len(submissions))}

	var sum float64
	var highest, lowest float64
	for _, submission := range submissions {
		if !submission.IsGraded() {
			continue
		}

		score := *submission.Score
		if stats.Graded == 0 {
			highest, lowest = score, score
		} else {
			if score > highest {
				highest = score
			}
			if score < lowest {
				lowest = score
			}
		}

		stats.Graded++
		sum += score
		if s.scoring.IsPassing(score) {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}

	if stats.Graded > 0 {
		stats.Average = round2(sum / float64(stats.Graded))
		stats.Highest = &highest
		stats.Lowest = &lowest
	}

	return stats, nil
}
