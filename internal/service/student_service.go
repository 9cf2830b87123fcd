package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/repository"
)

// StudentService composes the learner-facing views: the assignment list with
// computed status, the derived statistics and the grade history.
type StudentService interface {
	ListAssignments(ctx context.Context, studentID string) ([]dto.StudentAssignmentView, error)
	Stats(ctx context.Context, studentID string) (dto.StudentStatsResponse, error)
	ListGrades(ctx context.Context, studentID string) ([]dto.StudentGradeResponse, error)
}

type studentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	cache       *StatsCache
	scoring     Scoring
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudentService constructs the student view service.
func NewStudentService(
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	users repository.UserRepository,
	cache *StatsCache,
	scoring Scoring,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		assignments: assignments,
		submissions: submissions,
		users:       users,
		cache:       cache,
		scoring:     scoring,
		logger:      logger.With().Str("component", "student_service").Logger(),
		now:         time.Now,
	}
}

func (s *studentService) ListAssignments(ctx context.Context, studentID string) ([]dto.StudentAssignmentView, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	submissionByAssignment := make(map[string]models.Submission, len(submissions))
	for _, submission := range submissions {
		submissionByAssignment[submission.AssignmentID] = submission
	}

	now := s.now()
	teacherNames := map[string]string{}
	views := make([]dto.StudentAssignmentView, 0, len(assignments))

	for _, assignment := range assignments {
		view := dto.StudentAssignmentView{
			AssignmentID:  assignment.ID,
			Title:         assignment.Title,
			Description:   assignment.Description,
			Course:        assignment.Course,
			Kind:          string(assignment.Kind),
			TeacherName:   s.teacherName(ctx, teacherNames, assignment.TeacherID),
			DueDate:       assignment.DueDate,
			MaxPoints:     assignment.MaxPoints,
			DaysRemaining: assignment.DaysRemaining(now),
		}

		submission, submitted := submissionByAssignment[assignment.ID]
		switch {
		case submitted && submission.Score != nil:
			view.Status = dto.StudentAssignmentGraded
			view.Score = submission.Score
			view.Comment = submission.Comment
			view.GradedAt = submission.GradedAt
		case submitted:
			view.Status = dto.StudentAssignmentSubmitted
		case assignment.IsPastDue(now):
			view.Status = dto.StudentAssignmentOverdue
		default:
			view.Status = dto.StudentAssignmentPending
		}

		views = append(views, view)
	}

	// Pending work floats to the top in its original order; everything else
	// follows by ascending due date, stable on equal dates.
	sort.SliceStable(views, func(i, j int) bool {
		iPending := views[i].Status == dto.StudentAssignmentPending
		jPending := views[j].Status == dto.StudentAssignmentPending
		if iPending != jPending {
			return iPending
		}
		if iPending {
			return false
		}
		return views[i].DueDate.Before(views[j].DueDate)
	})

	return views, nil
}

func (s *studentService) teacherName(ctx context.Context, cache map[string]string, teacherID string) string {
	if name, ok := cache[teacherID]; ok {
		return name
	}

	name := "Unknown"
	teacher, err := s.users.GetByID(ctx, teacherID)
	if err == nil {
		name = teacher.FullName()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn().Err(err).Str("teacher_id", teacherID).Msg("failed to resolve teacher name")
	}

	cache[teacherID] = name
	return name
}

func (s *studentService) Stats(ctx context.Context, studentID string) (dto.StudentStatsResponse, error) {
	if stats, ok := s.cache.GetStudentStats(ctx, studentID); ok {
		return stats, nil
	}

	graded, err := s.submissions.ListGradedByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentStatsResponse{}, err
	}

	stats := dto.StudentStatsResponse{Completed: int64(len(graded))}

	var sum, best float64
	for _, submission := range graded {
		score := *submission.Score
		sum += score
		if score > best {
			best = score
		}
	}

	if stats.Completed > 0 {
		stats.Average = round2(sum / float64(stats.Completed))
		stats.Best = best
	}

	totalAssignments, err := s.assignments.Count(ctx)
	if err != nil {
		return dto.StudentStatsResponse{}, err
	}

	ownSubmissions, err := s.submissions.CountByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentStatsResponse{}, err
	}

	stats.Pending = totalAssignments - ownSubmissions
	if stats.Pending < 0 {
		stats.Pending = 0
	}

	s.cache.SetStudentStats(ctx, studentID, stats)

	return stats, nil
}

func (s *studentService) ListGrades(ctx context.Context, studentID string) ([]dto.StudentGradeResponse, error) {
	graded, err := s.submissions.ListGradedByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	grades := make([]dto.StudentGradeResponse, 0, len(graded))
	for _, submission := range graded {
		score := *submission.Score
		grades = append(grades, dto.StudentGradeResponse{
			AssignmentID: submission.AssignmentID,
			Title:        submission.Assignment.Title,
			Course:       submission.Assignment.Course,
			Score:        score,
			MaxPoints:    submission.Assignment.MaxPoints,
			Comment:      submission.Comment,
			Passed:       s.scoring.IsPassing(score),
			GradedAt:     submission.GradedAt,
		})
	}

	return grades, nil
}
