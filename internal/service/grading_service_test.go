package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/repository"
)

type gradingFixture struct {
	db            *gorm.DB
	svc           GradingService
	notifications NotificationService
	submissions   repository.SubmissionRepository
	cache         *StatsCache
	assignmentID  string
}

func newGradingFixture(t *testing.T) *gradingFixture {
	t.Helper()

	db := newTestDB(t)
	_, redisClient := newTestRedis(t)

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	cache := NewStatsCache(redisClient, time.Minute, zerolog.Nop())
	notifications := NewNotificationService(notificationRepo, zerolog.Nop())
	svc := NewGradingService(
		submissionRepo, assignmentRepo, userRepo, notifications, cache,
		validator.New(validator.WithRequiredStructEnabled()), DefaultScoring(), zerolog.Nop(),
	)

	seedTeacher(t, db, "PROF001", "Ana", "Torres")
	seedStudent(t, db, "EST001", "Luis", "García")

	assignment := models.Assignment{
		ID:        uuid.NewString(),
		Title:     "Quiz 1",
		Course:    "Matemática",
		TeacherID: "PROF001",
		DueDate:   time.Now().Add(72 * time.Hour).UTC(),
		MaxPoints: 20,
		Kind:      models.AssignmentKindHomework,
		Status:    models.AssignmentStatusActive,
	}
	require.NoError(t, db.Create(&assignment).Error)

	return &gradingFixture{
		db:            db,
		svc:           svc,
		notifications: notifications,
		submissions:   submissionRepo,
		cache:         cache,
		assignmentID:  assignment.ID,
	}
}

func TestGradingServiceGradeCreatesSubmission(t *testing.T) {
	fx := newGradingFixture(t)
	ctx := context.Background()

	// No submission exists yet; grading creates the record.
	graded, err := fx.svc.Grade(ctx, "PROF001", dto.GradeRequest{
		AssignmentID: fx.assignmentID,
		StudentID:    "EST001",
		Score:        floatPointer(15),
		Comment:      "Buen trabajo",
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusGraded, graded.Status)
	require.Equal(t, 15.0, *graded.Score)
	require.Equal(t, "Buen trabajo", graded.Comment)
	require.NotNil(t, graded.GradedAt)
	require.Equal(t, 1, graded.Attempts)

	// A passing score notifies with the success kind.
	feed, err := fx.notifications.List(ctx, "EST001", 10, 0)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	require.Equal(t, "Assignment graded", feed.Items[0].Title)
	require.Equal(t, string(models.NotificationSuccess), feed.Items[0].Kind)
}

func TestGradingServiceRegradeOverwrites(t *testing.T) {
	fx := newGradingFixture(t)
	ctx := context.Background()

	first, err := fx.svc.Grade(ctx, "PROF001", dto.GradeRequest{
		AssignmentID: fx.assignmentID,
		StudentID:    "EST001",
		Score:        floatPointer(8),
	})
	require.NoError(t, err)

	second, err := fx.svc.Grade(ctx, "PROF001", dto.GradeRequest{
		AssignmentID: fx.assignmentID,
		StudentID:    "EST001",
		Score:        floatPointer(17),
		Comment:      "Mucho mejor",
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 17.0, *second.Score)

	all, err := fx.submissions.ListByAssignment(ctx, fx.assignmentID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, 17.0, *all[0].Score)
	require.Equal(t, "Mucho mejor", all[0].Comment)
}

func TestGradingServiceFailingScoreWarns(t *testing.T) {
	fx := newGradingFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Grade(ctx, "PROF001", dto.GradeRequest{
		AssignmentID: fx.assignmentID,
		StudentID:    "EST001",
		Score:        floatPointer(10),
	})
	require.NoError(t, err)

	feed, err := fx.notifications.List(ctx, "EST001", 10, 0)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	require.Equal(t, string(models.NotificationWarning), feed.Items[0].Kind)
}

func TestGradingServiceRejectsBadRequests(t *testing.T) {
	fx := newGradingFixture(t)
	seedTeacher(t, fx.db, "PROF002", "Carlos", "Rojas")
	ctx := context.Background()

	_, err := fx.svc.Grade(ctx, "PROF002", dto.GradeRequest{
		AssignmentID: fx.assignmentID,
		StudentID:    "EST001",
		Score:        floatPointer(12),
	})
	require.ErrorIs(t, err, ErrNotAssignmentOwner)

	_, err = fx.svc.Grade(ctx, "PROF001", dto.GradeRequest{
		AssignmentID: uuid.NewString(),
		StudentID:    "EST001",
		Score:        floatPointer(12),
	})
	require.ErrorIs(t, err, ErrAssignmentNotFound)

	_, err = fx.svc.Grade(ctx, "PROF001", dto.GradeRequest{
		AssignmentID: fx.assignmentID,
		StudentID:    "EST404",
		Score:        floatPointer(12),
	})
	require.ErrorIs(t, err, ErrStudentNotFound)

	// Teachers are not gradable targets.
	_, err = fx.svc.Grade(ctx, "PROF001", dto.GradeRequest{
		AssignmentID: fx.assignmentID,
		StudentID:    "PROF002",
		Score:        floatPointer(12),
	})
	require.ErrorIs(t, err, ErrStudentNotFound)

	for _, score := range []float64{-1, 20.5} {
		_, err = fx.svc.Grade(ctx, "PROF001", dto.GradeRequest{
			AssignmentID: fx.assignmentID,
			StudentID:    "EST001",
			Score:        floatPointer(score),
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, "score", vErr.Field)
	}
}

func TestGradingServiceInvalidatesStudentStats(t *testing.T) {
	fx := newGradingFixture(t)
	ctx := context.Background()

	fx.cache.SetStudentStats(ctx, "EST001", dto.StudentStatsResponse{Completed: 99})

	_, err := fx.svc.Grade(ctx, "PROF001", dto.GradeRequest{
		AssignmentID: fx.assignmentID,
		StudentID:    "EST001",
		Score:        floatPointer(13),
	})
	require.NoError(t, err)

	_, cached := fx.cache.GetStudentStats(ctx, "EST001")
	require.False(t, cached)
}

func TestGradingServiceAssignmentStats(t *testing.T) {
	fx := newGradingFixture(t)
	seedStudent(t, fx.db, "EST002", "María", "Quispe")
	seedStudent(t, fx.db, "EST003", "Pedro", "Mamani")
	ctx := context.Background()

	// Before anything is graded, every counter stays at zero and the
	// extremes are absent.
	empty, err := fx.svc.AssignmentStats(ctx, fx.assignmentID)
	require.NoError(t, err)
	require.Equal(t, int64(0), empty.Total)
	require.Equal(t, int64(0), empty.Graded)
	require.Zero(t, empty.Average)
	require.Nil(t, empty.Highest)
	require.Nil(t, empty.Lowest)

	scores := map[string]float64{"EST001": 15, "EST002": 8, "EST003": 11}
	for studentID, score := range scores {
		_, err := fx.svc.Grade(ctx, "PROF001", dto.GradeRequest{
			AssignmentID: fx.assignmentID,
			StudentID:    studentID,
			Score:        floatPointer(score),
		})
		require.NoError(t, err)
	}

	stats, err := fx.svc.AssignmentStats(ctx, fx.assignmentID)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Total)
	require.Equal(t, int64(3), stats.Graded)
	require.InDelta(t, 11.33, stats.Average, 0.01)
	require.Equal(t, int64(2), stats.Passed)
	require.Equal(t, int64(1), stats.Failed)
	require.NotNil(t, stats.Highest)
	require.Equal(t, 15.0, *stats.Highest)
	require.NotNil(t, stats.Lowest)
	require.Equal(t, 8.0, *stats.Lowest)

	_, err = fx.svc.AssignmentStats(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestGradingServiceListForAssignment(t *testing.T) {
	fx := newGradingFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Grade(ctx, "PROF001", dto.GradeRequest{
		AssignmentID: fx.assignmentID,
		StudentID:    "EST001",
		Score:        floatPointer(16),
	})
	require.NoError(t, err)

	listed, err := fx.svc.ListForAssignment(ctx, fx.assignmentID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Student)
	require.Equal(t, "EST001", listed[0].Student.ID)
	require.Equal(t, "Luis García", listed[0].Student.FullName)
}
