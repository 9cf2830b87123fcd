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

type assignmentFixture struct {
	db            *gorm.DB
	svc           AssignmentService
	notifications NotificationService
	submissions   repository.SubmissionRepository
	cache         *StatsCache
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()

	db := newTestDB(t)
	_, redisClient := newTestRedis(t)

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	cache := NewStatsCache(redisClient, time.Minute, zerolog.Nop())
	notifications := NewNotificationService(notificationRepo, zerolog.Nop())
	svc := NewAssignmentService(
		assignmentRepo, submissionRepo, userRepo, notifications, cache,
		validator.New(validator.WithRequiredStructEnabled()), DefaultScoring(), zerolog.Nop(),
	)

	return &assignmentFixture{
		db:            db,
		svc:           svc,
		notifications: notifications,
		submissions:   submissionRepo,
		cache:         cache,
	}
}

func validAssignmentPayload() dto.AssignmentCreateRequest {
	return dto.AssignmentCreateRequest{
		Title:       "Quiz 1",
		Description: "Ecuaciones lineales",
		Course:      "Matemática",
		DueDate:     time.Now().Add(5 * 24 * time.Hour).UTC().Format(time.RFC3339),
	}
}

func TestAssignmentServiceCreateRejectsMissingFields(t *testing.T) {
	fx := newAssignmentFixture(t)
	seedTeacher(t, fx.db, "PROF001", "Ana", "Torres")
	ctx := context.Background()

	payload := validAssignmentPayload()
	payload.Title = ""

	_, err := fx.svc.Create(ctx, "PROF001", payload)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "title", vErr.Field)
}

func TestAssignmentServiceCreateRejectsNonFutureDueDate(t *testing.T) {
	fx := newAssignmentFixture(t)
	seedTeacher(t, fx.db, "PROF001", "Ana", "Torres")
	ctx := context.Background()

	for _, due := range []time.Time{time.Now().Add(-time.Hour), time.Now().Add(-time.Second)} {
		payload := validAssignmentPayload()
		payload.DueDate = due.UTC().Format(time.RFC3339)

		_, err := fx.svc.Create(ctx, "PROF001", payload)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, "due_date", vErr.Field)
	}
}

func TestAssignmentServiceCreateAcceptsBarelyFutureDueDate(t *testing.T) {
	fx := newAssignmentFixture(t)
	seedTeacher(t, fx.db, "PROF001", "Ana", "Torres")
	ctx := context.Background()

	// Pin the clock so the one-second edge is exact.
	reference := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	fx.svc.(*assignmentService).now = func() time.Time { return reference }

	payload := validAssignmentPayload()
	payload.DueDate = reference.Add(time.Second).Format(time.RFC3339)

	created, err := fx.svc.Create(ctx, "PROF001", payload)
	require.NoError(t, err)
	require.Equal(t, reference.Add(time.Second), created.DueDate.UTC())
}

func TestAssignmentServiceCreateDefaultsAndBroadcast(t *testing.T) {
	fx := newAssignmentFixture(t)
	seedTeacher(t, fx.db, "PROF001", "Ana", "Torres")
	seedStudent(t, fx.db, "EST001", "Luis", "García")
	seedStudent(t, fx.db, "EST002", "María", "Quispe")
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, "PROF001", validAssignmentPayload())
	require.NoError(t, err)
	require.Equal(t, "PROF001", created.TeacherID)
	require.Equal(t, 20.0, created.MaxPoints)
	require.Equal(t, string(models.AssignmentKindHomework), created.Kind)
	require.Equal(t, string(models.AssignmentStatusActive), created.Status)

	// Every student receives exactly one feed entry; the teacher none.
	for _, studentID := range []string{"EST001", "EST002"} {
		feed, err := fx.notifications.List(ctx, studentID, 10, 0)
		require.NoError(t, err)
		require.Len(t, feed.Items, 1)
		require.Equal(t, "New assignment available", feed.Items[0].Title)
		require.Equal(t, created.ID, feed.Items[0].ActionRef)
	}

	teacherFeed, err := fx.notifications.List(ctx, "PROF001", 10, 0)
	require.NoError(t, err)
	require.Empty(t, teacherFeed.Items)
}

func TestAssignmentServiceCreateSanitizesInstructions(t *testing.T) {
	fx := newAssignmentFixture(t)
	seedTeacher(t, fx.db, "PROF001", "Ana", "Torres")
	ctx := context.Background()

	payload := validAssignmentPayload()
	payload.Instructions = `<script>alert("x")</script>Resolver los ejercicios 1 al 5`

	created, err := fx.svc.Create(ctx, "PROF001", payload)
	require.NoError(t, err)
	require.NotContains(t, created.Instructions, "<script>")
	require.Contains(t, created.Instructions, "Resolver los ejercicios 1 al 5")
}

func TestAssignmentServiceListNewestFirst(t *testing.T) {
	fx := newAssignmentFixture(t)
	seedTeacher(t, fx.db, "PROF001", "Ana", "Torres")
	ctx := context.Background()

	base := time.Now().UTC()
	for i, title := range []string{"Primera", "Segunda", "Tercera"} {
		assignment := models.Assignment{
			ID:        uuid.NewString(),
			Title:     title,
			Course:    "Matemática",
			TeacherID: "PROF001",
			DueDate:   base.Add(72 * time.Hour),
			MaxPoints: 20,
			Kind:      models.AssignmentKindHomework,
			Status:    models.AssignmentStatusActive,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, fx.db.Create(&assignment).Error)
	}

	listed, err := fx.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, "Tercera", listed[0].Title)
	require.Equal(t, "Primera", listed[2].Title)
}

func TestAssignmentServiceUpdateEnforcesOwnership(t *testing.T) {
	fx := newAssignmentFixture(t)
	seedTeacher(t, fx.db, "PROF001", "Ana", "Torres")
	seedTeacher(t, fx.db, "PROF002", "Carlos", "Rojas")
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, "PROF001", validAssignmentPayload())
	require.NoError(t, err)

	_, err = fx.svc.Update(ctx, "PROF002", created.ID, dto.AssignmentUpdateRequest{Title: stringPointer("Robada")})
	require.ErrorIs(t, err, ErrNotAssignmentOwner)

	err = fx.svc.Delete(ctx, "PROF002", created.ID)
	require.ErrorIs(t, err, ErrNotAssignmentOwner)

	updated, err := fx.svc.Update(ctx, "PROF001", created.ID, dto.AssignmentUpdateRequest{Title: stringPointer("Quiz 1 corregido")})
	require.NoError(t, err)
	require.Equal(t, "Quiz 1 corregido", updated.Title)
}

func TestAssignmentServiceDeleteCascadesSubmissions(t *testing.T) {
	fx := newAssignmentFixture(t)
	seedTeacher(t, fx.db, "PROF001", "Ana", "Torres")
	seedStudent(t, fx.db, "EST001", "Luis", "García")
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, "PROF001", validAssignmentPayload())
	require.NoError(t, err)

	now := time.Now().UTC()
	submission := models.Submission{
		ID:           uuid.NewString(),
		AssignmentID: created.ID,
		StudentID:    "EST001",
		Score:        floatPointer(15),
		SubmittedAt:  now,
		Status:       models.SubmissionStatusGraded,
		GradedAt:     &now,
		Attempts:     1,
	}
	require.NoError(t, fx.db.Create(&submission).Error)

	// Seed a cached stats entry so the delete has something to invalidate.
	fx.cache.SetStudentStats(ctx, "EST001", dto.StudentStatsResponse{Completed: 1})

	require.NoError(t, fx.svc.Delete(ctx, "PROF001", created.ID))

	_, err = fx.svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrAssignmentNotFound)

	remaining, err := fx.submissions.ListByStudent(ctx, "EST001")
	require.NoError(t, err)
	require.Empty(t, remaining)

	_, cached := fx.cache.GetStudentStats(ctx, "EST001")
	require.False(t, cached)

	err = fx.svc.Delete(ctx, "PROF001", created.ID)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestAssignmentServiceCreateRefreshesStudentStats(t *testing.T) {
	fx := newAssignmentFixture(t)
	seedTeacher(t, fx.db, "PROF001", "Ana", "Torres")
	seedStudent(t, fx.db, "EST001", "Luis", "García")
	ctx := context.Background()

	studentSvc := NewStudentService(
		repository.NewAssignmentRepository(fx.db),
		repository.NewSubmissionRepository(fx.db),
		repository.NewUserRepository(fx.db),
		fx.cache, DefaultScoring(), zerolog.Nop(),
	)

	// Prime the cache while no assignments exist.
	before, err := studentSvc.Stats(ctx, "EST001")
	require.NoError(t, err)
	require.Equal(t, int64(0), before.Pending)

	_, err = fx.svc.Create(ctx, "PROF001", validAssignmentPayload())
	require.NoError(t, err)

	// The pending count depends on the assignment total, so creation must
	// not leave the cached value behind.
	after, err := studentSvc.Stats(ctx, "EST001")
	require.NoError(t, err)
	require.Equal(t, int64(1), after.Pending)
}

func TestAssignmentServiceTeacherStats(t *testing.T) {
	fx := newAssignmentFixture(t)
	seedTeacher(t, fx.db, "PROF001", "Ana", "Torres")
	seedStudent(t, fx.db, "EST001", "Luis", "García")
	seedStudent(t, fx.db, "EST002", "María", "Quispe")
	ctx := context.Background()

	active, err := fx.svc.Create(ctx, "PROF001", validAssignmentPayload())
	require.NoError(t, err)

	expired := models.Assignment{
		ID:        uuid.NewString(),
		Title:     "Examen pasado",
		Course:    "Matemática",
		TeacherID: "PROF001",
		DueDate:   time.Now().Add(-48 * time.Hour).UTC(),
		MaxPoints: 20,
		Kind:      models.AssignmentKindExam,
		Status:    models.AssignmentStatusActive,
	}
	require.NoError(t, fx.db.Create(&expired).Error)

	now := time.Now().UTC()
	for _, studentID := range []string{"EST001", "EST002"} {
		submission := models.Submission{
			ID:           uuid.NewString(),
			AssignmentID: active.ID,
			StudentID:    studentID,
			Score:        floatPointer(14),
			SubmittedAt:  now,
			Status:       models.SubmissionStatusGraded,
			GradedAt:     &now,
			Attempts:     1,
		}
		require.NoError(t, fx.db.Create(&submission).Error)
	}

	stats, err := fx.svc.TeacherStats(ctx, "PROF001")
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalAssignments)
	require.Equal(t, int64(1), stats.ActiveAssignments)
	require.Equal(t, int64(2), stats.StudentsGraded)
}
