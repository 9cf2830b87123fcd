package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/repository"
)

func newNotificationService(t *testing.T) NotificationService {
	t.Helper()

	db := newTestDB(t)
	seedStudent(t, db, "EST001", "Luis", "García")

	return NewNotificationService(repository.NewNotificationRepository(db), zerolog.Nop())
}

func TestNotificationServiceNotifySanitizes(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	created, err := svc.Notify(ctx, NotificationInput{
		UserID:  "EST001",
		Kind:    models.NotificationInfo,
		Title:   `<b>Aviso</b>`,
		Message: `<script>alert("x")</script>Nueva tarea disponible`,
	})
	require.NoError(t, err)
	require.Equal(t, "Aviso", created.Title)
	require.Equal(t, "Nueva tarea disponible", created.Message)
	require.False(t, created.Read)
}

func TestNotificationServiceNotifyRejectsEmpty(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	_, err := svc.Notify(ctx, NotificationInput{UserID: "", Message: "hola"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "user_id", vErr.Field)

	// A message that sanitizes to nothing is rejected as well.
	_, err = svc.Notify(ctx, NotificationInput{UserID: "EST001", Message: "<script>x</script>"})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "message", vErr.Field)
}

func TestNotificationServiceMarkRead(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	created, err := svc.Notify(ctx, NotificationInput{
		UserID:  "EST001",
		Message: "Nueva tarea disponible",
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, "EST001", 10, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, int64(1), list.Unread)

	marked, err := svc.MarkRead(ctx, created.ID, "EST001")
	require.NoError(t, err)
	require.True(t, marked.Read)

	// Marking twice keeps the same state.
	again, err := svc.MarkRead(ctx, created.ID, "EST001")
	require.NoError(t, err)
	require.True(t, again.Read)

	list, err = svc.List(ctx, "EST001", 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(0), list.Unread)

	// Another user cannot touch the entry.
	_, err = svc.MarkRead(ctx, created.ID, "EST999")
	require.ErrorIs(t, err, ErrNotificationNotFound)
}
