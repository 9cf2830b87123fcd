package service

import (
	"fmt"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// newTestDB opens an isolated in-memory database migrated with the full
// schema. The DSN is keyed by test name so parallel packages never share
// state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.TeacherProfile{},
		&models.StudentProfile{},
		&models.Assignment{},
		&models.Submission{},
		&models.Notification{},
	))

	return db
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	return mini, redis.NewClient(&redis.Options{Addr: mini.Addr()})
}

func seedTeacher(t *testing.T, db *gorm.DB, id, names, surnames string) models.User {
	t.Helper()

	user := models.User{
		ID:           id,
		Names:        names,
		Surnames:     surnames,
		NationalID:   "12345678",
		Email:        strings.ToLower(id) + "@gmail.com",
		PasswordHash: "irrelevant",
		Role:         models.RoleTeacher,
		AvatarColor:  "#FF6B6B",
		TeacherProfile: &models.TeacherProfile{
			UserID:  id,
			Courses: datatypes.JSON([]byte("[]")),
		},
	}
	require.NoError(t, db.Create(&user).Error)

	return user
}

func seedStudent(t *testing.T, db *gorm.DB, id, names, surnames string) models.User {
	t.Helper()

	user := models.User{
		ID:           id,
		Names:        names,
		Surnames:     surnames,
		NationalID:   "87654321",
		Email:        strings.ToLower(id) + "@gmail.com",
		PasswordHash: "irrelevant",
		Role:         models.RoleStudent,
		AvatarColor:  "#4ECDC4",
		StudentProfile: &models.StudentProfile{
			UserID:          id,
			GradeLevel:      "5to",
			Section:         "A",
			EnrolledCourses: datatypes.JSON([]byte("[]")),
		},
	}
	require.NoError(t, db.Create(&user).Error)

	return user
}

func floatPointer(v float64) *float64 {
	return &v
}

func stringPointer(v string) *string {
	return &v
}
