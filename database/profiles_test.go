package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"complaint-service/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"
)

var (
	profileStore *ProfileService
	profileMock  sqlmock.Sqlmock
)

func profileSetUp() {
	var db *sql.DB
	db, profileMock, _ = sqlmock.New()
	profileStore = NewProfileService(db)
}

func profileTearDown() {
	profileStore.db.Close()
}

var itProfile = beforeeach.Create(profileSetUp, profileTearDown)

func TestGetProfile(t *testing.T) {
	itProfile(func() {
		profileMock.ExpectQuery("SELECT id, name, email, push_token FROM profiles WHERE id = (.+)").
			WithArgs("citizen-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "push_token"}).
				AddRow("citizen-1", "Asha", "asha@example.com", "ExponentPushToken[a]"))

		p, err := profileStore.GetProfile(context.Background(), "citizen-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "Asha" || p.PushToken != "ExponentPushToken[a]" {
			t.Errorf("unexpected profile: %+v", p)
		}
	})
}

func TestGetProfileNotFound(t *testing.T) {
	itProfile(func() {
		profileMock.ExpectQuery("SELECT id, name, email, push_token FROM profiles WHERE id = (.+)").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		_, err := profileStore.GetProfile(context.Background(), "ghost")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUpdatePushToken(t *testing.T) {
	itProfile(func() {
		profileMock.ExpectExec("INSERT INTO profiles").
			WithArgs("citizen-1", "ExponentPushToken[b]").
			WillReturnResult(sqlmock.NewResult(1, 1))

		if err := profileStore.UpdatePushToken(context.Background(), "citizen-1", "ExponentPushToken[b]"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := profileMock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}
