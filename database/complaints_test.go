package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"complaint-service/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"
)

var (
	store *ComplaintService
	mock  sqlmock.Sqlmock
)

func setUp() {
	var db *sql.DB
	db, mock, _ = sqlmock.New()
	store = NewComplaintService(db)
}

func tearDown() {
	store.db.Close()
}

var it = beforeeach.Create(setUp, tearDown)

var complaintColumns = []string{
	"seq", "filer_id", "filer_name", "category", "location", "latitude", "longitude",
	"description", "assigned_resolver", "status", "rating", "feedback_text", "created_at",
}

func TestCreateComplaint(t *testing.T) {
	it(func() {
		lat, lng := 12.9716, 77.5946
		complaint := &models.Complaint{
			FilerID:     "citizen-1",
			FilerName:   "Asha",
			Category:    "Water Supply",
			Location:    "MG Road",
			Latitude:    &lat,
			Longitude:   &lng,
			Description: "burst water pipe",
			Images:      []string{"img-1.jpg", "img-2.jpg"},
		}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO complaints").
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectExec("INSERT INTO complaint_images").
			WithArgs(int64(7), 0, "img-1.jpg").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO complaint_images").
			WithArgs(int64(7), 1, "img-2.jpg").
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectExec("INSERT INTO complaint_history").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		stored, err := store.CreateComplaint(context.Background(), complaint)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored.Seq != 7 {
			t.Errorf("expected seq 7, got %d", stored.Seq)
		}
		if stored.Status != models.StatusSubmitted {
			t.Errorf("expected status Submitted, got %s", stored.Status)
		}
		if len(stored.History) != 1 || stored.History[0].Remark != "Complaint filed" {
			t.Errorf("expected single filed history entry, got %+v", stored.History)
		}
		if stored.History[0].Actor != "citizen-1" {
			t.Errorf("expected filer as actor, got %s", stored.History[0].Actor)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestCreateComplaintInsertError(t *testing.T) {
	it(func() {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO complaints").
			WillReturnError(errors.New("test insert error"))
		mock.ExpectRollback()

		_, err := store.CreateComplaint(context.Background(), &models.Complaint{FilerID: "u"})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestGetComplaint(t *testing.T) {
	it(func() {
		created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT (.+) FROM complaints WHERE seq = (.+)").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(complaintColumns).
				AddRow(7, "citizen-1", "Asha", "Water Supply", "MG Road", 12.9716, 77.5946,
					"burst water pipe", "officer-7", "InProgress", nil, nil, created))
		mock.ExpectQuery("SELECT image_key FROM complaint_images").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"image_key"}).AddRow("img-1.jpg"))
		mock.ExpectQuery("SELECT status, actor, remark, ts FROM complaint_history").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "actor", "remark", "ts"}).
				AddRow("Submitted", "citizen-1", "Complaint filed", created).
				AddRow("InProgress", "officer-7", "crew dispatched", created.Add(time.Hour)))

		c, err := store.GetComplaint(context.Background(), 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Seq != 7 || c.FilerName != "Asha" || c.Status != models.StatusInProgress {
			t.Errorf("unexpected complaint: %+v", c)
		}
		if c.Latitude == nil || *c.Latitude != 12.9716 {
			t.Errorf("expected latitude scanned, got %v", c.Latitude)
		}
		if len(c.Images) != 1 || c.Images[0] != "img-1.jpg" {
			t.Errorf("unexpected images: %v", c.Images)
		}
		if len(c.History) != 2 || c.History[1].Status != models.StatusInProgress {
			t.Errorf("unexpected history: %+v", c.History)
		}
	})
}

func TestGetComplaintNotFound(t *testing.T) {
	it(func() {
		mock.ExpectQuery("SELECT (.+) FROM complaints WHERE seq = (.+)").
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := store.GetComplaint(context.Background(), 404)
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAppendHistoryAndSetStatus(t *testing.T) {
	it(func() {
		testCases := []struct {
			name          string
			currentStatus string
			newStatus     models.Status
			resolver      *string

			rowMissing        bool
			expectWrite       bool
			expectedErr       error
			invalidTransition bool
		}{
			{
				name:          "submitted to in progress",
				currentStatus: "Submitted",
				newStatus:     models.StatusInProgress,
				expectWrite:   true,
			},
			{
				name:          "assign resolver with transition",
				currentStatus: "Submitted",
				newStatus:     models.StatusInProgress,
				resolver:      strPtr("officer-7"),
				expectWrite:   true,
			},
			{
				name:          "same state remark only",
				currentStatus: "InProgress",
				newStatus:     models.StatusInProgress,
				expectWrite:   true,
			},
			{
				name:              "transition from resolved",
				currentStatus:     "Resolved",
				newStatus:         models.StatusInProgress,
				invalidTransition: true,
			},
			{
				name:              "transition from rejected",
				currentStatus:     "Rejected",
				newStatus:         models.StatusResolved,
				invalidTransition: true,
			},
			{
				name:        "complaint missing",
				rowMissing:  true,
				newStatus:   models.StatusInProgress,
				expectedErr: models.ErrNotFound,
			},
		}

		for _, testCase := range testCases {
			mock.ExpectBegin()
			lockQuery := mock.ExpectQuery("SELECT status FROM complaints WHERE seq = (.+) FOR UPDATE").
				WithArgs(int64(7))
			if testCase.rowMissing {
				lockQuery.WillReturnError(sql.ErrNoRows)
			} else {
				lockQuery.WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(testCase.currentStatus))
			}

			if testCase.expectWrite {
				mock.ExpectExec("UPDATE complaints SET status = (.+)").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("INSERT INTO complaint_history").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			entry := models.HistoryEntry{
				Status:    testCase.newStatus,
				Actor:     "officer-7",
				Remark:    "update",
				Timestamp: time.Now().UTC(),
			}
			err := store.AppendHistoryAndSetStatus(context.Background(), 7, entry, testCase.newStatus, testCase.resolver)

			if testCase.expectWrite && err != nil {
				t.Errorf("%s: unexpected error: %v", testCase.name, err)
			}
			if testCase.expectedErr != nil && !errors.Is(err, testCase.expectedErr) {
				t.Errorf("%s: expected %v, got %v", testCase.name, testCase.expectedErr, err)
			}
			if testCase.invalidTransition {
				var ite *models.InvalidTransitionError
				if !errors.As(err, &ite) {
					t.Errorf("%s: expected InvalidTransitionError, got %v", testCase.name, err)
				}
			}
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestSetFeedback(t *testing.T) {
	it(func() {
		mock.ExpectQuery("SELECT 1 FROM complaints WHERE seq = (.+)").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
		mock.ExpectExec("UPDATE complaints SET rating = (.+)").
			WithArgs(4, "fixed quickly", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := store.SetFeedback(context.Background(), 7, 4, "fixed quickly"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestSetFeedbackNotFound(t *testing.T) {
	it(func() {
		mock.ExpectQuery("SELECT 1 FROM complaints WHERE seq = (.+)").
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		err := store.SetFeedback(context.Background(), 404, 4, "")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListComplaintsByFiler(t *testing.T) {
	it(func() {
		created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT (.+) FROM complaints WHERE filer_id = (.+) ORDER BY created_at DESC").
			WithArgs("citizen-1").
			WillReturnRows(sqlmock.NewRows(complaintColumns).
				AddRow(7, "citizen-1", "Asha", "Water Supply", "MG Road", nil, nil,
					"burst water pipe", "", "Submitted", nil, nil, created))
		mock.ExpectQuery("SELECT image_key FROM complaint_images").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"image_key"}))
		mock.ExpectQuery("SELECT status, actor, remark, ts FROM complaint_history").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "actor", "remark", "ts"}).
				AddRow("Submitted", "citizen-1", "Complaint filed", created))

		complaints, err := store.ListComplaints(context.Background(), models.ComplaintFilter{FilerID: "citizen-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(complaints) != 1 || complaints[0].Seq != 7 {
			t.Errorf("unexpected complaints: %+v", complaints)
		}
		if complaints[0].Latitude != nil {
			t.Error("expected nil latitude for complaint without coordinates")
		}
	})
}

func TestListComplaintsEmpty(t *testing.T) {
	it(func() {
		mock.ExpectQuery("SELECT (.+) FROM complaints ORDER BY created_at DESC").
			WillReturnRows(sqlmock.NewRows(complaintColumns))

		complaints, err := store.ListComplaints(context.Background(), models.ComplaintFilter{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(complaints) != 0 {
			t.Errorf("expected no complaints, got %d", len(complaints))
		}
	})
}

func strPtr(s string) *string {
	return &s
}
