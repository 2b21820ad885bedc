package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

func newChecklistRepoWithMock(t *testing.T) (*ChecklistRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ChecklistRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestLoadCheckedState(t *testing.T) {
	repo, mock, done := newChecklistRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT item_id, checked").
		WithArgs("owner-1", "prop-1").
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "checked"}).
			AddRow("1-1", true).
			AddRow("3-1", false))

	state, err := repo.LoadCheckedState(context.Background(), "owner-1", "prop-1")
	if err != nil {
		t.Fatalf("LoadCheckedState: %v", err)
	}
	if !state["1-1"] || state["3-1"] {
		t.Fatalf("unexpected state: %+v", state)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpsertEntriesRunsOneTransaction(t *testing.T) {
	repo, mock, done := newChecklistRepoWithMock(t)
	defer done()

	checkedAt := time.Now().UTC()
	entries := []domain.ChecklistEntry{
		{ItemID: "1-1", PhaseID: 1, Checked: true, CheckedAt: &checkedAt},
		{ItemID: "3-1", PhaseID: 3, Checked: false},
	}

	mock.ExpectBegin()
	prepared := mock.ExpectPrepare("INSERT INTO checklist_state")
	prepared.ExpectExec().
		WithArgs("owner-1", "prop-1", "1-1", 1, true, checkedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prepared.ExpectExec().
		WithArgs("owner-1", "prop-1", "3-1", 3, false, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.UpsertEntries(context.Background(), "owner-1", "prop-1", entries); err != nil {
		t.Fatalf("UpsertEntries: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpsertEntriesEmptyBatchSkipsStorage(t *testing.T) {
	repo, mock, done := newChecklistRepoWithMock(t)
	defer done()

	if err := repo.UpsertEntries(context.Background(), "owner-1", "prop-1", nil); err != nil {
		t.Fatalf("UpsertEntries: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
