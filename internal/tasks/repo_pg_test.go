package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateBatchInsertsAllRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	high := PriorityHigh
	batch := []Task{
		{ID: "t1", DocumentID: "d1", UserID: "u1", Title: "Buy milk", Status: StatusPending, CreatedAt: now, UpdatedAt: now},
		{ID: "t2", DocumentID: "d1", UserID: "u1", Title: "Call dentist", Status: StatusPending, Priority: &high, CreatedAt: now, UpdatedAt: now},
	}

	mock.ExpectExec(`INSERT INTO tasks \(.+\) VALUES \(\$1, .+\$10\), \(\$11, .+\$20\)`).
		WithArgs(
			"t1", "d1", "u1", "Buy milk", nil, "pending", nil, nil, now, now,
			"t2", "d1", "u1", "Call dentist", nil, "pending", "high", nil, now, now,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.CreateBatch(context.Background(), batch); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateBatchEmptyIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := (&PGRepo{DB: db}).CreateBatch(context.Background(), nil); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoToggleStatusMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("UPDATE tasks").
		WithArgs("u1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = (&PGRepo{DB: db}).ToggleStatus(context.Background(), "u1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoToggleStatusScansRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	rows := sqlmock.NewRows([]string{"id", "document_id", "user_id", "title", "description", "status", "priority", "due_date", "created_at", "updated_at"}).
		AddRow("t1", "d1", "u1", "Buy milk", nil, "completed", "low", nil, created, updated)
	mock.ExpectQuery("UPDATE tasks").WithArgs("u1", "t1").WillReturnRows(rows)

	task, err := (&PGRepo{DB: db}).ToggleStatus(context.Background(), "u1", "t1")
	if err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}
	if task.Status != StatusCompleted || task.Priority == nil || *task.Priority != PriorityLow {
		t.Fatalf("unexpected task %+v", task)
	}
	if task.Description != nil || task.DueDate != nil {
		t.Fatalf("expected nil optional fields")
	}
}

func TestPGRepoDeleteMissingRowIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM tasks").WithArgs("u1", "t1").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := (&PGRepo{DB: db}).Delete(context.Background(), "u1", "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
