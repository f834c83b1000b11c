package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/socialmedia/api/shared/models"
)

const selectByID = "SELECT message_id, posted_by, message_text, time_posted_epoch FROM message WHERE message_id"

func newRedis(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestGetByIDServesCachedEntry(t *testing.T) {
	db, mock := newMock(t)
	client, _ := newRedis(t)
	repo := NewMessageReadRepository(db, client, time.Minute)

	cached := models.Message{MessageID: 1, PostedBy: 1, MessageText: "test message 1", TimePostedEpoch: 1669947792}
	repo.CacheMessage(context.Background(), &cached)

	// No query expected: the entry comes from Redis.
	got, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != cached {
		t.Fatalf("got %+v, want %+v", *got, cached)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetByIDColdReadLeavesCacheEmpty(t *testing.T) {
	db, mock := newMock(t)
	client, mr := newRedis(t)
	repo := NewMessageReadRepository(db, client, time.Minute)

	mock.ExpectQuery(selectByID).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(messageRowColumns).AddRow(1, 1, "hello", int64(1)))

	if _, err := repo.GetByID(context.Background(), 1); err != nil {
		t.Fatalf("get: %v", err)
	}
	if mr.Exists("message:view:1") {
		t.Fatal("a cold read must not fill the cache")
	}
}

func TestGetByIDDoesNotResurrectMessageDeletedDuringRead(t *testing.T) {
	db, mock := newMock(t)
	client, mr := newRedis(t)
	repo := NewMessageReadRepository(db, client, time.Minute)
	ctx := context.Background()

	// The first read is slow; the message is deleted while it is in flight.
	mock.ExpectQuery(selectByID).
		WithArgs(1).
		WillDelayFor(200 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows(messageRowColumns).AddRow(1, 1, "hello", int64(1)))
	mock.ExpectQuery(selectByID).WithArgs(1).WillReturnRows(sqlmock.NewRows(messageRowColumns))

	done := make(chan error, 1)
	go func() {
		_, err := repo.GetByID(ctx, 1)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	repo.InvalidateMessage(ctx, 1)

	if err := <-done; err != nil {
		t.Fatalf("in-flight get: %v", err)
	}
	if mr.Exists("message:view:1") {
		t.Fatal("deleted message was written back to the cache")
	}
	if got, err := repo.GetByID(ctx, 1); !errors.Is(err, models.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound after delete, got %+v err=%v", got, err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	client, mr := newRedis(t)
	repo := NewMessageReadRepository(db, client, 0)

	mock.ExpectQuery(selectByID).WithArgs(9).WillReturnRows(sqlmock.NewRows(messageRowColumns))

	if _, err := repo.GetByID(context.Background(), 9); !errors.Is(err, models.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
	if mr.Exists("message:view:9") {
		t.Fatal("misses must not be cached")
	}
}

func TestInvalidateMessageForcesDatabaseRead(t *testing.T) {
	db, mock := newMock(t)
	client, _ := newRedis(t)
	repo := NewMessageReadRepository(db, client, 0)

	ctx := context.Background()
	repo.CacheMessage(ctx, &models.Message{MessageID: 2, PostedBy: 1, MessageText: "stale", TimePostedEpoch: 5})
	repo.InvalidateMessage(ctx, 2)

	mock.ExpectQuery(selectByID).WithArgs(2).WillReturnRows(sqlmock.NewRows(messageRowColumns))

	if _, err := repo.GetByID(ctx, 2); !errors.Is(err, models.ErrMessageNotFound) {
		t.Fatalf("expected database miss after invalidation, got %v", err)
	}
}

func TestGetByIDWithoutRedis(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMessageReadRepository(db, nil, 0)

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(selectByID).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(messageRowColumns).AddRow(1, 1, "hello", int64(1)))
	}

	for i := 0; i < 2; i++ {
		if _, err := repo.GetByID(context.Background(), 1); err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
	}
}

func TestListReturnsEmptySlice(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMessageReadRepository(db, nil, 0)

	mock.ExpectQuery("SELECT .* FROM message ORDER BY message_id").WillReturnRows(sqlmock.NewRows(messageRowColumns))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestListAll(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMessageReadRepository(db, nil, 0)

	mock.ExpectQuery("SELECT .* FROM message ORDER BY message_id").
		WillReturnRows(sqlmock.NewRows(messageRowColumns).
			AddRow(1, 1, "first", int64(100)).
			AddRow(2, 2, "second", int64(200)))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].MessageID != 1 || got[1].PostedBy != 2 {
		t.Fatalf("unexpected messages: %+v", got)
	}
}

func TestListByAccount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMessageReadRepository(db, nil, 0)

	mock.ExpectQuery("SELECT .* FROM message WHERE posted_by = \\$1 ORDER BY message_id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(messageRowColumns).
			AddRow(1, 1, "first", int64(100)).
			AddRow(3, 1, "third", int64(300)))

	got, err := repo.ListByAccount(context.Background(), 1)
	if err != nil {
		t.Fatalf("list by account: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	for _, m := range got {
		if m.PostedBy != 1 {
			t.Fatalf("message %d posted by %d, want 1", m.MessageID, m.PostedBy)
		}
	}
}

func TestListByAccountQueryError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMessageReadRepository(db, nil, 0)

	mock.ExpectQuery("SELECT .* FROM message WHERE posted_by").WithArgs(1).WillReturnError(errors.New("connection reset"))

	if _, err := repo.ListByAccount(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
}
