package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIdempotency_CreateGetDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec, err := CreateIdempotency(ctx, db, "u1", "records", "key-1", "r-42", 201, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ResourceID != "r-42" || rec.Status != 201 {
		t.Fatalf("stored wrong payload: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "records", "key-1", now)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ResourceID != "r-42" {
		t.Fatalf("get returned %+v", got)
	}

	if _, err := CreateIdempotency(ctx, db, "u1", "records", "key-1", "r-99", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate create = %v, want ErrDuplicate", err)
	}
}

func TestIdempotency_ExpiredAndBlankScope(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "records", "key-2", "r-1", 201, -time.Minute); err != nil {
		t.Fatalf("create expired: %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "records", "key-2", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired get = %v, want ErrNotFound", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "  ", "key-2", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank scope = %v, want ErrNotFound", err)
	}
}
