package services

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
	"github.com/tverros/go-jobtrack-backend/internal/repo"
)

func newServicesDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:services_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestFilterStore_LoadWithoutSaveReturnsDefault(t *testing.T) {
	s := NewFilterStore(newServicesDB(t))

	f, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(f, domain.DefaultAutomationFilter()) {
		t.Fatalf("load = %+v, want default", f)
	}
}

func TestFilterStore_SaveLoadRoundTrip(t *testing.T) {
	s := NewFilterStore(newServicesDB(t))
	ctx := context.Background()

	want := domain.AutomationFilter{
		Keywords:      []string{"backend", "go"},
		Location:      "Berlin",
		RecencyWindow: domain.RecencyLastWeek,
		EasyApplyOnly: false,
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}

	// Saves replace the blob wholesale.
	next := domain.AutomationFilter{Keywords: []string{"sre"}, Location: "Remote", RecencyWindow: domain.RecencyAny, EasyApplyOnly: true}
	if err := s.Save(ctx, next); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, _ = s.Load(ctx)
	if !reflect.DeepEqual(got, next) {
		t.Fatalf("overwrite not wholesale: %+v", got)
	}
}

func TestFilterStore_CorruptBlobFallsBackToDefault(t *testing.T) {
	db := newServicesDB(t)
	s := NewFilterStore(db)
	ctx := context.Background()

	if err := repo.PutBlob(ctx, db, "auto_apply_filters", []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	f, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(f, domain.DefaultAutomationFilter()) {
		t.Fatalf("corrupt blob did not fall back to default: %+v", f)
	}
}

func TestCredentialStore_Lifecycle(t *testing.T) {
	s := NewCredentialStore(newServicesDB(t))
	ctx := context.Background()

	got, err := s.Load(ctx)
	if err != nil || got != "" {
		t.Fatalf("fresh load = (%q, %v), want empty", got, err)
	}

	if err := s.Save(ctx, "ya29.token"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ = s.Load(ctx)
	if got != "ya29.token" {
		t.Fatalf("load = %q", got)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = s.Load(ctx)
	if got != "" {
		t.Fatalf("credential survived clear: %q", got)
	}

	// Clearing again is fine.
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}
