package models

import (
	"testing"
	"time"
)

func TestBaseModelBeforeCreateGeneratesULID(t *testing.T) {
	var base BaseModel
	if err := base.BeforeCreate(nil); err != nil {
		t.Fatalf("before create: %v", err)
	}
	if len(base.ID) != 26 {
		t.Fatalf("expected 26-character ULID, got %q", base.ID)
	}
}

func TestGeneratedIDsSortByCreationOrder(t *testing.T) {
	var first, second BaseModel
	if err := first.BeforeCreate(nil); err != nil {
		t.Fatalf("before create: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := second.BeforeCreate(nil); err != nil {
		t.Fatalf("before create: %v", err)
	}
	if first.ID >= second.ID {
		t.Fatalf("expected %s < %s", first.ID, second.ID)
	}
}

func TestBeforeCreatePreservesExplicitID(t *testing.T) {
	base := BaseModel{ID: "explicit"}
	if err := base.BeforeCreate(nil); err != nil {
		t.Fatalf("before create: %v", err)
	}
	if base.ID != "explicit" {
		t.Fatalf("expected explicit ID to be kept, got %q", base.ID)
	}
}
