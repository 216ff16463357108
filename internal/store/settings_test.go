package store

import (
	"context"
	"testing"

	"cargotrack/internal/db"
)

func TestSigningSecretIsStable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetSigningSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetSigningSecret: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(first))
	}

	second, err := GetSigningSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetSigningSecret: %v", err)
	}
	if first != second {
		t.Error("expected the same secret on repeat reads")
	}
}
