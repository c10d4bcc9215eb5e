package auth

import (
	"context"
	"testing"
)

func TestWithAuthRoundTrip(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{
		UserID:    7,
		FamilyID:  "FAM001",
		IsAdmin:   true,
		SessionID: 3,
	})

	ac, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected auth context")
	}
	if ac.UserID != 7 || ac.FamilyID != "FAM001" || !ac.IsAdmin || ac.SessionID != 3 {
		t.Errorf("round trip lost data: %+v", ac)
	}

	if UserID(ctx) != 7 {
		t.Errorf("UserID = %d, want 7", UserID(ctx))
	}
	if FamilyID(ctx) != "FAM001" {
		t.Errorf("FamilyID = %q, want FAM001", FamilyID(ctx))
	}
	if !IsAdmin(ctx) {
		t.Error("IsAdmin = false, want true")
	}
}

func TestFromContextMissing(t *testing.T) {
	ctx := context.Background()

	if _, ok := FromContext(ctx); ok {
		t.Error("expected no auth context")
	}
	if UserID(ctx) != 0 {
		t.Error("UserID should be zero without auth")
	}
	if FamilyID(ctx) != "" {
		t.Error("FamilyID should be empty without auth")
	}
	if IsAdmin(ctx) {
		t.Error("IsAdmin should be false without auth")
	}
}
