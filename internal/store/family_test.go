package store

import (
	"testing"

	"github.com/jcalloway/larder/internal/database"
)

func setupFamilyTestDB(t *testing.T) (*FamilyStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewFamilyStore(db), NewUserStore(db)
}

func TestFamilyCreateWithFounder(t *testing.T) {
	fs, us := setupFamilyTestDB(t)
	u, _ := us.Create("alice@example.com", "Alice", "", "hash")

	f, err := fs.CreateWithFounder("ABC123", "Smiths", "pinhash", u.ID)
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	if f.ID != "ABC123" {
		t.Errorf("id = %q, want ABC123", f.ID)
	}

	m, err := fs.GetMember("ABC123", u.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if m == nil || !m.IsAdmin {
		t.Error("founder should be an admin member")
	}

	got, _ := us.GetByID(u.ID)
	if got.CurrentFamilyID == nil || *got.CurrentFamilyID != "ABC123" {
		t.Error("founder's current family should be set")
	}
}

func TestFamilyExists(t *testing.T) {
	fs, us := setupFamilyTestDB(t)
	u, _ := us.Create("alice@example.com", "Alice", "", "hash")

	ok, err := fs.Exists("ABC123")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Error("family should not exist yet")
	}

	fs.CreateWithFounder("ABC123", "Smiths", "pinhash", u.ID)

	ok, _ = fs.Exists("ABC123")
	if !ok {
		t.Error("family should exist")
	}
}

func TestFamilyAddMemberSetsDefaultCurrentOnly(t *testing.T) {
	fs, us := setupFamilyTestDB(t)
	founder, _ := us.Create("alice@example.com", "Alice", "", "hash")
	joiner, _ := us.Create("bob@example.com", "Bob", "", "hash")

	fs.CreateWithFounder("AAA111", "A", "pinhash", founder.ID)
	fs.CreateWithFounder("BBB222", "B", "pinhash", founder.ID)

	m, err := fs.AddMember("AAA111", joiner.ID)
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if m.IsAdmin {
		t.Error("added member should not be admin")
	}

	u, _ := us.GetByID(joiner.ID)
	if u.CurrentFamilyID == nil || *u.CurrentFamilyID != "AAA111" {
		t.Error("first family should become the current one")
	}

	// Joining a second family must not steal the pointer.
	if _, err := fs.AddMember("BBB222", joiner.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}
	u, _ = us.GetByID(joiner.ID)
	if *u.CurrentFamilyID != "AAA111" {
		t.Error("current family should remain the first one")
	}
}

func TestFamilyAddMemberDuplicate(t *testing.T) {
	fs, us := setupFamilyTestDB(t)
	founder, _ := us.Create("alice@example.com", "Alice", "", "hash")

	fs.CreateWithFounder("AAA111", "A", "pinhash", founder.ID)

	if _, err := fs.AddMember("AAA111", founder.ID); err == nil {
		t.Fatal("expected error for duplicate membership")
	}
}

func TestFamilyRemoveMemberClearsPointer(t *testing.T) {
	fs, us := setupFamilyTestDB(t)
	founder, _ := us.Create("alice@example.com", "Alice", "", "hash")
	joiner, _ := us.Create("bob@example.com", "Bob", "", "hash")

	fs.CreateWithFounder("AAA111", "A", "pinhash", founder.ID)
	fs.AddMember("AAA111", joiner.ID)

	if err := fs.RemoveMember("AAA111", joiner.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}

	m, _ := fs.GetMember("AAA111", joiner.ID)
	if m != nil {
		t.Error("membership should be gone")
	}
	u, _ := us.GetByID(joiner.ID)
	if u.CurrentFamilyID != nil {
		t.Error("removed member's current family should be cleared")
	}
}

func TestFamilyListMembers(t *testing.T) {
	fs, us := setupFamilyTestDB(t)
	founder, _ := us.Create("alice@example.com", "Alice", "", "hash")
	joiner, _ := us.Create("bob@example.com", "Bob", "", "hash")

	fs.CreateWithFounder("AAA111", "A", "pinhash", founder.ID)
	fs.AddMember("AAA111", joiner.ID)

	members, err := fs.ListMembers("AAA111")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
	if members[0].Name != "Alice" || !members[0].IsAdmin {
		t.Errorf("first member = %+v, want admin Alice", members[0])
	}
	if members[1].Email != "bob@example.com" {
		t.Errorf("second member email = %q", members[1].Email)
	}
}

func TestFamilyListFamiliesForUser(t *testing.T) {
	fs, us := setupFamilyTestDB(t)
	founder, _ := us.Create("alice@example.com", "Alice", "", "hash")

	fs.CreateWithFounder("AAA111", "A", "pinhash", founder.ID)
	fs.CreateWithFounder("BBB222", "B", "pinhash", founder.ID)

	families, err := fs.ListFamiliesForUser(founder.ID)
	if err != nil {
		t.Fatalf("list families: %v", err)
	}
	if len(families) != 2 {
		t.Errorf("families = %d, want 2", len(families))
	}
}

func TestFamilyUpdateCalendar(t *testing.T) {
	fs, us := setupFamilyTestDB(t)
	founder, _ := us.Create("alice@example.com", "Alice", "", "hash")
	fs.CreateWithFounder("AAA111", "A", "pinhash", founder.ID)

	calID := "cal@example.com"
	if err := fs.UpdateCalendar("AAA111", &calID); err != nil {
		t.Fatalf("update calendar: %v", err)
	}
	f, _ := fs.GetByID("AAA111")
	if f.CalendarID == nil || *f.CalendarID != calID {
		t.Error("calendar id should be set")
	}

	if err := fs.UpdateCalendar("AAA111", nil); err != nil {
		t.Fatalf("clear calendar: %v", err)
	}
	f, _ = fs.GetByID("AAA111")
	if f.CalendarID != nil {
		t.Error("calendar id should be cleared")
	}
}
