package family

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/jcalloway/larder/internal/database"
	"github.com/jcalloway/larder/internal/store"
)

type testEnv struct {
	service  *Service
	users    *store.UserStore
	families *store.FamilyStore
}

func setupService(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := store.NewUserStore(db)
	families := store.NewFamilyStore(db)
	return &testEnv{
		service:  NewService(families, users, slog.Default()),
		users:    users,
		families: families,
	}
}

func (e *testEnv) createUser(t *testing.T, email string) int64 {
	t.Helper()
	u, err := e.users.Create(email, "Test User", "", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func TestCreateFamily(t *testing.T) {
	env := setupService(t)
	userID := env.createUser(t, "alice@example.com")

	f, err := env.service.CreateFamily(context.Background(), userID, "The Smiths", "1234")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	if len(f.ID) != 6 {
		t.Errorf("family code length = %d, want 6", len(f.ID))
	}
	if f.Name != "The Smiths" {
		t.Errorf("name = %q, want %q", f.Name, "The Smiths")
	}
	if f.PinHash == "1234" {
		t.Error("PIN stored in plaintext")
	}

	// The founder is an admin member.
	m, err := env.families.GetMember(f.ID, userID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if m == nil || !m.IsAdmin {
		t.Error("founder should be an admin member")
	}

	// The new family becomes the founder's current family.
	u, err := env.users.GetByID(userID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.CurrentFamilyID == nil || *u.CurrentFamilyID != f.ID {
		t.Error("founder's current family should be the new family")
	}
}

func TestCreateFamilyValidation(t *testing.T) {
	env := setupService(t)
	userID := env.createUser(t, "alice@example.com")

	if _, err := env.service.CreateFamily(context.Background(), userID, "  ", "1234"); !errors.Is(err, ErrBlankName) {
		t.Errorf("blank name: err = %v, want ErrBlankName", err)
	}
	if _, err := env.service.CreateFamily(context.Background(), userID, "Smiths", "12a4"); !errors.Is(err, ErrPinFormat) {
		t.Errorf("bad pin: err = %v, want ErrPinFormat", err)
	}
	if _, err := env.service.CreateFamily(context.Background(), userID, "Smiths", "123"); !errors.Is(err, ErrPinFormat) {
		t.Errorf("short pin: err = %v, want ErrPinFormat", err)
	}
}

func TestJoinFamily(t *testing.T) {
	env := setupService(t)
	founder := env.createUser(t, "alice@example.com")
	joiner := env.createUser(t, "bob@example.com")

	f, err := env.service.CreateFamily(context.Background(), founder, "Smiths", "1234")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}

	m, err := env.service.JoinFamily(joiner, f.ID, "1234")
	if err != nil {
		t.Fatalf("join family: %v", err)
	}
	if m.IsAdmin {
		t.Error("joiner should not be an admin")
	}

	// First family becomes the joiner's current family.
	u, _ := env.users.GetByID(joiner)
	if u.CurrentFamilyID == nil || *u.CurrentFamilyID != f.ID {
		t.Error("joiner's current family should be set")
	}
}

func TestJoinFamilyWrongPin(t *testing.T) {
	env := setupService(t)
	founder := env.createUser(t, "alice@example.com")
	joiner := env.createUser(t, "bob@example.com")

	f, _ := env.service.CreateFamily(context.Background(), founder, "Smiths", "1234")

	if _, err := env.service.JoinFamily(joiner, f.ID, "9999"); !errors.Is(err, ErrInvalidPin) {
		t.Errorf("err = %v, want ErrInvalidPin", err)
	}
}

func TestJoinFamilyUnknownCode(t *testing.T) {
	env := setupService(t)
	joiner := env.createUser(t, "bob@example.com")

	if _, err := env.service.JoinFamily(joiner, "ZZZZZZ", "1234"); !errors.Is(err, ErrFamilyNotFound) {
		t.Errorf("err = %v, want ErrFamilyNotFound", err)
	}
}

func TestJoinFamilyAlreadyMember(t *testing.T) {
	env := setupService(t)
	founder := env.createUser(t, "alice@example.com")

	f, _ := env.service.CreateFamily(context.Background(), founder, "Smiths", "1234")

	if _, err := env.service.JoinFamily(founder, f.ID, "1234"); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("err = %v, want ErrAlreadyMember", err)
	}
}

func TestJoinSecondFamilyKeepsCurrent(t *testing.T) {
	env := setupService(t)
	founderA := env.createUser(t, "alice@example.com")
	founderB := env.createUser(t, "bob@example.com")
	joiner := env.createUser(t, "cara@example.com")

	fa, _ := env.service.CreateFamily(context.Background(), founderA, "A", "1111")
	fb, _ := env.service.CreateFamily(context.Background(), founderB, "B", "2222")

	if _, err := env.service.JoinFamily(joiner, fa.ID, "1111"); err != nil {
		t.Fatalf("join first family: %v", err)
	}
	if _, err := env.service.JoinFamily(joiner, fb.ID, "2222"); err != nil {
		t.Fatalf("join second family: %v", err)
	}

	u, _ := env.users.GetByID(joiner)
	if u.CurrentFamilyID == nil || *u.CurrentFamilyID != fa.ID {
		t.Error("joining a second family must not change the current family")
	}
}

func TestSwitchFamily(t *testing.T) {
	env := setupService(t)
	founder := env.createUser(t, "alice@example.com")
	other := env.createUser(t, "bob@example.com")

	fa, _ := env.service.CreateFamily(context.Background(), founder, "A", "1111")
	fb, _ := env.service.CreateFamily(context.Background(), founder, "B", "2222")

	if err := env.service.SwitchFamily(founder, fa.ID); err != nil {
		t.Fatalf("switch back: %v", err)
	}
	u, _ := env.users.GetByID(founder)
	if u.CurrentFamilyID == nil || *u.CurrentFamilyID != fa.ID {
		t.Error("current family should be A after switching")
	}

	// A non-member cannot switch into a family.
	if err := env.service.SwitchFamily(other, fb.ID); !errors.Is(err, ErrNotMember) {
		t.Errorf("err = %v, want ErrNotMember", err)
	}
}

func TestRemoveMember(t *testing.T) {
	env := setupService(t)
	founder := env.createUser(t, "alice@example.com")
	member := env.createUser(t, "bob@example.com")

	f, _ := env.service.CreateFamily(context.Background(), founder, "Smiths", "1234")
	if _, err := env.service.JoinFamily(member, f.ID, "1234"); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := env.service.RemoveMember(founder, f.ID, member); err != nil {
		t.Fatalf("remove member: %v", err)
	}

	m, _ := env.families.GetMember(f.ID, member)
	if m != nil {
		t.Error("membership should be gone")
	}

	// The removed member's current-family pointer is cleared.
	u, _ := env.users.GetByID(member)
	if u.CurrentFamilyID != nil {
		t.Error("removed member's current family should be cleared")
	}
}

func TestRemoveMemberRequiresAdmin(t *testing.T) {
	env := setupService(t)
	founder := env.createUser(t, "alice@example.com")
	m1 := env.createUser(t, "bob@example.com")
	m2 := env.createUser(t, "cara@example.com")

	f, _ := env.service.CreateFamily(context.Background(), founder, "Smiths", "1234")
	env.service.JoinFamily(m1, f.ID, "1234")
	env.service.JoinFamily(m2, f.ID, "1234")

	if err := env.service.RemoveMember(m1, f.ID, m2); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("err = %v, want ErrNotAdmin", err)
	}
}

func TestRemoveMemberCannotRemoveAdmin(t *testing.T) {
	env := setupService(t)
	founder := env.createUser(t, "alice@example.com")

	f, _ := env.service.CreateFamily(context.Background(), founder, "Smiths", "1234")

	if err := env.service.RemoveMember(founder, f.ID, founder); !errors.Is(err, ErrCannotRemoveAdmin) {
		t.Errorf("err = %v, want ErrCannotRemoveAdmin", err)
	}
}

func TestUpdatePin(t *testing.T) {
	env := setupService(t)
	founder := env.createUser(t, "alice@example.com")
	joiner := env.createUser(t, "bob@example.com")

	f, _ := env.service.CreateFamily(context.Background(), founder, "Smiths", "1234")

	if err := env.service.UpdatePin(founder, f.ID, "5678"); err != nil {
		t.Fatalf("update pin: %v", err)
	}

	if _, err := env.service.JoinFamily(joiner, f.ID, "1234"); !errors.Is(err, ErrInvalidPin) {
		t.Error("old PIN should no longer work")
	}
	if _, err := env.service.JoinFamily(joiner, f.ID, "5678"); err != nil {
		t.Errorf("new PIN should work: %v", err)
	}
}

func TestUpdatePinRequiresAdmin(t *testing.T) {
	env := setupService(t)
	founder := env.createUser(t, "alice@example.com")
	member := env.createUser(t, "bob@example.com")

	f, _ := env.service.CreateFamily(context.Background(), founder, "Smiths", "1234")
	env.service.JoinFamily(member, f.ID, "1234")

	if err := env.service.UpdatePin(member, f.ID, "5678"); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("err = %v, want ErrNotAdmin", err)
	}
}

func TestUpdateCalendar(t *testing.T) {
	env := setupService(t)
	founder := env.createUser(t, "alice@example.com")

	f, _ := env.service.CreateFamily(context.Background(), founder, "Smiths", "1234")

	if err := env.service.UpdateCalendar(founder, f.ID, "cal@group.calendar.google.com"); err != nil {
		t.Fatalf("update calendar: %v", err)
	}
	got, _ := env.families.GetByID(f.ID)
	if got.CalendarID == nil || *got.CalendarID != "cal@group.calendar.google.com" {
		t.Error("calendar id should be set")
	}

	// Empty id unlinks the calendar.
	if err := env.service.UpdateCalendar(founder, f.ID, "  "); err != nil {
		t.Fatalf("clear calendar: %v", err)
	}
	got, _ = env.families.GetByID(f.ID)
	if got.CalendarID != nil {
		t.Error("calendar id should be cleared")
	}
}

func TestDetails(t *testing.T) {
	env := setupService(t)
	founder := env.createUser(t, "alice@example.com")
	member := env.createUser(t, "bob@example.com")

	f, _ := env.service.CreateFamily(context.Background(), founder, "Smiths", "1234")
	env.service.JoinFamily(member, f.ID, "1234")

	d, err := env.service.Details(f.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(d.Members) != 2 {
		t.Errorf("members = %d, want 2", len(d.Members))
	}

	if _, err := env.service.Details("ZZZZZZ"); !errors.Is(err, ErrFamilyNotFound) {
		t.Errorf("err = %v, want ErrFamilyNotFound", err)
	}
}
