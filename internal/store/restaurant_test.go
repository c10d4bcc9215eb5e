package store

import (
	"testing"

	"github.com/jcalloway/larder/internal/database"
)

func setupRestaurantTestDB(t *testing.T) (*RestaurantStore, *MenuItemStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := NewUserStore(db)
	fs := NewFamilyStore(db)
	u, err := us.Create("alice@example.com", "Alice", "", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := fs.CreateWithFounder("FAM001", "Smiths", "pinhash", u.ID); err != nil {
		t.Fatalf("create family: %v", err)
	}
	return NewRestaurantStore(db), NewMenuItemStore(db), u.ID
}

func TestRestaurantCreate(t *testing.T) {
	rs, ms, userID := setupRestaurantTestDB(t)

	i1, _ := ms.Create("FAM001", "Pad Thai", nil, userID)
	i2, _ := ms.Create("FAM001", "Green Curry", nil, userID)

	rest, err := rs.Create("FAM001", "Thai Corner", []string{i1.ID, i2.ID})
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	if rest.Name != "Thai Corner" {
		t.Errorf("name = %q", rest.Name)
	}
	if len(rest.MenuItemIDs) != 2 {
		t.Errorf("item ids = %d, want 2", len(rest.MenuItemIDs))
	}
}

func TestRestaurantListByFamily(t *testing.T) {
	rs, _, _ := setupRestaurantTestDB(t)

	rs.Create("FAM001", "Zebra Cafe", nil)
	rs.Create("FAM001", "Alpha Diner", nil)

	list, err := rs.ListByFamily("FAM001")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("restaurants = %d, want 2", len(list))
	}
	if list[0].Name != "Alpha Diner" {
		t.Errorf("expected name order, got %q first", list[0].Name)
	}
}

func TestRestaurantDelete(t *testing.T) {
	rs, ms, userID := setupRestaurantTestDB(t)

	item, _ := ms.Create("FAM001", "Pad Thai", nil, userID)
	rest, _ := rs.Create("FAM001", "Thai Corner", []string{item.ID})

	if err := rs.Delete(rest.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, _ := rs.GetByID(rest.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}

	// The menu item itself survives; only the grouping is removed.
	if survived, _ := ms.GetByID(item.ID); survived == nil {
		t.Error("menu item should survive restaurant deletion")
	}
}
