package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jcalloway/larder/internal/model"
)

type RestaurantStore struct {
	db *sql.DB
}

func NewRestaurantStore(db *sql.DB) *RestaurantStore {
	return &RestaurantStore{db: db}
}

func (s *RestaurantStore) Create(familyID, name string, menuItemIDs []string) (*model.Restaurant, error) {
	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO restaurants (id, family_id, name) VALUES (?, ?, ?)`,
		id, familyID, name,
	); err != nil {
		return nil, fmt.Errorf("insert restaurant: %w", err)
	}

	for _, itemID := range menuItemIDs {
		if _, err := tx.Exec(
			`INSERT INTO restaurant_items (restaurant_id, item_id) VALUES (?, ?)`,
			id, itemID,
		); err != nil {
			return nil, fmt.Errorf("insert restaurant item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(id)
}

func (s *RestaurantStore) GetByID(id string) (*model.Restaurant, error) {
	row := s.db.QueryRow(
		`SELECT id, family_id, name, created_at FROM restaurants WHERE id = ?`, id,
	)
	var rest model.Restaurant
	err := row.Scan(&rest.ID, &rest.FamilyID, &rest.Name, &rest.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	rest.MenuItemIDs, err = s.listItemIDs(id)
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (s *RestaurantStore) ListByFamily(familyID string) ([]model.Restaurant, error) {
	rows, err := s.db.Query(
		`SELECT id, family_id, name, created_at
		 FROM restaurants WHERE family_id = ? ORDER BY name ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []model.Restaurant
	for rows.Next() {
		var rest model.Restaurant
		if err := rows.Scan(&rest.ID, &rest.FamilyID, &rest.Name, &rest.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range restaurants {
		restaurants[i].MenuItemIDs, err = s.listItemIDs(restaurants[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return restaurants, nil
}

func (s *RestaurantStore) listItemIDs(restaurantID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT item_id FROM restaurant_items WHERE restaurant_id = ? ORDER BY item_id ASC`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list restaurant items: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan restaurant item: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *RestaurantStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM restaurants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	return nil
}
