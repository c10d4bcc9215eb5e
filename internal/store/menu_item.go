package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcalloway/larder/internal/model"
)

// Recipe link fields editable via UpdateRecipeLink, mapped to their columns.
var recipeLinkColumns = map[string]string{
	"image_url":   "image_url",
	"recipe_link": "recipe_link",
	"order_link":  "order_link",
}

type MenuItemStore struct {
	db *sql.DB
}

func NewMenuItemStore(db *sql.DB) *MenuItemStore {
	return &MenuItemStore{db: db}
}

func scanResponse(scanner interface{ Scan(...any) error }) (*model.Response, error) {
	var r model.Response
	err := scanner.Scan(&r.ID, &r.ItemID, &r.UserID, &r.Type, &r.UserName, &r.UserPhotoURL, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const responseCols = `id, item_id, user_id, type, user_name, user_photo_url, created_at`

// Create inserts a menu item and its recipes in one transaction. Recipes are
// stored by position; the caller is expected to have validated them.
func (s *MenuItemStore) Create(familyID, title string, recipes []model.Recipe, createdBy int64) (*model.MenuItem, error) {
	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO menu_items (id, family_id, title, created_by) VALUES (?, ?, ?, ?)`,
		id, familyID, title, createdBy,
	); err != nil {
		return nil, fmt.Errorf("insert menu item: %w", err)
	}

	for i, rec := range recipes {
		if _, err := tx.Exec(
			`INSERT INTO recipes (item_id, position, title, image_url, recipe_link, order_link)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, rec.Title, rec.ImageURL, rec.RecipeLink, rec.OrderLink,
		); err != nil {
			return nil, fmt.Errorf("insert recipe %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(id)
}

func (s *MenuItemStore) GetByID(id string) (*model.MenuItem, error) {
	row := s.db.QueryRow(
		`SELECT id, family_id, title, created_by, created_at FROM menu_items WHERE id = ?`, id,
	)
	var item model.MenuItem
	err := row.Scan(&item.ID, &item.FamilyID, &item.Title, &item.CreatedBy, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}

	if item.Recipes, err = s.listRecipes(id); err != nil {
		return nil, err
	}
	if item.Responses, err = s.ListResponses(id); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MenuItemStore) ListByFamily(familyID string) ([]model.MenuItem, error) {
	rows, err := s.db.Query(
		`SELECT id, family_id, title, created_by, created_at
		 FROM menu_items WHERE family_id = ? ORDER BY created_at ASC, id ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(&item.ID, &item.FamilyID, &item.Title, &item.CreatedBy, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Recipes, err = s.listRecipes(items[i].ID); err != nil {
			return nil, err
		}
		if items[i].Responses, err = s.ListResponses(items[i].ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *MenuItemStore) listRecipes(itemID string) ([]model.Recipe, error) {
	rows, err := s.db.Query(
		`SELECT position, title, image_url, recipe_link, order_link
		 FROM recipes WHERE item_id = ? ORDER BY position ASC`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		var r model.Recipe
		if err := rows.Scan(&r.Position, &r.Title, &r.ImageURL, &r.RecipeLink, &r.OrderLink); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// UpdateRecipeLink rewrites one link field of the recipe at the given
// position. Returns sql.ErrNoRows via a NotFound-style nil result contract:
// a false return means the item/position pair did not exist at call time.
func (s *MenuItemStore) UpdateRecipeLink(itemID string, position int, field, url string) (bool, error) {
	col, ok := recipeLinkColumns[field]
	if !ok {
		return false, fmt.Errorf("unknown recipe link field %q", field)
	}

	result, err := s.db.Exec(
		`UPDATE recipes SET `+col+` = ? WHERE item_id = ? AND position = ?`,
		url, itemID, position,
	)
	if err != nil {
		return false, fmt.Errorf("update recipe link: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// AddResponse appends a reaction. Prior responses from the same user are
// kept; history accumulates until explicitly cleared.
func (s *MenuItemStore) AddResponse(itemID string, userID int64, respType, userName, userPhotoURL string) (*model.Response, error) {
	result, err := s.db.Exec(
		`INSERT INTO responses (item_id, user_id, type, user_name, user_photo_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		itemID, userID, respType, userName, userPhotoURL, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert response: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+responseCols+` FROM responses WHERE id = ?`, id)
	return scanResponse(row)
}

// ClearResponses removes every response by the user on the item, not just
// the latest.
func (s *MenuItemStore) ClearResponses(itemID string, userID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM responses WHERE item_id = ? AND user_id = ?`,
		itemID, userID,
	)
	if err != nil {
		return fmt.Errorf("clear responses: %w", err)
	}
	return nil
}

func (s *MenuItemStore) ListResponses(itemID string) ([]model.Response, error) {
	rows, err := s.db.Query(
		`SELECT `+responseCols+` FROM responses WHERE item_id = ? ORDER BY created_at ASC, id ASC`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, *r)
	}
	return responses, rows.Err()
}
