package store

import (
	"database/sql"
	"fmt"

	"github.com/jcalloway/larder/internal/model"
)

type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

func scanFamily(scanner interface{ Scan(...any) error }) (*model.Family, error) {
	var f model.Family
	err := scanner.Scan(&f.ID, &f.Name, &f.PinHash, &f.CalendarID, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanFamilyMember(scanner interface{ Scan(...any) error }) (*model.FamilyMember, error) {
	var m model.FamilyMember
	var isAdmin int
	err := scanner.Scan(&m.ID, &m.FamilyID, &m.UserID, &isAdmin, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	m.IsAdmin = isAdmin != 0
	return &m, nil
}

const familyCols = `id, name, pin_hash, calendar_id, created_by, created_at, updated_at`
const familyMemberCols = `id, family_id, user_id, is_admin, joined_at`

func (s *FamilyStore) GetByID(id string) (*model.Family, error) {
	row := s.db.QueryRow(`SELECT `+familyCols+` FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	return f, nil
}

func (s *FamilyStore) Exists(id string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM families WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check family exists: %w", err)
	}
	return n > 0, nil
}

// CreateWithFounder inserts the family, its founding admin membership, and
// sets the founder's current family, all in one transaction.
func (s *FamilyStore) CreateWithFounder(id, name, pinHash string, userID int64) (*model.Family, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO families (id, name, pin_hash, created_by) VALUES (?, ?, ?, ?)`,
		id, name, pinHash, userID,
	); err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO family_members (family_id, user_id, is_admin) VALUES (?, ?, 1)`,
		id, userID,
	); err != nil {
		return nil, fmt.Errorf("insert founder membership: %w", err)
	}

	// The creator's current family is always the new one.
	if _, err := tx.Exec(
		`UPDATE users SET current_family_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id, userID,
	); err != nil {
		return nil, fmt.Errorf("set founder current family: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(id)
}

// AddMember inserts a non-admin membership and makes the family the user's
// current one only if they have none set. Both writes share a transaction.
func (s *FamilyStore) AddMember(familyID string, userID int64) (*model.FamilyMember, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO family_members (family_id, user_id, is_admin) VALUES (?, ?, 0)`,
		familyID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert membership: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE users SET current_family_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND current_family_id IS NULL`,
		familyID, userID,
	); err != nil {
		return nil, fmt.Errorf("set default current family: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+familyMemberCols+` FROM family_members WHERE id = ?`, id)
	return scanFamilyMember(row)
}

// RemoveMember deletes the membership and clears the member's current-family
// pointer when it pointed at the removed family.
func (s *FamilyStore) RemoveMember(familyID string, userID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM family_members WHERE family_id = ? AND user_id = ?`,
		familyID, userID,
	); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE users SET current_family_id = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND current_family_id = ?`,
		userID, familyID,
	); err != nil {
		return fmt.Errorf("clear current family: %w", err)
	}

	return tx.Commit()
}

func (s *FamilyStore) GetMember(familyID string, userID int64) (*model.FamilyMember, error) {
	row := s.db.QueryRow(
		`SELECT `+familyMemberCols+` FROM family_members WHERE family_id = ? AND user_id = ?`,
		familyID, userID,
	)
	m, err := scanFamilyMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *FamilyStore) ListMembers(familyID string) ([]model.FamilyMemberDetail, error) {
	rows, err := s.db.Query(
		`SELECT fm.id, fm.family_id, fm.user_id, fm.is_admin, fm.joined_at, u.name, u.email, u.photo_url
		 FROM family_members fm
		 JOIN users u ON u.id = fm.user_id
		 WHERE fm.family_id = ?
		 ORDER BY fm.joined_at ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.FamilyMemberDetail
	for rows.Next() {
		var d model.FamilyMemberDetail
		var isAdmin int
		if err := rows.Scan(&d.ID, &d.FamilyID, &d.UserID, &isAdmin, &d.JoinedAt, &d.Name, &d.Email, &d.PhotoURL); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		d.IsAdmin = isAdmin != 0
		members = append(members, d)
	}
	return members, rows.Err()
}

func (s *FamilyStore) ListFamiliesForUser(userID int64) ([]model.Family, error) {
	rows, err := s.db.Query(
		`SELECT f.id, f.name, f.pin_hash, f.calendar_id, f.created_by, f.created_at, f.updated_at
		 FROM families f
		 JOIN family_members fm ON f.id = fm.family_id
		 WHERE fm.user_id = ?
		 ORDER BY fm.joined_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list families for user: %w", err)
	}
	defer rows.Close()

	var families []model.Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		families = append(families, *f)
	}
	return families, rows.Err()
}

func (s *FamilyStore) UpdatePin(familyID, pinHash string) error {
	_, err := s.db.Exec(
		`UPDATE families SET pin_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		pinHash, familyID,
	)
	if err != nil {
		return fmt.Errorf("update family pin: %w", err)
	}
	return nil
}

// UpdateCalendar sets or clears the linked calendar id.
func (s *FamilyStore) UpdateCalendar(familyID string, calendarID *string) error {
	_, err := s.db.Exec(
		`UPDATE families SET calendar_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		calendarID, familyID,
	)
	if err != nil {
		return fmt.Errorf("update family calendar: %w", err)
	}
	return nil
}

// Details returns the family merged with its full membership set.
func (s *FamilyStore) Details(familyID string) (*model.FamilyDetails, error) {
	f, err := s.GetByID(familyID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, nil
	}
	members, err := s.ListMembers(familyID)
	if err != nil {
		return nil, err
	}
	return &model.FamilyDetails{Family: *f, Members: members}, nil
}
