// Package family implements the membership service: family creation with
// collision-checked join codes, PIN-gated joins, family switching, and
// admin-only mutation of shared family settings.
package family

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcalloway/larder/internal/model"
	"github.com/jcalloway/larder/internal/store"
)

const maxCodeAttempts = 10

var (
	ErrBlankName          = errors.New("family name is required")
	ErrPinFormat          = errors.New("PIN must be exactly 4 digits")
	ErrFamilyNotFound     = errors.New("family not found")
	ErrInvalidPin         = errors.New("incorrect PIN")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique family code")
	ErrAlreadyMember      = errors.New("already a member of this family")
	ErrNotMember          = errors.New("not a member of this family")
	ErrNotAdmin           = errors.New("admin access required")
	ErrCannotRemoveAdmin  = errors.New("admins cannot be removed")
)

var errCodeCollision = errors.New("family code collision")

type Service struct {
	families *store.FamilyStore
	users    *store.UserStore
	logger   *slog.Logger
}

func NewService(families *store.FamilyStore, users *store.UserStore, logger *slog.Logger) *Service {
	return &Service{families: families, users: users, logger: logger}
}

// CreateFamily allocates a collision-free code, persists the family with the
// creator as founding admin, and makes it the creator's current family
// unconditionally. Validation happens before any write.
func (s *Service) CreateFamily(ctx context.Context, userID int64, name, pin string) (*model.Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}
	if !ValidatePin(pin) {
		return nil, ErrPinFormat
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	var code string
	backoff := retry.WithMaxRetries(maxCodeAttempts-1, retry.NewConstant(time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		candidate := GenerateCode()
		exists, err := s.families.Exists(candidate)
		if err != nil {
			return err
		}
		if exists {
			s.logger.Debug("family code collision", "code", candidate)
			return retry.RetryableError(errCodeCollision)
		}
		code = candidate
		return nil
	})
	if err != nil {
		if errors.Is(err, errCodeCollision) {
			return nil, ErrCodeSpaceExhausted
		}
		return nil, fmt.Errorf("allocate family code: %w", err)
	}

	f, err := s.families.CreateWithFounder(code, name, string(pinHash), userID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("family created", "family_id", f.ID, "user_id", userID)
	return f, nil
}

// JoinFamily checks the code and PIN, then adds the user as a non-admin
// member. The joined family becomes the user's current one only if they had
// none set.
func (s *Service) JoinFamily(userID int64, familyID, pin string) (*model.FamilyMember, error) {
	if !ValidatePin(pin) {
		return nil, ErrPinFormat
	}

	f, err := s.families.GetByID(familyID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFamilyNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(f.PinHash), []byte(pin)); err != nil {
		return nil, ErrInvalidPin
	}

	existing, err := s.families.GetMember(familyID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	m, err := s.families.AddMember(familyID, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("member joined", "family_id", familyID, "user_id", userID)
	return m, nil
}

// SwitchFamily sets the user's current family after verifying membership.
func (s *Service) SwitchFamily(userID int64, familyID string) error {
	m, err := s.families.GetMember(familyID, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotMember
	}
	return s.users.SetCurrentFamily(userID, &familyID)
}

// RemoveMember removes a non-admin member from the family. The acting user
// must be an admin of the family; admins cannot be removed.
func (s *Service) RemoveMember(actorID int64, familyID string, memberID int64) error {
	actor, err := s.families.GetMember(familyID, actorID)
	if err != nil {
		return err
	}
	if actor == nil || !actor.IsAdmin {
		return ErrNotAdmin
	}

	target, err := s.families.GetMember(familyID, memberID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotMember
	}
	if target.IsAdmin {
		return ErrCannotRemoveAdmin
	}

	if err := s.families.RemoveMember(familyID, memberID); err != nil {
		return err
	}
	s.logger.Info("member removed", "family_id", familyID, "user_id", memberID, "by", actorID)
	return nil
}

// UpdatePin rotates the family join PIN. Admin only; format is validated
// before any write.
func (s *Service) UpdatePin(actorID int64, familyID, newPin string) error {
	if !ValidatePin(newPin) {
		return ErrPinFormat
	}
	if err := s.requireAdmin(familyID, actorID); err != nil {
		return err
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(newPin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	return s.families.UpdatePin(familyID, string(pinHash))
}

// UpdateCalendar links or, with an empty id, unlinks the family calendar.
// Admin only.
func (s *Service) UpdateCalendar(actorID int64, familyID, calendarID string) error {
	if err := s.requireAdmin(familyID, actorID); err != nil {
		return err
	}

	calendarID = strings.TrimSpace(calendarID)
	var val *string
	if calendarID != "" {
		val = &calendarID
	}
	return s.families.UpdateCalendar(familyID, val)
}

// Details returns the family merged with its full membership set.
func (s *Service) Details(familyID string) (*model.FamilyDetails, error) {
	d, err := s.families.Details(familyID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrFamilyNotFound
	}
	return d, nil
}

// FamiliesForUser lists every family the user belongs to.
func (s *Service) FamiliesForUser(userID int64) ([]model.Family, error) {
	return s.families.ListFamiliesForUser(userID)
}

func (s *Service) requireAdmin(familyID string, userID int64) error {
	m, err := s.families.GetMember(familyID, userID)
	if err != nil {
		return err
	}
	if m == nil || !m.IsAdmin {
		return ErrNotAdmin
	}
	return nil
}
