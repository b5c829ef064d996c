// Package user handles account creation and the one-time registration side
// effects: device binding, referral validation and the signup bonus pair.
package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"earnsure/internal/models"
	"earnsure/internal/repositories"
	"earnsure/internal/services/ledger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailRequired       = errors.New("email is required")
	ErrPasswordRequired    = errors.New("password is required")
	ErrDeviceRequired      = errors.New("device id is required")
	ErrDeviceAlreadyBound  = errors.New("an account already exists on this device")
	ErrInvalidReferralCode = errors.New("referral code not found")
)

const (
	// ReferrerBonus and WelcomeBonus are the one-time signup credits.
	ReferrerBonus int64 = 100
	WelcomeBonus  int64 = 50
)

// RegisterInput carries everything the signup flow needs. DeviceID is
// client-generated and enforces one account per device.
type RegisterInput struct {
	Name         string
	Email        string
	Phone        string
	Password     string
	DeviceID     string
	ReferralCode string
}

type Service interface {
	Register(ctx context.Context, input *RegisterInput) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.User, error)
	SetBanned(ctx context.Context, id uint, banned bool) error
}

type service struct {
	repo   repositories.UserRepository
	ledger ledger.Service
	notifs repositories.NotificationRepository
}

func NewService(repo repositories.UserRepository, ledgerSvc ledger.Service, notifRepo repositories.NotificationRepository) Service {
	if repo == nil {
		panic("user repository is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if notifRepo == nil {
		panic("notification repository is required")
	}
	return &service{
		repo:   repo,
		ledger: ledgerSvc,
		notifs: notifRepo,
	}
}

func (s *service) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	if input.Email == "" {
		return nil, ErrEmailRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}
	if input.DeviceID == "" {
		return nil, ErrDeviceRequired
	}

	// Fraud control first: one account per device.
	inUse, err := s.repo.DeviceInUse(input.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check device: %w", err)
	}
	if inUse {
		return nil, ErrDeviceAlreadyBound
	}

	// A bad referral code rejects the registration before any row is written.
	var referrer *models.User
	if input.ReferralCode != "" {
		referrer, err = s.repo.GetByReferralCode(input.ReferralCode)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrInvalidReferralCode
			}
			return nil, err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	code, err := s.freshReferralCode()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Password:     string(hashedPassword),
		Role:         "user",
		ReferralCode: code,
		DeviceID:     input.DeviceID,
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	if referrer != nil {
		s.applyReferralBonuses(ctx, referrer, user)
	}

	return user, nil
}

// applyReferralBonuses credits the pair of signup bonuses. Bonus failures are
// logged, not fatal: the account already exists and the admin can reconcile.
func (s *service) applyReferralBonuses(ctx context.Context, referrer, newUser *models.User) {
	if _, err := s.ledger.Apply(ctx, referrer.ID, ReferrerBonus, models.TransactionTypeEarn,
		"Referral Bonus", fmt.Sprintf("Referred %s", newUser.Email)); err != nil {
		log.Printf("Failed to credit referral bonus to user %d: %v", referrer.ID, err)
	} else {
		s.notify(ctx, referrer.ID, "Referral Bonus",
			fmt.Sprintf("You earned %d coins for referring a friend!", ReferrerBonus))
	}

	if _, err := s.ledger.Apply(ctx, newUser.ID, WelcomeBonus, models.TransactionTypeEarn,
		"Welcome Bonus", fmt.Sprintf("Joined with code %s", referrer.ReferralCode)); err != nil {
		log.Printf("Failed to credit welcome bonus to user %d: %v", newUser.ID, err)
	} else {
		s.notify(ctx, newUser.ID, "Welcome Bonus",
			fmt.Sprintf("You received %d coins for joining with a referral code!", WelcomeBonus))
	}
}

func (s *service) GetByID(id uint) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *service) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.repo.TopBalances(ctx, limit)
}

func (s *service) SetBanned(ctx context.Context, id uint, banned bool) error {
	if err := s.repo.UpdateFields(id, map[string]interface{}{"is_banned": banned}); err != nil {
		return err
	}
	// A ban must also kill live sessions.
	if banned {
		return s.repo.IncrementTokenVersion(id)
	}
	return nil
}

// freshReferralCode generates a 4-letter 2-digit code and retries on the
// unlikely collision with an existing user.
func (s *service) freshReferralCode() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := randomReferralCode()
		if err != nil {
			return "", err
		}
		_, err = s.repo.GetByReferralCode(code)
		if errors.Is(err, repositories.ErrUserNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("failed to generate a unique referral code")
}

func randomReferralCode() (string, error) {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	buf := make([]byte, 0, 6)
	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		buf = append(buf, letters[n.Int64()])
	}
	for i := 0; i < 2; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		buf = append(buf, byte('0'+n.Int64()))
	}
	return string(buf), nil
}

func (s *service) notify(ctx context.Context, userID uint, title, body string) {
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		Type:      models.NotificationSuccess,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifs.Create(ctx, n); err != nil {
		log.Printf("Failed to write notification for user %d: %v", userID, err)
	}
}
