package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"earnsure/internal/models"
	"earnsure/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByReferralCode(code string) (*models.User, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) UpdateFields(id uint, fields map[string]interface{}) error {
	return m.Called(id, fields).Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockUserRepo) DeviceInUse(deviceID string) (bool, error) {
	args := m.Called(deviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepo) TopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Apply(ctx context.Context, userID uint, amount int64, txType, method, description string) (*models.Transaction, error) {
	args := m.Called(ctx, userID, amount, txType, method, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedger) ApplyWithMetadata(ctx context.Context, userID uint, amount int64, txType, method, description string, metadata models.JSON) (*models.Transaction, error) {
	args := m.Called(ctx, userID, amount, txType, method, description, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedger) History(ctx context.Context, userID uint, limit, offset int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockLedger) Balance(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) Stats(ctx context.Context, start, end time.Time) (*repositories.LedgerStats, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.LedgerStats), args.Error(1)
}

type MockNotifRepo struct {
	mock.Mock
}

func (m *MockNotifRepo) Create(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotifRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotifRepo) MarkRead(ctx context.Context, userID uint, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func validInput() *RegisterInput {
	return &RegisterInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "s3cret!pass",
		DeviceID: "device-abc",
	}
}

func TestRegister_WithoutReferralCode(t *testing.T) {
	repo := new(MockUserRepo)
	ledgerSvc := new(MockLedger)
	notifs := new(MockNotifRepo)
	svc := NewService(repo, ledgerSvc, notifs)

	repo.On("DeviceInUse", "device-abc").Return(false, nil)
	repo.On("GetByReferralCode", mock.Anything).Return(nil, repositories.ErrUserNotFound)
	repo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "asha@example.com" && u.ReferralCode != "" && u.ReferredBy == nil
	})).Return(nil)

	user, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z]{4}[0-9]{2}$`), user.ReferralCode)

	// Empty referral code produces no bonus transactions at all.
	ledgerSvc.AssertNotCalled(t, "Apply",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestRegister_WithValidReferralCode(t *testing.T) {
	repo := new(MockUserRepo)
	ledgerSvc := new(MockLedger)
	notifs := new(MockNotifRepo)
	svc := NewService(repo, ledgerSvc, notifs)

	referrer := &models.User{ReferralCode: "ABCD12"}
	referrer.ID = 7

	repo.On("DeviceInUse", "device-abc").Return(false, nil)
	repo.On("GetByReferralCode", "ABCD12").Return(referrer, nil)
	repo.On("GetByReferralCode", mock.MatchedBy(func(c string) bool { return c != "ABCD12" })).
		Return(nil, repositories.ErrUserNotFound)
	repo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.ReferredBy != nil && *u.ReferredBy == uint(7)
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = 42
	}).Return(nil)

	// Exactly two EARN transactions: +100 referrer, +50 new user.
	ledgerSvc.On("Apply", mock.Anything, uint(7), ReferrerBonus,
		models.TransactionTypeEarn, "Referral Bonus", mock.Anything).
		Return(&models.Transaction{}, nil).Once()
	ledgerSvc.On("Apply", mock.Anything, uint(42), WelcomeBonus,
		models.TransactionTypeEarn, "Welcome Bonus", mock.Anything).
		Return(&models.Transaction{}, nil).Once()
	notifs.On("Create", mock.Anything, mock.Anything).Return(nil)

	input := validInput()
	input.ReferralCode = "ABCD12"
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	ledgerSvc.AssertExpectations(t)
	ledgerSvc.AssertNumberOfCalls(t, "Apply", 2)
}

func TestRegister_InvalidReferralCode(t *testing.T) {
	repo := new(MockUserRepo)
	ledgerSvc := new(MockLedger)
	notifs := new(MockNotifRepo)
	svc := NewService(repo, ledgerSvc, notifs)

	repo.On("DeviceInUse", "device-abc").Return(false, nil)
	repo.On("GetByReferralCode", "NOPE99").Return(nil, repositories.ErrUserNotFound)

	input := validInput()
	input.ReferralCode = "NOPE99"
	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrInvalidReferralCode)

	// Rejected before any row is written.
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_DeviceAlreadyBound(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo, new(MockLedger), new(MockNotifRepo))

	repo.On("DeviceInUse", "device-abc").Return(true, nil)

	_, err := svc.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrDeviceAlreadyBound)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_InputValidation(t *testing.T) {
	svc := NewService(new(MockUserRepo), new(MockLedger), new(MockNotifRepo))

	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantErr error
	}{
		{"missing email", func(i *RegisterInput) { i.Email = "" }, ErrEmailRequired},
		{"missing password", func(i *RegisterInput) { i.Password = "" }, ErrPasswordRequired},
		{"missing device", func(i *RegisterInput) { i.DeviceID = "" }, ErrDeviceRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			_, err := svc.Register(context.Background(), input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSetBanned_BumpsTokenVersion(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo, new(MockLedger), new(MockNotifRepo))

	repo.On("UpdateFields", uint(5), map[string]interface{}{"is_banned": true}).Return(nil)
	repo.On("IncrementTokenVersion", uint(5)).Return(nil)

	require.NoError(t, svc.SetBanned(context.Background(), 5, true))
	repo.AssertExpectations(t)
}

func TestSetBanned_UnbanLeavesTokensAlone(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo, new(MockLedger), new(MockNotifRepo))

	repo.On("UpdateFields", uint(5), map[string]interface{}{"is_banned": false}).Return(nil)

	require.NoError(t, svc.SetBanned(context.Background(), 5, false))
	repo.AssertNotCalled(t, "IncrementTokenVersion", mock.Anything)
}
