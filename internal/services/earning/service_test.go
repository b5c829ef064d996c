package earning

import (
	"context"
	"errors"
	"testing"
	"time"

	"earnsure/internal/models"
	"earnsure/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubUsers serves one user and records field updates.
type stubUsers struct {
	repositories.UserRepository
	user      *models.User
	err       error
	updateErr error
	updated   map[string]interface{}
}

func (s *stubUsers) GetByID(uint) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	copied := *s.user
	return &copied, nil
}

func (s *stubUsers) UpdateFields(_ uint, fields map[string]interface{}) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = fields
	return nil
}

// stubNotifs swallows notifications.
type stubNotifs struct {
	repositories.NotificationRepository
	created []*models.Notification
}

func (s *stubNotifs) Create(_ context.Context, n *models.Notification) error {
	s.created = append(s.created, n)
	return nil
}

type MockTaskRepo struct {
	mock.Mock
}

func (m *MockTaskRepo) SaveTask(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepo) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepo) ListActiveTasks(ctx context.Context) ([]*models.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskRepo) DeactivateTask(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTaskRepo) CreateProof(ctx context.Context, proof *models.TaskProof) error {
	return m.Called(ctx, proof).Error(0)
}

func (m *MockTaskRepo) GetProof(ctx context.Context, id string) (*models.TaskProof, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskProof), args.Error(1)
}

func (m *MockTaskRepo) ResolvePendingProof(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockTaskRepo) ListProofsByUser(ctx context.Context, userID uint) ([]*models.TaskProof, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaskProof), args.Error(1)
}

func (m *MockTaskRepo) ListPendingProofs(ctx context.Context, limit, offset int) ([]*models.TaskProof, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaskProof), args.Error(1)
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

func newEarningService(user *models.User) (Service, *stubUsers, *MockTaskRepo, *MockLedger) {
	users := &stubUsers{user: user}
	if user == nil {
		users.err = repositories.ErrUserNotFound
	}
	tasks := new(MockTaskRepo)
	ledgerSvc := new(MockLedger)
	return NewService(users, tasks, &stubNotifs{}, ledgerSvc), users, tasks, ledgerSvc
}

func TestCheckinReward(t *testing.T) {
	assert.Equal(t, int64(10), CheckinReward(1))
	assert.Equal(t, int64(10), CheckinReward(6))
	assert.Equal(t, int64(50), CheckinReward(7))
	assert.Equal(t, int64(10), CheckinReward(8))
	assert.Equal(t, int64(50), CheckinReward(14))
	assert.Equal(t, int64(10), CheckinReward(0))
}

func TestCheckIn_FirstTime(t *testing.T) {
	user := &models.User{}
	user.ID = 1
	svc, users, _, ledgerSvc := newEarningService(user)

	ledgerSvc.On("Apply", mock.Anything, uint(1), int64(10),
		models.TransactionTypeEarn, "Daily Reward", mock.Anything).
		Return(&models.Transaction{}, nil)

	amount, streak, err := svc.CheckIn(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), amount)
	assert.Equal(t, 1, streak)
	assert.Equal(t, 1, users.updated["checkin_streak"])
}

func TestCheckIn_SeventhDayPaysBig(t *testing.T) {
	old := time.Now().UTC().Add(-25 * time.Hour)
	user := &models.User{LastCheckin: &old, CheckinStreak: 6}
	user.ID = 1
	svc, _, _, ledgerSvc := newEarningService(user)

	ledgerSvc.On("Apply", mock.Anything, uint(1), int64(50),
		models.TransactionTypeEarn, "Daily Reward", mock.Anything).
		Return(&models.Transaction{}, nil)

	amount, streak, err := svc.CheckIn(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), amount)
	assert.Equal(t, 7, streak)
}

func TestCheckIn_Cooldown(t *testing.T) {
	recent := time.Now().UTC().Add(-1 * time.Hour)
	user := &models.User{LastCheckin: &recent, CheckinStreak: 3}
	user.ID = 1
	svc, _, _, ledgerSvc := newEarningService(user)

	_, _, err := svc.CheckIn(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCheckinNotReady)
	ledgerSvc.AssertNotCalled(t, "Apply",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckIn_NoCreditWhenGateWriteFails(t *testing.T) {
	user := &models.User{}
	user.ID = 1
	svc, users, _, ledgerSvc := newEarningService(user)
	users.updateErr = errors.New("connection reset")

	_, _, err := svc.CheckIn(context.Background(), 1)
	require.Error(t, err)

	// The cooldown gate advances before the credit, so a failed gate write
	// denies the reward instead of letting a retry collect it twice.
	ledgerSvc.AssertNotCalled(t, "Apply",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckIn_StreakWrapsAtThirty(t *testing.T) {
	old := time.Now().UTC().Add(-25 * time.Hour)
	user := &models.User{LastCheckin: &old, CheckinStreak: 30}
	user.ID = 1
	svc, _, _, ledgerSvc := newEarningService(user)

	ledgerSvc.On("Apply", mock.Anything, uint(1), int64(10),
		models.TransactionTypeEarn, "Daily Reward", mock.Anything).
		Return(&models.Transaction{}, nil)

	_, streak, err := svc.CheckIn(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestStartMining(t *testing.T) {
	user := &models.User{}
	user.ID = 1
	svc, users, _, _ := newEarningService(user)

	require.NoError(t, svc.StartMining(context.Background(), 1))
	assert.Equal(t, true, users.updated["is_mining"])

	user.IsMining = true
	err := svc.StartMining(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadyMining)
}

func TestCollectMining_ClampsToAccrualCeiling(t *testing.T) {
	started := time.Now().UTC().Add(-30 * time.Minute)
	user := &models.User{IsMining: true, MiningStartedAt: &started}
	user.ID = 1
	svc, users, _, ledgerSvc := newEarningService(user)

	// 30 minutes at 100/h accrues 50 coins; a claim of 1000 is clamped.
	ledgerSvc.On("Apply", mock.Anything, uint(1), mock.MatchedBy(func(coins int64) bool {
		return coins >= 49 && coins <= 50
	}), models.TransactionTypeEarn, "Mining Settlement", mock.Anything).
		Return(&models.Transaction{}, nil)

	res, err := svc.CollectMining(context.Background(), 1, 1000)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Coins, int64(50))
	assert.Equal(t, false, users.updated["is_mining"])
}

func TestCollectMining_HonestClaimPassesThrough(t *testing.T) {
	started := time.Now().UTC().Add(-2 * time.Hour)
	user := &models.User{IsMining: true, MiningStartedAt: &started}
	user.ID = 1
	svc, _, _, ledgerSvc := newEarningService(user)

	ledgerSvc.On("Apply", mock.Anything, uint(1), int64(120),
		models.TransactionTypeEarn, "Mining Settlement", mock.Anything).
		Return(&models.Transaction{}, nil)

	res, err := svc.CollectMining(context.Background(), 1, 120)
	require.NoError(t, err)
	assert.Equal(t, int64(120), res.Coins)
}

func TestCollectMining_NotMining(t *testing.T) {
	user := &models.User{}
	user.ID = 1
	svc, _, _, _ := newEarningService(user)

	_, err := svc.CollectMining(context.Background(), 1, 100)
	assert.ErrorIs(t, err, ErrNotMining)
}

func TestCollectMining_NothingAccruedYet(t *testing.T) {
	started := time.Now().UTC().Add(-5 * time.Second)
	user := &models.User{IsMining: true, MiningStartedAt: &started}
	user.ID = 1
	svc, _, _, _ := newEarningService(user)

	_, err := svc.CollectMining(context.Background(), 1, 100)
	assert.ErrorIs(t, err, ErrNothingMined)
}

func TestWatchAd(t *testing.T) {
	user := &models.User{}
	user.ID = 1
	svc, _, _, ledgerSvc := newEarningService(user)

	ledgerSvc.On("Apply", mock.Anything, uint(1), AdReward,
		models.TransactionTypeEarn, "Rewarded Ad", mock.Anything).
		Return(&models.Transaction{}, nil)

	amount, err := svc.WatchAd(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, AdReward, amount)
}

func TestSubmitProof_NoProofRequiredSettlesImmediately(t *testing.T) {
	svc, _, tasks, ledgerSvc := newEarningService(&models.User{})

	task := &models.Task{Title: "Install app", Reward: 200, RequireProof: false, IsActive: true}
	task.ID = 3
	tasks.On("GetTask", mock.Anything, uint(3)).Return(task, nil)
	tasks.On("CreateProof", mock.Anything, mock.MatchedBy(func(p *models.TaskProof) bool {
		return p.Status == models.ProofStatusApproved
	})).Return(nil)
	ledgerSvc.On("Apply", mock.Anything, uint(9), int64(200),
		models.TransactionTypeEarn, "Task Reward", "Install app").
		Return(&models.Transaction{}, nil)

	proof, err := svc.SubmitProof(context.Background(), 9, 3, "")
	require.NoError(t, err)
	assert.Equal(t, models.ProofStatusApproved, proof.Status)
	ledgerSvc.AssertExpectations(t)
}

func TestSubmitProof_RequireProofStaysPending(t *testing.T) {
	svc, _, tasks, ledgerSvc := newEarningService(&models.User{})

	task := &models.Task{Title: "Review us", Reward: 100, RequireProof: true, IsActive: true}
	task.ID = 4
	tasks.On("GetTask", mock.Anything, uint(4)).Return(task, nil)
	tasks.On("CreateProof", mock.Anything, mock.MatchedBy(func(p *models.TaskProof) bool {
		return p.Status == models.ProofStatusPending && p.ProofURL == "https://img.example/1.png"
	})).Return(nil)

	proof, err := svc.SubmitProof(context.Background(), 9, 4, "https://img.example/1.png")
	require.NoError(t, err)
	assert.Equal(t, models.ProofStatusPending, proof.Status)

	// No credit before review.
	ledgerSvc.AssertNotCalled(t, "Apply",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitProof_InactiveTask(t *testing.T) {
	svc, _, tasks, _ := newEarningService(&models.User{})

	task := &models.Task{Title: "Old task", IsActive: false}
	task.ID = 5
	tasks.On("GetTask", mock.Anything, uint(5)).Return(task, nil)

	_, err := svc.SubmitProof(context.Background(), 9, 5, "x")
	assert.ErrorIs(t, err, ErrTaskInactive)
}

func TestReviewProof_ApproveCreditsOnce(t *testing.T) {
	svc, _, tasks, ledgerSvc := newEarningService(&models.User{})

	proof := &models.TaskProof{ID: "p1", UserID: 9, TaskID: 4, Status: models.ProofStatusApproved}
	task := &models.Task{Title: "Review us", Reward: 100}
	task.ID = 4

	tasks.On("ResolvePendingProof", mock.Anything, "p1", models.ProofStatusApproved).Return(nil)
	tasks.On("GetProof", mock.Anything, "p1").Return(proof, nil)
	tasks.On("GetTask", mock.Anything, uint(4)).Return(task, nil)
	ledgerSvc.On("Apply", mock.Anything, uint(9), int64(100),
		models.TransactionTypeEarn, "Task Reward", "Review us").
		Return(&models.Transaction{}, nil).Once()

	got, err := svc.ReviewProof(context.Background(), "p1", models.ProofStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ProofStatusApproved, got.Status)
	ledgerSvc.AssertExpectations(t)
}

func TestReviewProof_ReplayIsNoop(t *testing.T) {
	svc, _, tasks, ledgerSvc := newEarningService(&models.User{})

	proof := &models.TaskProof{ID: "p1", Status: models.ProofStatusApproved}
	tasks.On("ResolvePendingProof", mock.Anything, "p1", models.ProofStatusApproved).
		Return(repositories.ErrRequestNotPending)
	tasks.On("GetProof", mock.Anything, "p1").Return(proof, nil)

	got, err := svc.ReviewProof(context.Background(), "p1", models.ProofStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ProofStatusApproved, got.Status)

	// Replay never double-credits.
	ledgerSvc.AssertNotCalled(t, "Apply",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewProof_Conflict(t *testing.T) {
	svc, _, tasks, _ := newEarningService(&models.User{})

	proof := &models.TaskProof{ID: "p1", Status: models.ProofStatusApproved}
	tasks.On("ResolvePendingProof", mock.Anything, "p1", models.ProofStatusRejected).
		Return(repositories.ErrRequestNotPending)
	tasks.On("GetProof", mock.Anything, "p1").Return(proof, nil)

	_, err := svc.ReviewProof(context.Background(), "p1", models.ProofStatusRejected)
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestReviewProof_InvalidDecision(t *testing.T) {
	svc, _, tasks, _ := newEarningService(&models.User{})

	_, err := svc.ReviewProof(context.Background(), "p1", "maybe")
	assert.ErrorIs(t, err, ErrInvalidDecision)
	tasks.AssertNotCalled(t, "ResolvePendingProof", mock.Anything, mock.Anything, mock.Anything)
}
