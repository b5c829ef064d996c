package repositories

import (
	"context"
	"errors"
	"fmt"

	"earnsure/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrProofNotFound = errors.New("task proof not found")
)

// TaskRepository defines the interface for task and proof storage.
type TaskRepository interface {
	SaveTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id uint) (*models.Task, error)
	ListActiveTasks(ctx context.Context) ([]*models.Task, error)
	DeactivateTask(ctx context.Context, id uint) error

	CreateProof(ctx context.Context, proof *models.TaskProof) error
	GetProof(ctx context.Context, id string) (*models.TaskProof, error)
	ResolvePendingProof(ctx context.Context, id, status string) error
	ListProofsByUser(ctx context.Context, userID uint) ([]*models.TaskProof, error)
	ListPendingProofs(ctx context.Context, limit, offset int) ([]*models.TaskProof, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) SaveTask(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (r *taskRepository) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

func (r *taskRepository) ListActiveTasks(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskRepository) DeactivateTask(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CreateProof(ctx context.Context, proof *models.TaskProof) error {
	if err := r.db.WithContext(ctx).Create(proof).Error; err != nil {
		return fmt.Errorf("failed to create proof: %w", err)
	}
	return nil
}

func (r *taskRepository) GetProof(ctx context.Context, id string) (*models.TaskProof, error) {
	var proof models.TaskProof
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&proof).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProofNotFound
		}
		return nil, fmt.Errorf("failed to get proof: %w", err)
	}
	return &proof, nil
}

func (r *taskRepository) ResolvePendingProof(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.TaskProof{}).
		Where("id = ? AND status = ?", id, models.ProofStatusPending).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to resolve proof: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var proof models.TaskProof
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&proof).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProofNotFound
			}
			return fmt.Errorf("failed to resolve proof: %w", err)
		}
		return ErrRequestNotPending
	}
	return nil
}

func (r *taskRepository) ListProofsByUser(ctx context.Context, userID uint) ([]*models.TaskProof, error) {
	var proofs []*models.TaskProof
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&proofs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}
	return proofs, nil
}

func (r *taskRepository) ListPendingProofs(ctx context.Context, limit, offset int) ([]*models.TaskProof, error) {
	var proofs []*models.TaskProof
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ProofStatusPending).
		Order("submitted_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&proofs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending proofs: %w", err)
	}
	return proofs, nil
}
