package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yurikawa/task-tracker-api/internal/constants"
	"github.com/yurikawa/task-tracker-api/internal/models"
	"github.com/yurikawa/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
)

// TaskService handles task business logic. Every operation on an
// individual task is scoped by the calling identity's ownership; a
// task owned by another user behaves exactly like a missing one.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents the fields accepted at task creation.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	AssignedTo  *uint64
	Tags        string
	Attachments string
}

// Create creates a task owned by ownerID. The owner is forced to the
// calling identity regardless of any client-supplied value.
func (s *TaskService) Create(ownerID uint64, input CreateTaskInput) (*models.Task, error) {
	priority := models.TaskPriority(input.Priority)
	if input.Priority == "" {
		priority = models.TaskPriority(constants.DefaultTaskPriority)
	} else if !models.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      constants.DefaultTaskStatus,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		Tags:        input.Tags,
		Attachments: input.Attachments,
		UserID:      ownerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// List returns all tasks owned by ownerID.
func (s *TaskService) List(ownerID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns the task with the given ID if ownerID owns it.
func (s *TaskService) Get(id, ownerID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput holds the optional task fields for a partial update.
// Nil fields keep their current value; non-nil fields are written as
// given, including empty strings.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	AssignedTo  *uint64
	Tags        *string
	Attachments *string
}

// Update applies the provided fields to a task owned by ownerID.
func (s *TaskService) Update(id, ownerID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Priority != nil && !models.ValidPriority(models.TaskPriority(*input.Priority)) {
		return nil, ErrInvalidPriority
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = models.TaskPriority(*input.Priority)
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.AssignedTo != nil {
		task.AssignedTo = input.AssignedTo
	}
	if input.Tags != nil {
		task.Tags = *input.Tags
	}
	if input.Attachments != nil {
		task.Attachments = *input.Attachments
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete permanently removes a task owned by ownerID.
func (s *TaskService) Delete(id, ownerID uint64) error {
	if err := s.taskRepo.Delete(id, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
