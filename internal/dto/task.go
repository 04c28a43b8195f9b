package dto

import (
	"time"

	"github.com/yurikawa/task-tracker-api/internal/models"
)

// CreateTaskRequest is the payload for POST /api/tasks. Priority
// defaults to medium and status to pending when omitted; the owner is
// always the authenticated caller, never a client-supplied value.
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *uint64    `json:"assigned_to"`
	Tags        string     `json:"tags"`
	Attachments string     `json:"attachments"`
}

// UpdateTaskRequest is the payload for PUT /api/tasks/:id. Every field
// is optional: nil means "leave unchanged", a non-nil value is written
// as given. This makes clearing a field to the empty string
// representable, unlike a falsy-merge update.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *uint64    `json:"assigned_to"`
	Tags        *string    `json:"tags"`
	Attachments *string    `json:"attachments"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	Tags        string              `json:"tags"`
	Attachments string              `json:"attachments"`
	UserID      uint64              `json:"user_id"`
	AssignedTo  *uint64             `json:"assigned_to"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TaskListResponse wraps the tasks owned by the caller.
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Tags:        task.Tags,
		Attachments: task.Attachments,
		UserID:      task.UserID,
		AssignedTo:  task.AssignedTo,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return TaskListResponse{Tasks: items}
}
