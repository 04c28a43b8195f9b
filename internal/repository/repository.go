package repository

import (
	"time"

	"github.com/yurikawa/task-tracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update persists changes to an existing user
	Update(user *models.User) error

	// TouchLastLogin records a successful login timestamp
	TouchLastLogin(id uint64, at time.Time) error
}

// TaskRepository defines the interface for task data access. Reads and
// writes of individual tasks are scoped by owner: the (id, owner) pair
// is the only lookup key, so "not yours" and "does not exist" are
// indistinguishable to callers.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByIDAndOwner finds a task by ID constrained to the given owner
	FindByIDAndOwner(id, ownerID uint64) (*models.Task, error)

	// ListByOwner retrieves all tasks owned by a user
	ListByOwner(ownerID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete permanently removes a task constrained to the given owner
	Delete(id, ownerID uint64) error
}
