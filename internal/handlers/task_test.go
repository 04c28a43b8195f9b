package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yurikawa/task-tracker-api/internal/auth"
	"github.com/yurikawa/task-tracker-api/internal/database"
	"github.com/yurikawa/task-tracker-api/internal/dto"
	"github.com/yurikawa/task-tracker-api/internal/middleware"
	"github.com/yurikawa/task-tracker-api/internal/models"
	"github.com/yurikawa/task-tracker-api/internal/repository"
	"github.com/yurikawa/task-tracker-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	tokens *auth.TokenManager
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	suite.tokens = auth.NewTokenManager("test-secret", time.Hour)

	taskRepo := repository.NewTaskRepository(suite.db)
	taskService := services.NewTaskService(taskRepo)
	handler := NewTaskHandler(taskService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.router = gin.New()
	tasks := suite.router.Group("/api/tasks")
	tasks.Use(middleware.RequireAuth(suite.tokens))
	{
		tasks.POST("", handler.CreateTask)
		tasks.GET("", handler.ListTasks)
		tasks.GET("/:id", handler.GetTask)
		tasks.PUT("/:id", handler.UpdateTask)
		tasks.DELETE("/:id", handler.DeleteTask)
	}
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *TaskHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		FirstName:    "Test",
		LastName:     "User",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, ownerID uint64) *models.Task {
	task := &models.Task{
		Title:    title,
		Status:   "pending",
		Priority: models.PriorityMedium,
		UserID:   ownerID,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskHandlerTestSuite) tokenFor(user *models.User) string {
	token, err := suite.tokens.Issue(user.ID, user.Username)
	suite.Require().NoError(err)
	return token
}

func (suite *TaskHandlerTestSuite) request(method, url string, payload any, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	user := suite.createTestUser("creator")
	token := suite.tokenFor(user)

	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Write report",
		"priority": "high",
	}, token)
	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Write report", resp.Title)
	suite.Equal("pending", resp.Status)
	suite.Equal(models.PriorityHigh, resp.Priority)
	suite.Equal(user.ID, resp.UserID)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_DefaultsPriority() {
	user := suite.createTestUser("creator")
	token := suite.tokenFor(user)

	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"title": "Untitled priority",
	}, token)
	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(models.PriorityMedium, resp.Priority)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidPriority() {
	user := suite.createTestUser("creator")
	token := suite.tokenFor(user)

	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Bad priority",
		"priority": "urgent",
	}, token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingTitle() {
	user := suite.createTestUser("creator")
	token := suite.tokenFor(user)

	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"description": "no title",
	}, token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_OwnerForcedToCaller() {
	user := suite.createTestUser("creator")
	other := suite.createTestUser("other")
	token := suite.tokenFor(user)

	// A client-supplied user_id must be ignored
	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"title":   "Hijack attempt",
		"user_id": other.ID,
	}, token)
	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(user.ID, resp.UserID)
}

func (suite *TaskHandlerTestSuite) TestListTasks_OnlyOwn() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	suite.createTestTask("Alice task 1", alice.ID)
	suite.createTestTask("Alice task 2", alice.ID)
	suite.createTestTask("Bob task", bob.ID)

	w := suite.request(http.MethodGet, "/api/tasks", nil, suite.tokenFor(alice))
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Tasks, 2)
	for _, task := range resp.Tasks {
		suite.Equal(alice.ID, task.UserID)
	}
}

func (suite *TaskHandlerTestSuite) TestGetTask_OtherOwnerIsNotFound() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	task := suite.createTestTask("Alice task", alice.ID)

	url := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := suite.request(http.MethodGet, url, nil, suite.tokenFor(alice))
	suite.Equal(http.StatusOK, w.Code)

	// Bob sees 404, never 403
	w = suite.request(http.MethodGet, url, nil, suite.tokenFor(bob))
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodPut, url, map[string]any{"title": "stolen"}, suite.tokenFor(bob))
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodDelete, url, nil, suite.tokenFor(bob))
	suite.Equal(http.StatusNotFound, w.Code)

	// And the task is untouched
	var unchanged models.Task
	suite.Require().NoError(suite.db.First(&unchanged, task.ID).Error)
	suite.Equal("Alice task", unchanged.Title)
}

func (suite *TaskHandlerTestSuite) TestGetTask_InvalidID() {
	user := suite.createTestUser("alice")
	token := suite.tokenFor(user)

	for _, id := range []string{"abc", "-1", "0"} {
		w := suite.request(http.MethodGet, "/api/tasks/"+id, nil, token)
		suite.Equal(http.StatusBadRequest, w.Code, "id %q", id)
	}
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_PartialPreservesFields() {
	user := suite.createTestUser("alice")
	token := suite.tokenFor(user)

	task := &models.Task{
		Title:       "Original",
		Description: "Original description",
		Status:      "pending",
		Priority:    models.PriorityHigh,
		Tags:        "work",
		Attachments: "file.txt",
		UserID:      user.ID,
	}
	suite.db.Create(task)

	url := fmt.Sprintf("/api/tasks/%d", task.ID)
	w := suite.request(http.MethodPut, url, map[string]any{"title": "X"}, token)
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("X", resp.Title)
	suite.Equal("Original description", resp.Description)
	suite.Equal("pending", resp.Status)
	suite.Equal(models.PriorityHigh, resp.Priority)
	suite.Equal("work", resp.Tags)
	suite.Equal("file.txt", resp.Attachments)

	// Changing only priority changes exactly that field
	w = suite.request(http.MethodPut, url, map[string]any{"priority": "low"}, token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("X", resp.Title)
	suite.Equal(models.PriorityLow, resp.Priority)
	suite.Equal("Original description", resp.Description)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_EmptyStringClearsField() {
	user := suite.createTestUser("alice")
	token := suite.tokenFor(user)

	task := &models.Task{
		Title:       "Original",
		Description: "To be cleared",
		Status:      "pending",
		Priority:    models.PriorityMedium,
		UserID:      user.ID,
	}
	suite.db.Create(task)

	// An explicit empty string clears the field; an absent one does not
	url := fmt.Sprintf("/api/tasks/%d", task.ID)
	w := suite.request(http.MethodPut, url, map[string]any{"description": ""}, token)
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("", resp.Description)
	suite.Equal("Original", resp.Title)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_StatusIsFreeForm() {
	user := suite.createTestUser("alice")
	token := suite.tokenFor(user)
	task := suite.createTestTask("Task", user.ID)

	url := fmt.Sprintf("/api/tasks/%d", task.ID)
	w := suite.request(http.MethodPut, url, map[string]any{"status": "blocked-on-review"}, token)
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("blocked-on-review", resp.Status)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	user := suite.createTestUser("alice")
	token := suite.tokenFor(user)
	task := suite.createTestTask("Doomed", user.ID)

	url := fmt.Sprintf("/api/tasks/%d", task.ID)
	w := suite.request(http.MethodDelete, url, nil, token)
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.MessageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Task deleted successfully", resp.Message)

	// Permanently gone
	w = suite.request(http.MethodGet, url, nil, token)
	suite.Equal(http.StatusNotFound, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *TaskHandlerTestSuite) TestTaskRoutes_RequireToken() {
	w := suite.request(http.MethodGet, "/api/tasks", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)

	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Access denied. No token provided.", resp["message"])

	w = suite.request(http.MethodGet, "/api/tasks", nil, "garbage")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Invalid token", resp["message"])
}

func (suite *TaskHandlerTestSuite) TestTaskLifecycle() {
	user := suite.createTestUser("flowuser")
	token := suite.tokenFor(user)

	// Create
	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"title":    "A",
		"priority": "high",
	}, token)
	suite.Equal(http.StatusCreated, w.Code)

	var created dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	// List shows exactly the new task
	w = suite.request(http.MethodGet, "/api/tasks", nil, token)
	suite.Equal(http.StatusOK, w.Code)

	var list dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	suite.Require().Len(list.Tasks, 1)
	suite.Equal("pending", list.Tasks[0].Status)
	suite.Equal(models.PriorityHigh, list.Tasks[0].Priority)

	// Update status
	url := fmt.Sprintf("/api/tasks/%d", created.ID)
	w = suite.request(http.MethodPut, url, map[string]any{"status": "done"}, token)
	suite.Equal(http.StatusOK, w.Code)

	// Get reflects the update
	w = suite.request(http.MethodGet, url, nil, token)
	suite.Equal(http.StatusOK, w.Code)

	var fetched dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &fetched))
	suite.Equal("done", fetched.Status)

	// Delete, then the task is gone
	w = suite.request(http.MethodDelete, url, nil, token)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, url, nil, token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
