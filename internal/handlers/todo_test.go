package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harukisb/todo-tracking-api/internal/database"
	"github.com/harukisb/todo-tracking-api/internal/dto"
	"github.com/harukisb/todo-tracking-api/internal/models"
	"github.com/harukisb/todo-tracking-api/internal/repository"
	"github.com/harukisb/todo-tracking-api/internal/services"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "supersecret"

// TodoHandlerTestSuite defines the test suite for TodoHandler
type TodoHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	uploadDir   string
}

// SetupTest runs before each test
func (suite *TodoHandlerTestSuite) SetupTest() {
	var err error

	gin.SetMode(gin.TestMode)

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Todo{},
		&models.Attachment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	suite.uploadDir = suite.T().TempDir()

	userRepo := repository.NewUserRepository(suite.db)
	todoRepo := repository.NewTodoRepository(suite.db)

	suite.authService = services.NewAuthService(userRepo, "test-secret", time.Hour)
	todoService := services.NewTodoService(todoRepo, userRepo)
	userService := services.NewUserService(userRepo)
	attachmentService := services.NewAttachmentService(todoRepo, suite.uploadDir)

	suite.router = NewRouter(
		NewAuthHandler(suite.authService),
		NewTodoHandler(todoService, attachmentService),
		NewUserHandler(userService),
		suite.authService,
		suite.uploadDir,
	)
}

// TearDownTest runs after each test
func (suite *TodoHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *TodoHandlerTestSuite) createTestUser(username string, role models.Role) *models.User {
	user, err := suite.authService.Register(services.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
	})
	suite.Require().NoError(err)

	if role != models.RoleUser {
		suite.Require().NoError(
			suite.db.Model(&models.User{}).Where("id = ?", user.ID).Update("role", role).Error)
		user.Role = role
	}

	return user
}

func (suite *TodoHandlerTestSuite) tokenFor(user *models.User) string {
	_, token, err := suite.authService.Login(services.LoginInput{
		Email:    user.Email,
		Password: testPassword,
	})
	suite.Require().NoError(err)
	return token
}

func (suite *TodoHandlerTestSuite) createTestTodo(title string, assignedTo, createdBy uint64, dueDate *time.Time) *models.Todo {
	todo := &models.Todo{
		Title:       title,
		Description: "Test Description",
		AssignedTo:  assignedTo,
		CreatedBy:   createdBy,
		DueDate:     dueDate,
	}
	suite.Require().NoError(suite.db.Create(todo).Error)
	return todo
}

func (suite *TodoHandlerTestSuite) doJSON(method, url, token string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, url, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TodoHandlerTestSuite) listTodos(token, query string) dto.TodoListResponse {
	w := suite.doJSON(http.MethodGet, "/api/todos"+query, token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.TodoListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// Listing and visibility

func (suite *TodoHandlerTestSuite) TestListTodos_ScopedToAssigneeOrCreator() {
	admin := suite.createTestUser("root", models.RoleAdmin)
	userB := suite.createTestUser("userb", models.RoleUser)
	userC := suite.createTestUser("userc", models.RoleUser)

	// Admin creates a task assigned to userB
	w := suite.doJSON(http.MethodPost, "/api/todos", suite.tokenFor(admin), map[string]any{
		"title":      "Ship release",
		"assignedTo": userB.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	// userB sees it
	response := suite.listTodos(suite.tokenFor(userB), "")
	suite.Require().Equal(int64(1), response.Count)
	suite.Equal("Ship release", response.Todos[0].Title)
	suite.Equal(userB.ID, response.Todos[0].AssignedTo)

	// unrelated userC does not
	response = suite.listTodos(suite.tokenFor(userC), "")
	suite.Equal(int64(0), response.Count)
	suite.Empty(response.Todos)

	// admin sees everything
	response = suite.listTodos(suite.tokenFor(admin), "")
	suite.Equal(int64(1), response.Count)
}

func (suite *TodoHandlerTestSuite) TestListTodos_CreatorSeesOwnUnassignedWork() {
	creator := suite.createTestUser("creator", models.RoleUser)
	other := suite.createTestUser("other", models.RoleUser)

	// A todo created by one user but assigned to another stays visible to both.
	todo := suite.createTestTodo("Handover", other.ID, creator.ID, nil)

	response := suite.listTodos(suite.tokenFor(creator), "")
	suite.Require().Equal(int64(1), response.Count)
	suite.Equal(todo.ID, response.Todos[0].ID)

	response = suite.listTodos(suite.tokenFor(other), "")
	suite.Require().Equal(int64(1), response.Count)
}

func (suite *TodoHandlerTestSuite) TestListTodos_DateWindowInclusive() {
	user := suite.createTestUser("worker", models.RoleUser)
	token := suite.tokenFor(user)

	suite.createTestTodo("January", user.ID, user.ID, datePtr(2026, time.January, 10))
	suite.createTestTodo("February", user.ID, user.ID, datePtr(2026, time.February, 10))
	suite.createTestTodo("March", user.ID, user.ID, datePtr(2026, time.March, 10))

	response := suite.listTodos(token, "?startDate=2026-01-15&endDate=2026-02-10")
	suite.Require().Equal(int64(1), response.Count)
	suite.Equal("February", response.Todos[0].Title, "endDate is inclusive")

	response = suite.listTodos(token, "?startDate=2026-01-10&endDate=2026-03-10")
	suite.Equal(int64(3), response.Count)
}

func (suite *TodoHandlerTestSuite) TestListTodos_SearchCaseInsensitive() {
	user := suite.createTestUser("worker", models.RoleUser)
	token := suite.tokenFor(user)

	suite.createTestTodo("Ship RELEASE", user.ID, user.ID, nil)
	suite.createTestTodo("Write docs", user.ID, user.ID, nil)
	deploy := suite.createTestTodo("Other", user.ID, user.ID, nil)
	suite.Require().NoError(suite.db.Model(deploy).Update("description", "deploy the Release build").Error)

	response := suite.listTodos(token, "?search=release")
	suite.Require().Equal(int64(2), response.Count, "search matches title and description")

	response = suite.listTodos(token, "?search=nothing-matches")
	suite.Equal(int64(0), response.Count)
}

func (suite *TodoHandlerTestSuite) TestListTodos_OrderedByDueDateAscending() {
	user := suite.createTestUser("worker", models.RoleUser)

	suite.createTestTodo("Later", user.ID, user.ID, datePtr(2026, time.March, 1))
	suite.createTestTodo("Sooner", user.ID, user.ID, datePtr(2026, time.January, 1))
	suite.createTestTodo("Undated", user.ID, user.ID, nil)

	response := suite.listTodos(suite.tokenFor(user), "")
	suite.Require().Len(response.Todos, 3)
	suite.Equal("Sooner", response.Todos[0].Title)
	suite.Equal("Later", response.Todos[1].Title)
	suite.Equal("Undated", response.Todos[2].Title, "undated todos sort last")
}

func (suite *TodoHandlerTestSuite) TestListTodos_PaginationInvariant() {
	user := suite.createTestUser("worker", models.RoleUser)
	token := suite.tokenFor(user)

	for i := 0; i < 5; i++ {
		suite.createTestTodo(fmt.Sprintf("Task %d", i), user.ID, user.ID, datePtr(2026, time.January, i+1))
	}

	seen := make(map[uint64]struct{})
	for page := 1; page <= 3; page++ {
		response := suite.listTodos(token, fmt.Sprintf("?page=%d&pageSize=2", page))
		suite.Require().Equal(int64(5), response.Count)
		suite.Require().LessOrEqual(len(response.Todos), 2)

		for _, todo := range response.Todos {
			_, dup := seen[todo.ID]
			suite.Require().False(dup, "pages must not overlap")
			seen[todo.ID] = struct{}{}
		}
	}

	suite.Len(seen, 5, "concatenated pages yield every todo exactly once")
}

// Creation

func (suite *TodoHandlerTestSuite) TestCreateTodo_NonAdminForcedToSelf() {
	user := suite.createTestUser("worker", models.RoleUser)
	other := suite.createTestUser("other", models.RoleUser)

	w := suite.doJSON(http.MethodPost, "/api/todos", suite.tokenFor(user), map[string]any{
		"title":      "Sneaky delegation",
		"assignedTo": other.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Equal(user.ID, created.AssignedTo, "non-admin assignment is forced to self")
	suite.Equal(user.ID, created.CreatedBy)
}

func (suite *TodoHandlerTestSuite) TestCreateTodo_AdminAssignsAnyone() {
	admin := suite.createTestUser("root", models.RoleAdmin)
	user := suite.createTestUser("worker", models.RoleUser)

	w := suite.doJSON(http.MethodPost, "/api/todos", suite.tokenFor(admin), map[string]any{
		"title":      "Delegated",
		"assignedTo": user.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Equal(user.ID, created.AssignedTo)
	suite.Equal(admin.ID, created.CreatedBy)
}

func (suite *TodoHandlerTestSuite) TestCreateTodo_Validation() {
	admin := suite.createTestUser("root", models.RoleAdmin)
	token := suite.tokenFor(admin)

	// Missing title
	w := suite.doJSON(http.MethodPost, "/api/todos", token, map[string]any{
		"description": "no title",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	// Blank title
	w = suite.doJSON(http.MethodPost, "/api/todos", token, map[string]any{
		"title": "   ",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	// Assignee does not exist
	w = suite.doJSON(http.MethodPost, "/api/todos", token, map[string]any{
		"title":      "Orphan",
		"assignedTo": 9999,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TodoHandlerTestSuite) TestCreateTodo_RoundTrip() {
	user := suite.createTestUser("worker", models.RoleUser)
	token := suite.tokenFor(user)

	due := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	w := suite.doJSON(http.MethodPost, "/api/todos", token, map[string]any{
		"title":       "Quarterly report",
		"description": "Numbers for Q3",
		"dueDate":     due.Format(time.RFC3339),
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	response := suite.listTodos(token, "")
	suite.Require().Equal(int64(1), response.Count)

	got := response.Todos[0]
	suite.Equal("Quarterly report", got.Title)
	suite.Equal("Numbers for Q3", got.Description)
	suite.False(got.Completed)
	suite.Require().NotNil(got.DueDate)
	y, m, d := got.DueDate.UTC().Date()
	suite.Equal([3]int{2026, 9, 15}, [3]int{y, int(m), d}, "due date survives at day granularity")
}

// Completion updates

func (suite *TodoHandlerTestSuite) TestUpdateCompletion_ByAssignee() {
	user := suite.createTestUser("worker", models.RoleUser)
	todo := suite.createTestTodo("Toggle me", user.ID, user.ID, nil)

	w := suite.doJSON(http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), suite.tokenFor(user), map[string]any{
		"completed": true,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.True(updated.Completed)

	// Toggle back
	w = suite.doJSON(http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), suite.tokenFor(user), map[string]any{
		"completed": false,
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.False(updated.Completed)
}

func (suite *TodoHandlerTestSuite) TestUpdateCompletion_ForbiddenForNonAssignee() {
	owner := suite.createTestUser("owner", models.RoleUser)
	stranger := suite.createTestUser("stranger", models.RoleUser)
	todo := suite.createTestTodo("Private", owner.ID, owner.ID, nil)

	w := suite.doJSON(http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), suite.tokenFor(stranger), map[string]any{
		"completed": true,
	})
	suite.Require().Equal(http.StatusForbidden, w.Code)

	var fresh models.Todo
	suite.Require().NoError(suite.db.First(&fresh, todo.ID).Error)
	suite.False(fresh.Completed, "forbidden update must not mutate")
}

func (suite *TodoHandlerTestSuite) TestUpdateCompletion_AdminMayToggleAny() {
	admin := suite.createTestUser("root", models.RoleAdmin)
	user := suite.createTestUser("worker", models.RoleUser)
	todo := suite.createTestTodo("Anyone's", user.ID, user.ID, nil)

	w := suite.doJSON(http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), suite.tokenFor(admin), map[string]any{
		"completed": true,
	})
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *TodoHandlerTestSuite) TestUpdateCompletion_NotFound() {
	admin := suite.createTestUser("root", models.RoleAdmin)

	w := suite.doJSON(http.MethodPut, "/api/todos/9999", suite.tokenFor(admin), map[string]any{
		"completed": true,
	})
	suite.Equal(http.StatusNotFound, w.Code)
}

// Deletion

func (suite *TodoHandlerTestSuite) TestDeleteTodo_AdminOnly() {
	user := suite.createTestUser("worker", models.RoleUser)
	todo := suite.createTestTodo("Mine", user.ID, user.ID, nil)

	// Even the creator-assignee cannot delete
	w := suite.doJSON(http.MethodDelete, fmt.Sprintf("/api/todos/%d", todo.ID), suite.tokenFor(user), nil)
	suite.Require().Equal(http.StatusForbidden, w.Code)

	admin := suite.createTestUser("root", models.RoleAdmin)
	w = suite.doJSON(http.MethodDelete, fmt.Sprintf("/api/todos/%d", todo.ID), suite.tokenFor(admin), nil)
	suite.Require().Equal(http.StatusNoContent, w.Code)

	var count int64
	suite.db.Model(&models.Todo{}).Where("id = ?", todo.ID).Count(&count)
	suite.Equal(int64(0), count)

	// Gone now
	w = suite.doJSON(http.MethodDelete, fmt.Sprintf("/api/todos/%d", todo.ID), suite.tokenFor(admin), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TodoHandlerTestSuite) TestDeleteTodo_CascadesAttachments() {
	admin := suite.createTestUser("root", models.RoleAdmin)
	todo := suite.createTestTodo("With files", admin.ID, admin.ID, nil)

	fileNames := suite.uploadFiles(suite.tokenFor(admin), todo.ID, map[string][]byte{
		"a.txt": []byte("contents a"),
	})
	suite.Require().Len(fileNames, 1)
	storedPath := filepath.Join(suite.uploadDir, fileNames[0])
	_, err := os.Stat(storedPath)
	suite.Require().NoError(err)

	w := suite.doJSON(http.MethodDelete, fmt.Sprintf("/api/todos/%d", todo.ID), suite.tokenFor(admin), nil)
	suite.Require().Equal(http.StatusNoContent, w.Code)

	var count int64
	suite.db.Model(&models.Attachment{}).Where("todo_id = ?", todo.ID).Count(&count)
	suite.Equal(int64(0), count, "attachment records removed with the todo")

	_, err = os.Stat(storedPath)
	suite.True(os.IsNotExist(err), "stored file removed with the todo")
}

// Uploads

func (suite *TodoHandlerTestSuite) uploadFiles(token string, todoID uint64, files map[string][]byte) []string {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		suite.Require().NoError(err)
		_, err = part.Write(content)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/todos/%d/upload", todoID), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		return nil
	}

	var response dto.UploadResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response.FileNames
}

func (suite *TodoHandlerTestSuite) TestUpload_TwoFiles() {
	user := suite.createTestUser("worker", models.RoleUser)
	todo := suite.createTestTodo("With files", user.ID, user.ID, nil)

	contents := map[string][]byte{
		"first.txt":  []byte("first file bytes"),
		"second.txt": []byte("second file bytes"),
	}
	fileNames := suite.uploadFiles(suite.tokenFor(user), todo.ID, contents)
	suite.Require().Len(fileNames, 2)
	suite.Require().NotEqual(fileNames[0], fileNames[1])

	// Each generated name resolves to the original bytes
	var attachments []models.Attachment
	suite.Require().NoError(suite.db.Where("todo_id = ?", todo.ID).Find(&attachments).Error)
	suite.Require().Len(attachments, 2)

	for _, attachment := range attachments {
		stored, err := os.ReadFile(filepath.Join(suite.uploadDir, attachment.FileName))
		suite.Require().NoError(err)
		suite.Equal(contents[attachment.OriginalName], stored)
		suite.NotEqual(attachment.OriginalName, attachment.FileName)
	}
}

func (suite *TodoHandlerTestSuite) TestUpload_RequiresReadAccess() {
	owner := suite.createTestUser("owner", models.RoleUser)
	stranger := suite.createTestUser("stranger", models.RoleUser)
	todo := suite.createTestTodo("Private", owner.ID, owner.ID, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", "sneaky.txt")
	suite.Require().NoError(err)
	_, err = part.Write([]byte("data"))
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/todos/%d/upload", todo.ID), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.tokenFor(stranger))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.Attachment{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *TodoHandlerTestSuite) TestUpload_NoFiles() {
	user := suite.createTestUser("worker", models.RoleUser)
	todo := suite.createTestTodo("Empty upload", user.ID, user.ID, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	suite.Require().NoError(writer.WriteField("note", "no files here"))
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/todos/%d/upload", todo.ID), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.tokenFor(user))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TodoHandlerTestSuite) TestUpload_TodoNotFound() {
	user := suite.createTestUser("worker", models.RoleUser)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", "file.txt")
	suite.Require().NoError(err)
	_, err = part.Write([]byte("data"))
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/todos/9999/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.tokenFor(user))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestTodoHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TodoHandlerTestSuite))
}
