package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/golang-jwt/jwt/v4"

	"taskboard/internal/apiclient"
	"taskboard/internal/models"
	"taskboard/internal/session"
	"taskboard/internal/web"
	"taskboard/internal/web/handlers"
	"taskboard/pkg/crypto"
	"taskboard/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize loggers for testing
	os.Setenv("GO_ENV", "test")
	logger.InitLoggers()
	defer logger.SyncLoggers()

	os.Exit(m.Run())
}

type fakeUser struct {
	id       int
	email    string
	password string
	role     string
}

// fakeAPI is an in-memory stand-in for the remote task API, speaking the
// same wire contract: /api/v1 prefix, bearer tokens, detail error field.
type fakeAPI struct {
	mu     sync.Mutex
	users  map[string]*fakeUser // by email
	tokens map[string]*fakeUser // by issued token
	tasks  []models.Task
	nextID int

	// FailUpdates makes every PUT /tasks/{id} answer 500.
	FailUpdates bool

	srv *httptest.Server
}

func newFakeAPI() *fakeAPI {
	api := &fakeAPI{
		users:  make(map[string]*fakeUser),
		tokens: make(map[string]*fakeUser),
		nextID: 1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", api.handleLogin)
	mux.HandleFunc("/api/v1/auth/register", api.handleRegister)
	mux.HandleFunc("/api/v1/tasks/", api.handleTasks)
	mux.HandleFunc("/api/v1/tasks/all", api.handleAllTasks)
	api.srv = httptest.NewServer(mux)
	return api
}

func (api *fakeAPI) Close() { api.srv.Close() }

// AddUser registers a user directly and returns it.
func (api *fakeAPI) AddUser(email, password, role string) *fakeUser {
	api.mu.Lock()
	defer api.mu.Unlock()
	u := &fakeUser{id: len(api.users) + 1, email: email, password: password, role: role}
	api.users[email] = u
	return u
}

// AddTask seeds a task owned by the given user.
func (api *fakeAPI) AddTask(owner *fakeUser, title string, completed bool) models.Task {
	api.mu.Lock()
	defer api.mu.Unlock()
	task := models.Task{
		ID:          api.nextID,
		Title:       title,
		IsCompleted: completed,
		OwnerID:     owner.id,
		CreatedAt:   time.Now(),
	}
	api.nextID++
	api.tasks = append(api.tasks, task)
	return task
}

func jsonError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func (api *fakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	api.mu.Lock()
	defer api.mu.Unlock()
	u, ok := api.users[body.Email]
	if !ok || u.password != body.Password {
		jsonError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.Itoa(u.id),
		"role": u.role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("fake-api-secret"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "token error")
		return
	}
	api.tokens[token] = u
	_ = json.NewEncoder(w).Encode(map[string]string{"access_token": token})
}

func (api *fakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	api.mu.Lock()
	defer api.mu.Unlock()
	if _, exists := api.users[body.Email]; exists {
		jsonError(w, http.StatusConflict, "Email already registered")
		return
	}
	api.users[body.Email] = &fakeUser{
		id:       len(api.users) + 1,
		email:    body.Email,
		password: body.Password,
		role:     body.Role,
	}
	w.WriteHeader(http.StatusCreated)
}

func (api *fakeAPI) caller(r *http.Request) *fakeUser {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil
	}
	return api.tokens[strings.TrimPrefix(auth, "Bearer ")]
}

func (api *fakeAPI) handleAllTasks(w http.ResponseWriter, r *http.Request) {
	api.mu.Lock()
	defer api.mu.Unlock()
	u := api.caller(r)
	if u == nil {
		jsonError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if u.role != "admin" {
		jsonError(w, http.StatusForbidden, "Admins only")
		return
	}
	_ = json.NewEncoder(w).Encode(api.tasks)
}

func (api *fakeAPI) handleTasks(w http.ResponseWriter, r *http.Request) {
	api.mu.Lock()
	defer api.mu.Unlock()
	u := api.caller(r)
	if u == nil {
		jsonError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/tasks/")
	switch {
	case rest == "" && r.Method == http.MethodGet:
		own := []models.Task{}
		for _, task := range api.tasks {
			if task.OwnerID == u.id {
				own = append(own, task)
			}
		}
		_ = json.NewEncoder(w).Encode(own)

	case rest == "" && r.Method == http.MethodPost:
		var body struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		task := models.Task{
			ID:          api.nextID,
			Title:       body.Title,
			Description: body.Description,
			OwnerID:     u.id,
			CreatedAt:   time.Now(),
		}
		api.nextID++
		api.tasks = append(api.tasks, task)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(task)

	case r.Method == http.MethodPut:
		if api.FailUpdates {
			jsonError(w, http.StatusInternalServerError, "")
			return
		}
		id, _ := strconv.Atoi(rest)
		var body struct {
			IsCompleted bool `json:"is_completed"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for i := range api.tasks {
			if api.tasks[i].ID == id {
				api.tasks[i].IsCompleted = body.IsCompleted
				_ = json.NewEncoder(w).Encode(api.tasks[i])
				return
			}
		}
		jsonError(w, http.StatusNotFound, "Task not found")

	case r.Method == http.MethodDelete:
		id, _ := strconv.Atoi(rest)
		for i := range api.tasks {
			if api.tasks[i].ID == id {
				api.tasks = append(api.tasks[:i], api.tasks[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		jsonError(w, http.StatusNotFound, "Task not found")

	default:
		jsonError(w, http.StatusMethodNotAllowed, "")
	}
}

// CreateTestApp builds the web app wired to the fake API with a sealed
// cookie session store.
func CreateTestApp(t *testing.T, api *fakeAPI) *fiber.App {
	t.Helper()
	sealer, err := crypto.NewSealer("integration-test-secret")
	if err != nil {
		t.Fatalf("Error building sealer: %v", err)
	}
	store := session.NewCookieStore(sealer)
	client := apiclient.New(api.srv.URL, 2*time.Second)

	engine := html.New("../views", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	h := handlers.New(client, store)
	web.RegisterRoutes(app, h, store)
	return app
}

// formRequest builds a urlencoded POST the way the screens submit.
func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// loginAs runs the real login flow and returns the session cookie.
func loginAs(t *testing.T, app *fiber.App, email, password string) *http.Cookie {
	t.Helper()
	resp, err := app.Test(formRequest("/login", url.Values{
		"email":    {email},
		"password": {password},
	}))
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("Expected login redirect %d but got %d", http.StatusSeeOther, resp.StatusCode)
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatalf("Expected session cookie after login")
	return nil
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@example.com", prefix, time.Now().UnixNano())
}

func itoa(n int) string { return strconv.Itoa(n) }
