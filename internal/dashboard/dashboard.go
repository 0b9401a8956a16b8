package dashboard

import (
	"context"
	"errors"
	"fmt"

	"taskboard/internal/apiclient"
	"taskboard/internal/models"
)

// Gateway is the slice of the API client the dashboard drives. Tests
// substitute a fake.
type Gateway interface {
	ListOwnTasks(ctx context.Context) ([]models.Task, error)
	ListAllTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, title, description string) (models.Task, error)
	SetTaskCompletion(ctx context.Context, id int, completed bool) (models.Task, error)
	DeleteTask(ctx context.Context, id int) error
}

// Mode is the dashboard's current list scope.
type Mode string

const (
	ModeOwn Mode = "own"
	ModeAll Mode = "all"
)

// State is the dashboard's view state. The task list is always a direct
// copy of the last list response, never patched locally.
type State struct {
	Tasks   []models.Task
	Mode    Mode
	Error   string
	Success string
	Loading bool

	// Unauthorized is set when an operation failed because the stored
	// token was rejected outright; the caller should tear the session down.
	Unauthorized bool
}

// SetError puts msg in the error slot. The message slots are mutually
// exclusive: setting one clears the other, last write wins, no stacking.
func (s *State) SetError(msg string) {
	s.Error = msg
	s.Success = ""
}

// SetSuccess puts msg in the success slot and clears the error slot.
func (s *State) SetSuccess(msg string) {
	s.Success = msg
	s.Error = ""
}

func (s *State) clearMessages() {
	s.Error = ""
	s.Success = ""
}

func (s *State) fail(err error) {
	var authErr *apiclient.AuthError
	if errors.As(err, &authErr) {
		s.Unauthorized = true
	}
	s.SetError(apiclient.Message(err))
}

// Scope names which list a mutation refreshes afterwards.
type Scope int

const (
	ScopeOwn Scope = iota
	ScopeCurrent
)

// RefreshPolicy makes the refresh-after-mutation contract explicit. The
// create asymmetry (always back to the personal list, even for an admin
// viewing all tasks) is intentional, observed behavior; change it here, not
// inline, if that ever gets revisited.
type RefreshPolicy struct {
	AfterCreate Scope
	AfterToggle Scope
	AfterDelete Scope
}

var DefaultRefreshPolicy = RefreshPolicy{
	AfterCreate: ScopeOwn,
	AfterToggle: ScopeCurrent,
	AfterDelete: ScopeCurrent,
}

// Controller applies the dashboard transitions against a gateway.
type Controller struct {
	gw     Gateway
	policy RefreshPolicy
}

func NewController(gw Gateway) *Controller {
	return &Controller{gw: gw, policy: DefaultRefreshPolicy}
}

// Open builds the state for a freshly rendered dashboard by fetching the
// list for the given mode. Mount is Open(ctx, ModeOwn).
func (ct *Controller) Open(ctx context.Context, mode Mode) *State {
	s := &State{Mode: ModeOwn}
	switch mode {
	case ModeAll:
		tasks, err := ct.gw.ListAllTasks(ctx)
		if err != nil {
			s.fail(err)
			return s
		}
		s.Tasks = tasks
		s.Mode = ModeAll
	default:
		tasks, err := ct.gw.ListOwnTasks(ctx)
		if err != nil {
			s.fail(err)
			return s
		}
		s.Tasks = tasks
	}
	return s
}

// ViewAllTasks switches to the all-tasks list. On failure the mode is left
// unchanged; the server decides whether the caller may see it.
func (ct *Controller) ViewAllTasks(ctx context.Context, s *State) {
	tasks, err := ct.gw.ListAllTasks(ctx)
	if err != nil {
		s.fail(err)
		return
	}
	s.Tasks = tasks
	s.Mode = ModeAll
	s.SetSuccess(fmt.Sprintf("Showing all %d tasks in the system", len(tasks)))
}

// ViewOwnTasks switches back to the personal list.
func (ct *Controller) ViewOwnTasks(ctx context.Context, s *State) {
	tasks, err := ct.gw.ListOwnTasks(ctx)
	if err != nil {
		s.fail(err)
		return
	}
	s.Tasks = tasks
	s.Mode = ModeOwn
}

// CreateTask submits a new task. On success the personal list is refreshed
// regardless of the current mode, per the refresh policy.
func (ct *Controller) CreateTask(ctx context.Context, s *State, title, description string) {
	s.clearMessages()
	s.Loading = true
	defer func() { s.Loading = false }()

	if _, err := ct.gw.CreateTask(ctx, title, description); err != nil {
		s.fail(err)
		return
	}
	s.SetSuccess("Task created!")
	ct.refresh(ctx, s, ct.policy.AfterCreate)
}

// ToggleComplete flips a task's completion flag and refreshes the list the
// user is looking at. On failure the list stays as displayed.
func (ct *Controller) ToggleComplete(ctx context.Context, s *State, id int, completed bool) {
	if _, err := ct.gw.SetTaskCompletion(ctx, id, !completed); err != nil {
		s.fail(err)
		return
	}
	ct.refresh(ctx, s, ct.policy.AfterToggle)
}

// DeleteTask removes a task and refreshes the current list.
func (ct *Controller) DeleteTask(ctx context.Context, s *State, id int) {
	if err := ct.gw.DeleteTask(ctx, id); err != nil {
		s.fail(err)
		return
	}
	s.SetSuccess("Task deleted")
	ct.refresh(ctx, s, ct.policy.AfterDelete)
}

func (ct *Controller) refresh(ctx context.Context, s *State, scope Scope) {
	target := s.Mode
	if scope == ScopeOwn {
		target = ModeOwn
	}
	var (
		tasks []models.Task
		err   error
	)
	if target == ModeAll {
		tasks, err = ct.gw.ListAllTasks(ctx)
	} else {
		tasks, err = ct.gw.ListOwnTasks(ctx)
	}
	if err != nil {
		s.fail(err)
		return
	}
	s.Tasks = tasks
	s.Mode = target
}
