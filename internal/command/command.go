// Package command implements the menu-driven command lifecycle. Every
// entity operation registers a Spec whose hooks are invoked in a fixed
// order per action, so the flow of a create or an update reads the same
// across entities.
package command

import (
	"context"
	"errors"
	"fmt"

	"epicevents.org/internal/audit"
	"epicevents.org/internal/cli"
	"epicevents.org/internal/obs"
	"epicevents.org/internal/store"
)

// Action selects which lifecycle sequence an operation runs.
type Action string

const (
	ActionList       Action = "LIST"
	ActionListFilter Action = "LIST_FILTER"
	ActionCreate     Action = "CREATE"
	ActionUpdate     Action = "UPDATE"
	ActionDelete     Action = "DELETE"
)

// Route tells the dispatcher where control goes after a command ends.
type Route int

const (
	// RouteNone means the lifecycle continues with the next hook.
	RouteNone Route = iota
	// RouteStart returns to the main menu.
	RouteStart
	// RouteMenu returns to the current entity's menu.
	RouteMenu
	// RouteRetry restarts the same command from scratch.
	RouteRetry
	// RouteQuit ends the program.
	RouteQuit
)

// Data carries the values collected from the user during one
// invocation.
type Data map[string]any

// Runtime is the per-invocation context handed to a Spec's hook
// builder. Specs must not retain it across invocations.
type Runtime struct {
	Ctx     context.Context
	User    *store.Employee
	Store   store.Store
	Console *cli.Console
	Audit   *audit.Recorder
}

// Hooks is the function table one invocation of a command runs
// through. Nil entries are skipped. Hooks returning a Route other than
// RouteNone short-circuit the rest of the lifecycle.
type Hooks struct {
	// All actions.
	GetQueryset     func() error
	QuerysetEmpty   func() bool
	GetInstanceData func() error

	// LIST_FILTER.
	GetData               func() (Data, error)
	UserChoice            func(Data) (Route, error)
	ChooseAttributes      func() error
	RequestFieldSelection func() (selected []string, order string, err error)
	GetUserQueryset       func() error
	FilterSelectedFields  func(selected []string, order string) error
	DisplayResult         func() error

	// UPDATE and DELETE.
	GetRequestedModel func() (Route, error)

	// UPDATE.
	GetFieldsToUpdate  func() ([]string, error)
	GetAvailableFields func(fieldsToUpdate []string) error

	// CREATE, UPDATE and DELETE.
	MakeChanges    func(Data) (Route, error)
	CollectChanges func() [][2]string

	// SummaryTitle captions the table shown after a create or update.
	SummaryTitle string

	// GoBack is where control goes once the lifecycle completes.
	// Zero value (RouteNone) falls back to RouteMenu.
	GoBack Route
}

// Spec describes one registered command. Build constructs a fresh hook
// table for each invocation so no state leaks between runs.
type Spec struct {
	Name        string
	Entity      string
	Action      Action
	Permissions []store.Role
	Build       func(rt *Runtime) Hooks
}

func (s Spec) permitted(role store.Role) bool {
	for _, r := range s.Permissions {
		if r == role {
			return true
		}
	}
	return false
}

// Engine holds the command registry.
type Engine struct {
	specs map[string]Spec
}

func NewEngine() *Engine {
	return &Engine{specs: make(map[string]Spec)}
}

// Register adds a command. Re-registering a name is a programming
// error.
func (e *Engine) Register(spec Spec) {
	if _, dup := e.specs[spec.Name]; dup {
		panic(fmt.Sprintf("command: duplicate spec %q", spec.Name))
	}
	e.specs[spec.Name] = spec
}

// Lookup returns the spec registered under name.
func (e *Engine) Lookup(name string) (Spec, bool) {
	spec, ok := e.specs[name]
	return spec, ok
}

// Run executes one command invocation. A blank input anywhere inside a
// hook aborts the invocation and routes back to the main menu. The
// permission gate runs before any hook, so an unauthorized user
// triggers no reads and no writes.
func (e *Engine) Run(name string, rt *Runtime) (Route, error) {
	spec, ok := e.specs[name]
	if !ok {
		return RouteStart, fmt.Errorf("command: unknown command %q", name)
	}
	if rt.User == nil || !spec.permitted(rt.User.Role) {
		rt.Console.PermissionDeniedMessage()
		return RouteStart, nil
	}

	route, err := e.dispatch(spec, rt)
	if errors.Is(err, cli.ErrAborted) {
		return RouteStart, nil
	}
	if err != nil {
		return RouteStart, err
	}

	obs.LogCommand(map[string]any{
		"command": spec.Name,
		"entity":  spec.Entity,
		"action":  string(spec.Action),
		"user":    rt.User.Email,
	})

	if route == RouteNone {
		route = RouteMenu
	}
	return route, nil
}

func (e *Engine) dispatch(spec Spec, rt *Runtime) (Route, error) {
	h := spec.Build(rt)

	switch spec.Action {
	case ActionList:
		return e.list(rt, h)
	case ActionListFilter:
		return e.listFilter(rt, h)
	case ActionCreate:
		return e.create(rt, h)
	case ActionUpdate:
		return e.update(rt, h)
	case ActionDelete:
		return e.delete(rt, h)
	default:
		return RouteStart, fmt.Errorf("command: unknown action %q", spec.Action)
	}
}

func (h Hooks) goBack() Route {
	if h.GoBack == RouteNone {
		return RouteMenu
	}
	return h.GoBack
}

func (e *Engine) list(rt *Runtime, h Hooks) (Route, error) {
	if h.GetQueryset != nil {
		if err := h.GetQueryset(); err != nil {
			return RouteNone, err
		}
	}
	if h.GetInstanceData != nil {
		if err := h.GetInstanceData(); err != nil {
			return RouteNone, err
		}
	}
	return h.goBack(), nil
}

func (e *Engine) listFilter(rt *Runtime, h Hooks) (Route, error) {
	if h.GetQueryset != nil {
		if err := h.GetQueryset(); err != nil {
			return RouteNone, err
		}
	}
	if h.QuerysetEmpty != nil && h.QuerysetEmpty() {
		rt.Console.InfoMessage("No data available!")
		return h.goBack(), nil
	}
	if h.GetInstanceData != nil {
		if err := h.GetInstanceData(); err != nil {
			return RouteNone, err
		}
	}

	choice := Data{}
	if h.GetData != nil {
		var err error
		choice, err = h.GetData()
		if err != nil {
			return RouteNone, err
		}
	}
	if h.UserChoice != nil {
		if route, err := h.UserChoice(choice); err != nil || route != RouteNone {
			return route, err
		}
	}
	if choice["filter"] != "Y" {
		return h.goBack(), nil
	}

	if h.ChooseAttributes != nil {
		if err := h.ChooseAttributes(); err != nil {
			return RouteNone, err
		}
	}
	var (
		selected []string
		order    string
	)
	if h.RequestFieldSelection != nil {
		var err error
		selected, order, err = h.RequestFieldSelection()
		if err != nil {
			return RouteNone, err
		}
	}
	if h.GetUserQueryset != nil {
		if err := h.GetUserQueryset(); err != nil {
			return RouteNone, err
		}
	}
	if h.FilterSelectedFields != nil {
		if err := h.FilterSelectedFields(selected, order); err != nil {
			return RouteNone, err
		}
	}
	if h.DisplayResult != nil {
		if err := h.DisplayResult(); err != nil {
			return RouteNone, err
		}
	}
	return h.goBack(), nil
}

func (e *Engine) create(rt *Runtime, h Hooks) (Route, error) {
	if h.GetQueryset != nil {
		if err := h.GetQueryset(); err != nil {
			return RouteNone, err
		}
	}
	if h.GetInstanceData != nil {
		if err := h.GetInstanceData(); err != nil {
			return RouteNone, err
		}
	}
	data := Data{}
	if h.GetData != nil {
		var err error
		data, err = h.GetData()
		if err != nil {
			return RouteNone, err
		}
	}
	if h.MakeChanges != nil {
		if route, err := h.MakeChanges(data); err != nil || route != RouteNone {
			return route, err
		}
	}
	if h.CollectChanges != nil {
		rt.Console.RenderKeyValueTable(h.SummaryTitle, h.CollectChanges())
	}
	return h.goBack(), nil
}

func (e *Engine) update(rt *Runtime, h Hooks) (Route, error) {
	if h.GetQueryset != nil {
		if err := h.GetQueryset(); err != nil {
			return RouteNone, err
		}
	}
	if h.QuerysetEmpty != nil && h.QuerysetEmpty() {
		rt.Console.InfoMessage("No data available!")
		return h.goBack(), nil
	}
	if h.GetInstanceData != nil {
		if err := h.GetInstanceData(); err != nil {
			return RouteNone, err
		}
	}
	if h.GetRequestedModel != nil {
		if route, err := h.GetRequestedModel(); err != nil || route != RouteNone {
			return route, err
		}
	}
	var fieldsToUpdate []string
	if h.GetFieldsToUpdate != nil {
		var err error
		fieldsToUpdate, err = h.GetFieldsToUpdate()
		if err != nil {
			return RouteNone, err
		}
	}
	if h.GetAvailableFields != nil {
		if err := h.GetAvailableFields(fieldsToUpdate); err != nil {
			return RouteNone, err
		}
	}
	data := Data{}
	if h.GetData != nil {
		var err error
		data, err = h.GetData()
		if err != nil {
			return RouteNone, err
		}
	}
	if h.MakeChanges != nil {
		if route, err := h.MakeChanges(data); err != nil || route != RouteNone {
			return route, err
		}
	}
	if h.CollectChanges != nil {
		rt.Console.RenderKeyValueTable(h.SummaryTitle, h.CollectChanges())
	}
	return h.goBack(), nil
}

func (e *Engine) delete(rt *Runtime, h Hooks) (Route, error) {
	if h.GetQueryset != nil {
		if err := h.GetQueryset(); err != nil {
			return RouteNone, err
		}
	}
	if h.GetInstanceData != nil {
		if err := h.GetInstanceData(); err != nil {
			return RouteNone, err
		}
	}
	if h.GetRequestedModel != nil {
		if route, err := h.GetRequestedModel(); err != nil || route != RouteNone {
			return route, err
		}
	}
	data := Data{}
	if h.GetData != nil {
		var err error
		data, err = h.GetData()
		if err != nil {
			return RouteNone, err
		}
	}
	if h.MakeChanges != nil {
		if route, err := h.MakeChanges(data); err != nil || route != RouteNone {
			return route, err
		}
	}
	return h.goBack(), nil
}
