package events

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"epicevents.org/internal/audit"
	"epicevents.org/internal/cli"
	"epicevents.org/internal/command"
	"epicevents.org/internal/store"
)

type fakeEvents struct {
	rows []*store.Event
}

func (f *fakeEvents) Create(ctx context.Context, e *store.Event) error {
	e.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, e)
	return nil
}

func (f *fakeEvents) FindByClientEmail(ctx context.Context, email string) (*store.Event, error) {
	for _, row := range f.rows {
		if row.Contract != nil && row.Contract.Client != nil && row.Contract.Client.Email == email {
			return row, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeEvents) Exists(ctx context.Context, contractID int64, name string) (bool, error) {
	for _, row := range f.rows {
		if row.ContractID == contractID && row.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEvents) List(ctx context.Context, filter store.EventFilter) ([]*store.Event, error) {
	var out []*store.Event
	for _, row := range f.rows {
		if filter.EmployeeID != 0 && row.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeEvents) Update(ctx context.Context, id int64, upd store.EventUpdate) (*store.Event, error) {
	for _, row := range f.rows {
		if row.ID != id {
			continue
		}
		if upd.EmployeeID != nil {
			row.EmployeeID = *upd.EmployeeID
		}
		if upd.Date != nil {
			row.Date = *upd.Date
		}
		if upd.Name != nil {
			row.Name = *upd.Name
		}
		if upd.Location != nil {
			row.Location = *upd.Location
		}
		if upd.MaxGuests != nil {
			row.MaxGuests = *upd.MaxGuests
		}
		if upd.Notes != nil {
			row.Notes = *upd.Notes
		}
		return row, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeEvents) Delete(ctx context.Context, id int64) error {
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeEvents) Count(ctx context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeStore struct {
	events *fakeEvents
}

func (f *fakeStore) Employees() store.EmployeeStore { return nil }
func (f *fakeStore) Clients() store.ClientStore     { return nil }
func (f *fakeStore) Contracts() store.ContractStore { return nil }
func (f *fakeStore) Events() store.EventStore       { return f.events }
func (f *fakeStore) Audit() store.AuditStore        { return nil }
func (f *fakeStore) Close() error                   { return nil }

func seedEvent() *fakeEvents {
	support := &store.Employee{ID: 3, Email: "support@mail.com", FirstName: "Sue", LastName: "Port", Role: store.RoleSupport}
	contract := &store.Contract{
		ID: 1, ClientID: 1, EmployeeID: 2, State: store.StateSigned,
		Client: &store.Client{ID: 1, Email: "ada@corp.com", FirstName: "Ada", LastName: "Moreau"},
	}
	return &fakeEvents{rows: []*store.Event{{
		ID: 1, ContractID: 1, EmployeeID: 3,
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Name:      "Annual meetup",
		Location:  "Paris",
		MaxGuests: 80,
		Notes:     "catering booked",
		Contract:  contract,
		Employee:  support,
	}}}
}

func testRuntime(user *store.Employee, events *fakeEvents, input string) (*command.Runtime, *bytes.Buffer) {
	var out bytes.Buffer
	return &command.Runtime{
		Ctx:     context.Background(),
		User:    user,
		Store:   &fakeStore{events: events},
		Console: cli.NewConsole(strings.NewReader(input), &out),
		Audit:   audit.NewRecorder(nil),
	}, &out
}

func testEngine() *command.Engine {
	engine := command.NewEngine()
	Register(engine)
	return engine
}

func TestEventUpdateGuestsAndNotes(t *testing.T) {
	events := seedEvent()
	support := &store.Employee{ID: 3, Email: "support@mail.com", Role: store.RoleSupport}

	input := strings.Join([]string{
		"ada@corp.com", // which event
		"GNo",          // guests and notes
		"120",
		"catering cancelled",
	}, "\n") + "\n"
	rt, out := testRuntime(support, events, input)

	route, err := testEngine().Run("event_update", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteMenu {
		t.Fatalf("unexpected route %v", route)
	}
	updated := events.rows[0]
	if updated.MaxGuests != 120 || updated.Notes != "catering cancelled" {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !strings.Contains(out.String(), "Event successfully updated!") {
		t.Fatalf("missing success message in output:\n%s", out.String())
	}
}

func TestEventUpdateScopedToOwnEvents(t *testing.T) {
	events := seedEvent()
	otherSupport := &store.Employee{ID: 9, Email: "other@mail.com", Role: store.RoleSupport}

	rt, out := testRuntime(otherSupport, events, "")
	route, err := testEngine().Run("event_update", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteMenu {
		t.Fatalf("unexpected route %v", route)
	}
	if !strings.Contains(out.String(), "No data available!") {
		t.Fatalf("missing empty notice in output:\n%s", out.String())
	}
}

func TestEventFilterForSupport(t *testing.T) {
	events := seedEvent()
	support := &store.Employee{ID: 3, Email: "support@mail.com", Role: store.RoleSupport}

	input := strings.Join([]string{
		"Y", // filter
		"D", // by date
		"A", // ascending
	}, "\n") + "\n"
	rt, out := testRuntime(support, events, input)

	route, err := testEngine().Run("event_list_filter", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteMenu {
		t.Fatalf("unexpected route %v", route)
	}
	rendered := out.String()
	if !strings.Contains(rendered, "my Events") {
		t.Fatalf("missing filtered table in output:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Ordered by: ascending date") {
		t.Fatalf("missing ordering line in output:\n%s", rendered)
	}
	if !strings.Contains(rendered, "01/03/2026") {
		t.Fatalf("missing event date in output:\n%s", rendered)
	}
}

func TestEventFilterDeniedForSales(t *testing.T) {
	events := seedEvent()
	sales := &store.Employee{ID: 2, Email: "sales@mail.com", Role: store.RoleSales}

	rt, out := testRuntime(sales, events, "Y\n")
	route, err := testEngine().Run("event_list_filter", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteMenu {
		t.Fatalf("unexpected route %v", route)
	}
	if !strings.Contains(out.String(), "Permission denied !") {
		t.Fatalf("missing denial in output:\n%s", out.String())
	}
}
