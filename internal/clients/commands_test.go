package clients

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"epicevents.org/internal/audit"
	"epicevents.org/internal/cli"
	"epicevents.org/internal/command"
	"epicevents.org/internal/store"
)

type fakeClients struct {
	rows []*store.Client
}

func (f *fakeClients) Create(ctx context.Context, c *store.Client) error {
	for _, row := range f.rows {
		if row.Email == c.Email {
			return store.ErrConflict
		}
	}
	c.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, c)
	return nil
}

func (f *fakeClients) FindByEmail(ctx context.Context, email string) (*store.Client, error) {
	for _, row := range f.rows {
		if row.Email == email {
			return row, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeClients) List(ctx context.Context, filter store.ClientFilter) ([]*store.Client, error) {
	var out []*store.Client
	for _, row := range f.rows {
		if filter.EmployeeID != 0 && row.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeClients) Update(ctx context.Context, id int64, upd store.ClientUpdate) (*store.Client, error) {
	var row *store.Client
	for _, r := range f.rows {
		if r.ID == id {
			row = r
			break
		}
	}
	if row == nil {
		return nil, store.ErrNotFound
	}
	if upd.Email != nil {
		for _, other := range f.rows {
			if other.ID != id && other.Email == *upd.Email {
				return nil, store.ErrConflict
			}
		}
		row.Email = *upd.Email
	}
	if upd.FirstName != nil {
		row.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		row.LastName = *upd.LastName
	}
	if upd.Phone != nil {
		row.Phone = *upd.Phone
	}
	if upd.CompanyName != nil {
		row.CompanyName = *upd.CompanyName
	}
	return row, nil
}

func (f *fakeClients) Delete(ctx context.Context, id int64) error {
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeClients) Count(ctx context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

// fakeStore exposes only the client substore; the client commands touch
// nothing else.
type fakeStore struct {
	clients *fakeClients
}

func (f *fakeStore) Employees() store.EmployeeStore { return nil }
func (f *fakeStore) Clients() store.ClientStore     { return f.clients }
func (f *fakeStore) Contracts() store.ContractStore { return nil }
func (f *fakeStore) Events() store.EventStore       { return nil }
func (f *fakeStore) Audit() store.AuditStore        { return nil }
func (f *fakeStore) Close() error                   { return nil }

func testEngine() *command.Engine {
	engine := command.NewEngine()
	Register(engine)
	return engine
}

func testRuntime(role store.Role, clients *fakeClients, input string) (*command.Runtime, *bytes.Buffer) {
	var out bytes.Buffer
	return &command.Runtime{
		Ctx:     context.Background(),
		User:    &store.Employee{ID: 2, Email: "sales@mail.com", Role: role},
		Store:   &fakeStore{clients: clients},
		Console: cli.NewConsole(strings.NewReader(input), &out),
		Audit:   audit.NewRecorder(nil),
	}, &out
}

func seedClients() *fakeClients {
	return &fakeClients{rows: []*store.Client{
		{ID: 1, EmployeeID: 2, Email: "ada@corp.com", FirstName: "Ada", LastName: "Love", Phone: "5550001", CompanyName: "Corp"},
	}}
}

func TestClientCreate(t *testing.T) {
	clients := seedClients()
	input := strings.Join([]string{
		"a@b.com",
		"Ann",
		"Lee",
		"5551234",
		"Acme",
	}, "\n") + "\n"
	rt, out := testRuntime(store.RoleSales, clients, input)

	route, err := testEngine().Run("client_create", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteMenu {
		t.Fatalf("unexpected route %v", route)
	}
	if n, _ := clients.Count(context.Background()); n != 2 {
		t.Fatalf("expected 2 clients, have %d", n)
	}
	created, err := clients.FindByEmail(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("created client not stored: %v", err)
	}
	if created.EmployeeID != rt.User.ID {
		t.Fatalf("client must belong to the creating employee, has %d", created.EmployeeID)
	}
	if created.FirstName != "Ann" || created.LastName != "Lee" || created.Phone != "5551234" || created.CompanyName != "Acme" {
		t.Fatalf("client fields not stored: %+v", created)
	}
	rendered := out.String()
	if !strings.Contains(rendered, "Client successfully created!") {
		t.Fatalf("missing success message in output:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Email: ") || !strings.Contains(rendered, "a@b.com") {
		t.Fatalf("missing summary row in output:\n%s", rendered)
	}
}

func TestClientCreateDuplicateEmail(t *testing.T) {
	clients := seedClients()
	input := strings.Join([]string{
		"ada@corp.com",
		"Other",
		"Ada",
		"5559999",
		"Corp",
	}, "\n") + "\n"
	rt, out := testRuntime(store.RoleSales, clients, input)

	route, err := testEngine().Run("client_create", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteRetry {
		t.Fatalf("unexpected route %v", route)
	}
	if !strings.Contains(out.String(), "Email already exists !") {
		t.Fatalf("missing conflict message in output:\n%s", out.String())
	}
	if n, _ := clients.Count(context.Background()); n != 1 {
		t.Fatalf("store must be untouched, has %d rows", n)
	}
}

func TestClientCreateDeniedForSupport(t *testing.T) {
	clients := seedClients()
	rt, out := testRuntime(store.RoleSupport, clients, "")

	route, err := testEngine().Run("client_create", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteStart {
		t.Fatalf("unexpected route %v", route)
	}
	if !strings.Contains(out.String(), "Permission denied !") {
		t.Fatalf("missing denial in output:\n%s", out.String())
	}
	if n, _ := clients.Count(context.Background()); n != 1 {
		t.Fatalf("store must be untouched, has %d rows", n)
	}
}

func TestClientUpdate(t *testing.T) {
	clients := seedClients()
	input := strings.Join([]string{
		"ada@corp.com", // which client
		"PC",           // fields to update: phone and company name
		"5557777",      // new phone
		"Corp SA",      // new company name
	}, "\n") + "\n"
	rt, out := testRuntime(store.RoleSales, clients, input)

	route, err := testEngine().Run("client_update", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteMenu {
		t.Fatalf("unexpected route %v", route)
	}
	updated, err := clients.FindByEmail(context.Background(), "ada@corp.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if updated.Phone != "5557777" || updated.CompanyName != "Corp SA" {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !strings.Contains(out.String(), "Client successfully updated!") {
		t.Fatalf("missing success message in output:\n%s", out.String())
	}
}

func TestClientDelete(t *testing.T) {
	clients := seedClients()
	input := "ada@corp.com\nY\n"
	rt, out := testRuntime(store.RoleManagement, clients, input)

	route, err := testEngine().Run("client_delete", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteMenu {
		t.Fatalf("unexpected route %v", route)
	}
	if _, err := clients.FindByEmail(context.Background(), "ada@corp.com"); err == nil {
		t.Fatal("client was not deleted")
	}
	if !strings.Contains(out.String(), "Client successfully deleted!") {
		t.Fatalf("missing success message in output:\n%s", out.String())
	}
}

func TestClientDeleteDeclined(t *testing.T) {
	clients := seedClients()
	input := "ada@corp.com\nN\n"
	rt, _ := testRuntime(store.RoleManagement, clients, input)

	route, err := testEngine().Run("client_delete", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteMenu {
		t.Fatalf("unexpected route %v", route)
	}
	if n, _ := clients.Count(context.Background()); n != 1 {
		t.Fatalf("store must be untouched, has %d rows", n)
	}
}

func TestClientCreateAbortOnBlank(t *testing.T) {
	clients := seedClients()
	rt, _ := testRuntime(store.RoleSales, clients, "\n")

	route, err := testEngine().Run("client_create", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteStart {
		t.Fatalf("unexpected route %v", route)
	}
	if n, _ := clients.Count(context.Background()); n != 1 {
		t.Fatalf("store must be untouched, has %d rows", n)
	}
}
