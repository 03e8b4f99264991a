package contracts

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

func (f *fakeClients) List(ctx context.Context, _ store.ClientFilter) ([]*store.Client, error) {
	return f.rows, nil
}

func (f *fakeClients) Update(ctx context.Context, id int64, _ store.ClientUpdate) (*store.Client, error) {
	return nil, store.ErrNotFound
}

func (f *fakeClients) Delete(ctx context.Context, id int64) error { return store.ErrNotFound }

func (f *fakeClients) Count(ctx context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeContracts struct {
	clients *fakeClients
	rows    []*store.Contract
}

func (f *fakeContracts) Create(ctx context.Context, c *store.Contract) error {
	for _, row := range f.rows {
		if row.ClientID == c.ClientID {
			return store.ErrConflict
		}
	}
	c.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, c)
	return nil
}

func (f *fakeContracts) FindByClientEmail(ctx context.Context, email string) (*store.Contract, error) {
	client, err := f.clients.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	for _, row := range f.rows {
		if row.ClientID == client.ID {
			return row, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeContracts) ExistsForClient(ctx context.Context, clientID int64) (bool, error) {
	for _, row := range f.rows {
		if row.ClientID == clientID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeContracts) List(ctx context.Context, filter store.ContractFilter) ([]*store.Contract, error) {
	var out []*store.Contract
	for _, row := range f.rows {
		if filter.EmployeeID != 0 && row.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.EmployeeRole != "" && (row.Employee == nil || row.Employee.Role != filter.EmployeeRole) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeContracts) Update(ctx context.Context, id int64, upd store.ContractUpdate) (*store.Contract, error) {
	for _, row := range f.rows {
		if row.ID != id {
			continue
		}
		if upd.EmployeeID != nil {
			row.EmployeeID = *upd.EmployeeID
		}
		if upd.TotalCents != nil {
			row.TotalCents = *upd.TotalCents
		}
		if upd.PaidCents != nil {
			row.PaidCents = *upd.PaidCents
		}
		if upd.State != nil {
			row.State = *upd.State
		}
		return row, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeContracts) Delete(ctx context.Context, id int64) error {
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeContracts) Count(ctx context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeStore struct {
	clients   *fakeClients
	contracts *fakeContracts
}

func (f *fakeStore) Employees() store.EmployeeStore { return nil }
func (f *fakeStore) Clients() store.ClientStore     { return f.clients }
func (f *fakeStore) Contracts() store.ContractStore { return f.contracts }
func (f *fakeStore) Events() store.EventStore       { return nil }
func (f *fakeStore) Audit() store.AuditStore        { return nil }
func (f *fakeStore) Close() error                   { return nil }

func seedStore() *fakeStore {
	sales := &store.Employee{ID: 2, Email: "sales@mail.com", FirstName: "Sal", LastName: "Es", Role: store.RoleSales}
	clients := &fakeClients{rows: []*store.Client{
		{ID: 1, EmployeeID: 2, Email: "ada@corp.com", FirstName: "Ada", LastName: "Moreau",
			Phone: "3301020304", CompanyName: "Moreau SARL", Employee: sales},
		{ID: 2, EmployeeID: 2, Email: "bob@corp.com", FirstName: "Bob", LastName: "Faure",
			Phone: "3305060708", CompanyName: "Faure SA", Employee: sales},
	}}
	return &fakeStore{
		clients:   clients,
		contracts: &fakeContracts{clients: clients},
	}
}

func testRuntime(role store.Role, st *fakeStore, input string) (*command.Runtime, *bytes.Buffer) {
	var out bytes.Buffer
	return &command.Runtime{
		Ctx:     context.Background(),
		User:    &store.Employee{ID: 1, Email: "boss@mail.com", Role: role},
		Store:   st,
		Console: cli.NewConsole(strings.NewReader(input), &out),
		Audit:   audit.NewRecorder(nil),
	}, &out
}

func testEngine() *command.Engine {
	engine := command.NewEngine()
	Register(engine)
	return engine
}

func TestContractCreate(t *testing.T) {
	st := seedStore()
	input := strings.Join([]string{
		"ada@corp.com",
		"1500.50", // total
		"500",     // paid
		"S",
	}, "\n") + "\n"
	rt, out := testRuntime(store.RoleManagement, st, input)

	route, err := testEngine().Run("contract_create", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteMenu {
		t.Fatalf("unexpected route %v", route)
	}

	created, err := st.contracts.FindByClientEmail(context.Background(), "ada@corp.com")
	if err != nil {
		t.Fatalf("contract not stored: %v", err)
	}
	if created.TotalCents != 150050 || created.PaidCents != 50000 {
		t.Fatalf("amounts not stored in cents: %+v", created)
	}
	if created.State != store.StateSigned {
		t.Fatalf("unexpected state %q", created.State)
	}
	if created.EmployeeID != 2 {
		t.Fatalf("contract must inherit the client's sales employee, got %d", created.EmployeeID)
	}

	rendered := out.String()
	if !strings.Contains(rendered, "Contract successfully created!") {
		t.Fatalf("missing success message in output:\n%s", rendered)
	}
	if !strings.Contains(rendered, "1000.50 €") {
		t.Fatalf("missing rest amount in output:\n%s", rendered)
	}
}

func TestContractCreateDuplicate(t *testing.T) {
	st := seedStore()
	st.contracts.rows = append(st.contracts.rows, &store.Contract{
		ID: 1, ClientID: 1, EmployeeID: 2, TotalCents: 100000, State: store.StateDraft,
	})

	input := "ada@corp.com\n100\n0\nD\n"
	rt, out := testRuntime(store.RoleManagement, st, input)

	route, err := testEngine().Run("contract_create", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteRetry {
		t.Fatalf("unexpected route %v", route)
	}
	if !strings.Contains(out.String(), "Contract already exists !") {
		t.Fatalf("missing conflict message in output:\n%s", out.String())
	}
	if n, _ := st.contracts.Count(context.Background()); n != 1 {
		t.Fatalf("store must be untouched, has %d rows", n)
	}
}

func TestContractCreateUnknownClient(t *testing.T) {
	st := seedStore()
	input := "nobody@corp.com\n100\n0\nD\n"
	rt, out := testRuntime(store.RoleManagement, st, input)

	route, err := testEngine().Run("contract_create", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteRetry {
		t.Fatalf("unexpected route %v", route)
	}
	if !strings.Contains(out.String(), "Client does not exists !") {
		t.Fatalf("missing lookup message in output:\n%s", out.String())
	}
}

func TestContractFilterDeniedForSupport(t *testing.T) {
	st := seedStore()
	st.contracts.rows = append(st.contracts.rows, &store.Contract{
		ID: 1, ClientID: 1, EmployeeID: 2, TotalCents: 100000, State: store.StateDraft,
		Client: st.clients.rows[0],
	})

	rt, out := testRuntime(store.RoleSupport, st, "Y\n")
	route, err := testEngine().Run("contract_list_filter", rt)
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

func TestContractUpdateAmounts(t *testing.T) {
	st := seedStore()
	st.contracts.rows = append(st.contracts.rows, &store.Contract{
		ID: 1, ClientID: 1, EmployeeID: 2, TotalCents: 100000, PaidCents: 0, State: store.StateDraft,
		Client: st.clients.rows[0], Employee: st.clients.rows[0].Employee,
	})

	input := strings.Join([]string{
		"ada@corp.com", // which contract
		"AS",           // amount paid and state
		"250.25",
		"S",
	}, "\n") + "\n"
	rt, out := testRuntime(store.RoleManagement, st, input)

	route, err := testEngine().Run("contract_update", rt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if route != command.RouteMenu {
		t.Fatalf("unexpected route %v", route)
	}
	updated := st.contracts.rows[0]
	if updated.PaidCents != 25025 || updated.State != store.StateSigned {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !strings.Contains(out.String(), "Contract successfully updated!") {
		t.Fatalf("missing success message in output:\n%s", out.String())
	}
}
