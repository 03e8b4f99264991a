package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"epicevents.org/internal/store"
)

type eventStore struct {
	db *sql.DB
}

var eventOrderColumns = map[string]string{
	"client":     "cl.email",
	"date":       "ev.date",
	"name":       "ev.name",
	"location":   "ev.location",
	"max_guests": "ev.max_guests",
}

const eventColumns = `ev.id, ev.contract_id, ev.employee_id, ev.date, ev.name, ev.location,
	ev.max_guests, ev.notes, ev.created_at,
	co.id, co.client_id, co.employee_id, co.total_cents, co.paid_cents, co.state, co.created_at,
	cl.id, cl.employee_id, cl.email, cl.first_name, cl.last_name, cl.phone, cl.company_name, cl.created_at, cl.updated_at,
	e.id, e.email, e.password_hash, e.first_name, e.last_name, e.role, e.created_at, e.updated_at`

const eventFrom = `from events ev
	join contracts co on co.id = ev.contract_id
	join clients cl on cl.id = co.client_id
	join employees e on e.id = ev.employee_id`

func scanEvent(row interface{ Scan(...any) error }) (*store.Event, error) {
	var ev store.Event
	var co store.Contract
	var cl store.Client
	var e store.Employee
	err := row.Scan(
		&ev.ID, &ev.ContractID, &ev.EmployeeID, &ev.Date, &ev.Name, &ev.Location,
		&ev.MaxGuests, &ev.Notes, &ev.CreatedAt,
		&co.ID, &co.ClientID, &co.EmployeeID, &co.TotalCents, &co.PaidCents, &co.State, &co.CreatedAt,
		&cl.ID, &cl.EmployeeID, &cl.Email, &cl.FirstName, &cl.LastName, &cl.Phone, &cl.CompanyName, &cl.CreatedAt, &cl.UpdatedAt,
		&e.ID, &e.Email, &e.PasswordHash, &e.FirstName, &e.LastName, &e.Role, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	co.Client = &cl
	ev.Contract = &co
	ev.Employee = &e
	return &ev, nil
}

func (s *eventStore) Create(ctx context.Context, e *store.Event) error {
	row := s.db.QueryRowContext(ctx, `
		insert into events (contract_id, employee_id, date, name, location, max_guests, notes)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning id, created_at
	`, e.ContractID, e.EmployeeID, e.Date, e.Name, e.Location, e.MaxGuests, e.Notes)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return translateErr(err)
	}
	return nil
}

func (s *eventStore) FindByClientEmail(ctx context.Context, email string) (*store.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+eventColumns+` `+eventFrom+` where cl.email = $1
	`, email)
	return scanEvent(row)
}

func (s *eventStore) Exists(ctx context.Context, contractID int64, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		select exists (select 1 from events where contract_id = $1 and name = $2)
	`, contractID, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *eventStore) List(ctx context.Context, f store.EventFilter) ([]*store.Event, error) {
	order, err := orderClause(f.OrderBy, eventOrderColumns, "ev.id")
	if err != nil {
		return nil, err
	}
	where := ""
	args := []any{}
	if f.EmployeeID != 0 {
		where = "where ev.employee_id = $1"
		args = append(args, f.EmployeeID)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select %s %s %s %s
	`, eventColumns, eventFrom, where, order), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*store.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *eventStore) Update(ctx context.Context, id int64, upd store.EventUpdate) (*store.Event, error) {
	sets := []string{}
	args := []any{}
	idx := 1
	add := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, v)
		idx++
	}
	if upd.EmployeeID != nil {
		add("employee_id", *upd.EmployeeID)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.MaxGuests != nil {
		add("max_guests", *upd.MaxGuests)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	if len(sets) > 0 {
		args = append(args, id)
		_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
			update events set %s where id = $%d
		`, strings.Join(sets, ", "), idx), args...)
		if err != nil {
			return nil, translateErr(err)
		}
	}
	row := s.db.QueryRowContext(ctx, `
		select `+eventColumns+` `+eventFrom+` where ev.id = $1
	`, id)
	return scanEvent(row)
}

func (s *eventStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from events where id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *eventStore) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, s.db, "events")
}
