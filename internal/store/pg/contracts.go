package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"epicevents.org/internal/store"
)

type contractStore struct {
	db *sql.DB
}

var contractOrderColumns = map[string]string{
	"client":      "cl.email",
	"total_costs": "co.total_cents",
	"amount_paid": "co.paid_cents",
	"state":       "co.state",
}

const contractColumns = `co.id, co.client_id, co.employee_id, co.total_cents, co.paid_cents, co.state, co.created_at,
	cl.id, cl.employee_id, cl.email, cl.first_name, cl.last_name, cl.phone, cl.company_name, cl.created_at, cl.updated_at,
	e.id, e.email, e.password_hash, e.first_name, e.last_name, e.role, e.created_at, e.updated_at`

const contractFrom = `from contracts co
	join clients cl on cl.id = co.client_id
	join employees e on e.id = co.employee_id`

func scanContract(row interface{ Scan(...any) error }) (*store.Contract, error) {
	var co store.Contract
	var cl store.Client
	var e store.Employee
	err := row.Scan(
		&co.ID, &co.ClientID, &co.EmployeeID, &co.TotalCents, &co.PaidCents, &co.State, &co.CreatedAt,
		&cl.ID, &cl.EmployeeID, &cl.Email, &cl.FirstName, &cl.LastName, &cl.Phone, &cl.CompanyName, &cl.CreatedAt, &cl.UpdatedAt,
		&e.ID, &e.Email, &e.PasswordHash, &e.FirstName, &e.LastName, &e.Role, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	co.Client = &cl
	co.Employee = &e
	return &co, nil
}

func (s *contractStore) Create(ctx context.Context, c *store.Contract) error {
	row := s.db.QueryRowContext(ctx, `
		insert into contracts (client_id, employee_id, total_cents, paid_cents, state)
		values ($1, $2, $3, $4, $5)
		returning id, created_at
	`, c.ClientID, c.EmployeeID, c.TotalCents, c.PaidCents, c.State)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return translateErr(err)
	}
	return nil
}

func (s *contractStore) FindByClientEmail(ctx context.Context, email string) (*store.Contract, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+contractColumns+` `+contractFrom+` where cl.email = $1
	`, email)
	return scanContract(row)
}

func (s *contractStore) ExistsForClient(ctx context.Context, clientID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		select exists (select 1 from contracts where client_id = $1)
	`, clientID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *contractStore) List(ctx context.Context, f store.ContractFilter) ([]*store.Contract, error) {
	order, err := orderClause(f.OrderBy, contractOrderColumns, "co.id")
	if err != nil {
		return nil, err
	}
	var conds []string
	var args []any
	if f.EmployeeID != 0 {
		args = append(args, f.EmployeeID)
		conds = append(conds, fmt.Sprintf("co.employee_id = $%d", len(args)))
	}
	if f.EmployeeRole != "" {
		args = append(args, f.EmployeeRole)
		conds = append(conds, fmt.Sprintf("e.role = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "where " + strings.Join(conds, " and ")
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select %s %s %s %s
	`, contractColumns, contractFrom, where, order), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*store.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *contractStore) Update(ctx context.Context, id int64, upd store.ContractUpdate) (*store.Contract, error) {
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
	if upd.TotalCents != nil {
		add("total_cents", *upd.TotalCents)
	}
	if upd.PaidCents != nil {
		add("paid_cents", *upd.PaidCents)
	}
	if upd.State != nil {
		add("state", *upd.State)
	}
	if len(sets) > 0 {
		args = append(args, id)
		_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
			update contracts set %s where id = $%d
		`, strings.Join(sets, ", "), idx), args...)
		if err != nil {
			return nil, translateErr(err)
		}
	}
	row := s.db.QueryRowContext(ctx, `
		select `+contractColumns+` `+contractFrom+` where co.id = $1
	`, id)
	return scanContract(row)
}

func (s *contractStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from contracts where id = $1`, id)
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

func (s *contractStore) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, s.db, "contracts")
}
