package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"epicevents.org/internal/store"
)

type clientStore struct {
	db *sql.DB
}

var clientOrderColumns = map[string]string{
	"email":        "c.email",
	"first_name":   "c.first_name",
	"last_name":    "c.last_name",
	"company_name": "c.company_name",
}

// clientColumns prefetches the owning employee alongside each client.
const clientColumns = `c.id, c.employee_id, c.email, c.first_name, c.last_name, c.phone,
	c.company_name, c.created_at, c.updated_at,
	e.id, e.email, e.password_hash, e.first_name, e.last_name, e.role, e.created_at, e.updated_at`

const clientFrom = `from clients c join employees e on e.id = c.employee_id`

func scanClient(row interface{ Scan(...any) error }) (*store.Client, error) {
	var c store.Client
	var e store.Employee
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.Email, &c.FirstName, &c.LastName, &c.Phone,
		&c.CompanyName, &c.CreatedAt, &c.UpdatedAt,
		&e.ID, &e.Email, &e.PasswordHash, &e.FirstName, &e.LastName, &e.Role, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	c.Employee = &e
	return &c, nil
}

func (s *clientStore) Create(ctx context.Context, c *store.Client) error {
	row := s.db.QueryRowContext(ctx, `
		insert into clients (employee_id, email, first_name, last_name, phone, company_name)
		values ($1, $2, $3, $4, $5, $6)
		returning id, created_at, updated_at
	`, c.EmployeeID, c.Email, c.FirstName, c.LastName, c.Phone, c.CompanyName)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return translateErr(err)
	}
	return nil
}

func (s *clientStore) FindByEmail(ctx context.Context, email string) (*store.Client, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+clientColumns+` `+clientFrom+` where c.email = $1
	`, email)
	return scanClient(row)
}

func (s *clientStore) List(ctx context.Context, f store.ClientFilter) ([]*store.Client, error) {
	order, err := orderClause(f.OrderBy, clientOrderColumns, "c.id")
	if err != nil {
		return nil, err
	}
	var conds []string
	var args []any
	if f.EmployeeID != 0 {
		args = append(args, f.EmployeeID)
		conds = append(conds, fmt.Sprintf("c.employee_id = $%d", len(args)))
	}
	if f.WithoutContract {
		conds = append(conds, "not exists (select 1 from contracts t where t.client_id = c.id)")
	}
	if f.SignedContract {
		conds = append(conds, "exists (select 1 from contracts t where t.client_id = c.id and t.state = 'S')")
	}
	where := ""
	if len(conds) > 0 {
		where = "where " + strings.Join(conds, " and ")
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select %s %s %s %s
	`, clientColumns, clientFrom, where, order), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*store.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *clientStore) Update(ctx context.Context, id int64, upd store.ClientUpdate) (*store.Client, error) {
	sets := []string{}
	args := []any{}
	idx := 1
	add := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, v)
		idx++
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.CompanyName != nil {
		add("company_name", *upd.CompanyName)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		args = append(args, id)
		_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
			update clients set %s where id = $%d
		`, strings.Join(sets, ", "), idx), args...)
		if err != nil {
			return nil, translateErr(err)
		}
	}
	row := s.db.QueryRowContext(ctx, `
		select `+clientColumns+` `+clientFrom+` where c.id = $1
	`, id)
	return scanClient(row)
}

func (s *clientStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from clients where id = $1`, id)
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

func (s *clientStore) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, s.db, "clients")
}
