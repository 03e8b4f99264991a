package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"epicevents.org/internal/store"
)

type employeeStore struct {
	db *sql.DB
}

var employeeOrderColumns = map[string]string{
	"email":      "e.email",
	"first_name": "e.first_name",
	"last_name":  "e.last_name",
	"role":       "e.role",
}

const employeeColumns = `e.id, e.email, e.password_hash, e.first_name, e.last_name, e.role, e.created_at, e.updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*store.Employee, error) {
	var e store.Employee
	err := row.Scan(&e.ID, &e.Email, &e.PasswordHash, &e.FirstName, &e.LastName, &e.Role, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &e, nil
}

func (s *employeeStore) Create(ctx context.Context, e *store.Employee) error {
	row := s.db.QueryRowContext(ctx, `
		insert into employees (email, password_hash, first_name, last_name, role)
		values ($1, $2, $3, $4, $5)
		returning id, created_at, updated_at
	`, e.Email, e.PasswordHash, e.FirstName, e.LastName, e.Role)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return translateErr(err)
	}
	return nil
}

func (s *employeeStore) FindByID(ctx context.Context, id int64) (*store.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+employeeColumns+` from employees e where e.id = $1
	`, id)
	return scanEmployee(row)
}

func (s *employeeStore) FindByEmail(ctx context.Context, email string) (*store.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+employeeColumns+` from employees e where e.email = $1
	`, email)
	return scanEmployee(row)
}

func (s *employeeStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		select exists (select 1 from employees where email = $1)
	`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *employeeStore) List(ctx context.Context, f store.EmployeeFilter) ([]*store.Employee, error) {
	order, err := orderClause(f.OrderBy, employeeOrderColumns, "e.id")
	if err != nil {
		return nil, err
	}
	where := ""
	args := []any{}
	if f.Role != "" {
		where = "where e.role = $1"
		args = append(args, f.Role)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select %s from employees e %s %s
	`, employeeColumns, where, order), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*store.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update applies upd inside one transaction: the uniqueness probe for a
// changed email and the row update either both happen or neither does.
func (s *employeeStore) Update(ctx context.Context, id int64, upd store.EmployeeUpdate) (*store.Employee, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if upd.Email != nil {
		var exists bool
		err := tx.QueryRowContext(ctx, `
			select exists (select 1 from employees where email = $1 and id <> $2)
		`, *upd.Email, id).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, store.ErrConflict
		}
	}

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
	if upd.PasswordHash != nil {
		add("password_hash", *upd.PasswordHash)
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Role != nil {
		add("role", *upd.Role)
	}
	if len(sets) == 0 {
		return s.FindByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	row := tx.QueryRowContext(ctx, fmt.Sprintf(`
		update employees e set %s where id = $%d
		returning `+employeeColumns, strings.Join(sets, ", "), idx), args...)
	e, err := scanEmployee(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *employeeStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from employees where id = $1`, id)
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

func (s *employeeStore) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, s.db, "employees")
}
