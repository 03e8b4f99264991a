// Package store defines the Epic Events entities and the persistence
// contract the command layer depends on. The Postgres implementation
// lives in store/pg.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict indicates a uniqueness violation (duplicate email,
	// second contract for a client, ...).
	ErrConflict = errors.New("store: already exists")
)

// Role is an employee access level.
type Role string

const (
	RoleSales      Role = "SA"
	RoleSupport    Role = "SU"
	RoleManagement Role = "MA"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSales, RoleSupport, RoleManagement:
		return true
	}
	return false
}

// Display returns the human-readable role name.
func (r Role) Display() string {
	switch r {
	case RoleSales:
		return "Sales"
	case RoleSupport:
		return "Support"
	case RoleManagement:
		return "Management"
	}
	return string(r)
}

// Cents is a money amount in minor units. No floats.
type Cents int64

// String renders the amount as "1234.56 €".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d €", sign, v/100, v%100)
}

// ContractState is the signed/draft state of a contract.
type ContractState string

const (
	StateSigned ContractState = "S"
	StateDraft  ContractState = "D"
)

// Display returns the human-readable state name.
func (s ContractState) Display() string {
	switch s {
	case StateSigned:
		return "Signed"
	case StateDraft:
		return "Draft"
	}
	return string(s)
}

// Employee is an authenticated principal with a role. The login email
// doubles as the unique account identifier.
type Employee struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns "First Last".
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Client is a customer record owned by a sales employee.
type Client struct {
	ID          int64
	EmployeeID  int64
	Email       string
	FirstName   string
	LastName    string
	Phone       string
	CompanyName string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Employee is the owning employee, populated by list/find queries
	// (relation prefetch).
	Employee *Employee
}

// FullName returns "First Last".
func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Contract links a client to the employee responsible for it. A client
// has at most one contract.
type Contract struct {
	ID         int64
	ClientID   int64
	EmployeeID int64
	TotalCents Cents
	PaidCents  Cents
	State      ContractState
	CreatedAt  time.Time

	Client   *Client
	Employee *Employee
}

// RestCents returns the outstanding amount.
func (c Contract) RestCents() Cents {
	return c.TotalCents - c.PaidCents
}

// Event is a booked event for a signed contract, run by a support
// employee.
type Event struct {
	ID         int64
	ContractID int64
	EmployeeID int64
	Date       time.Time
	Name       string
	Location   string
	MaxGuests  int
	Notes      string
	CreatedAt  time.Time

	Contract *Contract
	Employee *Employee
}

// EmployeeUpdate describes a partial employee update. Nil fields keep
// their current value. Email and profile changes are applied in a
// single transaction so a failure in either rolls back both.
type EmployeeUpdate struct {
	Email        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	Role         *Role
}

// ClientUpdate describes a partial client update.
type ClientUpdate struct {
	Email       *string
	FirstName   *string
	LastName    *string
	Phone       *string
	CompanyName *string
}

// ContractUpdate describes a partial contract update.
type ContractUpdate struct {
	EmployeeID *int64
	TotalCents *Cents
	PaidCents  *Cents
	State      *ContractState
}

// EventUpdate describes a partial event update.
type EventUpdate struct {
	EmployeeID *int64
	Date       *time.Time
	Name       *string
	Location   *string
	MaxGuests  *int
	Notes      *string
}

// EmployeeFilter narrows employee listings.
type EmployeeFilter struct {
	Role    Role
	OrderBy []OrderField
}

// ClientFilter narrows client listings.
type ClientFilter struct {
	// EmployeeID restricts to clients owned by the employee.
	EmployeeID int64
	// WithoutContract restricts to clients that have no contract yet.
	WithoutContract bool
	// SignedContract restricts to clients with a signed contract.
	SignedContract bool
	OrderBy        []OrderField
}

// ContractFilter narrows contract listings.
type ContractFilter struct {
	EmployeeID   int64
	EmployeeRole Role
	OrderBy      []OrderField
}

// EventFilter narrows event listings.
type EventFilter struct {
	EmployeeID int64
	OrderBy    []OrderField
}

// EmployeeStore persists employees.
type EmployeeStore interface {
	Create(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, f EmployeeFilter) ([]*Employee, error)
	Update(ctx context.Context, id int64, upd EmployeeUpdate) (*Employee, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// ClientStore persists clients.
type ClientStore interface {
	Create(ctx context.Context, c *Client) error
	FindByEmail(ctx context.Context, email string) (*Client, error)
	List(ctx context.Context, f ClientFilter) ([]*Client, error)
	Update(ctx context.Context, id int64, upd ClientUpdate) (*Client, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// ContractStore persists contracts.
type ContractStore interface {
	Create(ctx context.Context, c *Contract) error
	FindByClientEmail(ctx context.Context, email string) (*Contract, error)
	ExistsForClient(ctx context.Context, clientID int64) (bool, error)
	List(ctx context.Context, f ContractFilter) ([]*Contract, error)
	Update(ctx context.Context, id int64, upd ContractUpdate) (*Contract, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// EventStore persists events.
type EventStore interface {
	Create(ctx context.Context, e *Event) error
	FindByClientEmail(ctx context.Context, email string) (*Event, error)
	Exists(ctx context.Context, contractID int64, name string) (bool, error)
	List(ctx context.Context, f EventFilter) ([]*Event, error)
	Update(ctx context.Context, id int64, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// AuditStore appends immutable audit entries.
type AuditStore interface {
	Append(ctx context.Context, entry *AuditEntry) error
}

// AuditEntry is one row of the append-only action log.
type AuditEntry struct {
	ID         string
	OccurredAt time.Time
	ActorID    int64
	ActorEmail string
	Action     string
	Entity     string
	RecordID   int64
	Fields     map[string]string
}

// Store bundles the per-entity stores behind one connection.
type Store interface {
	Employees() EmployeeStore
	Clients() ClientStore
	Contracts() ContractStore
	Events() EventStore
	Audit() AuditStore
	Close() error
}
