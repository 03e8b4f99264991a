package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"epicevents.org/internal/store"
)

type fakeEmployeeStore struct {
	byID    map[int64]*store.Employee
	byEmail map[string]*store.Employee
}

func newFakeEmployeeStore(employees ...*store.Employee) *fakeEmployeeStore {
	f := &fakeEmployeeStore{
		byID:    make(map[int64]*store.Employee),
		byEmail: make(map[string]*store.Employee),
	}
	for _, e := range employees {
		f.byID[e.ID] = e
		f.byEmail[e.Email] = e
	}
	return f
}

func (f *fakeEmployeeStore) Create(ctx context.Context, e *store.Employee) error {
	if _, dup := f.byEmail[e.Email]; dup {
		return store.ErrConflict
	}
	e.ID = int64(len(f.byID) + 1)
	f.byID[e.ID] = e
	f.byEmail[e.Email] = e
	return nil
}

func (f *fakeEmployeeStore) FindByID(ctx context.Context, id int64) (*store.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e, nil
}

func (f *fakeEmployeeStore) FindByEmail(ctx context.Context, email string) (*store.Employee, error) {
	e, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e, nil
}

func (f *fakeEmployeeStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeEmployeeStore) List(ctx context.Context, _ store.EmployeeFilter) ([]*store.Employee, error) {
	var out []*store.Employee
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployeeStore) Update(ctx context.Context, id int64, _ store.EmployeeUpdate) (*store.Employee, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeEmployeeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEmployeeStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

type scriptedUI struct {
	emails    []string
	passwords []string
	errs      []string
	infos     []string
}

func (u *scriptedUI) EmailInput(string, bool) (string, error) {
	if len(u.emails) == 0 {
		return "", errors.New("no more emails scripted")
	}
	v := u.emails[0]
	u.emails = u.emails[1:]
	return v, nil
}

func (u *scriptedUI) SecretInput(string, bool) (string, error) {
	if len(u.passwords) == 0 {
		return "", errors.New("no more passwords scripted")
	}
	v := u.passwords[0]
	u.passwords = u.passwords[1:]
	return v, nil
}

func (u *scriptedUI) Info(msg string)  { u.infos = append(u.infos, msg) }
func (u *scriptedUI) Error(msg string) { u.errs = append(u.errs, msg) }

func newTestService(t *testing.T, employees store.EmployeeStore, opts ...ServiceOption) *Service {
	t.Helper()
	tokenPath := filepath.Join(t.TempDir(), "token")
	opts = append([]ServiceOption{
		WithLoginLimiter(rate.NewLimiter(rate.Inf, 1)),
	}, opts...)
	svc, err := NewService(employees, "test-secret-test-secret-32bytes!", tokenPath, opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestIssueAndVerifyToken(t *testing.T) {
	svc := newTestService(t, newFakeEmployeeStore())

	token, err := svc.IssueToken(7, "kate@mail.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("unexpected user id: %d", claims.UserID)
	}
	if claims.Email != "kate@mail.com" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
	if claims.ID == "" {
		t.Fatal("expected a token id")
	}

	persisted, err := svc.ReadToken()
	if err != nil {
		t.Fatalf("ReadToken: %v", err)
	}
	if persisted != token {
		t.Fatal("token file does not hold the issued token")
	}
}

func TestIssueTokenValidation(t *testing.T) {
	svc := newTestService(t, newFakeEmployeeStore())

	if _, err := svc.IssueToken(0, "kate@mail.com"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for id 0, got %v", err)
	}
	if _, err := svc.IssueToken(1, "  "); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for blank email, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	svc := newTestService(t, newFakeEmployeeStore(),
		WithTTL(time.Hour),
		WithClock(func() time.Time { return now }))

	token, err := svc.IssueToken(3, "sam@mail.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	now = t0.Add(30 * time.Minute)
	if _, err := svc.VerifyToken(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	now = t0.Add(2 * time.Hour)
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := newTestService(t, newFakeEmployeeStore())

	token, err := svc.IssueToken(5, "lea@mail.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.VerifyToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.VerifyToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestResolveUser(t *testing.T) {
	hash, err := HashPassword("Sup3r-secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	emp := &store.Employee{ID: 11, Email: "nora@mail.com", PasswordHash: hash, Role: store.RoleSales}
	svc := newTestService(t, newFakeEmployeeStore(emp))

	if _, err := svc.IssueToken(emp.ID, emp.Email); err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	got, err := svc.ResolveUser(context.Background())
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if got.ID != emp.ID {
		t.Fatalf("resolved wrong employee: %d", got.ID)
	}
}

func TestResolveUserDeletedEmployee(t *testing.T) {
	svc := newTestService(t, newFakeEmployeeStore())

	if _, err := svc.IssueToken(99, "ghost@mail.com"); err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := svc.ResolveUser(context.Background()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestResolveUserWithoutToken(t *testing.T) {
	svc := newTestService(t, newFakeEmployeeStore())

	if _, err := svc.ResolveUser(context.Background()); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	hash, err := HashPassword("Sup3r-secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	emp := &store.Employee{ID: 2, Email: "ada@mail.com", PasswordHash: hash, FirstName: "Ada", LastName: "Moreau", Role: store.RoleManagement}
	svc := newTestService(t, newFakeEmployeeStore(emp))

	ui := &scriptedUI{
		emails:    []string{"nobody@mail.com", "ada@mail.com", "ada@mail.com"},
		passwords: []string{"whatever", "wrong-password", "Sup3r-secret"},
	}
	got, err := svc.Login(context.Background(), ui)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != emp.ID {
		t.Fatalf("logged in as wrong employee: %d", got.ID)
	}
	if len(ui.errs) != 2 {
		t.Fatalf("expected two error messages, got %v", ui.errs)
	}
	if !strings.Contains(ui.errs[0], "does not exists") {
		t.Fatalf("unexpected first error: %s", ui.errs[0])
	}

	// The successful login persisted a working token.
	if _, err := svc.ResolveUser(context.Background()); err != nil {
		t.Fatalf("ResolveUser after login: %v", err)
	}
}

func TestLoginAttemptsExhausted(t *testing.T) {
	svc := newTestService(t, newFakeEmployeeStore())

	ui := &scriptedUI{
		emails:    []string{"a@mail.com", "b@mail.com", "c@mail.com"},
		passwords: []string{"x", "y", "z"},
	}
	if _, err := svc.Login(context.Background(), ui); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestLogoutTruncatesToken(t *testing.T) {
	svc := newTestService(t, newFakeEmployeeStore())

	if _, err := svc.IssueToken(4, "tom@mail.com"); err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if err := svc.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	token, err := svc.ReadToken()
	if err != nil {
		t.Fatalf("ReadToken: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token file, got %q", token)
	}

	info, err := os.Stat(svc.tokenPath)
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("token file permissions: %v", info.Mode().Perm())
	}
}
