package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/repository"
	"github.com/google/uuid"
)

// Operation names for FakeBackend error injection and call counting.
const (
	OpCurrentUser = "current_user"
	OpSignIn      = "sign_in"
	OpSignUp      = "sign_up"
	OpSignOut     = "sign_out"
	OpSelect      = "select"
	OpInsert      = "insert"
	OpUpdate      = "update"
	OpDelete      = "delete"
)

type fakeAccount struct {
	user     domain.User
	password string
}

// FakeBackend is an in-memory repository.Backend. Errors can be injected per
// operation and every call is counted, including failed ones.
type FakeBackend struct {
	mu       sync.Mutex
	session  *domain.User
	accounts map[string]fakeAccount
	rows     map[string][]domain.Record
	nextID   int64
	errs     map[string]error
	calls    map[string]int

	// RequireConfirmation makes SignUp return (nil, nil) like a hosted store
	// with email confirmation enabled.
	RequireConfirmation bool

	// ServerDisplay, when set, rewrites display values on insert and update
	// the way a server-side trigger would.
	ServerDisplay func(string) string
}

// NewFakeBackend returns an empty FakeBackend with no session.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		accounts: make(map[string]fakeAccount),
		rows:     make(map[string][]domain.Record),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

// SignedInFakeBackend returns a FakeBackend with an active session for email.
func SignedInFakeBackend(email string) (*FakeBackend, domain.User) {
	f := NewFakeBackend()
	u := f.AddAccount(email, "password")
	f.session = &u
	return f, u
}

// AddAccount registers credentials without signing in.
func (f *FakeBackend) AddAccount(email, password string) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := domain.User{ID: uuid.New().String(), Email: email}
	f.accounts[strings.ToLower(email)] = fakeAccount{user: u, password: password}
	return u
}

// Seed appends rows owned by owner and returns them with assigned IDs.
func (f *FakeBackend) Seed(res domain.Resource, owner string, displays ...string) []domain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Record, 0, len(displays))
	for _, d := range displays {
		f.nextID++
		rec := domain.Record{ID: f.nextID, Display: d, Owner: owner}
		f.rows[res.Name] = append(f.rows[res.Name], rec)
		out = append(out, rec)
	}
	return out
}

// Rows returns a copy of what the store holds for res.
func (f *FakeBackend) Rows(res domain.Resource) []domain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Record(nil), f.rows[res.Name]...)
}

// FailOn makes every later call to op return err. A nil err clears it.
func (f *FakeBackend) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Calls reports how many times op was invoked.
func (f *FakeBackend) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Session returns the signed-in user, or nil.
func (f *FakeBackend) Session() *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

// SetSession replaces the active session. Nil signs out.
func (f *FakeBackend) SetSession(u *domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = u
}

func (f *FakeBackend) Auth() repository.AuthRepo { return fakeAuth{f} }

func (f *FakeBackend) Records(res domain.Resource) repository.RecordRepo {
	return fakeTable{f: f, res: res}
}

// begin counts op and returns the injected error, if any. Caller holds mu.
func (f *FakeBackend) begin(op string) error {
	f.calls[op]++
	return f.errs[op]
}

func (f *FakeBackend) display(s string) string {
	if f.ServerDisplay != nil {
		return f.ServerDisplay(s)
	}
	return s
}

type fakeAuth struct{ f *FakeBackend }

func (a fakeAuth) CurrentUser(ctx context.Context) (*domain.User, error) {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	if err := a.f.begin(OpCurrentUser); err != nil {
		return nil, err
	}
	if a.f.session == nil {
		return nil, domain.ErrNoSession
	}
	u := *a.f.session
	return &u, nil
}

func (a fakeAuth) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	if err := a.f.begin(OpSignIn); err != nil {
		return nil, err
	}
	acct, ok := a.f.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok || acct.password != password {
		return nil, domain.ErrInvalidCredentials
	}
	u := acct.user
	a.f.session = &u
	return &u, nil
}

func (a fakeAuth) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	if err := a.f.begin(OpSignUp); err != nil {
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(email))
	if _, ok := a.f.accounts[key]; ok {
		return nil, domain.ErrUserExists
	}
	u := domain.User{ID: uuid.New().String(), Email: key}
	a.f.accounts[key] = fakeAccount{user: u, password: password}
	if a.f.RequireConfirmation {
		return nil, nil
	}
	a.f.session = &u
	return &u, nil
}

func (a fakeAuth) SignOut(ctx context.Context) error {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	if err := a.f.begin(OpSignOut); err != nil {
		return err
	}
	a.f.session = nil
	return nil
}

type fakeTable struct {
	f   *FakeBackend
	res domain.Resource
}

func (t fakeTable) SelectAll(ctx context.Context, owner string) ([]domain.Record, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if err := t.f.begin(OpSelect); err != nil {
		return nil, err
	}
	out := []domain.Record{}
	for _, r := range t.f.rows[t.res.Name] {
		if owner == "" || r.Owner == owner {
			out = append(out, r)
		}
	}
	return out, nil
}

func (t fakeTable) Insert(ctx context.Context, rec domain.Record) (domain.Record, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if err := t.f.begin(OpInsert); err != nil {
		return domain.Record{}, err
	}
	if t.f.session == nil {
		return domain.Record{}, domain.ErrNoSession
	}
	t.f.nextID++
	rec.ID = t.f.nextID
	rec.Display = t.f.display(rec.Display)
	t.f.rows[t.res.Name] = append(t.f.rows[t.res.Name], rec)
	return rec, nil
}

func (t fakeTable) Update(ctx context.Context, id int64, display string) (domain.Record, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if err := t.f.begin(OpUpdate); err != nil {
		return domain.Record{}, err
	}
	rows := t.f.rows[t.res.Name]
	for i := range rows {
		if rows[i].ID == id {
			rows[i].Display = t.f.display(display)
			return rows[i], nil
		}
	}
	return domain.Record{}, domain.ErrNotFound
}

func (t fakeTable) Delete(ctx context.Context, id int64) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if err := t.f.begin(OpDelete); err != nil {
		return err
	}
	rows := t.f.rows[t.res.Name]
	for i := range rows {
		if rows[i].ID == id {
			t.f.rows[t.res.Name] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

var _ repository.Backend = (*FakeBackend)(nil)
