package cli

import (
	"testing"
	"time"

	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/repository"
	"github.com/alexanderramin/millennium/internal/service"
	"github.com/alexanderramin/millennium/internal/teatest"
)

// testApp wires an App over backend. Notices stay up unless a test
// shortens NoticeDelay.
func testApp(backend repository.Backend) *App {
	return &App{
		Services:    service.NewServices(backend),
		NoticeDelay: time.Hour,
	}
}

// TestDriver wraps teatest.Driver with access to appModel internals (view
// stack, shared state) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel, sets terminal size, and drains Init,
// which resolves the session synchronously against the test backend.
func NewTestDriver(t *testing.T, app *App, open ...domain.Resource) *TestDriver {
	t.Helper()

	m := newAppModel(app, open...)
	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting reports whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// List returns the active list view. It fails the test if another view is
// on top.
func (d *TestDriver) List() *listView {
	d.T.Helper()
	m := d.appModel()
	lv, ok := m.activeView().(*listView)
	if !ok {
		d.T.Fatalf("active view is %T, not a list", m.activeView())
	}
	return lv
}

// Login returns the active login view.
func (d *TestDriver) Login() *loginView {
	d.T.Helper()
	m := d.appModel()
	lv, ok := m.activeView().(*loginView)
	if !ok {
		d.T.Fatalf("active view is %T, not login", m.activeView())
	}
	return lv
}

// SubmitLogin runs the login view's store call with c and feeds the result
// back, the way completing the form does.
func (d *TestDriver) SubmitLogin(c credentials) {
	d.T.Helper()
	lv := d.Login()
	d.Send(submitAuth(d.State().App, lv.inst, c)())
}

// Notice returns the active list's current notice text.
func (d *TestDriver) Notice() string {
	d.T.Helper()
	text, _ := d.List().ed.Notice()
	return text
}
