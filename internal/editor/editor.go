// Package editor holds the session-gated list editor shared by every list
// screen: guard the session, load the user's rows, then create, rename and
// delete them, patching local state from each store response.
//
// Mutations come in two halves. Prepare/Begin validates local state and
// returns what the store call needs; Apply folds the store's answer back in.
// The terminal UI runs the store call in between on a separate goroutine.
// The synchronous methods (Create, Save, Delete, Load) chain the halves.
//
// An Editor is not safe for concurrent use, except DismissNotice.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/service"
)

// ErrNotEditing is returned by Save when no row is in edit mode.
var ErrNotEditing = errors.New("no record is being edited")

// FailedSavePolicy decides what happens to edit mode when a save fails.
type FailedSavePolicy int

const (
	// ExitEdit leaves edit mode and discards the draft.
	ExitEdit FailedSavePolicy = iota
	// KeepEditing stays in edit mode with the draft intact.
	KeepEditing
)

// RowState is the per-row lifecycle.
type RowState int

const (
	Viewing RowState = iota
	Editing
	Saving
	Deleting
)

// Options configures an Editor.
type Options struct {
	FailedSave FailedSavePolicy
}

// Editor is the list state of one resource screen.
type Editor struct {
	auth    service.AuthService
	records service.RecordService
	res     domain.Resource
	opts    Options

	user    *domain.User
	loading bool
	loaded  bool
	items   []domain.Record
	input   string
	errMsg  string

	editing bool
	editID  int64
	draft   string
	busy    map[int64]RowState

	noticeMu  sync.Mutex
	notice    string
	noticeSeq uint64
	onNotice  func(seq uint64)
}

// New creates an Editor for the resource served by records.
func New(auth service.AuthService, records service.RecordService, opts Options) *Editor {
	return &Editor{
		auth:    auth,
		records: records,
		res:     records.Resource(),
		opts:    opts,
		busy:    make(map[int64]RowState),
	}
}

// OnNotice registers fn to be called with the sequence number of every new
// success notice, typically to schedule its dismissal.
func (e *Editor) OnNotice(fn func(seq uint64)) {
	e.onNotice = fn
}

func (e *Editor) Resource() domain.Resource { return e.res }

// User returns the guarded user, or nil before a successful Guard.
func (e *Editor) User() *domain.User { return e.user }

// Guard checks for an active session. On failure the returned error wraps
// domain.ErrNoSession and the caller should redirect to sign-in.
func (e *Editor) Guard(ctx context.Context) (domain.User, error) {
	u, err := e.auth.CurrentUser(ctx)
	return e.ApplyGuard(u, err)
}

// ApplyGuard records the outcome of a CurrentUser call.
func (e *Editor) ApplyGuard(u *domain.User, err error) (domain.User, error) {
	if err == nil && (u == nil || u.ID == "") {
		err = domain.ErrNoSession
	}
	if err != nil {
		e.user = nil
		if !errors.Is(err, domain.ErrNoSession) {
			err = fmt.Errorf("%w: %v", domain.ErrNoSession, err)
		}
		return domain.User{}, err
	}
	cp := *u
	e.user = &cp
	return cp, nil
}

// BeginLoad marks the collection as loading and returns the owner filter to
// pass to the store. It fails with domain.ErrNoSession before Guard.
func (e *Editor) BeginLoad() (string, error) {
	if e.user == nil {
		return "", domain.ErrNoSession
	}
	e.loading = true
	e.errMsg = ""
	if e.res.OwnerScoped {
		return e.user.ID, nil
	}
	return "", nil
}

// ApplyLoad replaces the list with the store's rows. On failure the list is
// empty and the store's message is kept.
func (e *Editor) ApplyLoad(recs []domain.Record, err error) error {
	e.loading = false
	e.loaded = true
	e.CancelEdit()
	e.busy = make(map[int64]RowState)
	if err != nil {
		e.items = nil
		e.errMsg = err.Error()
		return domain.FetchError(err)
	}

	e.items = make([]domain.Record, 0, len(recs))
	seen := make(map[int64]bool, len(recs))
	for _, r := range recs {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		e.items = append(e.items, r)
	}
	return nil
}

// Load fetches the user's rows once. Callers run Guard first.
func (e *Editor) Load(ctx context.Context) error {
	owner, err := e.BeginLoad()
	if err != nil {
		return err
	}
	recs, err := e.records.List(ctx, owner)
	return e.ApplyLoad(recs, err)
}

// Loading reports whether the initial fetch is outstanding. Actions are
// refused while it is.
func (e *Editor) Loading() bool { return e.loading }

// Loaded reports whether a fetch has completed, successfully or not.
func (e *Editor) Loaded() bool { return e.loaded }

// Items returns a copy of the list in display order.
func (e *Editor) Items() []domain.Record {
	return append([]domain.Record(nil), e.items...)
}

// Len returns the number of rows.
func (e *Editor) Len() int { return len(e.items) }

// Find returns the row with id.
func (e *Editor) Find(id int64) (domain.Record, bool) {
	if i := e.index(id); i >= 0 {
		return e.items[i], true
	}
	return domain.Record{}, false
}

// Err returns the current error message, or "".
func (e *Editor) Err() string { return e.errMsg }

// Input returns the pending create text.
func (e *Editor) Input() string { return e.input }

// SetInput replaces the pending create text.
func (e *Editor) SetInput(s string) { e.input = s }

// RowState reports the lifecycle state of the row with id.
func (e *Editor) RowState(id int64) RowState {
	if st, ok := e.busy[id]; ok {
		return st
	}
	if e.editing && e.editID == id {
		return Editing
	}
	return Viewing
}

func (e *Editor) ready() bool {
	return e.user != nil && !e.loading
}

// PrepareCreate returns the trimmed input to insert. It reports false, and
// nothing should be sent, for blank input or before the list is ready.
func (e *Editor) PrepareCreate() (domain.Record, bool) {
	display := strings.TrimSpace(e.input)
	if display == "" || !e.ready() {
		return domain.Record{}, false
	}
	e.errMsg = ""
	return domain.Record{Display: display, Owner: e.user.ID}, true
}

// ApplyCreate appends the stored row and clears the input. On failure the
// list and input are left as they were.
func (e *Editor) ApplyCreate(rec domain.Record, err error) error {
	if err != nil {
		e.errMsg = err.Error()
		return domain.MutationError("insert", err)
	}
	if i := e.index(rec.ID); i >= 0 {
		e.items[i] = rec
	} else {
		e.items = append(e.items, rec)
	}
	e.input = ""
	e.setNotice(e.res.Singular + " added successfully!")
	return nil
}

// Create inserts input as a new row. Blank input returns domain.ErrEmptyInput
// without calling the store.
func (e *Editor) Create(ctx context.Context, input string) error {
	e.input = input
	if e.user == nil {
		return domain.ErrNoSession
	}
	rec, ok := e.PrepareCreate()
	if !ok {
		return domain.ErrEmptyInput
	}
	stored, err := e.records.Create(ctx, rec.Display, rec.Owner)
	return e.ApplyCreate(stored, err)
}

// StartEdit puts the row with id in edit mode, abandoning any other draft.
func (e *Editor) StartEdit(id int64) error {
	rec, ok := e.Find(id)
	if !ok {
		return domain.ErrNotFound
	}
	e.editing = true
	e.editID = id
	e.draft = rec.Display
	return nil
}

// Editing returns the ID of the row in edit mode.
func (e *Editor) Editing() (int64, bool) {
	return e.editID, e.editing
}

// Draft returns the edit draft.
func (e *Editor) Draft() string { return e.draft }

// SetDraft replaces the edit draft.
func (e *Editor) SetDraft(s string) { e.draft = s }

// CancelEdit leaves edit mode without calling the store.
func (e *Editor) CancelEdit() {
	e.editing = false
	e.editID = 0
	e.draft = ""
}

// PrepareSave returns the row ID and trimmed draft to send. It reports false
// when nothing is being edited or the draft is blank; edit mode stays on.
func (e *Editor) PrepareSave() (int64, string, bool) {
	if !e.editing || !e.ready() {
		return 0, "", false
	}
	draft := strings.TrimSpace(e.draft)
	if draft == "" {
		return 0, "", false
	}
	e.errMsg = ""
	e.busy[e.editID] = Saving
	return e.editID, draft, true
}

// ApplySave replaces the row with the stored one and leaves edit mode. On
// failure the list is unchanged and edit mode follows the FailedSavePolicy.
func (e *Editor) ApplySave(id int64, rec domain.Record, err error) error {
	delete(e.busy, id)
	if err != nil {
		e.errMsg = err.Error()
		if e.opts.FailedSave == ExitEdit && e.editing && e.editID == id {
			e.CancelEdit()
		}
		return domain.MutationError("update", err)
	}
	if i := e.index(id); i >= 0 {
		e.items[i] = rec
	}
	if e.editing && e.editID == id {
		e.CancelEdit()
	}
	e.setNotice(e.res.Singular + " updated successfully!")
	return nil
}

// Save sends the draft. A blank draft returns domain.ErrEmptyInput and keeps
// edit mode; with no row in edit mode it returns ErrNotEditing.
func (e *Editor) Save(ctx context.Context) error {
	if !e.editing {
		return ErrNotEditing
	}
	if e.user == nil {
		return domain.ErrNoSession
	}
	id, draft, ok := e.PrepareSave()
	if !ok {
		return domain.ErrEmptyInput
	}
	rec, err := e.records.Rename(ctx, id, draft)
	return e.ApplySave(id, rec, err)
}

// BeginDelete marks the row with id as deleting.
func (e *Editor) BeginDelete(id int64) error {
	if e.user == nil {
		return domain.ErrNoSession
	}
	if e.index(id) < 0 {
		return domain.ErrNotFound
	}
	e.errMsg = ""
	e.busy[id] = Deleting
	return nil
}

// ApplyDelete removes the row once the store confirms. On failure the row
// stays and the store's message is kept.
func (e *Editor) ApplyDelete(id int64, err error) error {
	delete(e.busy, id)
	if err != nil {
		e.errMsg = err.Error()
		return domain.MutationError("delete", err)
	}
	if i := e.index(id); i >= 0 {
		e.items = append(e.items[:i:i], e.items[i+1:]...)
	}
	if e.editing && e.editID == id {
		e.CancelEdit()
	}
	e.setNotice(e.res.Singular + " deleted successfully!")
	return nil
}

// Delete removes the row with id.
func (e *Editor) Delete(ctx context.Context, id int64) error {
	if err := e.BeginDelete(id); err != nil {
		return err
	}
	return e.ApplyDelete(id, e.records.Delete(ctx, id))
}

// Notice returns the current success notice and its sequence number.
func (e *Editor) Notice() (string, uint64) {
	e.noticeMu.Lock()
	defer e.noticeMu.Unlock()
	return e.notice, e.noticeSeq
}

// DismissNotice clears the notice if seq is still the latest one.
func (e *Editor) DismissNotice(seq uint64) bool {
	e.noticeMu.Lock()
	defer e.noticeMu.Unlock()
	if seq != e.noticeSeq || e.notice == "" {
		return false
	}
	e.notice = ""
	return true
}

func (e *Editor) setNotice(text string) {
	e.noticeMu.Lock()
	e.noticeSeq++
	e.notice = text
	seq := e.noticeSeq
	e.noticeMu.Unlock()

	if e.onNotice != nil {
		e.onNotice(seq)
	}
}

func (e *Editor) index(id int64) int {
	for i, r := range e.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}
