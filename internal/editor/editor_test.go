package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/service"
	"github.com/alexanderramin/millennium/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(t *testing.T, fake *testutil.FakeBackend, res domain.Resource, opts Options) *Editor {
	t.Helper()
	svcs := service.NewServices(fake)
	return New(svcs.Auth, svcs.Records(res), opts)
}

// loadedEditor returns a guarded, loaded tasks editor over ["Buy milk", "Pay rent"].
func loadedEditor(t *testing.T, opts Options) (*Editor, *testutil.FakeBackend, []domain.Record) {
	t.Helper()
	fake, u := testutil.SignedInFakeBackend("ada@example.com")
	seeded := fake.Seed(domain.Tasks, u.ID, "Buy milk", "Pay rent")
	ed := newEditor(t, fake, domain.Tasks, opts)
	ctx := context.Background()
	_, err := ed.Guard(ctx)
	require.NoError(t, err)
	require.NoError(t, ed.Load(ctx))
	return ed, fake, seeded
}

func displays(recs []domain.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Display
	}
	return out
}

func TestGuard_NoSession(t *testing.T) {
	fake := testutil.NewFakeBackend()
	ed := newEditor(t, fake, domain.Tasks, Options{})

	_, err := ed.Guard(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindSession, kind)
	assert.Nil(t, ed.User())

	assert.ErrorIs(t, ed.Load(context.Background()), domain.ErrNoSession)
	assert.Zero(t, fake.Calls(testutil.OpSelect), "no fetch without a session")
}

func TestGuard_AuthErrorIsSessionError(t *testing.T) {
	fake, _ := testutil.SignedInFakeBackend("ada@example.com")
	fake.FailOn(testutil.OpCurrentUser, errors.New("network down"))
	ed := newEditor(t, fake, domain.Tasks, Options{})

	_, err := ed.Guard(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
	assert.Contains(t, err.Error(), "network down")
}

func TestLoad_LengthMatchesStore(t *testing.T) {
	ed, fake, _ := loadedEditor(t, Options{})

	assert.Equal(t, len(fake.Rows(domain.Tasks)), ed.Len())
	assert.Equal(t, []string{"Buy milk", "Pay rent"}, displays(ed.Items()))
	assert.True(t, ed.Loaded())
	assert.False(t, ed.Loading())
	assert.Empty(t, ed.Err())
}

func TestLoad_OnlyOwnRows(t *testing.T) {
	fake, u := testutil.SignedInFakeBackend("ada@example.com")
	fake.Seed(domain.Projects, "someone-else", "Theirs")
	fake.Seed(domain.Projects, u.ID, "Mine")
	ed := newEditor(t, fake, domain.Projects, Options{})
	ctx := context.Background()

	_, err := ed.Guard(ctx)
	require.NoError(t, err)
	require.NoError(t, ed.Load(ctx))
	assert.Equal(t, []string{"Mine"}, displays(ed.Items()))
}

func TestLoad_Failure(t *testing.T) {
	fake, _ := testutil.SignedInFakeBackend("ada@example.com")
	fake.FailOn(testutil.OpSelect, errors.New(`relation "public.tasks" does not exist`))
	ed := newEditor(t, fake, domain.Tasks, Options{})
	ctx := context.Background()

	_, err := ed.Guard(ctx)
	require.NoError(t, err)
	err = ed.Load(ctx)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindFetch, kind)
	assert.Zero(t, ed.Len())
	assert.Equal(t, `relation "public.tasks" does not exist`, ed.Err())
	assert.Equal(t, 1, fake.Calls(testutil.OpSelect), "no automatic retry")
}

func TestApplyLoad_DropsDuplicateIDs(t *testing.T) {
	ed, _, _ := loadedEditor(t, Options{})
	require.NoError(t, ed.ApplyLoad([]domain.Record{{ID: 1, Display: "a"}, {ID: 1, Display: "b"}, {ID: 2, Display: "c"}}, nil))
	assert.Equal(t, []string{"a", "c"}, displays(ed.Items()))
}

func TestCreate_AppendsTrimmedRecord(t *testing.T) {
	ed, _, seeded := loadedEditor(t, Options{})

	require.NoError(t, ed.Create(context.Background(), "  Call Alice  "))

	items := ed.Items()
	require.Len(t, items, 3)
	last := items[2]
	assert.Equal(t, "Call Alice", last.Display)
	for _, r := range seeded {
		assert.NotEqual(t, r.ID, last.ID)
	}
	assert.Empty(t, ed.Input(), "input cleared on success")
	notice, _ := ed.Notice()
	assert.Equal(t, "Task added successfully!", notice)
}

func TestCreate_BlankIsNoop(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		ed, fake, _ := loadedEditor(t, Options{})
		before := ed.Items()

		err := ed.Create(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
		assert.Zero(t, fake.Calls(testutil.OpInsert), "input %q", input)
		assert.Equal(t, before, ed.Items())
	}
}

func TestCreate_FailureKeepsStateAndInput(t *testing.T) {
	ed, fake, _ := loadedEditor(t, Options{})
	fake.FailOn(testutil.OpInsert, errors.New("new row violates row-level security policy"))
	before := ed.Items()

	err := ed.Create(context.Background(), "Call Alice")
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindMutation, kind)
	assert.Equal(t, before, ed.Items())
	assert.Equal(t, "Call Alice", ed.Input())
	assert.Equal(t, "new row violates row-level security policy", ed.Err())
	notice, _ := ed.Notice()
	assert.Empty(t, notice)
}

func TestCreate_ClearsPreviousError(t *testing.T) {
	ed, fake, _ := loadedEditor(t, Options{})
	fake.FailOn(testutil.OpInsert, errors.New("boom"))
	require.Error(t, ed.Create(context.Background(), "x"))
	require.NotEmpty(t, ed.Err())

	fake.FailOn(testutil.OpInsert, nil)
	require.NoError(t, ed.Create(context.Background(), "x"))
	assert.Empty(t, ed.Err())
}

func TestSave_ReplacesExactlyOneRecord(t *testing.T) {
	ed, fake, seeded := loadedEditor(t, Options{})
	fake.ServerDisplay = func(s string) string { return s + " (edited)" }
	target := seeded[1]

	require.NoError(t, ed.StartEdit(target.ID))
	assert.Equal(t, "Pay rent", ed.Draft())
	assert.Equal(t, Editing, ed.RowState(target.ID))
	ed.SetDraft("Pay rent today")
	require.NoError(t, ed.Save(context.Background()))

	var matches []domain.Record
	for _, r := range ed.Items() {
		if r.ID == target.ID {
			matches = append(matches, r)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, "Pay rent today (edited)", matches[0].Display, "server value wins")
	_, editing := ed.Editing()
	assert.False(t, editing)
	assert.Equal(t, Viewing, ed.RowState(target.ID))
	notice, _ := ed.Notice()
	assert.Equal(t, "Task updated successfully!", notice)
}

func TestSave_EmptyDraftIsNoop(t *testing.T) {
	ed, fake, seeded := loadedEditor(t, Options{})
	before := ed.Items()

	require.NoError(t, ed.StartEdit(seeded[1].ID))
	ed.SetDraft("")
	err := ed.Save(context.Background())

	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Zero(t, fake.Calls(testutil.OpUpdate))
	assert.Equal(t, before, ed.Items())
	id, editing := ed.Editing()
	assert.True(t, editing, "edit mode stays active")
	assert.Equal(t, seeded[1].ID, id)
}

func TestSave_NotEditing(t *testing.T) {
	ed, _, _ := loadedEditor(t, Options{})
	assert.ErrorIs(t, ed.Save(context.Background()), ErrNotEditing)
}

func TestSave_FailurePolicies(t *testing.T) {
	tests := []struct {
		name        string
		policy      FailedSavePolicy
		wantEditing bool
	}{
		{"exit edit", ExitEdit, false},
		{"keep editing", KeepEditing, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, fake, seeded := loadedEditor(t, Options{FailedSave: tt.policy})
			fake.FailOn(testutil.OpUpdate, errors.New("value too long for type character varying(80)"))
			before := ed.Items()

			require.NoError(t, ed.StartEdit(seeded[0].ID))
			ed.SetDraft("Buy oat milk")
			err := ed.Save(context.Background())

			kind, _ := domain.KindOf(err)
			assert.Equal(t, domain.KindMutation, kind)
			assert.Equal(t, before, ed.Items())
			assert.Equal(t, "value too long for type character varying(80)", ed.Err())
			_, editing := ed.Editing()
			assert.Equal(t, tt.wantEditing, editing)
			if tt.wantEditing {
				assert.Equal(t, "Buy oat milk", ed.Draft())
			}
		})
	}
}

func TestStartEdit_SwitchAbandonsDraft(t *testing.T) {
	ed, fake, seeded := loadedEditor(t, Options{})

	require.NoError(t, ed.StartEdit(seeded[0].ID))
	ed.SetDraft("unsaved")
	require.NoError(t, ed.StartEdit(seeded[1].ID))

	id, editing := ed.Editing()
	assert.True(t, editing)
	assert.Equal(t, seeded[1].ID, id)
	assert.Equal(t, "Pay rent", ed.Draft())
	assert.Equal(t, Viewing, ed.RowState(seeded[0].ID))
	assert.Zero(t, fake.Calls(testutil.OpUpdate))
}

func TestStartEdit_UnknownID(t *testing.T) {
	ed, _, _ := loadedEditor(t, Options{})
	assert.ErrorIs(t, ed.StartEdit(999), domain.ErrNotFound)
}

func TestCancelEdit(t *testing.T) {
	ed, fake, seeded := loadedEditor(t, Options{})
	before := ed.Items()

	require.NoError(t, ed.StartEdit(seeded[0].ID))
	ed.SetDraft("changed")
	ed.CancelEdit()

	_, editing := ed.Editing()
	assert.False(t, editing)
	assert.Equal(t, before, ed.Items())
	assert.Zero(t, fake.Calls(testutil.OpUpdate))
}

func TestDelete_Removes(t *testing.T) {
	ed, _, seeded := loadedEditor(t, Options{})

	require.NoError(t, ed.Delete(context.Background(), seeded[0].ID))

	_, found := ed.Find(seeded[0].ID)
	assert.False(t, found)
	assert.Equal(t, []string{"Pay rent"}, displays(ed.Items()))
	notice, _ := ed.Notice()
	assert.Equal(t, "Task deleted successfully!", notice)
}

func TestDelete_ClearsEditOfDeletedRow(t *testing.T) {
	ed, _, seeded := loadedEditor(t, Options{})
	require.NoError(t, ed.StartEdit(seeded[0].ID))

	require.NoError(t, ed.Delete(context.Background(), seeded[0].ID))
	_, editing := ed.Editing()
	assert.False(t, editing)
}

func TestDelete_FailureKeepsRecord(t *testing.T) {
	ed, fake, seeded := loadedEditor(t, Options{})
	fake.FailOn(testutil.OpDelete, errors.New("update or delete on table \"tasks\" violates foreign key constraint"))
	before := ed.Items()

	err := ed.Delete(context.Background(), seeded[1].ID)
	require.Error(t, err)

	_, found := ed.Find(seeded[1].ID)
	assert.True(t, found)
	assert.Equal(t, before, ed.Items())
	assert.Equal(t, "update or delete on table \"tasks\" violates foreign key constraint", ed.Err())
	assert.Equal(t, Viewing, ed.RowState(seeded[1].ID))
}

func TestDelete_UnknownIDSkipsStore(t *testing.T) {
	ed, fake, _ := loadedEditor(t, Options{})
	assert.ErrorIs(t, ed.Delete(context.Background(), 999), domain.ErrNotFound)
	assert.Zero(t, fake.Calls(testutil.OpDelete))
}

func TestSplitOps_RowStatesWhileInFlight(t *testing.T) {
	ed, _, seeded := loadedEditor(t, Options{})

	require.NoError(t, ed.BeginDelete(seeded[0].ID))
	assert.Equal(t, Deleting, ed.RowState(seeded[0].ID))

	require.NoError(t, ed.StartEdit(seeded[1].ID))
	ed.SetDraft("Pay rent now")
	id, draft, ok := ed.PrepareSave()
	require.True(t, ok)
	assert.Equal(t, seeded[1].ID, id)
	assert.Equal(t, "Pay rent now", draft)
	assert.Equal(t, Saving, ed.RowState(id))

	require.NoError(t, ed.ApplyDelete(seeded[0].ID, nil))
	require.NoError(t, ed.ApplySave(id, domain.Record{ID: id, Display: draft, Owner: seeded[1].Owner}, nil))
	assert.Equal(t, []string{"Pay rent now"}, displays(ed.Items()))
}

func TestSplitOps_ActionsGatedByLoad(t *testing.T) {
	fake, _ := testutil.SignedInFakeBackend("ada@example.com")
	ed := newEditor(t, fake, domain.Tasks, Options{})
	_, err := ed.Guard(context.Background())
	require.NoError(t, err)

	_, err = ed.BeginLoad()
	require.NoError(t, err)
	ed.SetInput("too early")
	_, ok := ed.PrepareCreate()
	assert.False(t, ok)

	require.NoError(t, ed.ApplyLoad(nil, nil))
	_, ok = ed.PrepareCreate()
	assert.True(t, ok)
}

// Mutation failures leave the list exactly as it was.
func TestMutationFailures_ListUnchanged(t *testing.T) {
	storeErr := errors.New("permission denied")
	ops := map[string]func(ed *Editor, seeded []domain.Record) error{
		testutil.OpInsert: func(ed *Editor, _ []domain.Record) error {
			return ed.Create(context.Background(), "new")
		},
		testutil.OpUpdate: func(ed *Editor, seeded []domain.Record) error {
			if err := ed.StartEdit(seeded[0].ID); err != nil {
				return err
			}
			ed.SetDraft("renamed")
			return ed.Save(context.Background())
		},
		testutil.OpDelete: func(ed *Editor, seeded []domain.Record) error {
			return ed.Delete(context.Background(), seeded[0].ID)
		},
	}
	for op, run := range ops {
		t.Run(op, func(t *testing.T) {
			ed, fake, seeded := loadedEditor(t, Options{})
			fake.FailOn(op, storeErr)
			before := ed.Items()

			err := run(ed, seeded)
			assert.ErrorIs(t, err, storeErr)
			assert.Equal(t, before, ed.Items())
			assert.Equal(t, storeErr.Error(), ed.Err())
		})
	}
}

func TestEditor_LocalBackend(t *testing.T) {
	backend := testutil.NewLocalBackend(t)
	ctx := context.Background()
	_, err := backend.Auth().SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	svcs := service.NewServices(backend)
	ed := New(svcs.Auth, svcs.Records(domain.Projects), Options{})
	_, err = ed.Guard(ctx)
	require.NoError(t, err)
	require.NoError(t, ed.Load(ctx))
	assert.Zero(t, ed.Len())

	require.NoError(t, ed.Create(ctx, "Thesis"))
	rec := ed.Items()[0]
	require.NoError(t, ed.StartEdit(rec.ID))
	ed.SetDraft("Dissertation")
	require.NoError(t, ed.Save(ctx))
	assert.Equal(t, []string{"Dissertation"}, displays(ed.Items()))

	fresh := New(svcs.Auth, svcs.Records(domain.Projects), Options{})
	_, err = fresh.Guard(ctx)
	require.NoError(t, err)
	require.NoError(t, fresh.Load(ctx))
	assert.Equal(t, ed.Items(), fresh.Items(), "local state matches the store")

	require.NoError(t, ed.Delete(ctx, rec.ID))
	assert.Zero(t, ed.Len())
}
