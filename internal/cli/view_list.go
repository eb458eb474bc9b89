package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/millennium/internal/cli/formatter"
	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/editor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Store results for one list view instance.
type (
	guardResultMsg struct {
		inst int
		user *domain.User
		err  error
	}
	loadResultMsg struct {
		inst int
		recs []domain.Record
		err  error
	}
	createResultMsg struct {
		inst int
		rec  domain.Record
		err  error
	}
	saveResultMsg struct {
		inst int
		id   int64
		rec  domain.Record
		err  error
	}
	deleteResultMsg struct {
		inst int
		id   int64
		err  error
	}
)

func (m guardResultMsg) target() int  { return m.inst }
func (m loadResultMsg) target() int   { return m.inst }
func (m createResultMsg) target() int { return m.inst }
func (m saveResultMsg) target() int   { return m.inst }
func (m deleteResultMsg) target() int { return m.inst }

type listFocus int

const (
	focusInput listFocus = iota
	focusRows
)

// listView is the session-gated editor screen for one resource. Store calls
// run as Cmds bound to the view's context; their results are folded into the
// editor when they arrive.
type listView struct {
	state *SharedState
	inst  int
	res   domain.Resource
	ed    *editor.Editor

	ctx     context.Context
	cancel  context.CancelFunc
	notices *editor.NoticeTimer

	input    textinput.Model
	draft    textinput.Model
	spin     spinner.Model
	focus    listFocus
	cursor   int
	creating bool

	redirected bool
}

func newListView(state *SharedState, res domain.Resource) *listView {
	app := state.App
	ctx, cancel := context.WithCancel(context.Background())

	v := &listView{
		state:  state,
		inst:   state.nextInstance(),
		res:    res,
		ed:     app.newEditor(res),
		ctx:    ctx,
		cancel: cancel,
	}

	ed := v.ed
	v.notices = editor.NewNoticeTimer(ctx, app.noticeDelay(), func(seq uint64) bool {
		ok := ed.DismissNotice(seq)
		if ok {
			state.Redraw()
		}
		return ok
	})
	ed.OnNotice(v.notices.Schedule)

	v.input = textinput.New()
	v.input.Placeholder = "New " + res.Noun()
	v.input.Prompt = "+ "
	v.input.CharLimit = 200
	v.input.Focus()

	v.draft = textinput.New()
	v.draft.Prompt = ""
	v.draft.CharLimit = 200

	v.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	v.spin.Style = formatter.StylePurple

	return v
}

func (v *listView) ID() ViewID    { return ViewList }
func (v *listView) Title() string { return v.res.Plural }
func (v *listView) Instance() int { return v.inst }

func (v *listView) CapturesInput() bool {
	_, editing := v.ed.Editing()
	return editing || v.focus == focusInput
}

// Close cancels in-flight store calls and pending notice timers.
func (v *listView) Close() {
	v.cancel()
}

func (v *listView) ShortHelp() []key.Binding {
	if _, editing := v.ed.Editing(); editing {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	if v.focus == focusInput {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "rows")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "add")),
	}
}

func (v *listView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, v.guard())
}

// ── store calls ──────────────────────────────────────────────────────────────

func (v *listView) guard() tea.Cmd {
	ctx, auth, inst := v.ctx, v.state.App.Services.Auth, v.inst
	return func() tea.Msg {
		u, err := auth.CurrentUser(ctx)
		return guardResultMsg{inst: inst, user: u, err: err}
	}
}

func (v *listView) load() tea.Cmd {
	owner, err := v.ed.BeginLoad()
	if err != nil {
		return nil
	}
	ctx, svc, inst := v.ctx, v.state.App.Services.Records(v.res), v.inst
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		recs, err := svc.List(ctx, owner)
		return loadResultMsg{inst: inst, recs: recs, err: err}
	})
}

func (v *listView) create() tea.Cmd {
	v.ed.SetInput(v.input.Value())
	rec, ok := v.ed.PrepareCreate()
	if !ok {
		return nil
	}
	v.creating = true
	ctx, svc, inst := v.ctx, v.state.App.Services.Records(v.res), v.inst
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		stored, err := svc.Create(ctx, rec.Display, rec.Owner)
		return createResultMsg{inst: inst, rec: stored, err: err}
	})
}

func (v *listView) save() tea.Cmd {
	v.ed.SetDraft(v.draft.Value())
	id, display, ok := v.ed.PrepareSave()
	if !ok {
		return nil
	}
	ctx, svc, inst := v.ctx, v.state.App.Services.Records(v.res), v.inst
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		rec, err := svc.Rename(ctx, id, display)
		return saveResultMsg{inst: inst, id: id, rec: rec, err: err}
	})
}

func (v *listView) remove(id int64) tea.Cmd {
	if err := v.ed.BeginDelete(id); err != nil {
		return nil
	}
	ctx, svc, inst := v.ctx, v.state.App.Services.Records(v.res), v.inst
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		return deleteResultMsg{inst: inst, id: id, err: svc.Delete(ctx, id)}
	})
}

// busy reports whether any store call is outstanding.
func (v *listView) busy() bool {
	if v.ed.Loading() || v.creating {
		return true
	}
	for _, r := range v.ed.Items() {
		if st := v.ed.RowState(r.ID); st == editor.Saving || st == editor.Deleting {
			return true
		}
	}
	return false
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *listView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case guardResultMsg:
		if _, err := v.ed.ApplyGuard(msg.user, msg.err); err != nil {
			return v, v.redirect()
		}
		return v, v.load()

	case loadResultMsg:
		_ = v.ed.ApplyLoad(msg.recs, msg.err)
		v.clampCursor()
		return v, nil

	case createResultMsg:
		v.creating = false
		if err := v.ed.ApplyCreate(msg.rec, msg.err); err == nil {
			v.input.SetValue(v.ed.Input())
		}
		return v, nil

	case saveResultMsg:
		_ = v.ed.ApplySave(msg.id, msg.rec, msg.err)
		if _, editing := v.ed.Editing(); !editing {
			v.draft.Blur()
		}
		return v, nil

	case deleteResultMsg:
		_ = v.ed.ApplyDelete(msg.id, msg.err)
		v.clampCursor()
		return v, nil

	case spinner.TickMsg:
		if !v.busy() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}

	// Cursor blinks and other input plumbing.
	var cmd tea.Cmd
	if _, editing := v.ed.Editing(); editing {
		v.draft, cmd = v.draft.Update(msg)
	} else {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

// redirect sends an unauthenticated user to sign-in once. Signing in comes
// back to a fresh list for the same resource.
func (v *listView) redirect() tea.Cmd {
	if v.redirected {
		return nil
	}
	v.redirected = true
	state, res := v.state, v.res
	return replaceView(newLoginView(state, func() View { return newListView(state, res) }))
}

func (v *listView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.ed.User() == nil || v.ed.Loading() {
		if msg.Type == tea.KeyEsc {
			return popView()
		}
		return nil
	}

	if id, editing := v.ed.Editing(); editing {
		return v.handleEditKey(id, msg)
	}
	if v.focus == focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleRowKey(msg)
}

func (v *listView) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		if v.creating {
			return nil
		}
		return v.create()
	case tea.KeyTab, tea.KeyDown:
		if v.ed.Len() > 0 {
			v.focus = focusRows
			v.input.Blur()
		}
		return nil
	case tea.KeyEsc:
		return popView()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.ed.SetInput(v.input.Value())
	return cmd
}

func (v *listView) handleRowKey(msg tea.KeyMsg) tea.Cmd {
	items := v.ed.Items()
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(items)-1 {
			v.cursor++
		}
	case "enter", "e":
		if v.cursor < len(items) && v.ed.RowState(items[v.cursor].ID) == editor.Viewing {
			if err := v.ed.StartEdit(items[v.cursor].ID); err == nil {
				v.draft.SetValue(v.ed.Draft())
				v.draft.CursorEnd()
				return v.draft.Focus()
			}
		}
	case "d", "x":
		if v.cursor < len(items) && v.ed.RowState(items[v.cursor].ID) == editor.Viewing {
			return v.remove(items[v.cursor].ID)
		}
	case "r":
		if !v.busy() {
			return v.load()
		}
	case "tab", "a":
		v.focus = focusInput
		return v.input.Focus()
	}
	return nil
}

func (v *listView) handleEditKey(id int64, msg tea.KeyMsg) tea.Cmd {
	if v.ed.RowState(id) == editor.Saving {
		return nil
	}
	switch msg.Type {
	case tea.KeyEnter:
		return v.save()
	case tea.KeyEsc:
		v.ed.CancelEdit()
		v.draft.Blur()
		return nil
	}

	var cmd tea.Cmd
	v.draft, cmd = v.draft.Update(msg)
	v.ed.SetDraft(v.draft.Value())
	return cmd
}

func (v *listView) clampCursor() {
	v.cursor = max(0, min(v.cursor, v.ed.Len()-1))
	if v.ed.Len() == 0 && v.focus == focusRows {
		v.focus = focusInput
		v.input.Focus()
	}
}

// ── view ─────────────────────────────────────────────────────────────────────

func (v *listView) View() string {
	var b strings.Builder
	b.WriteString("\n")

	if v.ed.User() == nil || (v.ed.Loading() && !v.ed.Loaded()) {
		b.WriteString("  " + v.spin.View() + " " + formatter.Dim("Loading "+strings.ToLower(v.res.Plural)+"...") + "\n")
		return b.String()
	}

	b.WriteString("  " + formatter.Bold(formatter.Count(v.res, v.ed.Len())))
	if v.busy() {
		b.WriteString(" " + v.spin.View())
	}
	b.WriteString("\n")

	if msg := v.ed.Err(); msg != "" {
		b.WriteString("  " + formatter.Error(msg) + "\n")
	}
	if notice, _ := v.ed.Notice(); notice != "" {
		b.WriteString("  " + formatter.Success(notice) + "\n")
	}
	b.WriteString("\n  " + v.input.View() + "\n\n")

	items := v.ed.Items()
	if len(items) == 0 {
		b.WriteString("  " + formatter.EmptyState(v.res) + "\n")
		return b.String()
	}

	width := 0
	for _, r := range items {
		width = max(width, len(strconv.FormatInt(r.ID, 10)))
	}
	for i, r := range items {
		b.WriteString(v.renderRow(i, r, width))
	}
	return b.String()
}

func (v *listView) renderRow(i int, r domain.Record, idWidth int) string {
	cursor := "  "
	style := formatter.StyleFg
	if v.focus == focusRows && i == v.cursor {
		cursor = formatter.StyleGreen.Render("▸ ")
		style = formatter.StyleBold
	}

	id := formatter.StyleGreen.Render(fmt.Sprintf("%*d", idWidth, r.ID))
	text := style.Render(r.Display)
	tag := ""
	switch v.ed.RowState(r.ID) {
	case editor.Editing:
		text = v.draft.View()
	case editor.Saving:
		text = formatter.Dim(v.ed.Draft())
		tag = formatter.StyleYellow.Render("saving…")
	case editor.Deleting:
		tag = formatter.StyleRed.Render("deleting…")
	}

	line := "  " + cursor + id + "  " + text
	if tag != "" {
		line += "  " + tag
	}
	return line + "\n"
}
