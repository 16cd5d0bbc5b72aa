package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roster/internal/async"
	"github.com/five82/roster/internal/form"
	"github.com/five82/roster/internal/forms"
	"github.com/five82/roster/internal/placeholder"
)

// formController is the untyped view of a form.Form the editor drives.
// Field names always come from fields(), so typed lookups cannot miss.
type formController interface {
	fields() []fieldSpec
	value(name string) string
	errorFor(name string) string
	touched(name string) bool
	setValue(name, value string)
	setTouched(name string)
	isValid() bool
	isSubmitting() bool
	submit(ctx context.Context) form.Outcome
	reset()
}

type fieldSpec struct {
	name string
	info forms.Field
}

// typedForm adapts a form.Form over any field type.
type typedForm[F ~string] struct {
	form *form.Form[F]
	info map[F]forms.Field
}

func (t typedForm[F]) fields() []fieldSpec {
	out := make([]fieldSpec, 0, len(t.form.Fields()))
	for _, f := range t.form.Fields() {
		out = append(out, fieldSpec{name: string(f), info: t.info[f]})
	}
	return out
}

func (t typedForm[F]) value(name string) string    { return t.form.Value(F(name)) }
func (t typedForm[F]) errorFor(name string) string { return t.form.Error(F(name)) }
func (t typedForm[F]) touched(name string) bool    { return t.form.Touched(F(name)) }
func (t typedForm[F]) setValue(name, value string) { _ = t.form.SetValue(F(name), value) }
func (t typedForm[F]) setTouched(name string)      { _ = t.form.SetTouched(F(name)) }
func (t typedForm[F]) isValid() bool               { return t.form.IsValid() }
func (t typedForm[F]) isSubmitting() bool          { return t.form.IsSubmitting() }
func (t typedForm[F]) reset()                      { t.form.Reset() }

func (t typedForm[F]) submit(ctx context.Context) form.Outcome {
	return t.form.HandleSubmit(ctx)
}

// savedBox receives the entity a successful submit produced. It is written
// and read on the goroutine running the submit.
type savedBox struct {
	value any
}

type editorKind int

const (
	editorUser editorKind = iota
	editorPost
	editorComment
)

// editorState holds the form view.
type editorState struct {
	kind      editorKind
	title     string
	ctrl      formController
	saved     *savedBox
	specs     []fieldSpec
	inputs    []textinput.Model
	focus     int
	returnTo  View
	submitErr string
	// pending is set when a submit command is issued and cleared when its
	// outcome arrives, so a second ctrl+s cannot queue another submit.
	pending bool
}

// busy reports whether a submit is queued or running.
func (e editorState) busy() bool {
	return e.pending || (e.ctrl != nil && e.ctrl.isSubmitting())
}

func newEditor(kind editorKind, title string, ctrl formController, saved *savedBox, returnTo View) editorState {
	e := editorState{
		kind:     kind,
		title:    title,
		ctrl:     ctrl,
		saved:    saved,
		specs:    ctrl.fields(),
		returnTo: returnTo,
	}
	e.inputs = make([]textinput.Model, len(e.specs))
	for i, spec := range e.specs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = spec.info.Placeholder
		ti.SetValue(ctrl.value(spec.name))
		e.inputs[i] = ti
	}
	return e
}

// focusField moves focus to field i and returns the cursor blink command.
func (e *editorState) focusField(i int) tea.Cmd {
	if len(e.inputs) == 0 {
		return nil
	}
	i = (i + len(e.inputs)) % len(e.inputs)
	for j := range e.inputs {
		e.inputs[j].Blur()
	}
	e.focus = i
	return e.inputs[i].Focus()
}

// reload copies the controller's values back into the inputs.
func (e *editorState) reload() {
	for i, spec := range e.specs {
		e.inputs[i].SetValue(e.ctrl.value(spec.name))
	}
}

func (m Model) openEditor(e editorState, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.log.WithError(err).Error("build form")
		m.setFlash("Cannot open form: "+err.Error(), true)
		return m, nil
	}
	m.editor = e
	m.currentView = ViewForm
	m.resizeEditor()
	return m, m.editor.focusField(0)
}

// openUserEditor opens the create form when user is nil and the edit form
// otherwise.
func (m Model) openUserEditor(user *placeholder.User, returnTo View) (tea.Model, tea.Cmd) {
	box := &savedBox{}
	f, err := forms.NewUserForm(user, m.api, func(u placeholder.User) { box.value = u }, m.log)
	if err != nil {
		return m.openEditor(editorState{}, err)
	}
	title := "New user"
	if user != nil {
		title = fmt.Sprintf("Edit %s", user.Name)
	}
	ctrl := typedForm[forms.UserField]{form: f, info: forms.UserFieldInfo}
	return m.openEditor(newEditor(editorUser, title, ctrl, box, returnTo), nil)
}

func (m Model) openPostEditor(post *placeholder.Post) (tea.Model, tea.Cmd) {
	box := &savedBox{}
	f, err := forms.NewPostForm(post, m.detail.user.ID, m.api, func(p placeholder.Post) { box.value = p }, m.log)
	if err != nil {
		return m.openEditor(editorState{}, err)
	}
	title := fmt.Sprintf("New post by %s", m.detail.user.Name)
	if post != nil {
		title = fmt.Sprintf("Edit post #%d", post.ID)
	}
	ctrl := typedForm[forms.PostField]{form: f, info: forms.PostFieldInfo}
	return m.openEditor(newEditor(editorPost, title, ctrl, box, ViewDetails), nil)
}

func (m Model) openCommentEditor(post placeholder.Post) (tea.Model, tea.Cmd) {
	box := &savedBox{}
	f, err := forms.NewCommentForm(post.ID, m.api, func(c placeholder.Comment) { box.value = c }, m.log)
	if err != nil {
		return m.openEditor(editorState{}, err)
	}
	title := fmt.Sprintf("Comment on %q", truncate(post.Title, 40))
	ctrl := typedForm[forms.CommentField]{form: f, info: forms.CommentFieldInfo}
	return m.openEditor(newEditor(editorComment, title, ctrl, box, ViewDetails), nil)
}

func (m *Model) resizeEditor() {
	width := max(m.width-8, 10)
	for i := range m.editor.inputs {
		m.editor.inputs[i].Width = width
	}
}

// handleEditorKey processes keyboard input for the form view.
func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.editor
	if e.ctrl == nil {
		m.navigate(ViewUsers)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeEditor()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if e.busy() || !e.ctrl.isValid() {
			return m, nil
		}
		e.submitErr = ""
		e.pending = true
		return m, submitCmd(m.ctx, e.ctrl, e.saved)

	case key.Matches(msg, m.keys.ResetForm):
		if e.busy() {
			return m, nil
		}
		e.ctrl.reset()
		e.reload()
		e.submitErr = ""
		return m, e.focusField(0)

	case key.Matches(msg, m.keys.NextField):
		e.ctrl.setTouched(e.specs[e.focus].name)
		return m, e.focusField(e.focus + 1)

	case key.Matches(msg, m.keys.PrevField):
		e.ctrl.setTouched(e.specs[e.focus].name)
		return m, e.focusField(e.focus - 1)
	}

	before := e.inputs[e.focus].Value()
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	if after := e.inputs[e.focus].Value(); after != before {
		e.ctrl.setValue(e.specs[e.focus].name, after)
	}
	return m, cmd
}

// closeEditor leaves the form, returning to details when a user is open.
func (m *Model) closeEditor() {
	target := m.editor.returnTo
	if target == ViewDetails && m.detail.user.ID == 0 {
		target = ViewUsers
	}
	m.editor = editorState{}
	m.navigate(target)
}

func (m Model) handleSubmitted(msg formSubmittedMsg) (tea.Model, tea.Cmd) {
	if m.currentView != ViewForm || m.editor.ctrl == nil {
		return m, nil
	}
	m.editor.pending = false
	switch msg.outcome.Status {
	case form.OutcomeInvalid:
		m.editor.submitErr = ""
		return m, nil
	case form.OutcomeBusy:
		return m, nil
	case form.OutcomeFailed:
		m.editor.submitErr = async.Message(msg.outcome.Err)
		return m, nil
	}

	switch saved := msg.saved.(type) {
	case placeholder.User:
		if saved.ID == m.detail.user.ID {
			saved = keepProfile(m.detail.user, saved)
		}
		m.editor = editorState{}
		m.log.WithField("user_id", saved.ID).Info("user saved")
		next, cmd := m.openDetails(saved)
		nm := next.(Model)
		nm.setFlash(fmt.Sprintf("Saved %s", saved.Name), false)
		return nm, cmd
	case placeholder.Post:
		m.log.WithField("post_id", saved.ID).Info("post saved")
		m.closeEditor()
		m.setFlash(fmt.Sprintf("Saved post #%d", saved.ID), false)
	case placeholder.Comment:
		m.log.WithField("comment_id", saved.ID).Info("comment saved")
		m.closeEditor()
		m.setFlash("Comment added", false)
	default:
		m.closeEditor()
	}
	return m, nil
}

// renderEditor renders the form view.
func (m Model) renderEditor() string {
	styles := m.theme.Styles()
	e := m.editor
	if e.ctrl == nil {
		return ""
	}

	var lines []string
	for i, spec := range e.specs {
		label := spec.info.Label
		if label == "" {
			label = spec.name
		}
		labelStyle := styles.MutedText
		if i == e.focus {
			labelStyle = styles.AccentText.Bold(true)
		}
		header := labelStyle.Render(label)
		if spec.info.Limit > 0 {
			left := forms.Remaining(spec.info.Limit, e.inputs[i].Value())
			counter := styles.FaintText
			if left < 0 {
				counter = styles.DangerText
			}
			header += "  " + counter.Render(fmt.Sprintf("%d characters remaining", left))
		}
		lines = append(lines, header)

		marker := "  "
		if i == e.focus {
			marker = styles.AccentText.Render("▸ ")
		}
		lines = append(lines, marker+e.inputs[i].View())

		if e.ctrl.touched(spec.name) {
			if msg := e.ctrl.errorFor(spec.name); msg != "" {
				lines = append(lines, "  "+styles.Error.Render(msg))
			}
		}
		lines = append(lines, "")
	}

	if e.submitErr != "" {
		lines = append(lines, styles.Error.Render("Save failed: "+e.submitErr), "")
	}

	var save string
	switch {
	case e.busy():
		save = m.spinner.View() + " " + styles.WarningText.Render("Saving...")
	case !e.ctrl.isValid():
		save = styles.FaintText.Render("ctrl+s Save (fix errors first)")
	default:
		save = styles.AccentText.Render("ctrl+s") + " " + styles.Text.Render("Save")
	}
	lines = append(lines, strings.Join([]string{
		save,
		styles.AccentText.Render("ctrl+r") + " " + styles.MutedText.Render("Reset"),
		styles.AccentText.Render("esc") + " " + styles.MutedText.Render("Cancel"),
	}, "   "))

	return m.renderTitledBox(e.title, strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
}

// keepProfile carries the address and company of prev over to saved, which
// only echoes the edited fields.
func keepProfile(prev, saved placeholder.User) placeholder.User {
	if saved.Address == (placeholder.Address{}) {
		saved.Address = prev.Address
	}
	if saved.Company == (placeholder.Company{}) {
		saved.Company = prev.Company
	}
	return saved
}
