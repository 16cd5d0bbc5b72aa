package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roster/internal/async"
	"github.com/five82/roster/internal/placeholder"
)

// detailState holds the user details view.
type detailState struct {
	user     placeholder.User
	posts    *async.Request[[]placeholder.Post]
	comments *async.Request[[]placeholder.Comment]
	deleting *async.Request[struct{}]

	selectedPost int
	// commentsFor is the post whose comments are shown.
	commentsFor placeholder.Post
	// postLine is the body line of the selected post, -1 when none.
	postLine int

	viewport viewport.Model
}

// close drops every in-flight request of the view.
func (d *detailState) close() {
	if d.posts != nil {
		d.posts.Reset()
	}
	if d.comments != nil {
		d.comments.Reset()
	}
	if d.deleting != nil {
		d.deleting.Reset()
	}
	*d = detailState{viewport: d.viewport}
}

func (d detailState) postList() []placeholder.Post {
	if d.posts == nil {
		return nil
	}
	return d.posts.State().Data
}

func (d detailState) selectedPostValue() (placeholder.Post, bool) {
	list := d.postList()
	if d.selectedPost < 0 || d.selectedPost >= len(list) {
		return placeholder.Post{}, false
	}
	return list[d.selectedPost], true
}

func (d *detailState) clampPost() {
	n := len(d.postList())
	if d.selectedPost >= n {
		d.selectedPost = n - 1
	}
	if d.selectedPost < 0 {
		d.selectedPost = 0
	}
}

// openDetails shows user and starts loading their posts.
func (m Model) openDetails(user placeholder.User) (tea.Model, tea.Cmd) {
	if m.detail.user.ID != user.ID || m.detail.posts == nil {
		m.detail.close()
		m.detail.user = user
		api := m.api
		userID := user.ID
		m.detail.posts = async.New(m.ctx, func(ctx context.Context) ([]placeholder.Post, error) {
			return api.ListUserPosts(ctx, userID)
		}, async.Options[[]placeholder.Post]{})
	} else {
		m.detail.user = user
	}
	m.currentView = ViewDetails
	m.detail.viewport.GotoTop()
	done := m.detail.posts.Execute(m.ctx)
	m.syncDetail()
	return m, awaitCmd(reqPosts, done)
}

// loadComments swaps in a fresh comments request for post. The old request
// is reset so a late answer for another post can never be shown.
func (m Model) loadComments(post placeholder.Post) (tea.Model, tea.Cmd) {
	if m.detail.comments != nil {
		m.detail.comments.Reset()
	}
	api := m.api
	postID := post.ID
	m.detail.commentsFor = post
	m.detail.comments = async.New(m.ctx, func(ctx context.Context) ([]placeholder.Comment, error) {
		return api.ListPostComments(ctx, postID)
	}, async.Options[[]placeholder.Comment]{})
	done := m.detail.comments.Execute(m.ctx)
	m.syncDetail()
	return m, awaitCmd(reqComments, done)
}

// handleDetailKey processes keyboard input for the details view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.detail
	count := len(d.postList())

	if d.deleting != nil && d.deleting.State().Loading() {
		// Input waits until the delete settles.
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.navigate(ViewUsers)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if d.selectedPost < count-1 {
			d.selectedPost++
		}
	case key.Matches(msg, m.keys.Up):
		if d.selectedPost > 0 {
			d.selectedPost--
		}
	case key.Matches(msg, m.keys.Top):
		d.selectedPost = 0
		d.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		d.selectedPost = max(count-1, 0)
	case key.Matches(msg, m.keys.HalfPageDown):
		d.viewport.HalfViewDown()
		return m, nil
	case key.Matches(msg, m.keys.HalfPageUp):
		d.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if post, ok := d.selectedPostValue(); ok {
			return m.loadComments(post)
		}

	case key.Matches(msg, m.keys.Retry):
		if d.comments != nil && d.comments.State().Failed() {
			return m, awaitCmd(reqComments, d.comments.Execute(m.ctx))
		}
		if d.posts != nil {
			return m, awaitCmd(reqPosts, d.posts.Execute(m.ctx))
		}

	case key.Matches(msg, m.keys.EditUser):
		user := d.user
		return m.openUserEditor(&user, ViewDetails)

	case key.Matches(msg, m.keys.DeleteUser):
		m.modal = newConfirmModal(
			"Delete user",
			fmt.Sprintf("Delete %s (@%s)? This cannot be undone.", d.user.Name, d.user.Username),
			confirmDeleteUser,
		)
		return m, nil

	case key.Matches(msg, m.keys.NewPost):
		return m.openPostEditor(nil)

	case key.Matches(msg, m.keys.EditPost):
		if post, ok := d.selectedPostValue(); ok {
			return m.openPostEditor(&post)
		}
		m.setFlash("Select a post to edit", true)

	case key.Matches(msg, m.keys.AddComment):
		if post, ok := d.selectedPostValue(); ok {
			return m.openCommentEditor(post)
		}
		m.setFlash("Select a post to comment on", true)
	}

	m.syncDetail()
	m.revealPost()
	return m, nil
}

// deleteSelectedUser starts the delete request for the user on screen.
func (m Model) deleteSelectedUser() (tea.Model, tea.Cmd) {
	api := m.api
	userID := m.detail.user.ID
	m.detail.deleting = async.New(m.ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, api.DeleteUser(ctx, userID)
	}, async.Options[struct{}]{})
	done := m.detail.deleting.Execute(m.ctx)
	m.syncDetail()
	return m, awaitCmd(reqDelete, done)
}

func (m Model) handleDeleted() (tea.Model, tea.Cmd) {
	st := m.detail.deleting.State()
	name := m.detail.user.Name
	if st.Failed() {
		m.log.WithField("user_id", m.detail.user.ID).WithField("error", st.Err).Warn("delete user failed")
		m.detail.deleting = nil
		m.setFlash("Delete failed: "+st.Err, true)
		m.syncDetail()
		return m, nil
	}
	m.log.WithField("user_id", m.detail.user.ID).Info("user deleted")
	m.navigate(ViewUsers)
	m.setFlash(fmt.Sprintf("Deleted %s", name), false)
	return m, nil
}

// syncDetail re-renders the details body into the viewport. It must run
// after anything the body shows changes.
func (m *Model) syncDetail() {
	if !m.ready {
		return
	}
	width := max(m.width-4, 10)
	height := max(m.contentHeight()-2, 1)
	if m.detail.viewport.Width != width || m.detail.viewport.Height != height {
		m.detail.viewport.Width = width
		m.detail.viewport.Height = height
	}
	if m.currentView != ViewDetails {
		return
	}

	content, postLine := m.detailContent(width)
	m.detail.viewport.SetContent(content)
	m.detail.postLine = postLine
}

// revealPost scrolls the viewport so the selected post is visible.
func (m *Model) revealPost() {
	line := m.detail.postLine
	if line < 0 {
		return
	}
	vp := &m.detail.viewport
	switch {
	case line < vp.YOffset:
		vp.SetYOffset(line)
	case line >= vp.YOffset+vp.Height:
		vp.SetYOffset(line - vp.Height + 1)
	}
}

// detailContent builds the body text and returns the line of the selected
// post, or -1 when no post is listed.
func (m Model) detailContent(width int) (string, int) {
	styles := m.theme.Styles()
	d := m.detail
	u := d.user

	var lines []string
	section := func(title string) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styles.AccentText.Bold(true).Render(title))
	}
	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		lines = append(lines, "  "+styles.MutedText.Render(fmt.Sprintf("%-9s", label))+" "+
			styles.Text.Render(truncate(value, max(width-13, 1))))
	}

	if d.deleting != nil && d.deleting.State().Loading() {
		lines = append(lines, m.spinner.View()+" "+styles.WarningText.Render("Deleting user..."))
		lines = append(lines, "")
	}

	lines = append(lines, styles.Text.Bold(true).Render(u.Name)+" "+styles.MutedText.Render("@"+u.Username))

	section("Contact")
	field("Email", u.Email)
	field("Phone", u.Phone)
	field("Website", u.Website)

	section("Address")
	field("Street", strings.TrimSpace(u.Address.Street+" "+u.Address.Suite))
	field("City", strings.TrimSpace(u.Address.City+" "+u.Address.Zipcode))
	if u.Address.Geo.Lat != "" || u.Address.Geo.Lng != "" {
		field("Geo", u.Address.Geo.Lat+", "+u.Address.Geo.Lng)
	}

	section("Company")
	field("Name", u.Company.Name)
	field("Phrase", u.Company.CatchPhrase)
	field("Business", u.Company.BS)

	posts := d.postList()
	section(fmt.Sprintf("Posts (%d)", len(posts)))
	if d.posts != nil {
		if status := renderRequestStatus(m, d.posts.State(), "posts"); status != "" {
			lines = append(lines, "  "+status)
		}
	}
	selLine := -1
	for i, p := range posts {
		title := truncate(p.Title, max(width-4, 1))
		if i == d.selectedPost {
			selLine = len(lines)
			lines = append(lines, styles.Selected.Render("▸ "+title))
			continue
		}
		lines = append(lines, "  "+styles.Text.Render(title))
	}
	if d.posts != nil && d.posts.State().Status == async.StatusSuccess && len(posts) == 0 {
		lines = append(lines, "  "+styles.FaintText.Render("No posts yet"))
	}

	if d.comments != nil {
		section(fmt.Sprintf("Comments on %q", truncate(d.commentsFor.Title, max(width-16, 1))))
		st := d.comments.State()
		if status := renderRequestStatus(m, st, "comments"); status != "" {
			lines = append(lines, "  "+status)
		}
		if st.Status == async.StatusSuccess && len(st.Data) == 0 {
			lines = append(lines, "  "+styles.FaintText.Render("No comments"))
		}
		for _, c := range st.Data {
			lines = append(lines, "  "+styles.Text.Bold(true).Render(truncate(c.Name, max(width-4, 1))))
			lines = append(lines, "  "+styles.MutedText.Render(c.Email))
			for _, body := range strings.Split(c.Body, "\n") {
				lines = append(lines, "    "+styles.Text.Render(truncate(body, max(width-6, 1))))
			}
		}
	} else if len(posts) > 0 {
		lines = append(lines, "", styles.FaintText.Render("enter shows comments for the selected post"))
	}

	return strings.Join(lines, "\n"), selLine
}

// renderDetail renders the details view.
func (m Model) renderDetail() string {
	title := fmt.Sprintf("User #%d", m.detail.user.ID)
	return m.renderTitledBox(title, m.detail.viewport.View(), m.width, m.contentHeight(), true)
}
