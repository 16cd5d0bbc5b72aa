// Package placeholdertest provides an in-memory placeholder.API for tests.
package placeholdertest

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/five82/roster/internal/placeholder"
)

var _ placeholder.API = (*Fake)(nil)

// Call records one method invocation on a Fake.
type Call struct {
	Method string
	ID     int
	Body   any
}

// Fake serves users, posts and comments from memory. Set Err to make every
// call fail, or Errs to fail a single method by name.
type Fake struct {
	mu       sync.Mutex
	Users    []placeholder.User
	Posts    []placeholder.Post
	Comments []placeholder.Comment
	Err      error
	Errs     map[string]error
	// Block, when set, is received from before each call returns.
	Block chan struct{}

	calls  []Call
	nextID int
}

// NewFake returns a Fake seeded with a small data set.
func NewFake() *Fake {
	return &Fake{
		Users: []placeholder.User{
			{ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz", Phone: "1-770-736-8031 x56442", Website: "hildegard.org",
				Address: placeholder.Address{Street: "Kulas Light", Suite: "Apt. 556", City: "Gwenborough", Zipcode: "92998-3874"},
				Company: placeholder.Company{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered client-server neural-net"}},
			{ID: 2, Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv", Phone: "010-692-6593 x09125", Website: "anastasia.net"},
			{ID: 3, Name: "Clementine Bauch", Username: "Samantha", Email: "Nathan@yesenia.net", Phone: "1-463-123-4447", Website: "ramiro.info"},
		},
		Posts: []placeholder.Post{
			{UserID: 1, ID: 1, Title: "sunt aut facere", Body: "quia et suscipit"},
			{UserID: 1, ID: 2, Title: "qui est esse", Body: "est rerum tempore"},
			{UserID: 2, ID: 11, Title: "et ea vero quia", Body: "delectus reiciendis"},
		},
		Comments: []placeholder.Comment{
			{PostID: 1, ID: 1, Name: "id labore ex", Email: "Eliseo@gardner.biz", Body: "laudantium enim"},
			{PostID: 1, ID: 2, Name: "quo vero reiciendis", Email: "Jayne_Kuhic@sydney.com", Body: "est natus enim"},
			{PostID: 2, ID: 6, Name: "et fugit eligendi", Email: "Presley.Mueller@myrl.com", Body: "doloribus at sed"},
		},
		nextID: 100,
	}
}

// Calls returns the recorded invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// MethodCalls returns the recorded invocations of method.
func (f *Fake) MethodCalls(method string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) enter(ctx context.Context, method string, id int, body any) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, ID: id, Body: body})
	block := f.Block
	err := f.Err
	if e, ok := f.Errs[method]; ok {
		err = e
	}
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func notFound(kind string, id int) error {
	return &placeholder.APIError{
		Kind:    placeholder.KindHTTP,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("HTTP 404 %s", http.StatusText(http.StatusNotFound)),
		Details: fmt.Sprintf("%s %d", kind, id),
	}
}

func (f *Fake) ListUsers(ctx context.Context) ([]placeholder.User, error) {
	if err := f.enter(ctx, "ListUsers", 0, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Users), nil
}

func (f *Fake) GetUser(ctx context.Context, id int) (placeholder.User, error) {
	if err := f.enter(ctx, "GetUser", id, nil); err != nil {
		return placeholder.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return placeholder.User{}, notFound("user", id)
}

func (f *Fake) CreateUser(ctx context.Context, req placeholder.CreateUserRequest) (placeholder.User, error) {
	if err := f.enter(ctx, "CreateUser", 0, req); err != nil {
		return placeholder.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return placeholder.User{ID: f.nextID, Name: req.Name, Username: req.Username, Email: req.Email, Phone: req.Phone, Website: req.Website}, nil
}

func (f *Fake) UpdateUser(ctx context.Context, id int, req placeholder.UpdateUserRequest) (placeholder.User, error) {
	if err := f.enter(ctx, "UpdateUser", id, req); err != nil {
		return placeholder.User{}, err
	}
	return placeholder.User{ID: id, Name: req.Name, Username: req.Username, Email: req.Email, Phone: req.Phone, Website: req.Website}, nil
}

func (f *Fake) DeleteUser(ctx context.Context, id int) error {
	return f.enter(ctx, "DeleteUser", id, nil)
}

func (f *Fake) ListUserPosts(ctx context.Context, userID int) ([]placeholder.Post, error) {
	if err := f.enter(ctx, "ListUserPosts", userID, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []placeholder.Post
	for _, p := range f.Posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Fake) ListPosts(ctx context.Context) ([]placeholder.Post, error) {
	if err := f.enter(ctx, "ListPosts", 0, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Posts), nil
}

func (f *Fake) GetPost(ctx context.Context, id int) (placeholder.Post, error) {
	if err := f.enter(ctx, "GetPost", id, nil); err != nil {
		return placeholder.Post{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Posts {
		if p.ID == id {
			return p, nil
		}
	}
	return placeholder.Post{}, notFound("post", id)
}

func (f *Fake) CreatePost(ctx context.Context, req placeholder.CreatePostRequest) (placeholder.Post, error) {
	if err := f.enter(ctx, "CreatePost", 0, req); err != nil {
		return placeholder.Post{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return placeholder.Post{ID: f.nextID, UserID: req.UserID, Title: req.Title, Body: req.Body}, nil
}

func (f *Fake) UpdatePost(ctx context.Context, id int, req placeholder.UpdatePostRequest) (placeholder.Post, error) {
	if err := f.enter(ctx, "UpdatePost", id, req); err != nil {
		return placeholder.Post{}, err
	}
	return placeholder.Post{ID: id, UserID: req.UserID, Title: req.Title, Body: req.Body}, nil
}

func (f *Fake) DeletePost(ctx context.Context, id int) error {
	return f.enter(ctx, "DeletePost", id, nil)
}

func (f *Fake) ListPostComments(ctx context.Context, postID int) ([]placeholder.Comment, error) {
	if err := f.enter(ctx, "ListPostComments", postID, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []placeholder.Comment
	for _, c := range f.Comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *Fake) ListComments(ctx context.Context) ([]placeholder.Comment, error) {
	if err := f.enter(ctx, "ListComments", 0, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Comments), nil
}

func (f *Fake) GetComment(ctx context.Context, id int) (placeholder.Comment, error) {
	if err := f.enter(ctx, "GetComment", id, nil); err != nil {
		return placeholder.Comment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Comments {
		if c.ID == id {
			return c, nil
		}
	}
	return placeholder.Comment{}, notFound("comment", id)
}

func (f *Fake) CreateComment(ctx context.Context, req placeholder.CreateCommentRequest) (placeholder.Comment, error) {
	if err := f.enter(ctx, "CreateComment", 0, req); err != nil {
		return placeholder.Comment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return placeholder.Comment{ID: f.nextID, PostID: req.PostID, Name: req.Name, Email: req.Email, Body: req.Body}, nil
}

func (f *Fake) UpdateComment(ctx context.Context, id int, req placeholder.UpdateCommentRequest) (placeholder.Comment, error) {
	if err := f.enter(ctx, "UpdateComment", id, req); err != nil {
		return placeholder.Comment{}, err
	}
	return placeholder.Comment{ID: id, PostID: req.PostID, Name: req.Name, Email: req.Email, Body: req.Body}, nil
}

func (f *Fake) DeleteComment(ctx context.Context, id int) error {
	return f.enter(ctx, "DeleteComment", id, nil)
}
