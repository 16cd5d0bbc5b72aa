package placeholder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method string
	Path   string
	Body   string
}

func newRecordingServer(t *testing.T, payload any) (*Service, *[]recordedCall) {
	t.Helper()
	var calls []recordedCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		calls = append(calls, recordedCall{Method: r.Method, Path: r.URL.Path, Body: string(raw)})
		w.Header().Set("Content-Type", "application/json")
		if payload != nil {
			_ = json.NewEncoder(w).Encode(payload)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(ClientConfig{BaseURL: server.URL})
	require.NoError(t, err)
	return NewService(c), &calls
}

func TestService_RoutesEveryEndpoint(t *testing.T) {
	ctx := context.Background()
	svc, calls := newRecordingServer(t, nil)

	steps := []struct {
		name   string
		call   func() error
		method string
		path   string
	}{
		{"ListUsers", func() error { _, err := svc.ListUsers(ctx); return err }, http.MethodGet, "/users"},
		{"GetUser", func() error { _, err := svc.GetUser(ctx, 3); return err }, http.MethodGet, "/users/3"},
		{"CreateUser", func() error { _, err := svc.CreateUser(ctx, CreateUserRequest{Name: "A"}); return err }, http.MethodPost, "/users"},
		{"UpdateUser", func() error { _, err := svc.UpdateUser(ctx, 3, UpdateUserRequest{ID: 3}); return err }, http.MethodPut, "/users/3"},
		{"DeleteUser", func() error { return svc.DeleteUser(ctx, 3) }, http.MethodDelete, "/users/3"},
		{"ListUserPosts", func() error { _, err := svc.ListUserPosts(ctx, 3); return err }, http.MethodGet, "/users/3/posts"},
		{"ListPosts", func() error { _, err := svc.ListPosts(ctx); return err }, http.MethodGet, "/posts"},
		{"GetPost", func() error { _, err := svc.GetPost(ctx, 7); return err }, http.MethodGet, "/posts/7"},
		{"CreatePost", func() error { _, err := svc.CreatePost(ctx, CreatePostRequest{UserID: 3}); return err }, http.MethodPost, "/posts"},
		{"UpdatePost", func() error { _, err := svc.UpdatePost(ctx, 7, UpdatePostRequest{ID: 7}); return err }, http.MethodPut, "/posts/7"},
		{"DeletePost", func() error { return svc.DeletePost(ctx, 7) }, http.MethodDelete, "/posts/7"},
		{"ListPostComments", func() error { _, err := svc.ListPostComments(ctx, 7); return err }, http.MethodGet, "/posts/7/comments"},
		{"ListComments", func() error { _, err := svc.ListComments(ctx); return err }, http.MethodGet, "/comments"},
		{"GetComment", func() error { _, err := svc.GetComment(ctx, 9); return err }, http.MethodGet, "/comments/9"},
		{"CreateComment", func() error { _, err := svc.CreateComment(ctx, CreateCommentRequest{PostID: 7}); return err }, http.MethodPost, "/comments"},
		{"UpdateComment", func() error { _, err := svc.UpdateComment(ctx, 9, UpdateCommentRequest{Body: "x"}); return err }, http.MethodPut, "/comments/9"},
		{"DeleteComment", func() error { return svc.DeleteComment(ctx, 9) }, http.MethodDelete, "/comments/9"},
	}

	for _, step := range steps {
		require.NoError(t, step.call(), step.name)
	}
	require.Len(t, *calls, len(steps))
	for i, step := range steps {
		got := (*calls)[i]
		assert.Equal(t, step.method, got.Method, step.name)
		assert.Equal(t, step.path, got.Path, step.name)
	}
}

func TestService_UpdateOmitsEmptyFields(t *testing.T) {
	svc, calls := newRecordingServer(t, User{ID: 2, Name: "New"})

	user, err := svc.UpdateUser(context.Background(), 2, UpdateUserRequest{ID: 2, Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", user.Name)
	require.Len(t, *calls, 1)
	assert.JSONEq(t, `{"id":2,"name":"New"}`, (*calls)[0].Body)
}

func TestService_DecodesNestedUser(t *testing.T) {
	const body = `{"id":1,"name":"Leanne Graham","username":"Bret","email":"Sincere@april.biz",
		"address":{"street":"Kulas Light","suite":"Apt. 556","city":"Gwenborough","zipcode":"92998-3874",
		"geo":{"lat":"-37.3159","lng":"81.1496"}},"phone":"1-770-736-8031 x56442","website":"hildegard.org",
		"company":{"name":"Romaguera-Crona","catchPhrase":"Multi-layered client-server neural-net","bs":"harness real-time e-markets"}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(ClientConfig{BaseURL: server.URL})
	require.NoError(t, err)
	user, err := NewService(c).GetUser(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Gwenborough", user.Address.City)
	assert.Equal(t, "81.1496", user.Address.Geo.Lng)
	assert.Equal(t, "Romaguera-Crona", user.Company.Name)
}

func TestFilterUsers(t *testing.T) {
	users := []User{
		{ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz"},
		{ID: 2, Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv"},
		{ID: 3, Name: "Clementine Bauch", Username: "Samantha", Email: "Nathan@yesenia.net"},
	}

	assert.Len(t, FilterUsers(users, ""), 3)
	assert.Len(t, FilterUsers(users, "   "), 3)

	byName := FilterUsers(users, "GRAHAM")
	require.Len(t, byName, 1)
	assert.Equal(t, 1, byName[0].ID)

	byEmail := FilterUsers(users, "melissa")
	require.Len(t, byEmail, 1)
	assert.Equal(t, 2, byEmail[0].ID)

	byUsername := FilterUsers(users, "saman")
	require.Len(t, byUsername, 1)
	assert.Equal(t, 3, byUsername[0].ID)

	assert.Empty(t, FilterUsers(users, "nobody"))
}
