package placeholder

import (
	"context"
	"fmt"
)

// API is the endpoint catalogue views and commands depend on.
// *Service implements it; tests substitute fakes.
type API interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int) (User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (User, error)
	UpdateUser(ctx context.Context, id int, req UpdateUserRequest) (User, error)
	DeleteUser(ctx context.Context, id int) error
	ListUserPosts(ctx context.Context, userID int) ([]Post, error)

	ListPosts(ctx context.Context) ([]Post, error)
	GetPost(ctx context.Context, id int) (Post, error)
	CreatePost(ctx context.Context, req CreatePostRequest) (Post, error)
	UpdatePost(ctx context.Context, id int, req UpdatePostRequest) (Post, error)
	DeletePost(ctx context.Context, id int) error
	ListPostComments(ctx context.Context, postID int) ([]Comment, error)

	ListComments(ctx context.Context) ([]Comment, error)
	GetComment(ctx context.Context, id int) (Comment, error)
	CreateComment(ctx context.Context, req CreateCommentRequest) (Comment, error)
	UpdateComment(ctx context.Context, id int, req UpdateCommentRequest) (Comment, error)
	DeleteComment(ctx context.Context, id int) error
}

// Ensure Service implements API at compile time.
var _ API = (*Service)(nil)

// Service maps the API catalogue onto HTTP calls.
type Service struct {
	client *Client
}

// NewService wraps client.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return GetJSON[[]User](ctx, s.client, "/users")
}

func (s *Service) GetUser(ctx context.Context, id int) (User, error) {
	return GetJSON[User](ctx, s.client, fmt.Sprintf("/users/%d", id))
}

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	return PostJSON[User](ctx, s.client, "/users", req)
}

func (s *Service) UpdateUser(ctx context.Context, id int, req UpdateUserRequest) (User, error) {
	return PutJSON[User](ctx, s.client, fmt.Sprintf("/users/%d", id), req)
}

func (s *Service) DeleteUser(ctx context.Context, id int) error {
	return DeleteResource(ctx, s.client, fmt.Sprintf("/users/%d", id))
}

func (s *Service) ListUserPosts(ctx context.Context, userID int) ([]Post, error) {
	return GetJSON[[]Post](ctx, s.client, fmt.Sprintf("/users/%d/posts", userID))
}

func (s *Service) ListPosts(ctx context.Context) ([]Post, error) {
	return GetJSON[[]Post](ctx, s.client, "/posts")
}

func (s *Service) GetPost(ctx context.Context, id int) (Post, error) {
	return GetJSON[Post](ctx, s.client, fmt.Sprintf("/posts/%d", id))
}

func (s *Service) CreatePost(ctx context.Context, req CreatePostRequest) (Post, error) {
	return PostJSON[Post](ctx, s.client, "/posts", req)
}

func (s *Service) UpdatePost(ctx context.Context, id int, req UpdatePostRequest) (Post, error) {
	return PutJSON[Post](ctx, s.client, fmt.Sprintf("/posts/%d", id), req)
}

func (s *Service) DeletePost(ctx context.Context, id int) error {
	return DeleteResource(ctx, s.client, fmt.Sprintf("/posts/%d", id))
}

func (s *Service) ListPostComments(ctx context.Context, postID int) ([]Comment, error) {
	return GetJSON[[]Comment](ctx, s.client, fmt.Sprintf("/posts/%d/comments", postID))
}

func (s *Service) ListComments(ctx context.Context) ([]Comment, error) {
	return GetJSON[[]Comment](ctx, s.client, "/comments")
}

func (s *Service) GetComment(ctx context.Context, id int) (Comment, error) {
	return GetJSON[Comment](ctx, s.client, fmt.Sprintf("/comments/%d", id))
}

func (s *Service) CreateComment(ctx context.Context, req CreateCommentRequest) (Comment, error) {
	return PostJSON[Comment](ctx, s.client, "/comments", req)
}

func (s *Service) UpdateComment(ctx context.Context, id int, req UpdateCommentRequest) (Comment, error) {
	return PutJSON[Comment](ctx, s.client, fmt.Sprintf("/comments/%d", id), req)
}

func (s *Service) DeleteComment(ctx context.Context, id int) error {
	return DeleteResource(ctx, s.client, fmt.Sprintf("/comments/%d", id))
}
