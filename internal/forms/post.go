package forms

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/form"
	"github.com/five82/roster/internal/placeholder"
)

// PostField names a field of the post form.
type PostField string

const (
	PostTitle PostField = "title"
	PostBody  PostField = "body"
)

// PostFields lists the post form fields in display order.
var PostFields = []PostField{PostTitle, PostBody}

// PostFieldInfo holds labels and hints for the post form.
var PostFieldInfo = map[PostField]Field{
	PostTitle: {Label: "Title", Placeholder: "Post title", Limit: 100},
	PostBody:  {Label: "Body", Placeholder: "What's on your mind?", Limit: 1000, Multiline: true},
}

// PostRules returns the validation rules for the post form.
func PostRules() map[PostField]form.Rule {
	return map[PostField]form.Rule{
		PostTitle: {Required: true, MinLength: 5, MaxLength: 100},
		PostBody:  {Required: true, MinLength: 10, MaxLength: 1000},
	}
}

// NewPostForm builds the create form for userID when post is nil and the edit
// form for post otherwise.
func NewPostForm(post *placeholder.Post, userID int, api placeholder.API, onSaved func(placeholder.Post), log logrus.FieldLogger) (*form.Form[PostField], error) {
	initial := map[PostField]string{}
	if post != nil {
		initial[PostTitle] = post.Title
		initial[PostBody] = post.Body
	}

	submit := func(ctx context.Context, v form.Values[PostField]) error {
		var (
			saved placeholder.Post
			err   error
		)
		if post != nil {
			saved, err = api.UpdatePost(ctx, post.ID, placeholder.UpdatePostRequest{
				ID:     post.ID,
				UserID: userID,
				Title:  v[PostTitle],
				Body:   v[PostBody],
			})
		} else {
			saved, err = api.CreatePost(ctx, placeholder.CreatePostRequest{
				UserID: userID,
				Title:  v[PostTitle],
				Body:   v[PostBody],
			})
		}
		if err != nil {
			return err
		}
		if onSaved != nil {
			onSaved(saved)
		}
		return nil
	}

	return form.New(form.Spec[PostField]{
		Fields:  PostFields,
		Initial: initial,
		Rules:   PostRules(),
		Submit:  submit,
		Logger:  withForm(log, "post"),
	})
}
