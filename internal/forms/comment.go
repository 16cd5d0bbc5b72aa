package forms

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/form"
	"github.com/five82/roster/internal/placeholder"
)

// CommentField names a field of the comment form.
type CommentField string

const (
	CommentName  CommentField = "name"
	CommentEmail CommentField = "email"
	CommentBody  CommentField = "body"
)

// CommentFields lists the comment form fields in display order.
var CommentFields = []CommentField{CommentName, CommentEmail, CommentBody}

// CommentFieldInfo holds labels and hints for the comment form.
var CommentFieldInfo = map[CommentField]Field{
	CommentName:  {Label: "Subject", Placeholder: "Short summary", Limit: 100},
	CommentEmail: {Label: "Email", Placeholder: "you@example.com"},
	CommentBody:  {Label: "Comment", Placeholder: "Write a comment", Limit: 500, Multiline: true},
}

// CommentRules returns the validation rules for the comment form.
func CommentRules() map[CommentField]form.Rule {
	return map[CommentField]form.Rule{
		CommentName:  {Required: true, MinLength: 2, MaxLength: 100},
		CommentEmail: {Required: true, Pattern: emailPattern},
		CommentBody:  {Required: true, MinLength: 5, MaxLength: 500},
	}
}

// NewCommentForm builds a form that adds a comment to postID.
func NewCommentForm(postID int, api placeholder.API, onSaved func(placeholder.Comment), log logrus.FieldLogger) (*form.Form[CommentField], error) {
	submit := func(ctx context.Context, v form.Values[CommentField]) error {
		saved, err := api.CreateComment(ctx, placeholder.CreateCommentRequest{
			PostID: postID,
			Name:   v[CommentName],
			Email:  v[CommentEmail],
			Body:   v[CommentBody],
		})
		if err != nil {
			return err
		}
		if onSaved != nil {
			onSaved(saved)
		}
		return nil
	}

	return form.New(form.Spec[CommentField]{
		Fields: CommentFields,
		Rules:  CommentRules(),
		Submit: submit,
		Logger: withForm(log, "comment"),
	})
}
