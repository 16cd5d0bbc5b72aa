package forms

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/form"
	"github.com/five82/roster/internal/placeholder"
)

// UserField names a field of the user form.
type UserField string

const (
	UserName     UserField = "name"
	UserUsername UserField = "username"
	UserEmail    UserField = "email"
	UserPhone    UserField = "phone"
	UserWebsite  UserField = "website"
)

// UserFields lists the user form fields in display order.
var UserFields = []UserField{UserName, UserUsername, UserEmail, UserPhone, UserWebsite}

// UserFieldInfo holds labels and hints for the user form.
var UserFieldInfo = map[UserField]Field{
	UserName:     {Label: "Name", Placeholder: "Leanne Graham", Limit: 50},
	UserUsername: {Label: "Username", Placeholder: "Bret", Limit: 20},
	UserEmail:    {Label: "Email", Placeholder: "sincere@april.biz"},
	UserPhone:    {Label: "Phone", Placeholder: "1-770-736-8031"},
	UserWebsite:  {Label: "Website", Placeholder: "hildegard.org"},
}

// UserRules returns the validation rules for the user form.
func UserRules() map[UserField]form.Rule {
	return map[UserField]form.Rule{
		UserName:     {Required: true, MinLength: 2, MaxLength: 50},
		UserUsername: {Required: true, MinLength: 3, MaxLength: 20, Pattern: usernamePattern},
		UserEmail:    {Required: true, Pattern: emailPattern},
		UserPhone:    {Required: true, Pattern: phonePattern},
		UserWebsite:  {Required: false, Pattern: websitePattern},
	}
}

// NewUserForm builds the create form when user is nil and the edit form for
// user otherwise. onSaved receives the API's answer after a successful submit.
func NewUserForm(user *placeholder.User, api placeholder.API, onSaved func(placeholder.User), log logrus.FieldLogger) (*form.Form[UserField], error) {
	initial := map[UserField]string{}
	if user != nil {
		initial[UserName] = user.Name
		initial[UserUsername] = user.Username
		initial[UserEmail] = user.Email
		initial[UserPhone] = user.Phone
		initial[UserWebsite] = user.Website
	}

	submit := func(ctx context.Context, v form.Values[UserField]) error {
		var (
			saved placeholder.User
			err   error
		)
		if user != nil {
			saved, err = api.UpdateUser(ctx, user.ID, placeholder.UpdateUserRequest{
				ID:       user.ID,
				Name:     v[UserName],
				Username: v[UserUsername],
				Email:    v[UserEmail],
				Phone:    v[UserPhone],
				Website:  v[UserWebsite],
			})
		} else {
			saved, err = api.CreateUser(ctx, placeholder.CreateUserRequest{
				Name:     v[UserName],
				Username: v[UserUsername],
				Email:    v[UserEmail],
				Phone:    v[UserPhone],
				Website:  v[UserWebsite],
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

	return form.New(form.Spec[UserField]{
		Fields:  UserFields,
		Initial: initial,
		Rules:   UserRules(),
		Submit:  submit,
		Logger:  withForm(log, "user"),
	})
}

func withForm(log logrus.FieldLogger, name string) logrus.FieldLogger {
	if log == nil {
		return nil
	}
	return log.WithField("form", name)
}
