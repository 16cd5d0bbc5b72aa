package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/form"
	"github.com/five82/roster/internal/forms"
	"github.com/five82/roster/internal/placeholder"
)

func (c *cli) usersCmd() *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "List, inspect, create and delete users",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s session) error {
				all, err := s.api.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				shown := placeholder.FilterUsers(all, search)
				return render(c.stdout, c.output, shown, userHeaders, userRows(shown))
			})
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "only users whose name, username or email contains this text")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(func(s session) error {
				u, err := s.api.GetUser(cmd.Context(), id)
				if err != nil {
					return err
				}
				return render(c.stdout, c.output, u, fieldHeaders, userDetailRows(u))
			})
		},
	}

	posts := &cobra.Command{
		Use:   "posts <id>",
		Short: "List a user's posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(func(s session) error {
				list, err := s.api.ListUserPosts(cmd.Context(), id)
				if err != nil {
					return err
				}
				return render(c.stdout, c.output, list, postHeaders, postRows(list))
			})
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := c.prompter.Confirm(fmt.Sprintf("Delete user #%d? This cannot be undone.", id))
				if err != nil {
					return err
				}
				if !ok {
					_, err = fmt.Fprintln(c.stdout, "Aborted")
					return err
				}
			}
			return c.withSession(func(s session) error {
				if err := s.api.DeleteUser(cmd.Context(), id); err != nil {
					return err
				}
				s.log.WithField("user_id", id).Info("user deleted")
				_, err := fmt.Fprintf(c.stdout, "Deleted user #%d\n", id)
				return err
			})
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	users.AddCommand(list, get, posts, c.createUserCmd(), del)
	return users
}

func (c *cli) createUserCmd() *cobra.Command {
	values := map[forms.UserField]*string{}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  "Create a user. Fields not given as flags are prompted for and validated as you type.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s session) error {
				var saved placeholder.User
				f, err := forms.NewUserForm(nil, s.api, func(u placeholder.User) { saved = u }, s.log)
				if err != nil {
					return err
				}

				for _, field := range f.Fields() {
					if cmd.Flags().Changed(string(field)) {
						if err := f.SetValue(field, *values[field]); err != nil {
							return err
						}
						continue
					}
					info := forms.UserFieldInfo[field]
					answer, err := c.prompter.Input(info.Label, info.Placeholder, "", func(v string) string {
						return forms.UserRules()[field].Check(string(field), v)
					})
					if err != nil {
						return err
					}
					if err := f.SetValue(field, answer); err != nil {
						return err
					}
				}

				out := f.HandleSubmit(cmd.Context())
				switch out.Status {
				case form.OutcomeInvalid:
					return invalidFields(f)
				case form.OutcomeFailed:
					return out.Err
				}
				return render(c.stdout, c.output, saved, fieldHeaders, userDetailRows(saved))
			})
		},
	}

	for _, field := range forms.UserFields {
		values[field] = create.Flags().String(string(field), "", forms.UserFieldInfo[field].Label)
	}
	return create
}

// invalidFields joins every field error of f in field order.
func invalidFields(f *form.Form[forms.UserField]) error {
	var errs []error
	for _, field := range f.Fields() {
		if msg := f.Error(field); msg != "" {
			errs = append(errs, errors.New(msg))
		}
	}
	if len(errs) == 0 {
		return errors.New("form is invalid")
	}
	return errors.Join(errs...)
}
