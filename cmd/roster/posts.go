package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func (c *cli) postsCmd() *cobra.Command {
	posts := &cobra.Command{
		Use:   "posts",
		Short: "Inspect posts and their comments",
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(func(s session) error {
				p, err := s.api.GetPost(cmd.Context(), id)
				if err != nil {
					return err
				}
				rows := [][]string{
					{"ID", strconv.Itoa(p.ID)},
					{"User", strconv.Itoa(p.UserID)},
					{"Title", p.Title},
					{"Body", p.Body},
				}
				return render(c.stdout, c.output, p, fieldHeaders, rows)
			})
		},
	}

	comments := &cobra.Command{
		Use:   "comments <id>",
		Short: "List the comments on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(func(s session) error {
				list, err := s.api.ListPostComments(cmd.Context(), id)
				if err != nil {
					return err
				}
				return render(c.stdout, c.output, list, commentHeaders, commentRows(list))
			})
		},
	}

	posts.AddCommand(get, comments)
	return posts
}
