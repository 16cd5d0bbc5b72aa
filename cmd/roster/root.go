package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/app"
	"github.com/five82/roster/internal/async"
	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/placeholder"
)

// session is what a one-shot command needs to talk to the API.
type session struct {
	api   placeholder.API
	log   logrus.FieldLogger
	close func() error
}

type cli struct {
	configPath string
	envFile    string
	output     string

	stdout io.Writer
	stderr io.Writer

	// connect, runTUI and prompter are swapped out in tests.
	connect  func(app.Options) (session, error)
	runTUI   func(context.Context, app.Options) error
	prompter prompter
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{
		stdout:   stdout,
		stderr:   stderr,
		connect:  connect,
		runTUI:   app.Run,
		prompter: surveyPrompter{},
	}
}

func connect(opts app.Options) (session, error) {
	env, err := app.Bootstrap(opts)
	if err != nil {
		return session{}, err
	}
	return session{api: env.API, log: env.Log, close: env.Close}, nil
}

func (c *cli) options() app.Options {
	return app.Options{ConfigPath: c.configPath, EnvFile: c.envFile}
}

// withSession runs fn against a freshly bootstrapped API.
func (c *cli) withSession(fn func(session) error) (err error) {
	s, err := c.connect(c.options())
	if err != nil {
		return err
	}
	if s.close != nil {
		defer func() {
			err = errors.Join(err, s.close())
		}()
	}
	return fn(s)
}

func (c *cli) execute(ctx context.Context, args []string) int {
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		return exitError(c, err)
	}
	return 0
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "roster",
		Short:         "Browse and edit JSONPlaceholder users, posts and comments",
		Long:          "roster is a terminal client for a JSONPlaceholder-compatible REST API.\nWithout a subcommand it opens the interactive browser.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(c.output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), c.options())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ~/.config/roster/config.toml)")
	flags.StringVar(&c.envFile, "env-file", "", "dotenv file to load (default ./.env when present)")
	flags.StringVarP(&c.output, "output", "o", formatTable, "output format: table, json or yaml")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Open the interactive browser",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runTUI(cmd.Context(), c.options())
			},
		},
		c.usersCmd(),
		c.postsCmd(),
		c.versionCmd(),
	)
	return root
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath, c.envFile)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.stdout, "%s %s\n", cfg.AppName, cfg.AppVersion)
			return err
		},
	}
}

// parseID reads a positive resource id from a command argument.
func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", raw)
	}
	return id, nil
}

// errorMessage is the text printed for a failed command. API failures use
// their normalized message.
func errorMessage(err error) string {
	if _, ok := placeholder.AsAPIError(err); ok {
		return async.Message(err)
	}
	return err.Error()
}
