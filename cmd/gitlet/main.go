// cmd/gitlet/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gitlet/internal/config"
	"gitlet/internal/errors"
	"gitlet/internal/logging"
	"gitlet/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every command needs. One app serves one invocation.
type app struct {
	dir    string
	out    io.Writer
	cfg    *config.Config
	logger *logging.Logger
}

func newApp(dir string, out io.Writer) (*app, error) {
	cfg, err := config.Load(filepath.Join(dir, config.RepoDir, "config.json"))
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	return &app{dir: dir, out: out, cfg: cfg, logger: logger}, nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.Usage(errors.MsgIncorrectOperand)
		}
		return nil
	}
}

// withRepo opens the repository, runs fn and saves only if fn succeeds.
func (a *app) withRepo(fn func(r *repository.Repository, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		r, err := repository.Open(a.dir, a.cfg, a.logger.ForCommand(cmd.Name()))
		if err != nil {
			return err
		}
		defer r.Close()

		if err := fn(r, args); err != nil {
			return err
		}
		return r.Save()
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gitlet",
		Short:         "Gitlet is a small local version control system",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	commands := []*cobra.Command{
		{
			Use:   "init",
			Short: "Create a repository in the current directory",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := repository.Init(a.dir, a.cfg, a.logger.ForCommand(cmd.Name()))
				if err != nil {
					return err
				}
				defer r.Close()
				return r.Save()
			},
		},
		{
			Use:   "add <file>",
			Short: "Stage a file for the next commit",
			Args:  exactArgs(1),
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				return r.Add(args[0])
			}),
		},
		{
			Use:   "commit <message>",
			Short: "Record the staged changes",
			Args:  exactArgs(1),
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				_, err := r.Commit(args[0])
				return err
			}),
		},
		{
			Use:   "rm <file>",
			Short: "Unstage a file or stage its removal",
			Args:  exactArgs(1),
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				return r.Remove(args[0])
			}),
		},
		{
			Use:   "log",
			Short: "Show the history of the current branch",
			Args:  exactArgs(0),
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				entries, err := r.Log()
				if err != nil {
					return err
				}
				a.printLog(entries)
				return nil
			}),
		},
		{
			Use:   "global-log",
			Short: "Show every commit ever made",
			Args:  exactArgs(0),
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				entries, err := r.GlobalLog()
				if err != nil {
					return err
				}
				a.printLog(entries)
				return nil
			}),
		},
		{
			Use:   "find <message>",
			Short: "Print the ids of commits with the given message",
			Args:  exactArgs(1),
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				ids, err := r.Find(args[0])
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(a.out, id)
				}
				return nil
			}),
		},
		{
			Use:   "status",
			Short: "Show branches and staged changes",
			Args:  exactArgs(0),
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				a.printStatus(r)
				return nil
			}),
		},
		{
			Use:   "branch <name>",
			Short: "Create a branch at the current commit",
			Args:  exactArgs(1),
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				return r.Branch(args[0])
			}),
		},
		{
			Use:   "rm-branch <name>",
			Short: "Delete a branch pointer",
			Args:  exactArgs(1),
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				return r.RemoveBranch(args[0])
			}),
		},
		{
			Use:   "checkout -- <file> | <commit> -- <file> | <branch>",
			Short: "Restore a file or switch branches",
			Args:  checkoutArgs,
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				switch len(args) {
				case 1:
					return r.CheckoutBranch(args[0])
				case 2:
					return r.CheckoutFile(args[1])
				default:
					return r.CheckoutFileAt(args[0], args[2])
				}
			}),
		},
		{
			Use:   "reset <commit>",
			Short: "Check out a commit and move the current branch to it",
			Args:  exactArgs(1),
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				return r.Reset(args[0])
			}),
		},
		{
			Use:   "merge <branch>",
			Short: "Check whether a branch can be merged into the current one",
			Args:  exactArgs(1),
			RunE: a.withRepo(func(r *repository.Repository, args []string) error {
				return r.Merge(args[0])
			}),
		},
	}

	for _, cmd := range commands {
		// Operands are taken verbatim, so "--" and messages starting with
		// "-" reach the command untouched.
		cmd.DisableFlagParsing = true
		root.AddCommand(cmd)
	}
	return root
}

// checkoutArgs accepts "-- <file>", "<commit> -- <file>" and "<branch>".
func checkoutArgs(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 1 && args[0] != "--":
		return nil
	case len(args) == 2 && args[0] == "--":
		return nil
	case len(args) == 3 && args[1] == "--":
		return nil
	}
	return errors.Usage(errors.MsgIncorrectOperand)
}

// run executes one invocation and returns the process exit status.
func run(args []string, dir string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, errors.MsgNoCommand)
		return 1
	}

	a, err := newApp(dir, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer a.logger.Sync()

	root := a.rootCmd()
	if cmd, _, err := root.Find(args); err != nil || cmd == root {
		fmt.Fprintln(stdout, errors.MsgUnknownCommand)
		return 1
	}

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err = root.Execute()
	if err == nil {
		return 0
	}
	kind := errors.KindOf(err)
	if kind == "" {
		a.logger.Error("command failed", zap.Strings("args", args), zap.Error(err))
		fmt.Fprintln(stderr, err)
		return 1
	}

	e, _ := errors.As(err)
	a.logger.Debug("command rejected",
		zap.String("type", string(kind)),
		zap.String("message", e.Message))
	fmt.Fprintln(stdout, e.Message)
	return e.Code
}

func main() {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "getting current directory:", err)
		os.Exit(1)
	}
	os.Exit(run(os.Args[1:], dir, os.Stdout, os.Stderr))
}
