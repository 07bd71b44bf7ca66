package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/specbook/internal/compose"
	"github.com/mesh-intelligence/specbook/internal/session"
	"github.com/mesh-intelligence/specbook/internal/templates"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

func (a *app) newStepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Edit the steps of a test case",
		Long:  "Steps are numbered from 1, the way `test show` prints them.",
	}
	cmd.AddCommand(
		a.stepComposeCmd(),
		a.stepAddCmd(),
		a.stepInsertCmd(),
		a.stepDeleteCmd(),
		a.stepMoveCmd(),
		a.stepCopyToCmd(),
	)
	return cmd
}

// parseSelections reads Category=Parameter arguments.
func parseSelections(args []string) (compose.Selections, error) {
	sel := make(compose.Selections, len(args))
	for _, arg := range args {
		cat, name, ok := strings.Cut(arg, "=")
		if !ok || cat == "" {
			return nil, usagef("invalid selection %q (expected Category=Parameter)", arg)
		}
		sel[cat] = name
	}
	return sel, nil
}

// composeView is the JSON form of `test step compose`.
type composeView struct {
	Action     string   `json:"action"`
	Expected   string   `json:"expected_result"`
	Provenance []string `json:"provenance"`
	Saved      bool     `json:"saved"`
}

func (a *app) stepComposeCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "compose <test> <command> [Category=Parameter...]",
		Short: "Append a step composed from a command template",
		Long: "Fill each {Category} placeholder of a command template with the named\n" +
			"parameter and append the result to a test. Every placeholder needs a\n" +
			"selection. With --dry-run the composed text is printed and nothing is\n" +
			"saved.",
		Args: checkArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelections(args[2:])
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(s *session.Session) error {
				var res compose.Result
				if dryRun {
					tmpl, err := s.Templates().Get(args[1])
					if err != nil {
						return err
					}
					if missing := compose.Missing(templates.RequiredCategories(tmpl), sel); len(missing) > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "unfilled placeholders: %s\n", strings.Join(missing, ", "))
					}
					res = compose.Compose(tmpl.Action, tmpl.Expected, sel)
				} else if res, err = s.AddStepFromCommand(args[0], args[1], sel); err != nil {
					return err
				}
				v := composeView{Action: res.Action, Expected: res.Expected, Provenance: res.Provenance, Saved: !dryRun}
				return a.emit(cmd, v, func(w io.Writer) {
					fmt.Fprintf(w, "Action: %s\n", v.Action)
					fmt.Fprintf(w, "Expected Result: %s\n", v.Expected)
					for _, p := range v.Provenance {
						fmt.Fprintf(w, "  %s\n", p)
					}
				})
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the composed step without adding it")
	return cmd
}

func (a *app) stepAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <test> <action> [expected]",
		Short: "Append a literal step",
		Args:  checkArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			expected := ""
			if len(args) == 3 {
				expected = args[2]
			}
			return a.withSession(cmd, func(s *session.Session) error {
				return s.AppendStep(args[0], args[1], expected)
			})
		},
	}
}

func (a *app) stepInsertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <test> <n> <action> [expected]",
		Short: "Insert a literal step so that it becomes step n",
		Args:  checkArgs(cobra.RangeArgs(3, 4)),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := stepIndex(args[1])
			if err != nil {
				return err
			}
			expected := ""
			if len(args) == 4 {
				expected = args[3]
			}
			return a.withSession(cmd, func(s *session.Session) error {
				return s.InsertStep(args[0], index, args[2], expected)
			})
		},
	}
}

func (a *app) stepDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <test> <n>",
		Short: "Delete step n",
		Args:  checkArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := stepIndex(args[1])
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(s *session.Session) error {
				return s.DeleteStep(args[0], index)
			})
		},
	}
}

func (a *app) stepMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <test> <n> <up|down>",
		Short: "Swap step n with its neighbour",
		Args:  checkArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := stepIndex(args[1])
			if err != nil {
				return err
			}
			dir, err := types.ParseDirection(args[2])
			if err != nil {
				return fmt.Errorf("%q: %w", args[2], err)
			}
			return a.withSession(cmd, func(s *session.Session) error {
				moved, err := s.MoveStep(args[0], index, dir)
				if err != nil {
					return err
				}
				if !moved {
					edge := "top"
					if dir == types.DirectionDown {
						edge = "bottom"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "step %s is already at the %s\n", args[1], edge)
				}
				return nil
			})
		},
	}
}

func (a *app) stepCopyToCmd() *cobra.Command {
	var after int
	cmd := &cobra.Command{
		Use:   "copy-to <test> <n> <target-test>",
		Short: "Copy step n into another (or the same) test case",
		Long: "Copy step n and paste it into the target test right after step --after.\n" +
			"--after 0 pastes at the front; by default the step is appended.",
		Args: checkArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := stepIndex(args[1])
			if err != nil {
				return err
			}
			if after < 0 {
				return usagef("--after must not be negative")
			}
			return a.withSession(cmd, func(s *session.Session) error {
				target, err := s.Test(args[2])
				if err != nil {
					return err
				}
				if err := s.CopyStep(args[0], index); err != nil {
					return err
				}
				targetIndex := target.Len() - 1
				if cmd.Flags().Changed("after") {
					targetIndex = after - 1
				}
				at, err := s.PasteStep(args[2], targetIndex)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pasted as step %d of %s\n", at+1, args[2])
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&after, "after", 0, "paste after this step number (0 = front)")
	return cmd
}
