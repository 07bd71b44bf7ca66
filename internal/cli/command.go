package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/specbook/internal/session"
	"github.com/mesh-intelligence/specbook/internal/templates"
)

func (a *app) newCommandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "command",
		Short: "Manage command templates",
		Long: "Command templates are reusable step skeletons. A whitespace-delimited\n" +
			"{Category} token in the action or expected result is filled with a\n" +
			"parameter of that category when a step is composed.",
	}
	cmd.AddCommand(
		a.commandAddCmd(),
		a.commandUpdateCmd(),
		a.commandRenameCmd(),
		a.commandDeleteCmd(),
		a.commandListCmd(),
		a.commandShowCmd(),
		a.commandPlaceholdersCmd(),
	)
	return cmd
}

func (a *app) commandAddCmd() *cobra.Command {
	var action, expected string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a command template",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.AddCommand(args[0], action, expected)
			})
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "action template")
	cmd.Flags().StringVar(&expected, "expected", "", "expected result template")
	return cmd
}

func (a *app) commandUpdateCmd() *cobra.Command {
	var action, expected string
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Replace the action or expected result of a template",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				cur, err := s.Templates().Get(args[0])
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("action") {
					cur.Action = action
				}
				if cmd.Flags().Changed("expected") {
					cur.Expected = expected
				}
				return s.UpdateCommand(args[0], cur.Action, cur.Expected)
			})
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "new action template")
	cmd.Flags().StringVar(&expected, "expected", "", "new expected result template")
	return cmd
}

func (a *app) commandRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a command template in place",
		Args:  checkArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.RenameCommand(args[0], args[1])
			})
		},
	}
}

func (a *app) commandDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a command template",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.DeleteCommand(args[0])
			})
		},
	}
}

func (a *app) commandListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List command templates, optionally filtered by name",
		Args:  checkArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				if len(args) == 0 {
					return a.emitList(cmd, s.Templates().Names())
				}
				return a.emitList(cmd, s.Templates().Filter(args[0]))
			})
		},
	}
}

// commandView is the JSON form of `command show`.
type commandView struct {
	Name         string   `json:"name"`
	Action       string   `json:"action"`
	Expected     string   `json:"expected_result"`
	Placeholders []string `json:"placeholders"`
}

func (a *app) commandShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a command template",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				c, err := s.Templates().Get(args[0])
				if err != nil {
					return err
				}
				v := commandView{
					Name:         c.Name,
					Action:       c.Action,
					Expected:     c.Expected,
					Placeholders: templates.RequiredCategories(c),
				}
				return a.emit(cmd, v, func(w io.Writer) {
					fmt.Fprintf(w, "Name: %s\n", v.Name)
					fmt.Fprintf(w, "Action: %s\n", v.Action)
					fmt.Fprintf(w, "Expected Result: %s\n", v.Expected)
					for _, p := range v.Placeholders {
						fmt.Fprintf(w, "Placeholder: {%s}\n", p)
					}
				})
			})
		},
	}
}

func (a *app) commandPlaceholdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "placeholders <name>",
		Short: "List the categories a template needs a selection for",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				c, err := s.Templates().Get(args[0])
				if err != nil {
					return err
				}
				return a.emitList(cmd, templates.RequiredCategories(c))
			})
		},
	}
}
