package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/specbook/internal/derive"
	"github.com/mesh-intelligence/specbook/internal/session"
	"github.com/mesh-intelligence/specbook/internal/tabular"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

// exportSheet names the worksheet of an exported suite.
const exportSheet = "Tests"

func (a *app) newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Manage test cases",
	}
	cmd.AddCommand(
		a.testAddCmd(),
		a.testRenameCmd(),
		a.testDeleteCmd(),
		a.testDuplicateCmd(),
		a.testShowCmd(),
		a.testListCmd(),
		a.testDescribeCmd(),
		a.testPreconditionCmd(),
		a.testRefreshCmd(),
		a.testImportCmd(),
		a.testExportCmd(),
		a.newStepCmd(),
	)
	return cmd
}

func (a *app) testAddCmd() *cobra.Command {
	var description, precondition string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an empty test case",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.AddTestCase(args[0], description, precondition)
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "test description")
	cmd.Flags().StringVar(&precondition, "precondition", "", "test precondition")
	return cmd
}

func (a *app) testRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a test case in place",
		Args:  checkArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.RenameTestCase(args[0], args[1])
			})
		},
	}
}

func (a *app) testDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a test case",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.DeleteTestCase(args[0])
			})
		},
	}
}

func (a *app) testDuplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <name>",
		Short: "Copy a test case to the next free name_k, right after it",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				name, err := s.DuplicateTestCase(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
}

// stepView is one step in JSON output.
type stepView struct {
	Action   string `json:"action"`
	Expected string `json:"expected_result"`
}

// testView is the JSON form of `test show`.
type testView struct {
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	Precondition        string     `json:"precondition"`
	Steps               []stepView `json:"steps"`
	TestDataDescription []string   `json:"test_data_description"`
	DescriptionTCG      []string   `json:"description_tcg"`
}

func newTestView(tc *types.TestCase) testView {
	v := testView{
		Name:                tc.Name,
		Description:         tc.Description,
		Precondition:        tc.Precondition,
		Steps:               []stepView{},
		TestDataDescription: append([]string{}, tc.TestDataDescription...),
		DescriptionTCG:      append([]string{}, tc.DescriptionTCG...),
	}
	for _, st := range tc.Steps {
		v.Steps = append(v.Steps, stepView{Action: st.Action, Expected: st.Expected})
	}
	return v
}

func (v testView) write(w io.Writer) {
	fmt.Fprintf(w, "Name: %s\n", v.Name)
	fmt.Fprintf(w, "Description: %s\n", v.Description)
	fmt.Fprintf(w, "Precondition: %s\n", v.Precondition)
	fmt.Fprintln(w, "Steps:")
	for i, st := range v.Steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, st.Action)
		if st.Expected != "" {
			fmt.Fprintf(w, "     => %s\n", st.Expected)
		}
	}
	fmt.Fprintln(w, "Test Data Description:")
	for _, l := range v.TestDataDescription {
		fmt.Fprintf(w, "  %s\n", l)
	}
	fmt.Fprintln(w, "Description TCG:")
	for _, l := range v.DescriptionTCG {
		fmt.Fprintf(w, "  %s\n", l)
	}
}

func (a *app) testShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a test case with its derived fields",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				tc, err := s.Test(args[0])
				if err != nil {
					return err
				}
				v := newTestView(tc)
				return a.emit(cmd, v, v.write)
			})
		},
	}
}

func (a *app) testListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List test cases, optionally filtered by name",
		Args:  checkArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				query := ""
				if len(args) == 1 {
					query = args[0]
				}
				return a.emitList(cmd, s.FilterTests(query))
			})
		},
	}
}

func (a *app) testDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name> <description>",
		Short: "Replace the description of a test case",
		Args:  checkArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.SetDescription(args[0], args[1])
			})
		},
	}
}

func (a *app) testPreconditionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "precondition <name> <precondition>",
		Short: "Replace the precondition of a test case",
		Args:  checkArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.SetPrecondition(args[0], args[1])
			})
		},
	}
}

// refreshView is the JSON form of `test refresh <name>`.
type refreshView struct {
	Name         string        `json:"name"`
	Changed      bool          `json:"changed"`
	TestDataDiff []derive.Line `json:"test_data_diff,omitempty"`
	TCGDiff      []derive.Line `json:"tcg_diff,omitempty"`
}

func writeDiff(w io.Writer, title string, lines []derive.Line) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, l := range lines {
		switch l.Type {
		case derive.LineAdded:
			fmt.Fprintf(w, "+ %s\n", l.Text)
		case derive.LineRemoved:
			fmt.Fprintf(w, "- %s\n", l.Text)
		default:
			fmt.Fprintf(w, "  %s\n", l.Text)
		}
	}
}

func (a *app) testRefreshCmd() *cobra.Command {
	var showDiff bool
	cmd := &cobra.Command{
		Use:   "refresh [name]",
		Short: "Recompute derived fields of one or every test case",
		Args:  checkArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				if len(args) == 0 {
					changed, err := s.RefreshAll()
					if err != nil {
						return err
					}
					return a.emitList(cmd, changed)
				}
				ch, err := s.Refresh(args[0])
				if err != nil {
					return err
				}
				v := refreshView{Name: args[0], Changed: ch.Any()}
				if showDiff {
					v.TestDataDiff, v.TCGDiff = ch.TestDataDiff, ch.TCGDiff
				}
				return a.emit(cmd, v, func(w io.Writer) {
					if !v.Changed {
						fmt.Fprintf(w, "%s: up to date\n", v.Name)
						return
					}
					fmt.Fprintf(w, "%s: updated\n", v.Name)
					writeDiff(w, "Test Data Description", v.TestDataDiff)
					writeDiff(w, "Description TCG", v.TCGDiff)
				})
			})
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a line diff of the fields that changed")
	return cmd
}

func (a *app) testImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Add test cases from a table; existing names are skipped",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tabular.ReadFile(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(s *session.Session) error {
				res, err := s.ImportTests(t)
				if err != nil {
					return err
				}
				return a.emit(cmd, res, func(w io.Writer) {
					fmt.Fprintf(w, "Imported %d test cases, skipped %d\n", len(res.Added), len(res.Skipped))
				})
			})
		},
	}
}

func (a *app) testExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv|file.xlsx>",
		Short: "Write every test case as a table",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return tabular.WriteFile(args[0], s.ExportTests(), tabular.WriteOptions{
					Sheet:        exportSheet,
					StyledHeader: true,
				})
			})
		},
	}
}
