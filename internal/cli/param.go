package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/specbook/internal/compose"
	"github.com/mesh-intelligence/specbook/internal/session"
	"github.com/mesh-intelligence/specbook/internal/tabular"
)

func (a *app) newParamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "param",
		Short: "Manage the parameter catalog",
	}
	cmd.AddCommand(
		a.paramAddCmd(),
		a.paramRenameCmd(),
		a.paramDeleteCmd(),
		a.paramSetCmd(),
		a.paramGetCmd(),
		a.paramListCmd(),
		a.paramDuplicateCmd(),
		a.paramCopyToCmd(),
		a.paramImportCmd(),
		a.paramExportCmd(),
		a.variantCmd(),
		a.categoryCmd(),
	)
	return cmd
}

func (a *app) paramAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <name>",
		Short: "Add a parameter, creating the category if needed",
		Args:  checkArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.AddParameter(args[0], args[1])
			})
		},
	}
}

func (a *app) paramRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <category> <old> <new>",
		Short: "Rename a parameter in place",
		Args:  checkArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.RenameParameter(args[0], args[1], args[2])
			})
		},
	}
}

func (a *app) paramDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category> <name>",
		Short: "Delete a parameter",
		Args:  checkArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.DeleteParameter(args[0], args[1])
			})
		},
	}
}

func (a *app) paramSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <name> <variant> <value>",
		Short: "Set one variant value of a parameter",
		Args:  checkArgs(cobra.ExactArgs(4)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				return s.SetValue(args[0], args[1], args[2], args[3])
			})
		},
	}
}

// variantValue is one cell of a parameter row in JSON output.
type variantValue struct {
	Variant string `json:"variant"`
	Value   string `json:"value"`
}

func (a *app) paramGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <category> <name> [variant]",
		Short: "Show the values of a parameter",
		Args:  checkArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				p, err := s.Catalog().Get(args[0], args[1])
				if err != nil {
					return err
				}
				if len(args) == 3 {
					if !p.HasVariant(args[2]) {
						return usagef("category %q has no variant %q", args[0], args[2])
					}
					v := p.Value(args[2])
					return a.emit(cmd, variantValue{Variant: args[2], Value: v}, func(w io.Writer) {
						fmt.Fprintln(w, v)
					})
				}
				var row []variantValue
				for _, variant := range p.Variants() {
					row = append(row, variantValue{Variant: variant, Value: p.Value(variant)})
				}
				return a.emit(cmd, row, func(w io.Writer) {
					for _, c := range row {
						fmt.Fprintf(w, "%s: %s\n", c.Variant, c.Value)
					}
				})
			})
		},
	}
}

func (a *app) paramListCmd() *cobra.Command {
	var find, filter string
	cmd := &cobra.Command{
		Use:   "list [category]",
		Short: "List categories, or the parameters of one category",
		Args:  checkArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				if find != "" {
					var hits []string
					for _, cat := range s.Catalog().Categories() {
						if s.Catalog().Has(cat, find) {
							hits = append(hits, cat)
						}
					}
					return a.emitList(cmd, hits)
				}
				if len(args) == 0 {
					return a.emitList(cmd, s.Catalog().Categories())
				}
				names, err := compose.Candidates(s.Catalog(), args[0], filter)
				if err != nil {
					return err
				}
				return a.emitList(cmd, names)
			})
		},
	}
	cmd.Flags().StringVar(&find, "find", "", "list the categories that hold a parameter with this name")
	cmd.Flags().StringVar(&filter, "filter", "", "only parameters whose name contains this text, ignoring case")
	return cmd
}

func (a *app) paramDuplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <category> <name>",
		Short: "Copy a parameter to the next free name_k, right after it",
		Args:  checkArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				name, err := s.DuplicateParameter(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
}

func (a *app) paramCopyToCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy-to <category> <name> <target-category>",
		Short: "Copy a parameter into another category",
		Long: "Copy a parameter and paste it at the end of the target category. The\n" +
			"name gets \"_Copy\" appended until it is unique there.",
		Args: checkArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				if err := s.CopyParameter(args[0], args[1]); err != nil {
					return err
				}
				name, err := s.PasteParameter(args[2])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
}

func (a *app) paramImportCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Replace a category with the rows of a table",
		Long: "Import a table whose first column is \"Parameter Name\" and whose other\n" +
			"columns are variants. The category is named after the file unless\n" +
			"--category is given; an existing category of that name is replaced.",
		Args: checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tabular.ReadFile(args[0])
			if err != nil {
				return err
			}
			name := category
			if name == "" {
				name = tabular.BaseName(args[0])
			}
			return a.withSession(cmd, func(s *session.Session) error {
				overwritten, err := s.ImportCategory(name, t)
				if err != nil {
					return err
				}
				verb := "Imported"
				if overwritten {
					verb = "Replaced"
				}
				names, _ := s.Catalog().Parameters(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s category %s (%d parameters)\n", verb, name, len(names))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category name (default: file name without extension)")
	return cmd
}

func (a *app) paramExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <category> <file.csv|file.xlsx>",
		Short: "Write a category as a table",
		Args:  checkArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *session.Session) error {
				t, err := s.ExportCategory(args[0])
				if err != nil {
					return err
				}
				return tabular.WriteFile(args[1], t, tabular.WriteOptions{Sheet: args[0]})
			})
		},
	}
}

func (a *app) variantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variant",
		Short: "Manage the variant columns of a category",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <category> <variant>",
			Short: "Add a variant column to every parameter of a category",
			Args:  checkArgs(cobra.ExactArgs(2)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withSession(cmd, func(s *session.Session) error {
					return s.AddVariant(args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "delete <category> <variant>",
			Short: "Delete a variant column; the baseline column is protected",
			Args:  checkArgs(cobra.ExactArgs(2)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withSession(cmd, func(s *session.Session) error {
					return s.DeleteVariant(args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "list <category>",
			Short: "List the variant columns of a category",
			Args:  checkArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withSession(cmd, func(s *session.Session) error {
					variants, err := s.Catalog().Variants(args[0])
					if err != nil {
						return err
					}
					return a.emitList(cmd, variants)
				})
			},
		},
	)
	return cmd
}

func (a *app) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage parameter categories",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add an empty category",
			Args:  checkArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withSession(cmd, func(s *session.Session) error {
					return s.AddCategory(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete a category and all its parameters",
			Args:  checkArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withSession(cmd, func(s *session.Session) error {
					return s.DeleteCategory(args[0])
				})
			},
		},
	)
	return cmd
}
