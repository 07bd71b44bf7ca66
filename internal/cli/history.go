package cli

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/specbook/internal/sqlite"
	"github.com/mesh-intelligence/specbook/pkg/store"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

// revisionLister is implemented by backends that keep save history.
type revisionLister interface {
	Revisions(doc types.Document, limit int) ([]sqlite.Revision, error)
}

// revisionView is one row of `history` output.
type revisionView struct {
	Document types.Document `json:"document"`
	ID       string         `json:"id"`
	Size     int            `json:"size"`
	SavedAt  time.Time      `json:"saved_at"`
}

func (a *app) newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [parameters|generic_commands|tests]",
		Short: "List saved revisions of the documents (sqlite backend)",
		Args:  checkArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			docs := types.Documents
			if len(args) == 1 {
				doc := types.Document(args[0])
				if !slices.Contains(types.Documents, doc) {
					return usagef("unknown document %q", args[0])
				}
				docs = []types.Document{doc}
			}

			st, err := store.Open(a.cfg)
			if err != nil {
				return err
			}
			defer func() {
				if derr := st.Detach(); derr != nil && err == nil {
					err = derr
				}
			}()
			lister, ok := st.(revisionLister)
			if !ok {
				return usagef("history needs the %s backend, configured backend is %s", types.BackendSQLite, a.cfg.Backend)
			}

			rows := []revisionView{}
			for _, doc := range docs {
				revs, err := lister.Revisions(doc, limit)
				if err != nil {
					return err
				}
				for _, r := range revs {
					rows = append(rows, revisionView{Document: doc, ID: r.ID, Size: r.Size, SavedAt: r.CreatedAt})
				}
			}
			return a.emit(cmd, rows, func(w io.Writer) {
				for _, r := range rows {
					fmt.Fprintf(w, "%s  %-16s  %s  %d bytes\n", r.SavedAt.Format(time.RFC3339), r.Document, r.ID, r.Size)
				}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "revisions per document (0 = all)")
	return cmd
}
