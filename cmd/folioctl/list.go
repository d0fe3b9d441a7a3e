package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/khoahotran/folio/internal/domain/portfolio"
)

func newListCmd(env *Env) *cobra.Command {
	var userID, query string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored portfolios",
		Long: `List stored portfolios with their vote counts.

Examples:
  folioctl list
  folioctl list --user 0b6f... --query ceramics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, closeFn, err := env.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			items, err := stores.Portfolios.List(cmd.Context(), portfolio.ListFilter{
				UserID: userID,
				Query:  query,
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No portfolios found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tOWNER\tUP\tDOWN\tBLOCKS")
			for _, p := range items {
				t := p.Tally()
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n", p.ID, p.Title, p.UserID, t.Upvotes, t.Downvotes, len(p.Blocks))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Only portfolios created by this user id")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Match title or tagline")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows, 0 for all")
	return cmd
}
