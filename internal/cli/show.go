package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/errors"
	seatio "github.com/matzehuels/seatmap/pkg/io"
	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/records"
	"github.com/matzehuels/seatmap/pkg/render"
)

// showCommand creates the show command for printing a stored layout.
func (c *CLI) showCommand() *cobra.Command {
	var noStats bool

	cmd := &cobra.Command{
		Use:               "show <layout-id>",
		Short:             "Print a stored layout as a grid",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeLayoutIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s records.Store) error {
				return c.runShow(cmd.Context(), s, args[0], !noStats)
			})
		},
	}

	cmd.Flags().BoolVar(&noStats, "no-stats", false, "omit the element counts")
	return cmd
}

func (c *CLI) runShow(ctx context.Context, s records.Store, id string, stats bool) error {
	rec, st, err := loadState(ctx, s, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, StyleTitle.Render(id)+StyleDim.Render(fmt.Sprintf("  %d×%d · updated %s",
		st.Dimensions.Rows, st.Dimensions.Cols, formatRelativeTime(rec.UpdatedAt, time.Now()))))
	fmt.Fprint(stdout, renderGrid(render.Grid(st, render.View{}), nil))

	if n := len(render.Orphans(st)); n > 0 {
		printWarning("%d element(s) lie outside the grid", n)
	}
	if stats {
		fmt.Fprintln(stdout, statsTable(render.Summarize(st)))
	}
	return nil
}

// loadState reads a record and decodes it onto a grid large enough to
// hold every element.
func loadState(ctx context.Context, s records.Store, id string) (*records.Record, layout.State, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, layout.State{}, err
	}
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, layout.State{}, err
	}
	elements, err := seatio.Decode(rec.Layout)
	if err != nil {
		return nil, layout.State{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout %s", id)
	}
	return rec, layout.State{
		Dimensions: layout.Extent(elements, layout.MinImportDimensions),
		Elements:   elements,
	}, nil
}

// =============================================================================
// list
// =============================================================================

// listCommand creates the list command for browsing stored layouts.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored layouts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s records.Store) error {
				return c.runList(cmd.Context(), s)
			})
		},
	}
}

func (c *CLI) runList(ctx context.Context, s records.Store) error {
	ids, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		printInfo("No layouts stored")
		printNextStep("Create one", "seatmap edit <layout-id>")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rec, st, err := loadState(ctx, s, id)
		if errors.Is(err, errors.ErrCodeLayoutNotFound) {
			continue // deleted since List
		}
		if err != nil {
			c.Logger.Warn("skipping layout", "id", id, "err", err)
			continue
		}
		sum := render.Summarize(st)
		rows = append(rows, []string{
			id,
			fmt.Sprintf("%d×%d", st.Dimensions.Rows, st.Dimensions.Cols),
			fmt.Sprint(sum.Seats),
			fmt.Sprint(sum.EnabledSeats),
			formatRelativeTime(rec.UpdatedAt, now),
		})
	}

	t := newTable([]string{"Layout", "Grid", "Seats", "Enabled", "Updated"}, rows, func(_, col int) lipgloss.Style {
		switch col {
		case 0:
			return StyleHighlight
		case 4:
			return StyleDim
		}
		return lipgloss.NewStyle()
	})
	fmt.Fprintln(stdout, t.Render())
	return nil
}

// =============================================================================
// delete
// =============================================================================

// deleteCommand creates the delete command for removing stored layouts.
func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <layout-id>...",
		Aliases: []string{"rm"},
		Short:   "Delete stored layouts",
		Args:    cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return c.completeLayoutIDs(cmd, nil, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s records.Store) error {
				for _, id := range args {
					if err := errors.ValidateLayoutID(id); err != nil {
						return err
					}
					if err := s.Delete(cmd.Context(), id); err != nil {
						return err
					}
					printSuccess("Deleted %s", id)
				}
				return nil
			})
		},
	}
}
