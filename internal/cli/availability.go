package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/availability"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/records"
)

// availabilityOpts holds options for the availability command.
type availabilityOpts struct {
	bookings string
	ticket   string
	selected []string
	jsonOut  bool
}

// availabilityCommand creates the availability command for seat status.
func (c *CLI) availabilityCommand() *cobra.Command {
	var opts availabilityOpts

	cmd := &cobra.Command{
		Use:   "availability <layout-id>",
		Short: "Compute seat status from a bookings file",
		Long: `Compute the booking status of every enabled seat in a layout.

The bookings file is a JSON array of {id, seats, paid, cancelled,
paymentDeadline} objects. Seats may be referenced by id string, by
{"seat": id} or by any object carrying an id.`,
		Example: `  seatmap availability coach-42 --bookings bookings.json
  seatmap availability coach-42 --bookings - --ticket b-17 --json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeLayoutIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var bookings []availability.Booking
			if opts.bookings != "" {
				data, err := readInput(cmd.InOrStdin(), opts.bookings)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &bookings); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed bookings file")
				}
			}
			return c.withStore(cmd.Context(), func(s records.Store) error {
				return c.runAvailability(cmd.Context(), s, args[0], bookings, cmd.OutOrStdout(), opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.bookings, "bookings", "b", "", "bookings JSON file (- for stdin)")
	cmd.Flags().StringVar(&opts.ticket, "ticket", "", "booking id of the ticket being viewed")
	cmd.Flags().StringSliceVar(&opts.selected, "select", nil, "seat ids picked but not yet booked")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the status map as JSON")

	return cmd
}

func (c *CLI) runAvailability(ctx context.Context, s records.Store, id string, bookings []availability.Booking, w io.Writer, opts availabilityOpts) error {
	_, st, err := loadState(ctx, s, id)
	if err != nil {
		return err
	}

	seats := availability.Compute(st.Elements, bookings, availability.Options{
		Now:           time.Now(),
		CurrentTicket: opts.ticket,
		Selected:      opts.selected,
	})
	counts := availability.Count(seats)
	c.Logger.Debug("availability computed", "layout", id, "bookings", len(bookings), "seats", len(seats))

	if opts.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"seats": seats, "counts": counts})
	}

	labels := make(map[string]string, len(st.Elements))
	for _, e := range st.Elements {
		labels[e.ID] = e.SeatNumber
	}
	ids := make([]string, 0, len(seats))
	for sid := range seats {
		ids = append(ids, sid)
	}
	sort.Slice(ids, func(i, j int) bool {
		if labels[ids[i]] != labels[ids[j]] {
			return seatNumberLess(labels[ids[i]], labels[ids[j]])
		}
		return ids[i] < ids[j]
	})

	rows := make([][]string, len(ids))
	for i, sid := range ids {
		rows[i] = []string{labels[sid], sid, string(seats[sid])}
	}
	t := newTable([]string{"Seat", "ID", "Status"}, rows, func(row, col int) lipgloss.Style {
		switch {
		case col == 2 && row < len(ids):
			return statusStyles[seats[ids[row]]]
		case col == 1:
			return StyleDim
		}
		return lipgloss.NewStyle()
	})
	fmt.Fprintln(w, t.Render())

	for _, status := range []availability.Status{
		availability.StatusAvailable,
		availability.StatusSelected,
		availability.StatusUnpaid,
		availability.StatusBooked,
		availability.StatusCurrentTicket,
	} {
		if n := counts[status]; n > 0 {
			fmt.Fprintln(w, statusStyles[status].Width(16).Render(string(status))+" "+StyleNumber.Render(fmt.Sprint(n)))
		}
	}
	return nil
}

// seatNumberLess orders seat numbers numerically when both parse, then
// lexically. Unnumbered seats sort last.
func seatNumberLess(a, b string) bool {
	if a == "" || b == "" {
		return b == "" && a != ""
	}
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil && na != nb {
		return na < nb
	}
	return a < b
}
