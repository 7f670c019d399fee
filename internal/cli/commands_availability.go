package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mekedron/cheftonic-cli/internal/availability"
	"github.com/mekedron/cheftonic-cli/internal/service/output"
)

const maxAvailabilityDays = 62

func newAvailabilityCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var dateValue string
	var days int
	var withSlots bool

	cmd := &cobra.Command{
		Use:   "availability [key]",
		Short: "Show bookable time ranges per day.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := newInvocation(cmd, deps, flags)
			if err != nil {
				return err
			}
			if days < 1 || days > maxAvailabilityDays {
				return inv.fail(codeInvalidArgument, fmt.Sprintf("--days must be between 1 and %d", maxAvailabilityDays))
			}
			from, err := parseDateFlag(dateValue, inv.today())
			if err != nil {
				return inv.fail(codeInvalidArgument, err.Error())
			}
			key, err := inv.restaurantKey(args)
			if err != nil {
				return err
			}
			session, err := inv.loadSession(key)
			if err != nil {
				return err
			}

			engine := session.Engine()
			now := inv.deps.now()
			results := make([]availability.DayAvailability, 0, days)
			for i := 0; i < days; i++ {
				results = append(results, engine.AvailabilityFor(from.AddDays(i), now))
			}

			rows := make([]map[string]any, 0, len(results))
			for _, day := range results {
				rows = append(rows, availabilityRow(day, engine.ClosingDay(day.Day), withSlots))
			}
			data := map[string]any{
				"restaurant": key,
				"timezone":   inv.loc.String(),
				"days":       rows,
			}
			return inv.write(data, func() string {
				return buildAvailabilityTable(key, results, engine, withSlots)
			})
		},
	}

	cmd.Flags().StringVar(&dateValue, "date", "", "First day to show (YYYY-MM-DD). Defaults to today.")
	cmd.Flags().IntVar(&days, "days", 1, "Number of consecutive days to show.")
	cmd.Flags().BoolVar(&withSlots, "slots", false, "List every offered start time.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func availabilityRow(day availability.DayAvailability, closed bool, withSlots bool) map[string]any {
	ranges := make([]map[string]any, 0, len(day.Ranges))
	for _, r := range day.Ranges {
		ranges = append(ranges, map[string]any{
			"service_id": r.ServiceID,
			"start":      r.Start.Format(time.RFC3339),
			"end":        r.End.Format(time.RFC3339),
		})
	}
	row := map[string]any{
		"day":     day.Day.String(),
		"weekday": strings.ToLower(day.Day.Weekday().String()),
		"closed":  closed,
		"ranges":  ranges,
	}
	if withSlots {
		slots := make([]string, 0)
		for _, slot := range day.Slots() {
			slots = append(slots, formatClock(slot.Start))
		}
		row["slots"] = slots
	}
	return row
}

func buildAvailabilityTable(key string, days []availability.DayAvailability, engine *availability.Engine, withSlots bool) string {
	headers := []string{"DAY", "WEEKDAY", "SERVICE", "FROM", "UNTIL"}
	if withSlots {
		headers = append(headers, "SLOTS")
	}
	rows := make([][]string, 0, len(days))
	for _, day := range days {
		weekday := day.Day.Weekday().String()[:3]
		if day.IsEmpty() {
			status := "-"
			if engine.ClosingDay(day.Day) {
				status = "closed"
			}
			row := []string{day.Day.String(), weekday, status, "-", "-"}
			if withSlots {
				row = append(row, "-")
			}
			rows = append(rows, row)
			continue
		}
		for _, r := range day.Ranges {
			row := []string{day.Day.String(), weekday, r.ServiceID, formatClock(r.Start), formatClock(r.End)}
			if withSlots {
				row = append(row, strings.Join(rangeSlots(day, r), " "))
			}
			rows = append(rows, row)
		}
	}
	return output.RenderTable("Availability for "+key, headers, rows)
}

func rangeSlots(day availability.DayAvailability, r availability.ServiceRange) []string {
	single := availability.DayAvailability{Day: day.Day, Ranges: []availability.ServiceRange{r}}
	slots := make([]string, 0)
	for _, slot := range single.Slots() {
		slots = append(slots, formatClock(slot.Start))
	}
	return slots
}

func newFirstCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var fromValue string

	cmd := &cobra.Command{
		Use:   "first [key]",
		Short: "Find the soonest bookable slot.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := newInvocation(cmd, deps, flags)
			if err != nil {
				return err
			}
			from, err := parseDateFlag(fromValue, inv.today())
			if err != nil {
				return inv.fail(codeInvalidArgument, err.Error())
			}
			key, err := inv.restaurantKey(args)
			if err != nil {
				return err
			}
			session, err := inv.loadSession(key)
			if err != nil {
				return err
			}
			slot, err := session.Engine().FirstBookable(from, inv.deps.now())
			if err != nil {
				return inv.sessionError(err)
			}

			data := map[string]any{
				"restaurant": key,
				"service_id": slot.ServiceID,
				"day":        slot.Start.Format("2006-01-02"),
				"start":      slot.Start.Format(time.RFC3339),
			}
			return inv.write(data, func() string {
				return output.RenderTable("", []string{"RESTAURANT", "DAY", "TIME", "SERVICE"}, [][]string{
					{key, slot.Start.Format("2006-01-02 Mon"), formatClock(slot.Start), slot.ServiceID},
				})
			})
		},
	}

	cmd.Flags().StringVar(&fromValue, "from", "", "Start the search on this day (YYYY-MM-DD). Past days start today.")
	addGlobalFlags(cmd, &flags)
	return cmd
}
