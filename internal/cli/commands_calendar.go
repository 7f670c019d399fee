package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mekedron/cheftonic-cli/internal/calendar"
	"github.com/mekedron/cheftonic-cli/internal/domain"
	"github.com/mekedron/cheftonic-cli/internal/service/output"
)

var mondayFirst = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

func newCalendarCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var monthValue string
	var selectValues []string
	var multi bool

	cmd := &cobra.Command{
		Use:   "calendar [key]",
		Short: "Show a month with selectable and disabled days.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := newInvocation(cmd, deps, flags)
			if err != nil {
				return err
			}
			selections := make([]domain.Date, 0, len(selectValues))
			for _, raw := range selectValues {
				day, err := domain.ParseDate(raw)
				if err != nil {
					return inv.fail(codeInvalidArgument, err.Error())
				}
				selections = append(selections, day)
			}
			key, err := inv.restaurantKey(args)
			if err != nil {
				return err
			}
			session, err := inv.loadSession(key)
			if err != nil {
				return err
			}

			if strings.TrimSpace(monthValue) != "" {
				month, err := domain.ParseMonth(monthValue)
				if err != nil {
					return inv.fail(codeInvalidArgument, err.Error())
				}
				if err := session.ChangeMonth(month); err != nil {
					return inv.fail(codeInvalidArgument, err.Error())
				}
			}

			cal := session.Calendar()
			if multi {
				cfg := cal.Config()
				cfg.MultiSelection = true
				cfg.SelectedDays = nil
				cal = calendar.New(cfg, nil, cal.Month())
			}
			for _, day := range selections {
				if err := selectCalendarDay(session.SelectDay, cal, multi, day); err != nil {
					if errors.Is(err, calendar.ErrDayDisabled) {
						return inv.fail(codeInvalidArgument, err.Error())
					}
					return inv.sessionError(err)
				}
			}

			provider := inv.labelProvider()
			months := provider.Months(cmd.Context())
			weekdays := provider.Weekdays(cmd.Context())
			month := cal.Month()
			title := fmt.Sprintf("%s %d", months[month.Month-1], month.Year)

			draft := session.Draft()
			data := map[string]any{
				"restaurant":     key,
				"month":          month.String(),
				"month_label":    title,
				"weekday_labels": weekdayLabels(weekdays),
				"can_go_back":    cal.CanGoBack(),
				"multi":          multi,
				"days":           cal.Days(),
				"selected":       dateStrings(cal.Selected()),
				"draft": map[string]any{
					"day":           draft.Day.Format(time.RFC3339),
					"booking_state": string(session.BookingState()),
				},
			}
			return inv.write(data, func() string {
				return buildCalendarTable(title, weekdays, cal)
			})
		},
	}

	cmd.Flags().StringVar(&monthValue, "month", "", "Month to show (YYYY-MM). Defaults to the month of the first bookable day.")
	cmd.Flags().StringArrayVar(&selectValues, "select", nil, "Select a day (YYYY-MM-DD, repeatable).")
	cmd.Flags().BoolVar(&multi, "multi", false, "Toggle each selected day instead of keeping only the last one.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func selectCalendarDay(selectDay func(domain.Date) error, cal *calendar.Calendar, multi bool, day domain.Date) error {
	if multi {
		return cal.Select(day)
	}
	return selectDay(day)
}

func weekdayLabels(names map[time.Weekday]string) []string {
	labels := make([]string, 0, len(mondayFirst))
	for _, day := range mondayFirst {
		labels = append(labels, names[day])
	}
	return labels
}

func dateStrings(days []domain.Date) []string {
	values := make([]string, 0, len(days))
	for _, day := range days {
		values = append(values, day.String())
	}
	return values
}

func abbreviate(label string) string {
	runes := []rune(label)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}

func buildCalendarTable(title string, weekdays map[time.Weekday]string, cal *calendar.Calendar) string {
	headers := make([]string, 0, len(mondayFirst))
	for _, day := range mondayFirst {
		headers = append(headers, abbreviate(weekdays[day]))
	}
	weeks := cal.Weeks()
	rows := make([][]string, 0, len(weeks))
	for _, week := range weeks {
		row := make([]string, 0, len(week))
		for _, cell := range week {
			row = append(row, calendarCell(cell))
		}
		rows = append(rows, row)
	}
	table := output.RenderTable(title, headers, rows)
	return table + "\n\n[d] selected  (d) unavailable"
}

func calendarCell(cell *calendar.DayState) string {
	if cell == nil {
		return ""
	}
	day := strconv.Itoa(cell.Date.Day)
	switch {
	case cell.Selected:
		return "[" + day + "]"
	case cell.Disabled:
		return "(" + day + ")"
	default:
		return day
	}
}
