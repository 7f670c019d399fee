package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mekedron/cheftonic-cli/internal/labels"
	"github.com/mekedron/cheftonic-cli/internal/service/output"
)

func newLabelsCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "labels <weekdays|months|booking_status>",
		Short: "Show localized labels for the resolved locale.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := newInvocation(cmd, deps, flags)
			if err != nil {
				return err
			}
			provider := inv.labelProvider()
			key := strings.ToLower(strings.TrimSpace(args[0]))

			var entries [][2]string
			switch key {
			case labels.KeyWeekdays:
				names := provider.Weekdays(cmd.Context())
				for _, day := range mondayFirst {
					entries = append(entries, [2]string{strings.ToLower(day.String()), names[day]})
				}
			case labels.KeyMonths:
				names := provider.Months(cmd.Context())
				for i, name := range names {
					entries = append(entries, [2]string{strings.ToLower(time.Month(i + 1).String()), name})
				}
			case labels.KeyBookingStatus:
				names := provider.BookingStatus(cmd.Context())
				keys := make([]string, 0, len(names))
				for name := range names {
					keys = append(keys, name)
				}
				sort.Strings(keys)
				for _, name := range keys {
					entries = append(entries, [2]string{name, names[name]})
				}
			default:
				return inv.fail(codeInvalidArgument, fmt.Sprintf("unknown label set %q (use %s, %s or %s)",
					args[0], labels.KeyWeekdays, labels.KeyMonths, labels.KeyBookingStatus))
			}

			items := make([]map[string]any, 0, len(entries))
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				items = append(items, map[string]any{"key": entry[0], "value": entry[1]})
				rows = append(rows, []string{entry[0], entry[1]})
			}
			data := map[string]any{
				"set":    key,
				"lang":   provider.Locale(),
				"labels": items,
			}
			return inv.write(data, func() string {
				return output.RenderTable(fmt.Sprintf("%s (%s)", key, provider.Locale()), []string{"KEY", "LABEL"}, rows)
			})
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}
