package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mekedron/cheftonic-cli/internal/booking"
	"github.com/mekedron/cheftonic-cli/internal/calendar"
	"github.com/mekedron/cheftonic-cli/internal/domain"
	"github.com/mekedron/cheftonic-cli/internal/service/output"
)

func newBookCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var contact domain.Contact
	var dateValue string
	var timeValue string
	var pax int
	var notes string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "book [key]",
		Short: "Send a booking request for a day, time and party size.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := newInvocation(cmd, deps, flags)
			if err != nil {
				return err
			}
			var day domain.Date
			if strings.TrimSpace(dateValue) != "" {
				day, err = domain.ParseDate(dateValue)
				if err != nil {
					return inv.fail(codeInvalidArgument, err.Error())
				}
			}
			key, err := inv.restaurantKey(args)
			if err != nil {
				return err
			}
			session, err := inv.loadSession(key)
			if err != nil {
				return err
			}

			if !day.IsZero() {
				if err := session.SelectDay(day); err != nil {
					if errors.Is(err, calendar.ErrDayDisabled) {
						return inv.fail(codeInvalidArgument, err.Error())
					}
					return inv.sessionError(err)
				}
				if session.BookingState() == booking.InvalidDay {
					return inv.fail(codeNoAvailability, fmt.Sprintf("no availability on %s", day))
				}
			}
			if strings.TrimSpace(timeValue) != "" {
				if err := session.SelectTime(strings.TrimSpace(timeValue)); err != nil {
					return inv.fail(codeInvalidArgument, offeredTimesHint(err, session))
				}
			}
			if cmd.Flags().Changed("pax") {
				session.SetPax(pax)
			}
			session.SetNotes(strings.TrimSpace(notes))
			session.SetContact(mergeContact(inv.profile.Contact, contact))

			request, err := session.PrepareRequest()
			if err != nil {
				return inv.sessionError(err)
			}
			if dryRun {
				data := map[string]any{
					"dry_run":       true,
					"booking_state": string(session.BookingState()),
					"request":       request,
				}
				return inv.write(data, func() string {
					return buildBookRequestTable("Booking request (dry run, not sent)", request)
				})
			}

			confirmation, err := session.Submit(cmd.Context())
			if err != nil {
				return inv.sessionError(err)
			}
			state := session.BookingState()
			statusLabels := inv.labelProvider().BookingStatus(cmd.Context())
			data := map[string]any{
				"dry_run":       false,
				"booking_state": string(state),
				"status":        statusLabels[string(state)],
				"request":       request,
				"confirmation":  confirmation,
			}
			return inv.write(data, func() string {
				return "🏁 " + statusLabels[string(state)] + "\n" + buildConfirmationTable(request, confirmation)
			})
		},
	}

	cmd.Flags().StringVar(&contact.Name, "name", "", "Guest first name. Defaults to the profile contact.")
	cmd.Flags().StringVar(&contact.Surname, "surname", "", "Guest surname.")
	cmd.Flags().StringVar(&contact.Email, "email", "", "Guest email. Defaults to the profile contact.")
	cmd.Flags().StringVar(&contact.Phone, "phone", "", "Guest phone number. Defaults to the profile contact.")
	cmd.Flags().StringVar(&dateValue, "date", "", "Booking day (YYYY-MM-DD). Defaults to the first bookable day.")
	cmd.Flags().StringVar(&timeValue, "time", "", "Booking time (HH:MM). Defaults to the first slot of the day.")
	cmd.Flags().IntVar(&pax, "pax", booking.DefaultPax, "Party size.")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the restaurant.")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and print the request without sending it.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

// mergeContact overlays non-empty override fields on the saved contact.
func mergeContact(saved domain.Contact, override domain.Contact) domain.Contact {
	merged := saved
	if v := strings.TrimSpace(override.Name); v != "" {
		merged.Name = v
	}
	if v := strings.TrimSpace(override.Surname); v != "" {
		merged.Surname = v
	}
	if v := strings.TrimSpace(override.Email); v != "" {
		merged.Email = v
	}
	if v := strings.TrimSpace(override.Phone); v != "" {
		merged.Phone = v
	}
	return merged
}

func offeredTimesHint(err error, session *booking.Session) string {
	offered := make([]string, 0)
	for _, slot := range session.AvailableTimes() {
		offered = append(offered, formatClock(slot.Start))
	}
	if len(offered) == 0 {
		return err.Error()
	}
	return fmt.Sprintf("%s (offered: %s)", err.Error(), strings.Join(offered, ", "))
}

func buildBookRequestTable(title string, request domain.BookRequest) string {
	guest := strings.TrimSpace(request.Name + " " + request.Surname)
	return output.RenderTable(title, []string{"FIELD", "VALUE"}, [][]string{
		{"restaurant", request.RestaurantID},
		{"service", request.Service},
		{"book_date", request.BookDate},
		{"pax", strconv.Itoa(request.NumPax)},
		{"guest", guest},
		{"email", request.Email},
		{"phone", request.Phone},
		{"notes", request.Notes},
	})
}

func buildConfirmationTable(request domain.BookRequest, confirmation *domain.BookingConfirmation) string {
	restaurant := request.RestaurantID
	bookDate := request.BookDate
	pax := request.NumPax
	if confirmation != nil {
		if confirmation.Restaurant.Name != "" {
			restaurant = confirmation.Restaurant.Name
		}
		if confirmation.BookDate != "" {
			bookDate = confirmation.BookDate
		}
		if confirmation.NumPax > 0 {
			pax = confirmation.NumPax
		}
	}
	return output.RenderTable("", []string{"RESTAURANT", "BOOK DATE", "PAX", "SERVICE"}, [][]string{
		{restaurant, bookDate, strconv.Itoa(pax), request.Service},
	})
}
