package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mekedron/cheftonic-cli/internal/availability"
	"github.com/mekedron/cheftonic-cli/internal/calendar"
	"github.com/mekedron/cheftonic-cli/internal/domain"
)

// DefaultPax is the party size of a fresh draft.
const DefaultPax = 2

// Backend is the booking API the session talks to.
type Backend interface {
	RestaurantBookingInfo(ctx context.Context, restaurantID string) (*domain.Restaurant, error)
	CreateBookRequest(ctx context.Context, request domain.BookRequest) (*domain.BookingConfirmation, error)
}

// Draft is the booking being prepared.
type Draft struct {
	Day     time.Time      `json:"day" yaml:"day"`
	Pax     int            `json:"pax" yaml:"pax" validate:"gte=1,lte=100"`
	Notes   string         `json:"notes,omitempty" yaml:"notes,omitempty" validate:"max=500"`
	Contact domain.Contact `json:"contact" yaml:"contact"`
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the restaurant's time zone.
func WithLocation(loc *time.Location) Option {
	return func(s *Session) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithEngineOptions forwards options to the availability engine built by Load.
func WithEngineOptions(opts ...availability.Option) Option {
	return func(s *Session) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithContact pre-fills the contact of every fresh draft.
func WithContact(contact domain.Contact) Option {
	return func(s *Session) {
		s.defaultContact = contact
	}
}

// Session drives one guest through day, time and party selection up to
// submission. It is not safe for concurrent use.
type Session struct {
	backend        Backend
	key            Key
	keyErr         error
	logger         *zap.Logger
	now            func() time.Time
	loc            *time.Location
	engineOpts     []availability.Option
	defaultContact domain.Contact

	restaurantState RestaurantState
	bookingState    BookingState
	restaurant      *domain.Restaurant
	engine          *availability.Engine
	calendar        *calendar.Calendar
	weekdays        []time.Weekday
	earliest        domain.Date
	draft           Draft
	confirmation    *domain.BookingConfirmation
}

// NewSession validates rawKey. An invalid key leaves the session in the
// invalid_id state and Load returns ErrInvalidKey.
func NewSession(backend Backend, rawKey string, opts ...Option) *Session {
	s := &Session{
		backend:         backend,
		logger:          zap.NewNop(),
		now:             time.Now,
		loc:             time.Local,
		restaurantState: RestaurantNotLoaded,
		bookingState:    NotSubmitted,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.key, s.keyErr = ParseKey(rawKey)
	if s.keyErr != nil {
		s.bookingState = InvalidID
	}
	s.draft = Draft{Day: s.now().In(s.loc), Pax: DefaultPax, Contact: s.defaultContact}
	return s
}

// Load fetches the restaurant, builds the availability engine and moves the
// draft to the first bookable slot.
func (s *Session) Load(ctx context.Context) error {
	if s.keyErr != nil {
		s.logger.Warn("restaurant key rejected", zap.Error(s.keyErr))
		return s.keyErr
	}
	logger := s.logger.With(zap.String("restaurant", s.key.Raw))

	restaurant, err := s.backend.RestaurantBookingInfo(ctx, s.key.Raw)
	if err != nil {
		logger.Error("restaurant load failed", zap.Error(err))
		return fmt.Errorf("load restaurant %s: %w", s.key, err)
	}
	if err := ValidateRestaurant(restaurant); err != nil {
		s.restaurantState = RestaurantInfoPending
		logger.Warn("restaurant is not ready for online bookings", zap.Error(err))
		return err
	}

	engine, err := availability.NewEngine(restaurant, s.loc, s.engineOpts...)
	if err != nil {
		logger.Error("restaurant configuration rejected", zap.Error(err))
		return err
	}
	weekdays, err := domain.ParseWeekdays(restaurant.Opening.OpenWeekdays)
	if err != nil {
		return fmt.Errorf("%w: opening: %v", availability.ErrInvalidConfig, err)
	}

	now := s.now()
	slot, err := engine.FirstBookable(domain.Date{}, now)
	if err != nil {
		logger.Warn("no bookable day found", zap.Int("horizon_days", engine.Horizon()), zap.Error(err))
		return err
	}

	s.restaurant = restaurant
	s.engine = engine
	s.weekdays = weekdays
	s.earliest = domain.DateOf(slot.Start)
	s.draft = s.freshDraft(slot.Start)
	s.bookingState = NotSubmitted
	s.confirmation = nil

	month := domain.MonthOf(s.earliest)
	s.calendar = calendar.New(s.calendarConfig(month), s, month)
	s.restaurantState = RestaurantOK
	logger.Info("restaurant loaded",
		zap.Int("services", len(restaurant.Services)),
		zap.Time("first_slot", slot.Start),
		zap.String("first_service", slot.ServiceID),
	)
	return nil
}

func (s *Session) freshDraft(day time.Time) Draft {
	return Draft{Day: day, Pax: DefaultPax, Contact: s.defaultContact}
}

func (s *Session) calendarConfig(month domain.Month) calendar.Config {
	earliest := s.earliest
	return calendar.Config{
		EarliestDay:     &earliest,
		WeekdaysEnabled: s.weekdays,
		DisabledDays:    s.engine.ClosingDaysInMonth(month),
		SelectedDays:    []domain.Date{domain.DateOf(s.draft.Day)},
	}
}

func (s *Session) ready() error {
	if s.restaurantState != RestaurantOK || s.engine == nil {
		return ErrNotReady
	}
	return nil
}

// SelectDay moves the draft to the first slot of day.
func (s *Session) SelectDay(day domain.Date) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.calendar.Select(day)
}

// DaySelected is called by the calendar after a day pick.
func (s *Session) DaySelected(selected []domain.Date) {
	if len(selected) == 0 || s.engine == nil {
		return
	}
	day := selected[len(selected)-1]
	avail := s.engine.AvailabilityFor(day, s.now())
	if avail.IsEmpty() {
		s.draft.Day = day.In(s.loc)
		s.bookingState = InvalidDay
		return
	}
	s.draft.Day = avail.Ranges[0].Start
	s.bookingState = NotSubmitted
}

// ChangeMonth shows month and re-anchors the draft to its first bookable slot.
func (s *Session) ChangeMonth(month domain.Month) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.calendar.ShowMonth(month)
}

// MonthChanged is called by the calendar after navigation. The search starts
// today for the current month and on the 1st otherwise.
func (s *Session) MonthChanged(month domain.Month) {
	if s.engine == nil {
		return
	}
	now := s.now().In(s.loc)
	from := month.First()
	if today := domain.DateOf(now); month.Contains(today) {
		from = today
	}

	slot, err := s.engine.FirstBookable(from, now)
	if err != nil {
		s.logger.Warn("no bookable day after month change",
			zap.String("restaurant", s.key.Raw), zap.Stringer("month", month), zap.Error(err))
		s.draft.Day = from.In(s.loc)
		s.bookingState = InvalidDay
	} else {
		s.draft.Day = slot.Start
		s.bookingState = NotSubmitted
	}
	s.calendar.SetConfig(s.calendarConfig(month))
}

// AvailableTimes lists the offered slots of the draft day.
func (s *Session) AvailableTimes() []availability.Slot {
	if s.ready() != nil {
		return nil
	}
	return s.engine.AvailabilityFor(domain.DateOf(s.draft.Day), s.now()).Slots()
}

// SelectTime sets the draft time to an offered "HH:MM" slot of the draft day.
func (s *Session) SelectTime(clock string) error {
	if err := s.ready(); err != nil {
		return err
	}
	wanted, err := time.ParseInLocation("15:04", clock, s.loc)
	if err != nil {
		return fmt.Errorf("%w: %q is not HH:MM", ErrTimeUnavailable, clock)
	}
	for _, slot := range s.AvailableTimes() {
		if slot.Start.Hour() == wanted.Hour() && slot.Start.Minute() == wanted.Minute() {
			s.draft.Day = slot.Start
			return nil
		}
	}
	return fmt.Errorf("%w: %s on %s", ErrTimeUnavailable, clock, domain.DateOf(s.draft.Day))
}

func (s *Session) SetPax(pax int) {
	s.draft.Pax = pax
}

func (s *Session) SetNotes(notes string) {
	s.draft.Notes = notes
}

func (s *Session) SetContact(contact domain.Contact) {
	s.draft.Contact = contact
}

// PrepareRequest validates the draft and builds the request Submit would send.
func (s *Session) PrepareRequest() (domain.BookRequest, error) {
	if err := s.ready(); err != nil {
		return domain.BookRequest{}, err
	}
	if s.bookingState == InvalidDay {
		return domain.BookRequest{}, fmt.Errorf("%w: no availability on %s", ErrTimeUnavailable, domain.DateOf(s.draft.Day))
	}
	if err := validateDraft(s.draft); err != nil {
		return domain.BookRequest{}, err
	}

	now := s.now()
	day := s.engine.AvailabilityFor(domain.DateOf(s.draft.Day), now)
	serviceID, ok := day.ServiceAt(s.draft.Day)
	if !ok {
		return domain.BookRequest{}, fmt.Errorf("%w: %s", ErrTimeUnavailable, s.draft.Day.Format("2006-01-02 15:04"))
	}
	if service, found := s.restaurant.ServiceByID(serviceID); found && service.BookingConfig != nil {
		if err := checkPax(s.draft.Pax, service.BookingConfig); err != nil {
			return domain.BookRequest{}, err
		}
	}

	return domain.BookRequest{
		RestaurantID: s.key.Raw,
		BookDate:     domain.FormatISO(s.draft.Day),
		MadeOn:       domain.FormatISO(now),
		NumPax:       s.draft.Pax,
		Notes:        s.draft.Notes,
		Phone:        s.draft.Contact.Phone,
		Email:        s.draft.Contact.Email,
		Name:         s.draft.Contact.Name,
		Surname:      s.draft.Contact.Surname,
		Channel:      domain.BookingChannel,
		Service:      serviceID,
	}, nil
}

func checkPax(pax int, cfg *domain.BookingConfig) error {
	if cfg.MinPax != nil && pax < *cfg.MinPax {
		return fmt.Errorf("%w: pax must be at least %d", ErrInvalidDraft, *cfg.MinPax)
	}
	if cfg.MaxPax != nil && *cfg.MaxPax > 0 && pax > *cfg.MaxPax {
		return fmt.Errorf("%w: pax must be at most %d", ErrInvalidDraft, *cfg.MaxPax)
	}
	return nil
}

// Submit sends the draft. On success the draft is reset; on failure it is kept
// for another attempt.
func (s *Session) Submit(ctx context.Context) (*domain.BookingConfirmation, error) {
	request, err := s.PrepareRequest()
	if err != nil {
		return nil, err
	}
	logger := s.logger.With(
		zap.String("restaurant", s.key.Raw),
		zap.String("service", request.Service),
		zap.String("book_date", request.BookDate),
		zap.Int("pax", request.NumPax),
	)

	s.bookingState = Submitting
	confirmation, err := s.backend.CreateBookRequest(ctx, request)
	if err != nil {
		s.bookingState = SubmittedKO
		logger.Error("booking request failed", zap.Error(err))
		return nil, fmt.Errorf("submit booking: %w", err)
	}

	s.bookingState = SubmittedOK
	s.confirmation = confirmation
	logger.Info("booking request sent")

	next := s.draft.Day
	if slot, err := s.engine.FirstBookable(domain.Date{}, s.now()); err == nil {
		next = slot.Start
	} else if !errors.Is(err, availability.ErrNoAvailability) {
		logger.Warn("could not reset draft day", zap.Error(err))
	}
	s.draft = s.freshDraft(next)
	return confirmation, nil
}

func (s *Session) Key() Key {
	return s.key
}

func (s *Session) RestaurantState() RestaurantState {
	return s.restaurantState
}

func (s *Session) BookingState() BookingState {
	return s.bookingState
}

// Restaurant returns the loaded snapshot, or nil before Load succeeds.
func (s *Session) Restaurant() *domain.Restaurant {
	return s.restaurant
}

func (s *Session) Engine() *availability.Engine {
	return s.engine
}

func (s *Session) Calendar() *calendar.Calendar {
	return s.calendar
}

func (s *Session) Draft() Draft {
	return s.draft
}

// Confirmation returns the last accepted booking.
func (s *Session) Confirmation() *domain.BookingConfirmation {
	return s.confirmation
}
