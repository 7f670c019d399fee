package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mekedron/cheftonic-cli/internal/availability"
	"github.com/mekedron/cheftonic-cli/internal/booking"
	"github.com/mekedron/cheftonic-cli/internal/config"
	"github.com/mekedron/cheftonic-cli/internal/domain"
	"github.com/mekedron/cheftonic-cli/internal/gateway/cheftonic"
	"github.com/mekedron/cheftonic-cli/internal/gateway/snapshot"
	"github.com/mekedron/cheftonic-cli/internal/labels"
	"github.com/mekedron/cheftonic-cli/internal/logging"
	"github.com/mekedron/cheftonic-cli/internal/service/output"
)

const (
	codeConfigError     = "CHEFTONIC_CONFIG_ERROR"
	codeInvalidKey      = "CHEFTONIC_INVALID_KEY"
	codeInfoPending     = "CHEFTONIC_INFO_PENDING"
	codeNoAvailability  = "CHEFTONIC_NO_AVAILABILITY"
	codeUpstreamError   = "CHEFTONIC_UPSTREAM_ERROR"
	codeProfileError    = "CHEFTONIC_PROFILE_ERROR"
	codeInvalidArgument = "CHEFTONIC_INVALID_ARGUMENT"
	codeReadOnly        = "CHEFTONIC_READ_ONLY"
)

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

type globalFlags struct {
	Format   string
	Profile  string
	Locale   string
	Timezone string
	Snapshot string
	Output   string
	Verbose  bool
}

const sharedGlobalFlagAnnotation = "cheftonic_cli_shared_global"

func addGlobalFlags(cmd *cobra.Command, flags *globalFlags) {
	addSharedGlobalFlag(cmd, "format", func() {
		cmd.Flags().StringVar(&flags.Format, "format", "table", "Output format: table, json, or yaml.")
	})
	addSharedGlobalFlag(cmd, "profile", func() {
		cmd.Flags().StringVar(&flags.Profile, "profile", "", "Profile name for saved local defaults.")
	})
	addSharedGlobalFlag(cmd, "locale", func() {
		cmd.Flags().StringVar(&flags.Locale, "locale", "", "Label locale, for example es-ES. Falls back to the profile, CHEFTONIC_LOCALE, then LANG.")
	})
	addSharedGlobalFlag(cmd, "timezone", func() {
		cmd.Flags().StringVar(&flags.Timezone, "timezone", "", "Restaurant IANA time zone, for example Europe/Madrid. Defaults to the local zone.")
	})
	addSharedGlobalFlag(cmd, "snapshot", func() {
		cmd.Flags().StringVar(&flags.Snapshot, "snapshot", "", "Read the restaurant from a YAML or JSON snapshot file instead of the API.")
	})
	addSharedGlobalFlag(cmd, "output", func() {
		cmd.Flags().StringVar(&flags.Output, "output", "", "Also write the rendered output to this file.")
	})
	addSharedGlobalFlag(cmd, "verbose", func() {
		cmd.Flags().BoolVar(&flags.Verbose, "verbose", false, "Enable verbose output (debug logs, upstream request trace and detailed error diagnostics).")
	})
}

func addSharedGlobalFlag(cmd *cobra.Command, name string, register func()) {
	if cmd.Flags().Lookup(name) != nil {
		return
	}
	register()
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return
	}
	if flag.Annotations == nil {
		flag.Annotations = map[string][]string{}
	}
	flag.Annotations[sharedGlobalFlagAnnotation] = []string{"true"}
}

func resolveProfileLabel(profileName string) string {
	profile := strings.TrimSpace(profileName)
	if profile == "" {
		return "anonymous"
	}
	return profile
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// invocation is the per-command view of flags, profile defaults and backend.
type invocation struct {
	cmd     *cobra.Command
	deps    Dependencies
	flags   globalFlags
	format  output.Format
	profile domain.Profile
	label   string
	locale  string
	loc     *time.Location
	backend cheftonic.API
	logger  *zap.Logger
}

func newInvocation(cmd *cobra.Command, deps Dependencies, flags globalFlags) (*invocation, error) {
	format, err := parseOutputFormat(flags.Format)
	if err != nil {
		return nil, err
	}
	inv := &invocation{
		cmd:     cmd,
		deps:    deps,
		flags:   flags,
		format:  format,
		label:   resolveProfileLabel(flags.Profile),
		locale:  labels.ResolveLocale(firstNonEmpty(flags.Locale, deps.Settings.Locale)),
		backend: deps.API,
		logger:  deps.logger(),
	}
	if flags.Verbose {
		inv.logger = logging.New(cmd.ErrOrStderr(), deps.Settings.LogLevel, true)
	}

	if deps.Profiles != nil {
		profile, err := deps.Profiles.Resolve(cmd.Context(), flags.Profile)
		if err != nil {
			return nil, profileError(err, format, flags.Profile, inv.locale, flags.Output, cmd)
		}
		inv.profile = profile
		if profile.Name != "" {
			inv.label = profile.Name
		}
	}
	inv.locale = labels.ResolveLocale(firstNonEmpty(flags.Locale, inv.profile.Locale, deps.Settings.Locale))

	loc, err := config.ResolveLocation(firstNonEmpty(flags.Timezone, inv.profile.Timezone, deps.Settings.Timezone))
	if err != nil {
		return nil, inv.fail(codeInvalidArgument, err.Error())
	}
	inv.loc = loc

	if path := strings.TrimSpace(flags.Snapshot); path != "" {
		source, err := snapshot.Load(path)
		if err != nil {
			return nil, inv.fail(codeConfigError, err.Error())
		}
		inv.backend = source
	}
	if inv.backend == nil {
		return nil, inv.fail(codeConfigError, "Cheftonic API client is not available.")
	}
	return inv, nil
}

func (inv *invocation) fail(code string, message string) error {
	return emitError(inv.cmd, inv.format, inv.label, inv.locale, inv.flags.Output, code, message)
}

func (inv *invocation) today() domain.Date {
	return domain.DateOf(inv.deps.now().In(inv.loc))
}

// restaurantKey returns the positional key, or the profile's saved key.
func (inv *invocation) restaurantKey(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if key := strings.TrimSpace(inv.profile.RestaurantKey); key != "" {
		return key, nil
	}
	return "", inv.fail(codeInvalidArgument, requiredArg("restaurant key (argument or profile restaurant_key)"))
}

func (inv *invocation) loadSession(rawKey string) (*booking.Session, error) {
	session := booking.NewSession(inv.backend, rawKey,
		booking.WithLogger(inv.logger),
		booking.WithClock(inv.deps.now),
		booking.WithLocation(inv.loc),
		booking.WithContact(inv.profile.Contact),
		booking.WithEngineOptions(availability.WithHorizon(inv.deps.Settings.HorizonDays)),
	)
	if err := session.Load(inv.cmd.Context()); err != nil {
		return nil, inv.sessionError(err)
	}
	return session, nil
}

func (inv *invocation) labelProvider() *labels.Provider {
	return labels.NewProvider(inv.backend, inv.locale, inv.logger)
}

// sessionError maps booking and gateway failures to error envelopes.
func (inv *invocation) sessionError(err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidKey):
		return inv.fail(codeInvalidKey, err.Error())
	case errors.Is(err, booking.ErrInfoPending):
		return inv.fail(codeInfoPending, err.Error())
	case errors.Is(err, availability.ErrInvalidConfig):
		return inv.fail(codeConfigError, err.Error())
	case errors.Is(err, availability.ErrNoAvailability):
		return inv.fail(codeNoAvailability, err.Error())
	case errors.Is(err, booking.ErrInvalidDraft), errors.Is(err, booking.ErrTimeUnavailable):
		return inv.fail(codeInvalidArgument, err.Error())
	case errors.Is(err, snapshot.ErrReadOnly):
		return inv.fail(codeReadOnly, "Snapshot sources cannot submit bookings; use --dry-run or drop --snapshot.")
	case errors.Is(err, cheftonic.ErrRestaurantNotFound):
		return inv.fail(codeInvalidKey, err.Error())
	default:
		return emitUpstreamError(inv.cmd, inv.format, inv.label, inv.locale, inv.flags.Output, inv.flags.Verbose, err)
	}
}

// write renders data as an envelope, or table when the format is table.
func (inv *invocation) write(data any, table func() string) error {
	if inv.format == output.FormatTable {
		return writeTable(inv.cmd, table(), inv.flags.Output)
	}
	env := output.BuildEnvelope(inv.label, inv.locale, data, nil, nil)
	return writeMachinePayload(inv.cmd, env, inv.format, inv.flags.Output)
}

func parseOutputFormat(format string) (output.Format, error) {
	return output.ParseFormat(format)
}

func parseDateFlag(raw string, fallback domain.Date) (domain.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return domain.ParseDate(raw)
}

func writeTable(cmd *cobra.Command, text string, outputPath string) error {
	if err := output.WriteOutput(cmd.OutOrStdout(), text, outputPath); err != nil {
		return err
	}
	return nil
}

func writeMachinePayload(cmd *cobra.Command, env output.Envelope, format output.Format, outputPath string) error {
	rendered, err := output.RenderPayload(env, format)
	if err != nil {
		return err
	}
	if err := output.WriteOutput(cmd.OutOrStdout(), rendered, outputPath); err != nil {
		return err
	}
	return nil
}

func emitError(
	cmd *cobra.Command,
	format output.Format,
	profile string,
	locale string,
	outputPath string,
	code string,
	message string,
) error {
	if format == output.FormatTable {
		if err := output.WriteOutput(cmd.OutOrStdout(), message, outputPath); err != nil {
			return err
		}
		return &exitError{code: 1}
	}
	env := output.BuildEnvelope(profile, locale, nil, []string{}, map[string]any{
		"code":    code,
		"message": message,
	})
	if err := writeMachinePayload(cmd, env, format, outputPath); err != nil {
		return err
	}
	return &exitError{code: 1}
}

func profileError(err error, format output.Format, profileName string, locale string, outputPath string, cmd *cobra.Command) error {
	message := err.Error()
	if strings.TrimSpace(profileName) == "" {
		profileName = "default"
	}
	return emitError(cmd, format, profileName, locale, outputPath, codeProfileError, message)
}

func emitUpstreamError(
	cmd *cobra.Command,
	format output.Format,
	profile string,
	locale string,
	outputPath string,
	verbose bool,
	err error,
) error {
	if err == nil {
		err = cheftonic.ErrUpstream
	}
	if verbose {
		return emitError(cmd, format, profile, locale, outputPath, codeUpstreamError, err.Error())
	}

	message := cheftonic.ErrUpstream.Error() + " (use --verbose for details)"
	var upstreamErr *cheftonic.UpstreamRequestError
	var graphQLErr *cheftonic.GraphQLError
	switch {
	case errors.As(err, &upstreamErr) && upstreamErr.StatusCode > 0:
		message = fmt.Sprintf("%s (status %d, use --verbose for details)", cheftonic.ErrUpstream.Error(), upstreamErr.StatusCode)
	case errors.As(err, &graphQLErr) && len(graphQLErr.Messages) > 0:
		message = fmt.Sprintf("%s (%s)", cheftonic.ErrUpstream.Error(), strings.Join(graphQLErr.Messages, "; "))
	}
	return emitError(cmd, format, profile, locale, outputPath, codeUpstreamError, message)
}

func requiredArg(name string) string {
	return fmt.Sprintf("%s is required", name)
}

func defaultProfileName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "default"
	}
	return trimmed
}

func formatClock(t time.Time) string {
	return t.Format("15:04")
}
