package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mekedron/cheftonic-cli/internal/domain"
	"github.com/mekedron/cheftonic-cli/internal/gateway/cheftonic"
	"github.com/mekedron/cheftonic-cli/internal/service/output"
)

func TestCommandOptionsHideSharedGlobals(t *testing.T) {
	root := NewRootCommand(Dependencies{Version: "test"})

	book, found := findCommand(root, "book")
	if !found {
		t.Fatal("book command not found")
	}
	names := map[string]bool{}
	for _, option := range commandOptions(book) {
		if option.name == "format" || option.name == "snapshot" || option.name == "verbose" {
			t.Fatalf("shared option leaked into command-specific options: %s", option.name)
		}
		names[option.name] = true
	}
	for _, want := range []string{"name", "email", "phone", "dry-run", "pax"} {
		if !names[want] {
			t.Fatalf("expected book option %q, got %v", want, names)
		}
	}

	configure, found := findCommand(root, "configure")
	if !found {
		t.Fatal("configure command not found")
	}
	for _, option := range commandOptions(configure) {
		if option.name == "locale" || option.name == "timezone" {
			t.Fatalf("expected configure to use default-* options, got %s", option.name)
		}
	}
}

func TestRenderRootHelpIncludesGlobalSection(t *testing.T) {
	root := NewRootCommand(Dependencies{Version: "test"})
	buf := &bytes.Buffer{}
	renderRootHelp(buf, root)
	out := buf.String()
	if !strings.Contains(out, "global options") {
		t.Fatalf("expected global options in help output:\n%s", out)
	}
	for _, want := range []string{"--snapshot", "--timezone", "cheftonic availability [key]", "cheftonic labels <weekdays|months|booking_status>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in help output:\n%s", want, out)
		}
	}
	if strings.Index(out, "--format") > strings.Index(out, "--verbose") {
		t.Fatalf("expected shared options in declared order:\n%s", out)
	}
}

func TestAttachVerboseHTTPTrace(t *testing.T) {
	cmd := &cobra.Command{}
	stderr := &bytes.Buffer{}
	cmd.SetErr(stderr)
	cmd.Flags().Bool("verbose", false, "test verbose")

	api := &testCheftonicAPI{}
	deps := Dependencies{API: api}
	attachVerboseHTTPTrace(cmd, deps)
	if api.logger != nil {
		t.Fatal("expected trace logger to stay unset when --verbose is false")
	}

	if err := cmd.Flags().Set("verbose", "true"); err != nil {
		t.Fatalf("set verbose flag: %v", err)
	}
	attachVerboseHTTPTrace(cmd, deps)
	if api.logger == nil {
		t.Fatal("expected trace logger to be attached")
	}
	api.logger.Debug("upstream request")
	if !strings.Contains(stderr.String(), "http trace enabled") || !strings.Contains(stderr.String(), "upstream request") {
		t.Fatalf("expected trace output on stderr, got %q", stderr.String())
	}
}

func TestEmitUpstreamErrorFormatting(t *testing.T) {
	cmd := &cobra.Command{}
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	err := emitUpstreamError(cmd, output.FormatTable, "default", "en", "", false,
		&cheftonic.UpstreamRequestError{StatusCode: 502, Body: "secret body"})
	var exitErr *exitError
	if !errors.As(err, &exitErr) || exitErr.code != 1 {
		t.Fatalf("expected controlled exit error, got %v", err)
	}
	if got := buf.String(); !strings.Contains(got, "status 502") || strings.Contains(got, "secret body") {
		t.Fatalf("expected non-verbose status hint, got %q", got)
	}

	buf.Reset()
	_ = emitUpstreamError(cmd, output.FormatTable, "default", "en", "", false,
		&cheftonic.GraphQLError{Operation: "BookRequest", Messages: []string{"slot taken"}})
	if got := buf.String(); !strings.Contains(got, "(slot taken)") {
		t.Fatalf("expected graphql message, got %q", got)
	}

	buf.Reset()
	_ = emitUpstreamError(cmd, output.FormatTable, "default", "en", "", true,
		&cheftonic.UpstreamRequestError{StatusCode: 502, Body: "secret body"})
	if got := buf.String(); !strings.Contains(got, "secret body") {
		t.Fatalf("expected verbose error details, got %q", got)
	}
}

func TestNewInvocationResolvesDefaults(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	deps := testDeps(&testCheftonicAPI{})
	deps.Profiles = &testProfiles{profile: domain.Profile{Name: "work", Locale: "es", Timezone: "UTC"}}
	deps.Settings.Timezone = "Not/AZone"

	inv, err := newInvocation(cmd, deps, globalFlags{Format: "json"})
	if err != nil {
		t.Fatalf("new invocation returned error: %v", err)
	}
	if inv.label != "work" || inv.locale != "es" || inv.loc.String() != "UTC" {
		t.Fatalf("expected profile defaults, got label=%q locale=%q loc=%s", inv.label, inv.locale, inv.loc)
	}

	inv, err = newInvocation(cmd, deps, globalFlags{Format: "json", Locale: "fr_FR.UTF-8"})
	if err != nil {
		t.Fatalf("new invocation returned error: %v", err)
	}
	if inv.locale != "en" {
		t.Fatalf("expected unsupported locale to fall back to en, got %q", inv.locale)
	}
}

func TestNewInvocationRejectsUnknownTimezone(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	_, err := newInvocation(cmd, testDeps(&testCheftonicAPI{}), globalFlags{Format: "table", Timezone: "Mars/Olympus"})
	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected controlled exit error, got %v", err)
	}
	if !strings.Contains(buf.String(), "Mars/Olympus") {
		t.Fatalf("expected timezone in message, got %q", buf.String())
	}
}

func TestFlagHelpers(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.StringP("profile", "p", "", "Profile.")
	flag := flagSet.Lookup("profile")
	if flag == nil {
		t.Fatal("profile flag not found")
	}
	flag.Annotations = map[string][]string{cobra.BashCompOneRequiredFlag: {"true"}}

	token := flagToken(flag)
	if token != "--profile/-p" {
		t.Fatalf("unexpected flag token: %q", token)
	}
	if !isFlagRequired(flag) {
		t.Fatal("expected required flag")
	}
	label := optionLabels(optionDoc{required: true, inherited: true})
	if label != " [required, global]" {
		t.Fatalf("unexpected option labels: %q", label)
	}
}

func findCommand(root *cobra.Command, path ...string) (*cobra.Command, bool) {
	current := root
	for _, segment := range path {
		next := current.Commands()
		found := false
		for _, cmd := range next {
			if cmd.Name() == segment {
				current = cmd
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return current, true
}

func TestDefaultProfileName(t *testing.T) {
	if got := defaultProfileName(""); got != "default" {
		t.Fatalf("expected default profile name, got %q", got)
	}
	if got := defaultProfileName(" work "); got != "work" {
		t.Fatalf("expected trimmed profile name, got %q", got)
	}
}

func TestMergeContactKeepsSavedFields(t *testing.T) {
	saved := domain.Contact{Name: "Ana", Email: "ana@example.com", Phone: "654321123"}
	merged := mergeContact(saved, domain.Contact{Email: " ana@work.example ", Surname: "García"})
	want := domain.Contact{Name: "Ana", Surname: "García", Email: "ana@work.example", Phone: "654321123"}
	if merged != want {
		t.Fatalf("expected %+v, got %+v", want, merged)
	}
}

func TestExecuteVersionAndUnknownCommand(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	if code := Execute(context.Background(), []string{"--version"}, Dependencies{Version: "v1.0.0"}, stdout, stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if strings.TrimSpace(stdout.String()) != "v1.0.0" {
		t.Fatalf("unexpected version output %q", stdout.String())
	}

	code := Execute(context.Background(), []string{"reserve"}, Dependencies{Version: "v1.0.0"}, stdout, stderr)
	if code != 2 || !strings.Contains(stderr.String(), "No such command 'reserve'") {
		t.Fatalf("expected unknown command exit 2, got %d %q", code, stderr.String())
	}
}
