// oqssafe inspects the post-quantum backend linked into this build.
//
// Usage:
//
//	oqssafe [global flags] info
//	oqssafe [global flags] probe
//	oqssafe [global flags] selftest
//	oqssafe discover [--require-native]
//
// Global flags select the backend the same way oqssafe.Config does; without
// them the configuration comes from OQSSAFE_CONFIG and the other OQSSAFE_*
// variables.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oqssafe/oqs-safe-go/internal/discovery"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/kem"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/logging"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/selftest"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/sig"
)

// exitError carries a non-default exit status.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, discovery.NewFinder()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	backend    string
	env        string
	allowMock  bool
	logLevel   string
}

func run(args []string, stdout, stderr io.Writer, finder *discovery.Finder) error {
	var flags globalFlags

	flagSet := pflag.NewFlagSet("oqssafe", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&flags.configPath, "config", "", "YAML configuration file (default: $OQSSAFE_CONFIG)")
	flagSet.StringVar(&flags.backend, "backend", "", "backend: auto, native or mock")
	flagSet.StringVar(&flags.env, "env", "", "environment: development or production")
	flagSet.BoolVar(&flags.allowMock, "allow-mock", false, "allow the mock backend in production")
	flagSet.StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return &exitError{code: 2, err: err}
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(stderr, flagSet)
		return &exitError{code: 2, err: errors.New("missing command")}
	}

	command, commandArgs := rest[0], rest[1:]
	switch command {
	case "discover":
		return runDiscover(commandArgs, stdout, stderr, finder)
	case "info", "probe", "selftest":
		if len(commandArgs) > 0 {
			return &exitError{code: 2, err: fmt.Errorf("%s: unexpected argument %q", command, commandArgs[0])}
		}
	default:
		printUsage(stderr, flagSet)
		return &exitError{code: 2, err: fmt.Errorf("unknown command %q", command)}
	}

	logger, err := newLogger(stderr, flags.logLevel)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	cfg, err := buildConfig(flagSet, flags)
	if err != nil {
		return err
	}
	cfg.Logger = logger

	lib, err := oqssafe.Open(cfg)
	if err != nil {
		return err
	}
	defer lib.Close()

	switch command {
	case "info":
		return runInfo(lib, stdout)
	case "probe":
		return runProbe(lib, stdout)
	default:
		return runSelftest(lib, stdout)
	}
}

func newLogger(w io.Writer, level string) (logging.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	return logging.New(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))), nil
}

func buildConfig(flagSet *pflag.FlagSet, flags globalFlags) (oqssafe.Config, error) {
	var (
		cfg oqssafe.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = oqssafe.LoadConfig(flags.configPath)
	} else {
		cfg, err = oqssafe.ConfigFromEnv()
	}
	if err != nil {
		return oqssafe.Config{}, err
	}

	if flagSet.Changed("backend") {
		cfg.Backend = oqssafe.BackendKind(flags.backend)
	}
	if flagSet.Changed("env") {
		cfg.Environment = oqssafe.Environment(flags.env)
	}
	if flagSet.Changed("allow-mock") {
		cfg.AllowMockInProduction = flags.allowMock
	}
	return cfg, nil
}

func runInfo(lib *oqssafe.Library, w io.Writer) error {
	fmt.Fprintf(w, "oqs-safe-go   %s\n", oqssafe.WrapperVersion())
	fmt.Fprintf(w, "backend       %s\n", lib.BackendName())
	if v := lib.LibraryVersion(); v != "" {
		fmt.Fprintf(w, "liboqs        %s\n", v)
	} else {
		fmt.Fprintf(w, "liboqs        (not linked)\n")
	}
	fmt.Fprintf(w, "native built  %t\n", oqssafe.NativeBuilt())
	return nil
}

func runProbe(lib *oqssafe.Library, w io.Writer) error {
	kemSizes, err := kem.NewKyber768(lib).Sizes()
	if err != nil {
		return fmt.Errorf("probe kem: %w", err)
	}
	sigSizes, err := sig.NewDilithium2(lib).Sizes()
	if err != nil {
		return fmt.Errorf("probe sig: %w", err)
	}

	fmt.Fprintf(w, "kem  %-12s pk=%d sk=%d ct=%d ss=%d\n",
		kemSizes.Algorithm, kemSizes.PublicKey, kemSizes.SecretKey, kemSizes.Ciphertext, kemSizes.SharedSecret)
	fmt.Fprintf(w, "sig  %-12s pk=%d sk=%d sig<=%d\n",
		sigSizes.Algorithm, sigSizes.PublicKey, sigSizes.SecretKey, sigSizes.MaxSignature)
	return nil
}

func runSelftest(lib *oqssafe.Library, w io.Writer) error {
	if err := selftest.Check(kem.NewKyber768(lib), sig.NewDilithium2(lib)); err != nil {
		return &exitError{code: 1, err: err}
	}
	fmt.Fprintf(w, "selftest passed (%s backend)\n", lib.BackendName())
	return nil
}

func runDiscover(args []string, stdout, stderr io.Writer, finder *discovery.Finder) error {
	var requireNative bool

	flagSet := pflag.NewFlagSet("oqssafe discover", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&requireNative, "require-native", false, "fail with remediation guidance when liboqs is missing")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return &exitError{code: 2, err: err}
	}

	result := finder.Find()
	fmt.Fprintf(stdout, "source        %s\n", result.Source)
	fmt.Fprintf(stdout, "search paths  %s\n", strings.Join(result.SearchPaths, ", "))

	useNative, err := discovery.Decide(result, requireNative)
	if err != nil {
		fmt.Fprintln(stdout, "result        FAIL")
		return err
	}
	if !useNative {
		fmt.Fprintf(stdout, "result        not found (%s); the mock backend will be used\n", result.Reason)
		return nil
	}

	fmt.Fprintln(stdout, "result        PASS")
	if result.Version != "" {
		fmt.Fprintf(stdout, "version       %s\n", result.Version)
	}
	for _, line := range result.BuildEnv() {
		fmt.Fprintln(stdout, line)
	}
	return nil
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `oqssafe inspects the post-quantum backend linked into this build.

Usage:
  oqssafe [flags] info       show versions and the selected backend
  oqssafe [flags] probe      print the declared KEM and signature lengths
  oqssafe [flags] selftest   run one KEM and one signature round trip
  oqssafe discover [--require-native]
                             locate liboqs and print build settings

Flags:
%s`, flagSet.FlagUsages())
}
