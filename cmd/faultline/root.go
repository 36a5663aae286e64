package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/strongdm/faultline/pkg/faultline"
	"github.com/strongdm/faultline/pkg/faultline/transports/httptransport"
	"github.com/strongdm/faultline/pkg/faultline/transports/noop"
	"github.com/strongdm/faultline/pkg/faultline/transports/stderr"
)

type globalFlags struct {
	dsn   string
	debug bool
}

func newRootCommand() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:           "faultline",
		Short:         "Send error events to a faultline ingestion endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dsn, "dsn", os.Getenv(faultline.EnvDSN),
		fmt.Sprintf("connection string (default from %s)", faultline.EnvDSN))
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "log client diagnostics to stderr")

	root.AddCommand(
		newSendEventCommand(&flags),
		newEndpointCommand(&flags),
	)
	return root
}

func newEndpointCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoint",
		Short: "Print the ingestion endpoint derived from the connection string",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := faultline.ParseDSN(flags.dsn)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dsn.EndpointURL())
			return nil
		},
	}
}

type sendEventFlags struct {
	message   string
	errorType string
	level     string
	transport string
	verbose   bool
	tags      map[string]string
	params    []string
}

func newSendEventCommand(global *globalFlags) *cobra.Command {
	var flags sendEventFlags
	short := "Capture a single test event and report whether it was accepted"
	cmd := &cobra.Command{
		Use:   "send-event",
		Short: short,
		Long: short + `.
With --error-type the message is sent as a fault of that type; otherwise it
is sent as a message event at --level. Client options not given as flags are
read from the FAULTLINE_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSendEvent(cmd, global, &flags)
		},
	}
	cmd.Flags().StringVarP(&flags.message, "message", "m", "faultline test event", "event message, a format string when --param is given")
	cmd.Flags().StringArrayVar(&flags.params, "param", nil, "message format parameter (repeatable)")
	cmd.Flags().StringVar(&flags.errorType, "error-type", "", "send the message as a fault of this type")
	cmd.Flags().StringVar(&flags.level, "level", string(faultline.LevelError), "event level: debug, info, warning, error or fatal")
	cmd.Flags().StringVar(&flags.transport, "transport", "http", "transport: http, stderr or noop")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "print stack traces with the stderr transport")
	cmd.Flags().StringToStringVar(&flags.tags, "tag", nil, "event tag as key=value (repeatable)")
	cmd.Flags().SortFlags = false
	return cmd
}

func runSendEvent(cmd *cobra.Command, global *globalFlags, flags *sendEventFlags) error {
	level, err := faultline.ParseLevel(flags.level)
	if err != nil {
		return err
	}
	transport, err := newTransport(cmd, flags)
	if err != nil {
		return err
	}

	_, opts, err := faultline.OptionsFromEnv()
	if err != nil {
		return err
	}
	logger := zap.NewNop()
	if global.debug {
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
	}
	opts = append(opts, faultline.WithTransport(transport), faultline.WithLogger(logger))
	if len(flags.tags) > 0 {
		opts = append(opts, faultline.WithDefaultTags(flags.tags))
	}

	client, err := faultline.New(global.dsn, opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()
	var (
		id faultline.EventID
		ok bool
	)
	if flags.errorType != "" {
		e := faultline.NewEvent("")
		e.Level = level
		id, ok = client.CaptureEvent(ctx, e, &faultline.EventHint{Err: &faultline.Exception{
			Type:    flags.errorType,
			Message: faultline.FormatMessage(flags.message, flags.params),
		}})
	} else {
		id, ok = client.CaptureMessage(ctx, level, flags.message, flags.params...)
	}
	if !ok {
		return errors.New("event was not accepted")
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func newTransport(cmd *cobra.Command, flags *sendEventFlags) (faultline.Transport, error) {
	switch flags.transport {
	case "http":
		t, err := httptransport.New()
		if err != nil {
			return nil, err
		}
		return t, nil
	case "stderr":
		opts := []stderr.Option{stderr.WithWriter(cmd.ErrOrStderr())}
		if flags.verbose {
			opts = append(opts, stderr.WithVerbose())
		}
		return stderr.New(opts...), nil
	case "noop":
		return noop.New(), nil
	}
	return nil, fmt.Errorf("unknown transport %q", flags.transport)
}
