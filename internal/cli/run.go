package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ib-77/fnhook/internal/config"
	"github.com/ib-77/fnhook/internal/logger"
	"github.com/ib-77/fnhook/internal/telemetry"
	"github.com/ib-77/fnhook/pkg/hook"
	"github.com/ib-77/fnhook/pkg/hook/chain"
	"github.com/ib-77/fnhook/pkg/hook/core"
	"github.com/ib-77/fnhook/pkg/hook/script"
	"github.com/ib-77/fnhook/pkg/hook/seq"
	"github.com/ib-77/fnhook/pkg/hook/trace"
)

type runOptions struct {
	configPath string
	mode       string
	logLevel   string
	args       []string
	strict     bool
	trace      bool
}

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scripted pipeline",
		Long: `Run a pipeline described in a YAML file: a Tengo target script and the
Tengo hook scripts around it, either as a middleware chain or as sequential
hooks. HOOKRUN_* environment variables override keys of the file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "pipeline file")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "override mode (middleware, sequential)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "override log level")
	cmd.Flags().StringArrayVar(&opts.args, "arg", nil, "call argument, repeatable; replaces args from the file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when a hook calls next twice")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "print OpenTelemetry spans to stderr")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runPipeline(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.mode != "" {
		cfg.Mode = opts.mode
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.strict {
		cfg.StrictNext = true
	}
	if len(opts.args) > 0 {
		cfg.Args = parseArgs(opts.args)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = core.WithLogger(ctx, log)
	ctx = core.WithStrictNext(ctx, cfg.StrictNext)
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	wrapped, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	if opts.trace {
		shutdown, err := telemetry.InitTracer("hookrun", cmd.ErrOrStderr(), log)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error("failed to shutdown tracer", "error", err)
			}
		}()
		wrapped = trace.Wrap(trace.Tracer(), "hookrun."+cfg.Mode, wrapped)
	}

	log.Debug("running pipeline",
		"mode", cfg.Mode,
		"before", len(cfg.Before),
		"after", len(cfg.After),
		"args", len(cfg.Args))

	return report(cmd.OutOrStdout(), wrapped(ctx, cfg.Args...))
}

func buildPipeline(cfg *config.Pipeline) (hook.Wrapped[any, any], error) {
	target, err := script.Target(cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	if cfg.Mode == config.ModeSequential {
		before, err := compileFuncs("before", cfg.Before)
		if err != nil {
			return nil, err
		}
		after, err := compileFuncs("after", cfg.After)
		if err != nil {
			return nil, err
		}
		return seq.Build(before, after, target), nil
	}

	before, err := compileMiddleware("before", cfg.Before)
	if err != nil {
		return nil, err
	}
	after, err := compileMiddleware("after", cfg.After)
	if err != nil {
		return nil, err
	}
	return chain.Build(before, after, target), nil
}

func compileMiddleware(side string, sources []string) ([]hook.Middleware[any], error) {
	out := make([]hook.Middleware[any], 0, len(sources))
	for i, src := range sources {
		h, err := script.Middleware(src)
		if err != nil {
			return nil, fmt.Errorf("%s hook %d: %w", side, i, err)
		}
		out = append(out, h)
	}
	return out, nil
}

func compileFuncs(side string, sources []string) ([]hook.Func[any], error) {
	out := make([]hook.Func[any], 0, len(sources))
	for i, src := range sources {
		h, err := script.Func(src)
		if err != nil {
			return nil, fmt.Errorf("%s hook %d: %w", side, i, err)
		}
		out = append(out, h)
	}
	return out, nil
}

// parseArgs turns command line values into ints, floats or bools where they
// parse as such and keeps everything else as strings.
func parseArgs(raw []string) []any {
	out := make([]any, 0, len(raw))
	for _, s := range raw {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			out = append(out, i)
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			out = append(out, f)
			continue
		}
		if b, err := strconv.ParseBool(s); err == nil {
			out = append(out, b)
			continue
		}
		out = append(out, s)
	}
	return out
}

func report(w io.Writer, res hook.Result[any]) error {
	switch {
	case res.IsCancel():
		return fmt.Errorf("pipeline cancelled: %w", res.Err())
	case res.IsFailure():
		return fmt.Errorf("pipeline failed: %w", res.Err())
	case res.IsEmpty():
		_, err := fmt.Fprintln(w, "empty: target did not run")
		return err
	}
	_, err := fmt.Fprintf(w, "result: %v\n", res.Result())
	return err
}
