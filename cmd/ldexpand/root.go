package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"

	ld "sourcery.dny.nu/ldexpand"
	"sourcery.dny.nu/ldexpand/loader"
)

type app struct {
	v      *viper.Viper
	zap    *zap.Logger
	logger *slog.Logger
	http   *loader.HTTP
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:      viper.New(),
		zap:    zap.NewNop(),
		logger: slog.New(slog.DiscardHandler),
	}

	root := &cobra.Command{
		Use:   "ldexpand",
		Short: "Expand JSON-LD documents",
		Long: `ldexpand turns JSON-LD documents into expanded document form and
inspects processed contexts.

Settings can be provided through flags, an ldexpand.yaml config file in the
current directory, or LDEXPAND_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.zap.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ./ldexpand.yaml)")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.Bool("log-json", false, "log in JSON")
	pf.String("mode", ld.ModeJSONLD11, "processing mode: "+ld.ModeJSONLD10+" or "+ld.ModeJSONLD11)
	pf.String("base", "", "base IRI of the document")
	pf.Bool("ordered", false, "process object members in lexicographical order")
	pf.Bool("offline", false, "never retrieve contexts over the network")
	pf.StringToString("preload", nil, "iri=file pairs of contexts to serve from disk")
	pf.Duration("timeout", 10*time.Second, "timeout for retrieving remote documents")

	for key, flag := range map[string]string{
		"log.level": "log-level",
		"log.json":  "log-json",
		"mode":      "mode",
		"base":      "base",
		"ordered":   "ordered",
		"offline":   "offline",
		"preload":   "preload",
		"timeout":   "timeout",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		a.expandCmd(),
		a.contextCmd(),
		a.vocabgenCmd(),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("LDEXPAND")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if file, _ := cmd.Flags().GetString("config"); file != "" {
		a.v.SetConfigFile(file)
	} else {
		a.v.SetConfigName("ldexpand")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "reading config")
		}
	}

	logger, err := newLogger(a.v.GetString("log.level"), a.v.GetBool("log.json"))
	if err != nil {
		return err
	}
	a.zap = logger
	a.logger = slog.New(zapslog.NewHandler(logger.Core()))

	return nil
}

func newLogger(level string, jsonOutput bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}

	var config zap.Config
	if jsonOutput {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{"stderr"}

	return config.Build()
}

// loader returns the loader for remote contexts. Preloaded contexts are
// always tried first.
func (a *app) loader() (ld.Loader, error) {
	files := a.v.GetStringMapString("preload")
	contexts := make(map[string][]byte, len(files))
	for iri, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "preloading %s", iri)
		}
		contexts[iri] = data
	}

	static, err := loader.NewStatic(contexts)
	if err != nil {
		return nil, err
	}

	chain := loader.Chain{static}
	if !a.v.GetBool("offline") {
		h, err := a.httpLoader()
		if err != nil {
			return nil, err
		}
		chain = append(chain, h)
	}

	return chain, nil
}

func (a *app) httpLoader() (*loader.HTTP, error) {
	if a.http != nil {
		return a.http, nil
	}

	h, err := loader.NewHTTP(
		loader.WithClient(&http.Client{Timeout: a.v.GetDuration("timeout")}),
		loader.WithUserAgent("ldexpand"),
		loader.WithHTTPLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}

	a.http = h
	return h, nil
}

func (a *app) processor(extra ...ld.ProcessorOption) (*ld.Processor, error) {
	mode := a.v.GetString("mode")
	switch mode {
	case ld.ModeJSONLD10, ld.ModeJSONLD11:
	default:
		return nil, errors.Newf("unknown processing mode %q", mode)
	}

	l, err := a.loader()
	if err != nil {
		return nil, err
	}

	opts := []ld.ProcessorOption{
		ld.With10Processing(mode == ld.ModeJSONLD10),
		ld.WithRemoteContextLoader(l),
		ld.WithLogger(a.logger),
		ld.WithBaseIRI(a.v.GetString("base")),
		ld.WithOrdered(a.v.GetBool("ordered")),
		ld.WithPrefetch(!a.v.GetBool("offline")),
	}

	return ld.NewProcessor(append(opts, extra...)...), nil
}
