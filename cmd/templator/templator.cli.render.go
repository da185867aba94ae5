package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	engineConfig
	dataJSON     string
	dataFilePath string
	noCache      bool
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	data, err := loadData(cfg.dataJSON, cfg.dataFilePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	logger := newLogger(cfg.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	tpl, err := newTemplator(&cfg.engineConfig, logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgSetupFailed, err)
		return ExitCodeError
	}
	defer tpl.Close()

	ctx := context.Background()
	var result string
	if cfg.noCache {
		result, err = tpl.RenderUncached(ctx, cfg.name, data)
	} else {
		result, err = tpl.Render(ctx, cfg.name, data)
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return exitCodeFor(err)
	}

	if err := writeOutput(cfg.outputPath, result, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &renderConfig{}
	bindEngineFlags(fs, &cfg.engineConfig)
	fs.StringVar(&cfg.dataJSON, FlagData, "", "")
	fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.BoolVar(&cfg.noCache, FlagNoCache, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.name == "" {
		return nil, errors.New(ErrMsgMissingName)
	}
	if err := applyConfigFile(fs, &cfg.engineConfig); err != nil {
		return nil, fmt.Errorf(FmtWrapCause, ErrMsgConfigFailed, err)
	}

	return cfg, nil
}

func runCompile(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseCompileFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	logger := newLogger(cfg.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	tpl, err := newTemplator(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgSetupFailed, err)
		return ExitCodeError
	}
	defer tpl.Close()

	compiled, err := tpl.Compile(context.Background(), cfg.name)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
		return exitCodeFor(err)
	}

	if err := writeOutput(cfg.outputPath, compiled, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseCompileFlags(args []string) (*engineConfig, error) {
	fs := flag.NewFlagSet(CmdNameCompile, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &engineConfig{}
	bindEngineFlags(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.name == "" {
		return nil, errors.New(ErrMsgMissingName)
	}
	if err := applyConfigFile(fs, cfg); err != nil {
		return nil, fmt.Errorf(FmtWrapCause, ErrMsgConfigFailed, err)
	}

	return cfg, nil
}
