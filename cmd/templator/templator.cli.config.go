package main

import (
	"errors"
	"flag"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/itsatony/go-templator"
)

// fileConfig mirrors templator.yaml
type fileConfig struct {
	TemplateDir string `yaml:"template_dir"`
	CacheDir    string `yaml:"cache_dir"`
	Suffix      string `yaml:"suffix"`
	MaxDepth    *int   `yaml:"max_depth"`
	Postgres    struct {
		DSN         string `yaml:"dsn"`
		TablePrefix string `yaml:"table_prefix"`
		AutoMigrate bool   `yaml:"auto_migrate"`
	} `yaml:"postgres"`
}

// engineConfig holds the settings shared by render and compile
type engineConfig struct {
	name        string
	root        string
	cache       string
	outputPath  string
	suffix      string
	maxDepth    int
	configPath  string
	dsn         string
	tablePrefix string
	autoMigrate bool
	verbose     bool
}

// bindEngineFlags registers the shared flags on fs.
func bindEngineFlags(fs *flag.FlagSet, cfg *engineConfig) {
	fs.StringVar(&cfg.name, FlagName, "", "")
	fs.StringVar(&cfg.name, FlagNameShort, "", "")
	fs.StringVar(&cfg.root, FlagRoot, FlagDefaultRoot, "")
	fs.StringVar(&cfg.root, FlagRootShort, FlagDefaultRoot, "")
	fs.StringVar(&cfg.cache, FlagCache, FlagDefaultCache, "")
	fs.StringVar(&cfg.cache, FlagCacheShort, FlagDefaultCache, "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.StringVar(&cfg.suffix, FlagSuffix, templator.DefaultSuffix, "")
	fs.IntVar(&cfg.maxDepth, FlagMaxDepth, templator.DefaultMaxDepth, "")
	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.dsn, FlagDSN, "", "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")
}

// applyConfigFile fills every setting not given on the command line from the
// configuration file. Without --config, templator.yaml is read when present.
func applyConfigFile(fs *flag.FlagSet, cfg *engineConfig) error {
	path := cfg.configPath
	explicit := path != ""
	if !explicit {
		path = FlagDefaultConfig
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	given := func(long, short string) bool { return set[long] || (short != "" && set[short]) }

	if fc.TemplateDir != "" && !given(FlagRoot, FlagRootShort) {
		cfg.root = fc.TemplateDir
	}
	if fc.CacheDir != "" && !given(FlagCache, FlagCacheShort) {
		cfg.cache = fc.CacheDir
	}
	if fc.Suffix != "" && !given(FlagSuffix, "") {
		cfg.suffix = fc.Suffix
	}
	if fc.MaxDepth != nil && !given(FlagMaxDepth, "") {
		cfg.maxDepth = *fc.MaxDepth
	}
	if fc.Postgres.DSN != "" && !given(FlagDSN, "") {
		cfg.dsn = fc.Postgres.DSN
	}
	cfg.tablePrefix = fc.Postgres.TablePrefix
	cfg.autoMigrate = fc.Postgres.AutoMigrate
	return nil
}

// newLogger returns a development-style console logger on stderr, or a
// no-op logger when verbose is off.
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zap.DebugLevel,
	)
	return zap.New(core)
}

// newTemplator builds the engine described by cfg.
func newTemplator(cfg *engineConfig, logger *zap.Logger) (*templator.Templator, error) {
	opts := []templator.Option{
		templator.WithSuffix(cfg.suffix),
		templator.WithMaxDepth(cfg.maxDepth),
		templator.WithLogger(logger),
	}

	if cfg.dsn != "" {
		store, err := templator.NewPostgresArtifactStore(templator.PostgresConfig{
			ConnectionString: cfg.dsn,
			TablePrefix:      cfg.tablePrefix,
			AutoMigrate:      cfg.autoMigrate,
			Logger:           logger,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, templator.WithArtifactStore(store))
	}

	return templator.New(cfg.root, cfg.cache, opts...)
}

// exitCodeFor maps an engine error onto a CLI exit code.
func exitCodeFor(err error) int {
	if templator.IsTemplateNotFound(err) {
		return ExitCodeNotFound
	}
	return ExitCodeError
}
