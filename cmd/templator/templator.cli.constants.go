package main

// Command names
const (
	CmdNameRender  = "render"
	CmdNameCompile = "compile"
	CmdNameVersion = "version"
	CmdNameHelp    = "help"
)

// Flag names - long form
const (
	FlagName     = "name"
	FlagRoot     = "root"
	FlagCache    = "cache"
	FlagData     = "data"
	FlagDataFile = "data-file"
	FlagOutput   = "output"
	FlagNoCache  = "no-cache"
	FlagSuffix   = "suffix"
	FlagMaxDepth = "max-depth"
	FlagConfig   = "config"
	FlagDSN      = "dsn"
	FlagVerbose  = "verbose"
	FlagFormat   = "format"
)

// Flag names - short form
const (
	FlagNameShort     = "n"
	FlagRootShort     = "r"
	FlagCacheShort    = "c"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagOutputShort   = "o"
	FlagVerboseShort  = "v"
	FlagFormatShort   = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
	FlagDefaultRoot   = "."
	FlagDefaultCache  = ".templator-cache"
	FlagDefaultConfig = "templator.yaml"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeUsageError = 2
	ExitCodeNotFound   = 3
	ExitCodeInputError = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Data file extensions
const (
	DataExtJSON = ".json"
	DataExtYAML = ".yaml"
	DataExtYML  = ".yml"
	DataExtHCL  = ".hcl"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand     = "unknown command"
	ErrMsgMissingName        = "template name required"
	ErrMsgInvalidFlags       = "invalid arguments"
	ErrMsgInvalidData        = "invalid template data"
	ErrMsgUnsupportedData    = "unsupported data file extension"
	ErrMsgNoStdin            = "no stdin available"
	ErrMsgDataNotObject      = "template data must be an object"
	ErrMsgReadFileFailed     = "failed to read file"
	ErrMsgWriteOutputFailed  = "failed to write output"
	ErrMsgConfigFailed       = "failed to load configuration"
	ErrMsgSetupFailed        = "failed to set up templator"
	ErrMsgRenderFailed       = "template rendering failed"
	ErrMsgCompileFailed      = "template compilation failed"
	ErrMsgTemplateNotFound   = "template not found"
	ErrMsgInvalidFormat      = "invalid output format"
	ErrMsgHCLParseFailed     = "failed to parse HCL data"
	ErrMsgHCLUnsupportedType = "unsupported HCL value type"
)

// Help text templates
const (
	HelpMainUsage = `templator - directive template compiler and renderer

Usage:
    templator <command> [options]

Commands:
    render      Render a template with data
    compile     Print the compiled host code of a template
    version     Show version information
    help        Show help for a command

Use "templator help <command>" for more information about a command.`

	HelpRenderUsage = `Render a template with data

Usage:
    templator render -n <name> [options]

Options:
    -n, --name <name>        Logical template name, relative to the root
    -r, --root <dir>         Template root directory (default: .)
    -c, --cache <dir>        Compiled artifact directory (default: .templator-cache)
    -d, --data <json>        JSON data string
    -f, --data-file <file>   Data file: .json, .yaml, .yml or .hcl ("-" reads JSON from stdin)
    -o, --output <file>      Output file (default: stdout)
    --no-cache               Recompile even when the artifact is fresh
    --suffix <ext>           Suffix appended to template names, e.g. .html
    --max-depth <n>          Include nesting ceiling (default: 5)
    --dsn <dsn>              Store artifacts in PostgreSQL instead of the cache directory
    --config <file>          Configuration file (default: templator.yaml if present)
    -v, --verbose            Log compilation details to stderr

Examples:
    templator render -r views -n home.html -d '{"name": "taylor"}'
    templator render -r views --suffix .html -n pages/about -f data.yaml
    templator render -n home.html -f data.hcl -o home.out.html`

	HelpCompileUsage = `Print the compiled host code of a template

Usage:
    templator compile -n <name> [options]

Options:
    -n, --name <name>        Logical template name, relative to the root
    -r, --root <dir>         Template root directory (default: .)
    -c, --cache <dir>        Compiled artifact directory (default: .templator-cache)
    -o, --output <file>      Output file (default: stdout)
    --suffix <ext>           Suffix appended to template names
    --max-depth <n>          Include nesting ceiling (default: 5)
    --dsn <dsn>              Store artifacts in PostgreSQL
    --config <file>          Configuration file
    -v, --verbose            Log compilation details to stderr`

	HelpVersionUsage = `Show version information

Usage:
    templator version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    templator help [command]

Commands:
    render      Show help for render command
    compile     Show help for compile command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-templator version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// CLI metadata
const (
	CLIName        = "templator"
	CLIDescription = "Directive template compiler and renderer"
)

// File permission constants
const (
	FilePermissions = 0644
	DirPermissions  = 0755
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
	FmtWrapDetail      = "%s: %s"
	FmtWrapCause       = "%s: %w"
)
