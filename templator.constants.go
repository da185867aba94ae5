package templator

// Configuration defaults
const (
	// DefaultSuffix is appended to every logical name before resolution.
	DefaultSuffix = ""
	// DefaultMaxDepth bounds include nesting. The top-level template is depth 0.
	DefaultMaxDepth = 5
	// DefaultDirPerm is used when creating the cache directory.
	DefaultDirPerm = 0o755
	// DefaultFilePerm is used for compiled artifacts.
	DefaultFilePerm = 0o644
)

// Host code delimiters. Text outside a delimited span is literal output.
const (
	HostOpen  = "<?go"
	HostClose = "?>"
)

// ArtifactExt is the extension of compiled artifacts in the filesystem store.
const ArtifactExt = ".tmpl"

// leadingSpaceCutset is stripped from the front of every render result.
const leadingSpaceCutset = " \t\n\r\x00\x0B"

// Pass names, in pipeline order
const (
	PassNameSet      = "set"
	PassNameSection  = "section"
	PassNameInclude  = "include"
	PassNameCode     = "code"
	PassNameName     = "name"
	PassNameIf       = "if"
	PassNameEach     = "each"
	PassNameComment  = "comment"
	PassNameContinue = "continue"
	PassNameBreak    = "break"
)

// Log messages
const (
	LogMsgTemplatorCreated = "templator created"
	LogMsgCompileStart     = "compiling template"
	LogMsgCompileEnd       = "template compiled"
	LogMsgPassApplied      = "pass applied"
	LogMsgIncludeDescend   = "compiling include"
	LogMsgLayoutResolved   = "layout resolved"
	LogMsgCacheHit         = "compiled artifact is fresh"
	LogMsgCacheMiss        = "compiled artifact missing or stale"
	LogMsgArtifactSaved    = "compiled artifact saved"
	LogMsgRenderStart      = "rendering template"
	LogMsgRenderEnd        = "render complete"
	LogMsgRenderFailed     = "render failed"
	LogMsgStoreOpened      = "artifact store opened"
	LogMsgStoreClosed      = "artifact store closed"
	LogMsgMigrationsRun    = "artifact store migrations applied"
)

// Log field names
const (
	LogFieldName      = "name"
	LogFieldPath      = "path"
	LogFieldKey       = "key"
	LogFieldPass      = "pass"
	LogFieldDepth     = "depth"
	LogFieldMaxDepth  = "max_depth"
	LogFieldLayout    = "layout"
	LogFieldBytes     = "bytes"
	LogFieldUseCache  = "use_cache"
	LogFieldStore     = "store"
	LogFieldLocation  = "location"
	LogFieldDuration  = "duration"
	LogFieldTemplates = "template_dir"
	LogFieldCache     = "cache_dir"
)

// Error metadata keys
const (
	MetaKeyPath         = "path"
	MetaKeyTemplateName = "template_name"
	MetaKeyCurrentDepth = "current_depth"
	MetaKeyMaxDepth     = "max_depth"
	MetaKeyKey          = "key"
	MetaKeyKind         = "kind"
	MetaKeyOption       = "option"
)

// Error kinds recorded under MetaKeyKind
const (
	KindTemplateNotFound     = "template_not_found"
	KindIncludeDepthExceeded = "include_depth_exceeded"
	KindArtifact             = "artifact"
	KindConfig               = "config"
)

// Store names used in logs
const (
	StoreNameFilesystem = "filesystem"
	StoreNamePostgres   = "postgres"
	StoreNameMemory     = "memory"
)
