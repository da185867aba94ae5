package templator

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants
const (
	ErrMsgTemplateNotFound     = "template not found"
	ErrMsgIncludeDepthExceeded = "maximum include depth exceeded"
	ErrMsgArtifactRead         = "failed to read compiled artifact"
	ErrMsgArtifactWrite        = "failed to write compiled artifact"
	ErrMsgArtifactStat         = "failed to stat compiled artifact"
	ErrMsgCacheDirCreate       = "failed to create cache directory"
	ErrMsgTemplateRead         = "failed to read template source"
	ErrMsgHostParse            = "failed to parse compiled template"
	ErrMsgRenderFailed         = "template execution failed"
	ErrMsgStoreClosed          = "artifact store is closed"
	ErrMsgStoreConnection      = "failed to connect to artifact store"
	ErrMsgStoreMigration       = "failed to migrate artifact store"
	ErrMsgInvalidTemplateDir   = "template directory is required"
	ErrMsgInvalidMaxDepth      = "max depth must not be negative"
	ErrMsgNilStore             = "artifact store cannot be nil"
	ErrMsgUnknownArtifact      = "compiled artifact does not exist"
)

// Error codes
const (
	ErrCodeNotFound  = "TEMPLATOR_NOT_FOUND"
	ErrCodeRecursion = "TEMPLATOR_RECURSION"
	ErrCodeCache     = "TEMPLATOR_CACHE"
	ErrCodeSource    = "TEMPLATOR_SOURCE"
	ErrCodeRender    = "TEMPLATOR_RENDER"
	ErrCodeConfig    = "TEMPLATOR_CONFIG"
)

// NewTemplateNotFoundError reports a logical name that resolves to no file.
func NewTemplateNotFoundError(path string) error {
	return cuserr.NewCustomError(cuserr.ErrNotFound, nil, ErrMsgTemplateNotFound+": "+path).
		WithMetadata(MetaKeyKind, KindTemplateNotFound).
		WithMetadata(MetaKeyPath, path)
}

// NewIncludeDepthExceededError reports an include that would nest past max.
func NewIncludeDepthExceededError(path string, depth, max int) error {
	return cuserr.NewValidationError(ErrCodeRecursion, ErrMsgIncludeDepthExceeded).
		WithMetadata(MetaKeyKind, KindIncludeDepthExceeded).
		WithMetadata(MetaKeyPath, path).
		WithMetadata(MetaKeyCurrentDepth, strconv.Itoa(depth)).
		WithMetadata(MetaKeyMaxDepth, strconv.Itoa(max))
}

// NewArtifactError wraps a failure of the compiled artifact store.
func NewArtifactError(msg, key string, cause error) error {
	if cause == nil {
		cause = errors.New(msg)
	}
	return cuserr.WrapStdError(cause, ErrCodeCache, msg).
		WithMetadata(MetaKeyKind, KindArtifact).
		WithMetadata(MetaKeyKey, key)
}

// NewSourceError wraps a failure to read a resolved template file.
func NewSourceError(path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeSource, ErrMsgTemplateRead).
		WithMetadata(MetaKeyPath, path)
}

// NewHostParseError wraps a text/template parse failure of an artifact.
func NewHostParseError(name string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRender, ErrMsgHostParse).
		WithMetadata(MetaKeyTemplateName, name)
}

// NewConfigError reports an invalid option value.
func NewConfigError(msg, option string) error {
	return cuserr.NewValidationError(ErrCodeConfig, msg).
		WithMetadata(MetaKeyKind, KindConfig).
		WithMetadata(MetaKeyOption, option)
}

// IsTemplateNotFound reports whether err (or anything it wraps) is a missing template.
func IsTemplateNotFound(err error) bool {
	return hasKind(err, KindTemplateNotFound)
}

// IsIncludeDepthExceeded reports whether err is an include depth violation.
func IsIncludeDepthExceeded(err error) bool {
	return hasKind(err, KindIncludeDepthExceeded)
}

// IsArtifactError reports whether err came from the artifact store.
func IsArtifactError(err error) bool {
	return hasKind(err, KindArtifact)
}

func hasKind(err error, kind string) bool {
	var customErr *cuserr.CustomError
	for err != nil {
		if !errors.As(err, &customErr) {
			return false
		}
		if k, ok := customErr.GetMetadata(MetaKeyKind); ok && k == kind {
			return true
		}
		err = errors.Unwrap(customErr)
	}
	return false
}
