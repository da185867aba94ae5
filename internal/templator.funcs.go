package internal

import (
	"fmt"
	"sort"
	"sync"
)

// Func is a function callable from directive expressions.
type Func struct {
	Name    string
	MinArgs int
	MaxArgs int // FuncVariadic for no upper bound
	Fn      func(args []any) (any, error)
}

// FuncVariadic marks a function without an upper argument bound.
const FuncVariadic = -1

// FuncRegistry holds the functions reachable from expressions. It is safe for
// concurrent use; renders only read from it.
type FuncRegistry struct {
	mu    sync.RWMutex
	funcs map[string]*Func
}

// NewFuncRegistry creates an empty registry.
func NewFuncRegistry() *FuncRegistry {
	return &FuncRegistry{funcs: make(map[string]*Func)}
}

// NewBuiltinFuncRegistry creates a registry preloaded with the builtin functions.
func NewBuiltinFuncRegistry() *FuncRegistry {
	r := NewFuncRegistry()
	RegisterBuiltinFuncs(r)
	return r
}

// Register adds f. Registering a name twice is an error.
func (r *FuncRegistry) Register(f *Func) error {
	if f == nil {
		return NewFuncRegistryError(ErrMsgFuncNilFunc, "")
	}
	if f.Name == "" {
		return NewFuncRegistryError(ErrMsgFuncEmptyName, "")
	}
	if f.Fn == nil {
		return NewFuncRegistryError(ErrMsgFuncNilImpl, f.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[f.Name]; exists {
		return NewFuncRegistryError(ErrMsgFuncAlreadyExists, f.Name)
	}
	r.funcs[f.Name] = f
	return nil
}

// MustRegister is Register that panics; used for builtins.
func (r *FuncRegistry) MustRegister(f *Func) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Get returns the function registered under name.
func (r *FuncRegistry) Get(name string) (*Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.funcs[name]
	return f, ok
}

// Has reports whether name is registered.
func (r *FuncRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Call checks arity and invokes the named function.
func (r *FuncRegistry) Call(name string, args []any) (any, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, NewFuncError(ErrMsgFuncNotFound, name)
	}

	if len(args) < f.MinArgs {
		return nil, NewFuncArgError(ErrMsgFuncTooFewArgs, name, f.MinArgs, len(args))
	}
	if f.MaxArgs != FuncVariadic && len(args) > f.MaxArgs {
		return nil, NewFuncArgError(ErrMsgFuncTooManyArgs, name, f.MaxArgs, len(args))
	}

	result, err := f.Fn(args)
	if err != nil {
		return nil, NewFuncExecError(name, err)
	}
	return result, nil
}

// Names returns the registered function names in sorted order.
func (r *FuncRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered functions.
func (r *FuncRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.funcs)
}

// FuncRegistryError rejects a registration.
type FuncRegistryError struct {
	Message  string
	FuncName string
}

func NewFuncRegistryError(message, funcName string) *FuncRegistryError {
	return &FuncRegistryError{Message: message, FuncName: funcName}
}

func (e *FuncRegistryError) Error() string {
	if e.FuncName != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.FuncName)
	}
	return e.Message
}

// FuncError reports a call to an unknown function.
type FuncError struct {
	Message  string
	FuncName string
}

func NewFuncError(message, funcName string) *FuncError {
	return &FuncError{Message: message, FuncName: funcName}
}

func (e *FuncError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.FuncName)
}

// FuncArgError reports an arity mismatch.
type FuncArgError struct {
	Message  string
	FuncName string
	Expected int
	Actual   int
}

func NewFuncArgError(message, funcName string, expected, actual int) *FuncArgError {
	return &FuncArgError{Message: message, FuncName: funcName, Expected: expected, Actual: actual}
}

func (e *FuncArgError) Error() string {
	return fmt.Sprintf("%s: %s (expected %d, got %d)", e.Message, e.FuncName, e.Expected, e.Actual)
}

// FuncExecError wraps an error returned by a function body.
type FuncExecError struct {
	FuncName string
	Cause    error
}

func NewFuncExecError(funcName string, cause error) *FuncExecError {
	return &FuncExecError{FuncName: funcName, Cause: cause}
}

func (e *FuncExecError) Error() string {
	return fmt.Sprintf("function %s failed: %v", e.FuncName, e.Cause)
}

func (e *FuncExecError) Unwrap() error {
	return e.Cause
}

// FuncTypeError reports an argument of the wrong type.
type FuncTypeError struct {
	Message  string
	FuncName string
	ArgIndex int
}

func NewFuncTypeError(message, funcName string, argIndex int) *FuncTypeError {
	return &FuncTypeError{Message: message, FuncName: funcName, ArgIndex: argIndex}
}

func (e *FuncTypeError) Error() string {
	return fmt.Sprintf("%s: %s (argument %d)", e.Message, e.FuncName, e.ArgIndex)
}

// Registry and argument failures
const (
	ErrMsgFuncNilFunc           = "function cannot be nil"
	ErrMsgFuncNilImpl           = "function has no implementation"
	ErrMsgFuncEmptyName         = "function name cannot be empty"
	ErrMsgFuncAlreadyExists     = "function already registered"
	ErrMsgFuncNotFound          = "function not found"
	ErrMsgFuncTooFewArgs        = "too few arguments"
	ErrMsgFuncTooManyArgs       = "too many arguments"
	ErrMsgFuncExpectedString    = "expected string argument"
	ErrMsgFuncExpectedSlice     = "expected slice or array argument"
	ErrMsgFuncExpectedMap       = "expected map argument"
	ErrMsgFuncExpectedStringKey = "expected string key"
	ErrMsgFuncConversionFailed  = "type conversion failed"
	ErrMsgFuncNegativeStep      = "range step must be positive"
)

// Names the builtins are registered under
const (
	FuncNameLen        = "len"
	FuncNameContains   = "contains"
	FuncNameUpper      = "upper"
	FuncNameLower      = "lower"
	FuncNameTrim       = "trim"
	FuncNameTrimPrefix = "trimPrefix"
	FuncNameTrimSuffix = "trimSuffix"
	FuncNameHasPrefix  = "hasPrefix"
	FuncNameHasSuffix  = "hasSuffix"
	FuncNameReplace    = "replace"
	FuncNameSplit      = "split"
	FuncNameJoin       = "join"
	FuncNameFirst      = "first"
	FuncNameLast       = "last"
	FuncNameKeys       = "keys"
	FuncNameValues     = "values"
	FuncNameHas        = "has"
	FuncNameRange      = "range"
	FuncNameToString   = "toString"
	FuncNameToInt      = "toInt"
	FuncNameToFloat    = "toFloat"
	FuncNameToBool     = "toBool"
	FuncNameTypeOf     = "typeOf"
	FuncNameIsNil      = "isNil"
	FuncNameIsEmpty    = "isEmpty"
	FuncNameDefault    = "default"
	FuncNameCoalesce   = "coalesce"
	FuncNameEscape     = "escape"
	FuncNameSanitize   = "sanitize"
	FuncNameStripTags  = "stripTags"
)

// Output string forms. Booleans print the way the directive language always
// has: true as "1", false as nothing.
const (
	StringValueEmpty = ""
	StringValueTrue  = "1"
	StringValueFalse = ""
)

// strconv parameters
const (
	FloatFormatFlag   = 'f'
	FloatPrecisionAll = -1
	FloatBitSize64    = 64
	IntBase10         = 10
)

// Zero-based argument positions used in FuncTypeError
const (
	ArgIndexFirst  = 0
	ArgIndexSecond = 1
	ArgIndexThird  = 2
)

// RegisterBuiltinFuncs registers every builtin function with r.
func RegisterBuiltinFuncs(r *FuncRegistry) {
	registerStringFuncs(r)
	registerCollectionFuncs(r)
	registerTypeFuncs(r)
	registerUtilFuncs(r)
	registerHTMLFuncs(r)
	registerDateTimeFuncs(r)
}
