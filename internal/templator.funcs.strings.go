package internal

import "strings"

// stringArg extracts argument i as a string or reports a type error for fn.
func stringArg(args []any, i int, fn string) (string, error) {
	s, ok := toString(args[i])
	if !ok {
		return "", NewFuncTypeError(ErrMsgFuncExpectedString, fn, i)
	}
	return s, nil
}

// unaryString registers fn(s) -> op(s).
func unaryString(r *FuncRegistry, name string, op func(string) string) {
	r.MustRegister(&Func{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(args []any) (any, error) {
			s, err := stringArg(args, ArgIndexFirst, name)
			if err != nil {
				return nil, err
			}
			return op(s), nil
		},
	})
}

// binaryString registers fn(s, t) -> op(s, t).
func binaryString(r *FuncRegistry, name string, op func(string, string) any) {
	r.MustRegister(&Func{
		Name:    name,
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(args []any) (any, error) {
			s, err := stringArg(args, ArgIndexFirst, name)
			if err != nil {
				return nil, err
			}
			t, err := stringArg(args, ArgIndexSecond, name)
			if err != nil {
				return nil, err
			}
			return op(s, t), nil
		},
	})
}

func registerStringFuncs(r *FuncRegistry) {
	unaryString(r, FuncNameUpper, strings.ToUpper)
	unaryString(r, FuncNameLower, strings.ToLower)
	unaryString(r, FuncNameTrim, strings.TrimSpace)

	binaryString(r, FuncNameTrimPrefix, func(s, p string) any { return strings.TrimPrefix(s, p) })
	binaryString(r, FuncNameTrimSuffix, func(s, p string) any { return strings.TrimSuffix(s, p) })
	binaryString(r, FuncNameHasPrefix, func(s, p string) any { return strings.HasPrefix(s, p) })
	binaryString(r, FuncNameHasSuffix, func(s, p string) any { return strings.HasSuffix(s, p) })
	binaryString(r, FuncNameSplit, func(s, sep string) any {
		parts := strings.Split(s, sep)
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = p
		}
		return out
	})

	// replace(s, old, new)
	r.MustRegister(&Func{
		Name:    FuncNameReplace,
		MinArgs: 3,
		MaxArgs: 3,
		Fn: func(args []any) (any, error) {
			s, err := stringArg(args, ArgIndexFirst, FuncNameReplace)
			if err != nil {
				return nil, err
			}
			old, err := stringArg(args, ArgIndexSecond, FuncNameReplace)
			if err != nil {
				return nil, err
			}
			repl, err := stringArg(args, ArgIndexThird, FuncNameReplace)
			if err != nil {
				return nil, err
			}
			return strings.ReplaceAll(s, old, repl), nil
		},
	})

	// join(items, sep): elements are stringified with the output rules
	r.MustRegister(&Func{
		Name:    FuncNameJoin,
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(args []any) (any, error) {
			items, err := toSlice(args[ArgIndexFirst], FuncNameJoin, ArgIndexFirst)
			if err != nil {
				return nil, err
			}
			sep, err := stringArg(args, ArgIndexSecond, FuncNameJoin)
			if err != nil {
				return nil, err
			}
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = Stringify(item)
			}
			return strings.Join(parts, sep), nil
		},
	})

	// contains(haystack, needle) works on strings, slices and map keys
	r.MustRegister(&Func{
		Name:    FuncNameContains,
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(args []any) (any, error) {
			switch haystack := args[ArgIndexFirst].(type) {
			case string:
				needle, err := stringArg(args, ArgIndexSecond, FuncNameContains)
				if err != nil {
					return nil, err
				}
				return strings.Contains(haystack, needle), nil
			case map[string]any:
				key, err := stringArg(args, ArgIndexSecond, FuncNameContains)
				if err != nil {
					return nil, err
				}
				_, ok := haystack[key]
				return ok, nil
			}
			items, err := toSlice(args[ArgIndexFirst], FuncNameContains, ArgIndexFirst)
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				if looseEqual(item, args[ArgIndexSecond]) {
					return true, nil
				}
			}
			return false, nil
		},
	})
}
