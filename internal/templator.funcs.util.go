package internal

func registerUtilFuncs(r *FuncRegistry) {
	// default(x, fallback) returns fallback when x is nil or empty
	r.MustRegister(&Func{
		Name:    FuncNameDefault,
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(args []any) (any, error) {
			if isEmpty(args[ArgIndexFirst]) {
				return args[ArgIndexSecond], nil
			}
			return args[ArgIndexFirst], nil
		},
	})

	// coalesce(xs...) returns the first non-empty argument
	r.MustRegister(&Func{
		Name:    FuncNameCoalesce,
		MinArgs: 1,
		MaxArgs: FuncVariadic,
		Fn: func(args []any) (any, error) {
			for _, arg := range args {
				if !isEmpty(arg) {
					return arg, nil
				}
			}
			return nil, nil
		},
	})
}
