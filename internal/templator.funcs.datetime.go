package internal

import (
	"time"
)

const (
	FuncNameNow        = "now"
	FuncNameFormatDate = "formatDate"
	FuncNameParseDate  = "parseDate"
	FuncNameAddDays    = "addDays"
	FuncNameDiffDays   = "diffDays"
	FuncNameYear       = "year"
	FuncNameMonth      = "month"
	FuncNameDay        = "day"
	FuncNameWeekday    = "weekday"
)

const (
	ErrMsgFuncExpectedTime      = "expected time argument"
	ErrMsgFuncInvalidTimeFormat = "invalid time format"
)

const (
	DateFormatISO = "2006-01-02"
	hoursPerDay  = 24
)

// Layouts tried in order when a string is used where a time is expected.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	DateFormatISO,
	time.RFC1123Z,
	time.RFC1123,
}

func timeArg(args []any, i int, fn string) (time.Time, error) {
	switch v := args[i].(type) {
	case time.Time:
		return v, nil
	case string:
		if t, ok := parseDateString(v); ok {
			return t, nil
		}
		return time.Time{}, NewFuncTypeError(ErrMsgFuncInvalidTimeFormat, fn, i)
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	}
	return time.Time{}, NewFuncTypeError(ErrMsgFuncExpectedTime, fn, i)
}

func parseDateString(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timePart registers a one-argument accessor on a time value.
func timePart(r *FuncRegistry, name string, part func(time.Time) any) {
	r.MustRegister(&Func{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(args []any) (any, error) {
			t, err := timeArg(args, ArgIndexFirst, name)
			if err != nil {
				return nil, err
			}
			return part(t), nil
		},
	})
}

func registerDateTimeFuncs(r *FuncRegistry) {
	r.MustRegister(&Func{
		Name: FuncNameNow,
		Fn:   func([]any) (any, error) { return time.Now(), nil },
	})

	// formatDate(t, layout?) formats with a Go layout, ISO date by default.
	r.MustRegister(&Func{
		Name:    FuncNameFormatDate,
		MinArgs: 1,
		MaxArgs: 2,
		Fn: func(args []any) (any, error) {
			t, err := timeArg(args, ArgIndexFirst, FuncNameFormatDate)
			if err != nil {
				return nil, err
			}
			layout := DateFormatISO
			if len(args) > 1 {
				if layout, err = stringArg(args, ArgIndexSecond, FuncNameFormatDate); err != nil {
					return nil, err
				}
			}
			return t.Format(layout), nil
		},
	})

	r.MustRegister(&Func{
		Name:    FuncNameParseDate,
		MinArgs: 1,
		MaxArgs: 2,
		Fn: func(args []any) (any, error) {
			s, err := stringArg(args, ArgIndexFirst, FuncNameParseDate)
			if err != nil {
				return nil, err
			}
			if len(args) == 1 {
				if t, ok := parseDateString(s); ok {
					return t, nil
				}
				return nil, NewFuncTypeError(ErrMsgFuncInvalidTimeFormat, FuncNameParseDate, ArgIndexFirst)
			}
			layout, err := stringArg(args, ArgIndexSecond, FuncNameParseDate)
			if err != nil {
				return nil, err
			}
			t, perr := time.Parse(layout, s)
			if perr != nil {
				return nil, NewFuncTypeError(ErrMsgFuncInvalidTimeFormat, FuncNameParseDate, ArgIndexFirst)
			}
			return t, nil
		},
	})

	r.MustRegister(&Func{
		Name:    FuncNameAddDays,
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(args []any) (any, error) {
			t, err := timeArg(args, ArgIndexFirst, FuncNameAddDays)
			if err != nil {
				return nil, err
			}
			n, err := anyToInt(args[ArgIndexSecond], FuncNameAddDays, ArgIndexSecond)
			if err != nil {
				return nil, err
			}
			return t.AddDate(0, 0, n), nil
		},
	})

	// diffDays(a, b) counts whole days from a to b.
	r.MustRegister(&Func{
		Name:    FuncNameDiffDays,
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(args []any) (any, error) {
			a, err := timeArg(args, ArgIndexFirst, FuncNameDiffDays)
			if err != nil {
				return nil, err
			}
			b, err := timeArg(args, ArgIndexSecond, FuncNameDiffDays)
			if err != nil {
				return nil, err
			}
			return int(b.Sub(a).Hours() / hoursPerDay), nil
		},
	})

	timePart(r, FuncNameYear, func(t time.Time) any { return t.Year() })
	timePart(r, FuncNameMonth, func(t time.Time) any { return int(t.Month()) })
	timePart(r, FuncNameDay, func(t time.Time) any { return t.Day() })
	timePart(r, FuncNameWeekday, func(t time.Time) any { return t.Weekday().String() })
}
