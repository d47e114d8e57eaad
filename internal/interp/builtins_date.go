package interp

import (
	"strings"
	"time"
)

func dateModule() *Module {
	return &Module{
		Name: "date",
		Funcs: map[string]*Builtin{
			"now":           {Name: "now", Fn: dateNow},
			"now_ms":        {Name: "now_ms", Fn: dateNowMs},
			"format":        {Name: "format", Fn: dateFormat},
			"parse":         {Name: "parse", Fn: dateParse},
			"add_days":      {Name: "add_days", Fn: dateAddDays},
			"add_months":    {Name: "add_months", Fn: dateAddMonths},
			"add_years":     {Name: "add_years", Fn: dateAddYears},
			"diff_days":     {Name: "diff_days", Fn: dateDiffDays},
			"year":          {Name: "year", Fn: dateYear},
			"month":         {Name: "month", Fn: dateMonth},
			"day":           {Name: "day", Fn: dateDay},
			"weekday":       {Name: "weekday", Fn: dateWeekday},
			"weekday_name":  {Name: "weekday_name", Fn: dateWeekdayName},
			"days_in_month": {Name: "days_in_month", Fn: dateDaysInMonth},
			"is_leap_year":  {Name: "is_leap_year", Fn: dateIsLeapYear},
		},
	}
}

// Script-facing format tokens, converted to the reference layout.
var dateTokens = [...][2]string{
	{"YYYY", "2006"},
	{"MM", "01"},
	{"DD", "02"},
	{"hh", "15"},
	{"mm", "04"},
	{"ss", "05"},
}

func toGoLayout(format string) string {
	out := format
	for _, t := range dateTokens {
		out = strings.ReplaceAll(out, t[0], t[1])
	}
	return out
}

func dateNow(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("date.now", args); err != nil {
		return nil, err
	}
	return Int{time.Now().Unix()}, nil
}

func dateNowMs(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("date.now_ms", args); err != nil {
		return nil, err
	}
	return Int{time.Now().UnixMilli()}, nil
}

func dateFormat(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("date.format", args, 2); err != nil {
		return nil, err
	}
	unix, err := argInt("date.format", args, 0)
	if err != nil {
		return nil, err
	}
	format, err := argString("date.format", args, 1)
	if err != nil {
		return nil, err
	}
	t := time.Unix(unix, 0).UTC()
	return String{t.Format(toGoLayout(format))}, nil
}

func dateParse(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("date.parse", args, 2); err != nil {
		return nil, err
	}
	text, err := argString("date.parse", args, 0)
	if err != nil {
		return nil, err
	}
	format, err := argString("date.parse", args, 1)
	if err != nil {
		return nil, err
	}
	t, err := time.ParseInLocation(toGoLayout(format), text, time.UTC)
	if err != nil {
		return nil, parseErrorf("cannot parse date '%s': %v", text, err)
	}
	return Int{t.Unix()}, nil
}

func dateAddDays(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("date.add_days", args, 2); err != nil {
		return nil, err
	}
	unix, err := argInt("date.add_days", args, 0)
	if err != nil {
		return nil, err
	}
	days, err := argInt("date.add_days", args, 1)
	if err != nil {
		return nil, err
	}
	t := time.Unix(unix, 0).UTC().AddDate(0, 0, int(days))
	return Int{t.Unix()}, nil
}

func dateShift(fn string, args []Value, shift func(time.Time, int) time.Time) (Value, error) {
	if err := wantExact(fn, args, 2); err != nil {
		return nil, err
	}
	unix, err := argInt(fn, args, 0)
	if err != nil {
		return nil, err
	}
	n, err := argInt(fn, args, 1)
	if err != nil {
		return nil, err
	}
	return Int{shift(time.Unix(unix, 0).UTC(), int(n)).Unix()}, nil
}

func dateAddMonths(_ *Runtime, args []Value) (Value, error) {
	return dateShift("date.add_months", args, func(t time.Time, n int) time.Time {
		return t.AddDate(0, n, 0)
	})
}

func dateAddYears(_ *Runtime, args []Value) (Value, error) {
	return dateShift("date.add_years", args, func(t time.Time, n int) time.Time {
		return t.AddDate(n, 0, 0)
	})
}

func dateDiffDays(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("date.diff_days", args, 2); err != nil {
		return nil, err
	}
	a, err := argInt("date.diff_days", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := argInt("date.diff_days", args, 1)
	if err != nil {
		return nil, err
	}
	return Int{(a - b) / 86400}, nil
}

func datePart(fn string, args []Value, part func(time.Time) int64) (Value, error) {
	if err := wantExact(fn, args, 1); err != nil {
		return nil, err
	}
	unix, err := argInt(fn, args, 0)
	if err != nil {
		return nil, err
	}
	return Int{part(time.Unix(unix, 0).UTC())}, nil
}

func dateYear(_ *Runtime, args []Value) (Value, error) {
	return datePart("date.year", args, func(t time.Time) int64 { return int64(t.Year()) })
}

func dateMonth(_ *Runtime, args []Value) (Value, error) {
	return datePart("date.month", args, func(t time.Time) int64 { return int64(t.Month()) })
}

func dateDay(_ *Runtime, args []Value) (Value, error) {
	return datePart("date.day", args, func(t time.Time) int64 { return int64(t.Day()) })
}

func dateWeekday(_ *Runtime, args []Value) (Value, error) {
	return datePart("date.weekday", args, func(t time.Time) int64 { return int64(t.Weekday()) })
}

func dateWeekdayName(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("date.weekday_name", args, 1); err != nil {
		return nil, err
	}
	unix, err := argInt("date.weekday_name", args, 0)
	if err != nil {
		return nil, err
	}
	return String{time.Unix(unix, 0).UTC().Weekday().String()}, nil
}

func dateDaysInMonth(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("date.days_in_month", args, 2); err != nil {
		return nil, err
	}
	year, err := argInt("date.days_in_month", args, 0)
	if err != nil {
		return nil, err
	}
	month, err := argInt("date.days_in_month", args, 1)
	if err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, domainErrorf("month %d out of range [1, 12]", month)
	}
	// Day zero of the next month is the last day of this one.
	last := time.Date(int(year), time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return Int{int64(last.Day())}, nil
}

func dateIsLeapYear(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("date.is_leap_year", args, 1); err != nil {
		return nil, err
	}
	year, err := argInt("date.is_leap_year", args, 0)
	if err != nil {
		return nil, err
	}
	leap := year%4 == 0 && (year%100 != 0 || year%400 == 0)
	return Bool{leap}, nil
}
