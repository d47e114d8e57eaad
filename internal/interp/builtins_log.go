package interp

import "go.uber.org/zap"

func logModule() *Module {
	return &Module{
		Name: "log",
		Funcs: map[string]*Builtin{
			"debuglog": {Name: "debuglog", Fn: logDebug},
			"infolog":  {Name: "infolog", Fn: logInfo},
			"warnlog":  {Name: "warnlog", Fn: logWarn},
			"errorlog": {Name: "errorlog", Fn: logError},
		},
	}
}

// logMessage renders the message plus optional structured fields: the
// second argument, when present, must be a map whose entries become
// typed zap fields.
func logMessage(rt *Runtime, fn string, args []Value) (string, []zap.Field, error) {
	if err := wantRange(fn, args, 1, 2); err != nil {
		return "", nil, err
	}
	msg, err := argString(fn, args, 0)
	if err != nil {
		return "", nil, err
	}
	if len(args) == 1 {
		return msg, nil, nil
	}
	entries, err := AsMap(args[1])
	if err != nil {
		return "", nil, typeErrorf("%s: argument 2: %v", fn, err)
	}
	fields := make([]zap.Field, 0, len(entries))
	for k, v := range entries {
		switch v := v.(type) {
		case Bool:
			fields = append(fields, zap.Bool(k, v.Value))
		case Int:
			fields = append(fields, zap.Int64(k, v.Value))
		case Float:
			fields = append(fields, zap.Float64(k, v.Value))
		default:
			fields = append(fields, zap.String(k, AsString(v)))
		}
	}
	return msg, fields, nil
}

func logDebug(rt *Runtime, args []Value) (Value, error) {
	msg, fields, err := logMessage(rt, "log.debuglog", args)
	if err != nil {
		return nil, err
	}
	rt.log.Debug(msg, fields...)
	return Null{}, nil
}

func logInfo(rt *Runtime, args []Value) (Value, error) {
	msg, fields, err := logMessage(rt, "log.infolog", args)
	if err != nil {
		return nil, err
	}
	rt.log.Info(msg, fields...)
	return Null{}, nil
}

func logWarn(rt *Runtime, args []Value) (Value, error) {
	msg, fields, err := logMessage(rt, "log.warnlog", args)
	if err != nil {
		return nil, err
	}
	rt.log.Warn(msg, fields...)
	return Null{}, nil
}

func logError(rt *Runtime, args []Value) (Value, error) {
	msg, fields, err := logMessage(rt, "log.errorlog", args)
	if err != nil {
		return nil, err
	}
	rt.log.Error(msg, fields...)
	return Null{}, nil
}
