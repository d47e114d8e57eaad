package interp

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

func dbModule() *Module {
	return &Module{
		Name: "db",
		Funcs: map[string]*Builtin{
			"open":  {Name: "open", Fn: dbOpen},
			"exec":  {Name: "exec", Fn: dbExec},
			"query": {Name: "query", Fn: dbQuery},
			"close": {Name: "close", Fn: dbClose},
		},
	}
}

// dbOpen opens (or creates) a SQLite database file and registers the
// connection. ":memory:" works as usual.
func dbOpen(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("db.open", args, 1); err != nil {
		return nil, err
	}
	path, err := argString("db.open", args, 0)
	if err != nil {
		return nil, err
	}
	conn, openErr := sql.Open("sqlite", path)
	if openErr != nil {
		return nil, ioErrorf("cannot open database '%s': %v", path, openErr)
	}
	// One connection per handle, otherwise ":memory:" databases are not
	// shared across pooled connections.
	conn.SetMaxOpenConns(1)
	if pingErr := conn.Ping(); pingErr != nil {
		conn.Close()
		return nil, ioErrorf("cannot open database '%s': %v", path, pingErr)
	}
	id := rt.dbs.Create(conn)
	return Int{id}, nil
}

func dbArgs(args []Value) []any {
	params := make([]any, len(args))
	for i, a := range args {
		params[i] = toNative(a)
	}
	return params
}

func dbExec(rt *Runtime, args []Value) (Value, error) {
	if len(args) < 2 {
		return nil, arityErrorf("db.exec requires at least 2 arguments, got %d", len(args))
	}
	id, err := argHandle("db.exec", args, 0)
	if err != nil {
		return nil, err
	}
	query, err := argString("db.exec", args, 1)
	if err != nil {
		return nil, err
	}
	conn, err := rt.dbs.Get(id)
	if err != nil {
		return nil, err
	}
	res, execErr := conn.Exec(query, dbArgs(args[2:])...)
	if execErr != nil {
		return nil, ioErrorf("db.exec failed: %v", execErr)
	}
	affected, _ := res.RowsAffected()
	return Int{affected}, nil
}

// dbQuery returns an Array of row Maps keyed by column name.
func dbQuery(rt *Runtime, args []Value) (Value, error) {
	if len(args) < 2 {
		return nil, arityErrorf("db.query requires at least 2 arguments, got %d", len(args))
	}
	id, err := argHandle("db.query", args, 0)
	if err != nil {
		return nil, err
	}
	query, err := argString("db.query", args, 1)
	if err != nil {
		return nil, err
	}
	conn, err := rt.dbs.Get(id)
	if err != nil {
		return nil, err
	}
	rows, queryErr := conn.Query(query, dbArgs(args[2:])...)
	if queryErr != nil {
		return nil, ioErrorf("db.query failed: %v", queryErr)
	}
	defer rows.Close()
	cols, colErr := rows.Columns()
	if colErr != nil {
		return nil, ioErrorf("db.query failed: %v", colErr)
	}
	var out []Value
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if scanErr := rows.Scan(ptrs...); scanErr != nil {
			return nil, ioErrorf("db.query failed: %v", scanErr)
		}
		entries := make(map[string]Value, len(cols))
		for i, col := range cols {
			cell := cells[i]
			if b, ok := cell.([]byte); ok {
				cell = string(b)
			}
			v, convErr := fromNative(cell)
			if convErr != nil {
				return nil, convErr
			}
			entries[col] = v
		}
		out = append(out, Map{entries})
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, ioErrorf("db.query failed: %v", rowsErr)
	}
	return Array{out}, nil
}

// dbClose consumes the handle and closes the connection.
func dbClose(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("db.close", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("db.close", args, 0)
	if err != nil {
		return nil, err
	}
	conn, err := rt.dbs.Remove(id)
	if err != nil {
		return nil, err
	}
	if closeErr := conn.Close(); closeErr != nil {
		return nil, ioErrorf("cannot close database: %v", closeErr)
	}
	return Null{}, nil
}
