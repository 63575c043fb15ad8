package query

import (
	"fmt"
	"strings"
)

// Expression is an opaque, trusted raw SQL fragment that bypasses escaping
// (§3). It can only be constructed through Raw, which rejects dangerous
// content.
type Expression struct {
	sql string
}

func (e Expression) String() string { return e.sql }

// Raw is the guarded factory (§4.10 "Expression/raw() content passes an
// ASCII + no-control-char + no-semicolon + no-SQL-comment filter").
func Raw(sql string) (Expression, error) {
	for _, r := range sql {
		if r > 127 {
			return Expression{}, newErr(InvalidCriteria, "raw expression contains non-ASCII characters")
		}
		if r < 0x20 && r != '\t' {
			return Expression{}, newErr(InvalidCriteria, "raw expression contains control characters")
		}
	}
	forbidden := []string{";", "--", "/*"}
	for _, f := range forbidden {
		if strings.Contains(sql, f) {
			return Expression{}, newErr(InvalidCriteria, fmt.Sprintf("raw expression contains forbidden sequence %q", f))
		}
	}
	return Expression{sql: sql}, nil
}

// MustRaw panics on an invalid expression; used for compile-time-known
// literals inside the package itself.
func MustRaw(sql string) Expression {
	e, err := Raw(sql)
	if err != nil {
		panic(err)
	}
	return e
}
