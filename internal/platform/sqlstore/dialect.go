package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between backends.
type Dialect struct {
	// Name is used in log attributes.
	Name string

	// DollarPlaceholders rewrites ? placeholders to $1, $2, ...
	DollarPlaceholders bool

	// LockClause is appended to row reads that precede an update, e.g. " FOR UPDATE".
	LockClause string

	// MapError translates driver errors into store errors. Nil leaves errors unchanged.
	MapError func(error) error
}

func (d Dialect) rebind(query string) string {
	if !d.DollarPlaceholders {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) mapError(err error) error {
	if err == nil || d.MapError == nil {
		return err
	}
	return d.MapError(err)
}
