package sqlstore

import (
	"fmt"
	"time"
)

// dbTime acepta lo que devuelva cada driver: time.Time (pgx), texto (sqlite)
// o epoch en segundos.
type dbTime struct{ t time.Time }

func (d *dbTime) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		d.t = x.UTC()
	case string:
		return d.parse(x)
	case []byte:
		return d.parse(string(x))
	case int64:
		d.t = time.Unix(x, 0).UTC()
	case nil:
		d.t = time.Time{}
	default:
		return fmt.Errorf("sqlstore: cannot scan %T into time", v)
	}
	return nil
}

func (d *dbTime) parse(s string) error {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("sqlstore: invalid time %q", s)
}

// rawJSON copia el valor: algunos drivers reutilizan el buffer de []byte.
type rawJSON []byte

func (r *rawJSON) Scan(v any) error {
	switch x := v.(type) {
	case []byte:
		*r = append((*r)[:0], x...)
	case string:
		*r = []byte(x)
	case nil:
		*r = nil
	default:
		return fmt.Errorf("sqlstore: cannot scan %T into json", v)
	}
	return nil
}
