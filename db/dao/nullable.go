package dao

import "database/sql"

type NullInt64 struct {
	sql.NullInt64
}

// AsInt if the column is NULL, returns 0
func (ni *NullInt64) AsInt() int64 {
	if !ni.NullInt64.Valid {
		return 0
	}
	return ni.NullInt64.Int64
}

func NullableInt64(v int64) NullInt64 {
	return NullInt64{sql.NullInt64{Int64: v, Valid: v != 0}}
}
