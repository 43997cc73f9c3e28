package sqlutil

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Conversions between Go optionals and sql.Null* scan targets.

func ToSqlString(val *string) sql.NullString {
	if val == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *val, Valid: true}
}

func FromSqlString(val sql.NullString) *string {
	if !val.Valid {
		return nil
	}
	return &val.String
}

func ToSqlInt32(val *int) sql.NullInt32 {
	if val == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*val), Valid: true}
}

func FromSqlInt32(val sql.NullInt32) *int {
	if !val.Valid {
		return nil
	}
	i := int(val.Int32)
	return &i
}

func ToSqlTime(val *time.Time) sql.NullTime {
	if val == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *val, Valid: true}
}

func FromSqlTime(val sql.NullTime) *time.Time {
	if !val.Valid {
		return nil
	}
	return &val.Time
}

func ToNullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func FromNullUUID(val uuid.NullUUID) *uuid.UUID {
	if !val.Valid {
		return nil
	}
	return &val.UUID
}

func ToSqlBool(val *bool) sql.NullBool {
	if val == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *val, Valid: true}
}

func FromSqlBool(val sql.NullBool) *bool {
	if !val.Valid {
		return nil
	}
	return &val.Bool
}
