package pkgerror

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Storage failure codes understood by Translate. They follow SQLSTATE so a
// driver error and a StorageError carrying the same code map identically.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeRecordNotFound      = "P0002"
)

// StorageError is a driver-neutral low-level failure raised by stores that do
// not sit on a SQL engine.
type StorageError struct {
	Code string
	Meta map[string]any
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage error %s: %v", e.Code, e.Err)
	}
	return "storage error " + e.Code
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// pgDetailKey matches the "Key (email)=(...)" part of a pg unique violation detail.
var pgDetailKey = regexp.MustCompile(`Key \(([^)]+)\)=`)

// Translate maps a recognized storage failure onto an Error. The original
// failure is kept as cause. It reports false for anything it does not know.
func Translate(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}

	if errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return translateCode(CodeRecordNotFound, nil, err), true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		meta := map[string]any{}
		if field := pgField(pgErr); field != "" {
			meta["target"] = field
		}
		return translateCode(pgErr.Code, meta, err), knownCode(pgErr.Code)
	}

	var stErr *StorageError
	if errors.As(err, &stErr) {
		return translateCode(stErr.Code, stErr.Meta, err), knownCode(stErr.Code)
	}

	return nil, false
}

// TranslateOrPass returns the translated error, or err unchanged when it is
// not recognized.
func TranslateOrPass(err error) error {
	if perr, ok := Translate(err); ok {
		return perr
	}
	return err
}

func knownCode(code string) bool {
	switch code {
	case CodeUniqueViolation, CodeForeignKeyViolation, CodeRecordNotFound:
		return true
	default:
		return false
	}
}

func translateCode(code string, meta map[string]any, cause error) *Error {
	switch code {
	case CodeUniqueViolation:
		field := targetField(meta)
		return build(KindConflict, field+" already exists", field, cause)
	case CodeRecordNotFound:
		return build(KindNotFound, "Resource not found", "", cause)
	case CodeForeignKeyViolation:
		return build(KindValidation, "Invalid reference", "", cause)
	default:
		return nil
	}
}

func targetField(meta map[string]any) string {
	const fallback = "field"

	switch v := meta["target"].(type) {
	case string:
		if v != "" {
			return v
		}
	case []string:
		if len(v) > 0 && v[0] != "" {
			return strings.Join(v, ", ")
		}
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			if s, ok := p.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}

	return fallback
}

func pgField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := pgDetailKey.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	return ""
}
