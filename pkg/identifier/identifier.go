package identifier

import (
	"strconv"
	"strings"

	"github.com/thebestory/backend/pkg/apperror"
)

// Public-facing ids are base36 strings ("3f2k"), internal ids are the
// raw snowflake values. Parsing is strict: lowercase alphanumerics only.

func To36(id uint64) string {
	return strconv.FormatUint(id, 36)
}

func From36(s string) (uint64, error) {
	if s == "" || s != strings.ToLower(s) {
		return 0, apperror.ErrInvalidInput
	}
	id, err := strconv.ParseUint(s, 36, 64)
	if err != nil {
		return 0, apperror.ErrInvalidInput
	}
	return id, nil
}
