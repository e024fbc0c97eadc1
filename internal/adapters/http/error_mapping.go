package httpadapter

import (
	"net/http"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

type errorKind struct {
	kind   error
	status int
	code   string
}

// Checked in order; a wrapped error matching several kinds takes the first.
var errorKinds = []errorKind{
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domain.ErrItemNotFound, http.StatusNotFound, "item_not_found"},
	{domain.ErrExtractionUnresolved, http.StatusUnprocessableEntity, "extraction_unresolved"},
	{domain.ErrTemporary, http.StatusServiceUnavailable, "temporarily_unavailable"},
}

func classifyError(err error) (int, string) {
	for _, k := range errorKinds {
		if domain.IsKind(err, k.kind) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "internal"
}
