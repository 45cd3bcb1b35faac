package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// Owner headers.
const (
	HeaderUserID    = "X-User-ID"
	HeaderSessionID = "X-Session-ID"
)

// OwnerResolver extracts the principal a request acts for.
type OwnerResolver func(r *http.Request) (domain.OwnerKey, error)

// HeaderOwner resolves X-User-ID first, then X-Session-ID.
func HeaderOwner(r *http.Request) (domain.OwnerKey, error) {
	if raw := strings.TrimSpace(r.Header.Get(HeaderUserID)); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.OwnerKey{}, domain.ErrInvalidOwner
		}
		owner := domain.UserOwner(id)
		return owner, owner.Validate()
	}
	if session := strings.TrimSpace(r.Header.Get(HeaderSessionID)); session != "" {
		owner := domain.AnonymousOwner(session)
		return owner, owner.Validate()
	}
	return domain.OwnerKey{}, domain.ErrInvalidOwner
}
