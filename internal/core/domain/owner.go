package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// OwnerKind identifies which variant an OwnerKey holds.
type OwnerKind int

// Owner variants.
const (
	// OwnerNone is the zero value and never valid for storage.
	OwnerNone OwnerKind = iota

	// OwnerUser is a registered user identified by a numeric id.
	OwnerUser

	// OwnerAnonymous is an unauthenticated session identified by an opaque string.
	OwnerAnonymous
)

const (
	userKeyPrefix = "user:"
	anonKeyPrefix = "anon:"
)

// OwnerKey scopes chunk storage and search to a single principal.
// It is resolved once at the request boundary and passed explicitly
// to every store and search call.
type OwnerKey struct {
	kind      OwnerKind
	userID    int64
	sessionID string
}

// UserOwner returns an owner key for a registered user.
func UserOwner(id int64) OwnerKey {
	return OwnerKey{kind: OwnerUser, userID: id}
}

// AnonymousOwner returns an owner key for an anonymous session.
func AnonymousOwner(sessionID string) OwnerKey {
	return OwnerKey{kind: OwnerAnonymous, sessionID: sessionID}
}

// Kind returns the variant held by the key.
func (o OwnerKey) Kind() OwnerKind {
	return o.kind
}

// IsAnonymous reports whether the key belongs to an anonymous session.
func (o OwnerKey) IsAnonymous() bool {
	return o.kind == OwnerAnonymous
}

// UserID returns the user id and true for user keys.
func (o OwnerKey) UserID() (int64, bool) {
	return o.userID, o.kind == OwnerUser
}

// SessionID returns the session id and true for anonymous keys.
func (o OwnerKey) SessionID() (string, bool) {
	return o.sessionID, o.kind == OwnerAnonymous
}

// Validate returns ErrInvalidOwner if the key holds no usable variant.
func (o OwnerKey) Validate() error {
	switch o.kind {
	case OwnerUser:
		if o.userID <= 0 {
			return fmt.Errorf("%w: user id must be positive", ErrInvalidOwner)
		}
		return nil
	case OwnerAnonymous:
		if strings.TrimSpace(o.sessionID) == "" {
			return fmt.Errorf("%w: empty session id", ErrInvalidOwner)
		}
		return nil
	default:
		return ErrInvalidOwner
	}
}

// StorageKey renders the key as stored alongside chunk records.
func (o OwnerKey) StorageKey() string {
	switch o.kind {
	case OwnerUser:
		return userKeyPrefix + strconv.FormatInt(o.userID, 10)
	case OwnerAnonymous:
		return anonKeyPrefix + o.sessionID
	default:
		return ""
	}
}

// String returns the storage key form.
func (o OwnerKey) String() string {
	return o.StorageKey()
}

// ParseOwnerKey parses a storage key produced by StorageKey.
func ParseOwnerKey(s string) (OwnerKey, error) {
	switch {
	case strings.HasPrefix(s, userKeyPrefix):
		id, err := strconv.ParseInt(strings.TrimPrefix(s, userKeyPrefix), 10, 64)
		if err != nil {
			return OwnerKey{}, fmt.Errorf("%w: %q", ErrInvalidOwner, s)
		}
		key := UserOwner(id)
		return key, key.Validate()
	case strings.HasPrefix(s, anonKeyPrefix):
		key := AnonymousOwner(strings.TrimPrefix(s, anonKeyPrefix))
		return key, key.Validate()
	default:
		return OwnerKey{}, fmt.Errorf("%w: %q", ErrInvalidOwner, s)
	}
}
