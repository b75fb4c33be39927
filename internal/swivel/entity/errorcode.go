package entity

import (
	"maps"
	"strings"

	"github.com/samber/lo"
)

var defaultErrorCodes = map[string]Kind{
	"AGENT_ERROR_NO_OTC":  KindOTCMalformed,
	"AGENT_ERROR_BAD_OTC": KindOTCMalformed,

	"AGENT_ERROR_NO_PIN": KindPINNotSet,

	"AGENT_ERROR_USER_LOCKED":         KindUserLocked,
	"AGENT_ERROR_NO_SECURITY_STRINGS": KindUserLocked,
	"AGENT_ERROR_AGENT_ACCESS":        KindUserNotAllowed,
	"AGENT_ERROR_USER_NOT_IN_GROUP":   KindUserNotAllowed,
	"AGENT_ERROR_NO_USER_FOUND":       KindUserUnknown,
	"AGENT_ERROR_NO_AUTH":             KindUserUnknown,
	"AGENT_ERROR_USERNAME":            KindUserUnknown,

	"AGENT_ERROR_SESSION": KindSessionError,
	"AGENT_ERROR_GENERAL": KindAuthenticationFailed,
}

// ErrorCodeTable maps remote agent error tokens to local kinds. The zero
// value is usable and maps everything to KindAuthenticationFailed. A table is
// never modified after construction and is safe for concurrent use.
type ErrorCodeTable struct {
	codes map[string]Kind
}

// DefaultErrorCodeTable returns the table of known Swivel agent errors.
func DefaultErrorCodeTable() ErrorCodeTable {
	return ErrorCodeTable{codes: maps.Clone(defaultErrorCodes)}
}

// NewErrorCodeTable returns the default table extended with extra entries.
// Entries with a blank token or kind are skipped, as are entries naming a
// validation or transport kind, so an explicit rejection always stays a
// rejection. Remaining entries replace defaults.
func NewErrorCodeTable(extra map[string]string) ErrorCodeTable {
	codes := maps.Clone(defaultErrorCodes)
	for token, kind := range extra {
		token, kind = strings.TrimSpace(token), strings.TrimSpace(kind)
		if token == "" || kind == "" || Kind(kind).Category() != CategoryRejection {
			continue
		}
		codes[token] = Kind(kind)
	}
	return ErrorCodeTable{codes: codes}
}

// Lookup returns the kind for token, or KindAuthenticationFailed when the
// token is blank or unknown. It never returns an empty kind.
func (t ErrorCodeTable) Lookup(token string) Kind {
	return lo.ValueOr(t.codes, strings.TrimSpace(token), KindAuthenticationFailed)
}

// Len returns the number of entries.
func (t ErrorCodeTable) Len() int {
	return len(t.codes)
}
