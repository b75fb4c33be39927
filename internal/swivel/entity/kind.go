package entity

// Kind is the local classification of a failed verification. Its value is
// also the message key shown to the user.
type Kind string

const (
	KindInvalidCredential            Kind = "swivel.credential.invalid"
	KindMissingAuthenticationContext Kind = "swivel.authentication.missing"
	KindMisconfigured                Kind = "swivel.config.invalid"
	KindRemoteFailure                Kind = "swivel.server.unavailable"

	KindOTCMalformed   Kind = "swivel.auth.otc.malformed"
	KindPINNotSet      Kind = "swivel.auth.pin.notset"
	KindUserLocked     Kind = "swivel.auth.user.locked"
	KindUserNotAllowed Kind = "swivel.auth.user.notallowed"
	KindUserUnknown    Kind = "swivel.auth.user.unknown"
	KindSessionError   Kind = "swivel.server.session.error"

	// KindAuthenticationFailed is the fallback for blank or unknown remote tokens.
	KindAuthenticationFailed Kind = "swivel.server.error"
)

// Category groups kinds by who is at fault.
type Category int

const (
	// CategoryValidation is a caller or configuration problem found before any I/O.
	CategoryValidation Category = iota + 1
	// CategoryTransport means the remote gave no definitive answer.
	CategoryTransport
	// CategoryRejection means the remote explicitly denied the OTC.
	CategoryRejection
)

func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryTransport:
		return "transport"
	case CategoryRejection:
		return "rejection"
	default:
		return "unknown"
	}
}

func (k Kind) String() string {
	return string(k)
}

// Category reports the error category of k. Any kind that is not one of the
// fixed validation or transport kinds is a rejection, including kinds added
// through configuration.
func (k Kind) Category() Category {
	switch k {
	case KindInvalidCredential, KindMissingAuthenticationContext, KindMisconfigured:
		return CategoryValidation
	case KindRemoteFailure:
		return CategoryTransport
	default:
		return CategoryRejection
	}
}
