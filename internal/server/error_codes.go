package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument  = 1000
	ErrCodeInvalidJSON      = 1001
	ErrCodeRequestTooLarge  = 1002
	ErrCodeInvalidQuery     = 1003
	ErrCodeMissingName      = 1004
	ErrCodeMissingKind      = 1005
	ErrCodeMissingData      = 1006
	ErrCodeParentNotFound   = 1007
	ErrCodeParentNotFolder  = 1008
	ErrCodeInvalidSize      = 1009
	ErrCodeFolderNoContent  = 1010
	ErrCodeMissingEmail     = 1011
	ErrCodeMissingPassword  = 1012
	ErrCodeInvalidData      = 1013

	// Domain state (2xxx)
	ErrCodeNotFound   = 2001
	ErrCodeUserExists = 2101

	// Auth & limits (3xxx)
	ErrCodeUnauthorized      = 3001
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 404:
		return ErrCodeNotFound
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
