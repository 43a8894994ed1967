package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced alongside rich errors so clients and logs can key off
// stable identifiers instead of messages.
const (
	TextCodeMissingFields     = "MISSING_FIELDS"
	TextCodeIdentityExists    = "IDENTITY_EXISTS"
	TextCodeIdentityNotFound  = "IDENTITY_NOT_FOUND"
	TextCodeInvalidPassword   = "INVALID_PASSWORD"
	TextCodeAccountExpired    = "ACCOUNT_EXPIRED"
	TextCodeSignupDisabled    = "SIGNUP_DISABLED"
	TextCodeBadAdminKey       = "BAD_ADMIN_KEY"
	TextCodeSigningKeyMissing = "SIGNING_KEY_MISSING"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
	TextCodeStoreUnavailable  = "STORE_UNAVAILABLE"
)

// ErrMissingFields rejects requests lacking email or password before any
// store is consulted.
var ErrMissingFields = goerrors.New("Missing email or password", goerrors.CategoryValidation).
	WithTextCode(TextCodeMissingFields).
	WithCode(goerrors.CodeBadRequest)

// ErrIdentityExists is the duplicate-identity conflict on signup/provision.
// Clients expect a 400 here, so it carries CodeBadRequest over CodeConflict.
var ErrIdentityExists = goerrors.New("User already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeIdentityExists).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidCredentials is the enumeration-safe login failure in open-signup
// mode: the same message covers unknown identities and wrong passwords.
var ErrInvalidCredentials = goerrors.New("Invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrIdentityNotFound is the registry-mode miss; distinct from a password
// mismatch because registry deployments share the account list out of band.
var ErrIdentityNotFound = goerrors.New("Account not found. Contact admin for access.", goerrors.CategoryAuth).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(goerrors.CodeUnauthorized)

// ErrPasswordMismatch is the registry-mode wrong-password failure.
var ErrPasswordMismatch = goerrors.New("Incorrect password. Please try again.", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidPassword).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountExpired gates login once the subscription window has passed.
var ErrAccountExpired = goerrors.New("Your subscription has expired. Contact admin to renew.", goerrors.CategoryAuthz).
	WithTextCode(TextCodeAccountExpired).
	WithCode(goerrors.CodeForbidden)

// ErrSignupDisabled is the fixed rejection for signup in invitation-only mode.
var ErrSignupDisabled = goerrors.New("Signups are by invitation only. Contact admin for an account.", goerrors.CategoryAuthz).
	WithTextCode(TextCodeSignupDisabled).
	WithCode(goerrors.CodeForbidden)

// ErrBadAdminKey rejects provisioning and listing with a wrong shared secret.
var ErrBadAdminKey = goerrors.New("Invalid admin key", goerrors.CategoryAuth).
	WithTextCode(TextCodeBadAdminKey).
	WithCode(goerrors.CodeUnauthorized)

// ErrSigningKeyMissing means the process has no token signing secret. Both
// modes fail hard on this; there is no development-secret fallback.
var ErrSigningKeyMissing = goerrors.New("Server configuration error", goerrors.CategoryInternal).
	WithTextCode(TextCodeSigningKeyMissing).
	WithCode(goerrors.CodeInternal)

// ErrTokenExpired is returned when validating a token past its exp claim.
var ErrTokenExpired = goerrors.New("Token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures and undecodable tokens.
var ErrTokenMalformed = goerrors.New("Token is invalid or malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrStoreUnavailable surfaces only when the fallback tier itself fails;
// persistent-tier failures degrade to fallback instead of erroring.
var ErrStoreUnavailable = goerrors.New("Server error during authentication", goerrors.CategoryInternal).
	WithTextCode(TextCodeStoreUnavailable).
	WithCode(goerrors.CodeInternal)

// ErrNoEmptyString rejects hashing an empty password.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the low-level bcrypt mismatch; callers map
// it to the mode-appropriate login failure.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidPassword).
	WithCode(goerrors.CodeUnauthorized)
