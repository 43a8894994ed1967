// Package auth implements the authentication and access-control core of the
// Holord gateway: credential storage, password hashing, token issuance, and
// the request orchestration behind the /api/auth routes.
//
// Operating modes:
//   - ModeOpenSignup lets anyone self-register; credentials live in the
//     persistent tier when the database is reachable and in the in-memory
//     fallback tier otherwise.
//   - ModeInvitationOnly disables self-signup entirely. Accounts are
//     provisioned by an administrator into the AccountRegistry with a
//     subscription expiry, and login is gated on that expiry.
//
// Storage tiers:
//   - TieredCredentials fronts both tiers behind one CredentialStore. The
//     active tier is chosen once per call from the store's ConnectionState;
//     infrastructure failures on the persistent tier degrade that single
//     operation to the fallback tier instead of surfacing as server errors.
//
// Passwords are bcrypt-hashed in every tier, including the in-memory fallback
// and the registry.
package auth
