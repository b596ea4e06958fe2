// Package credential manages the API token used to authenticate against the
// Diagnosis Service.
//
// It enforces a passphrase policy and persists the token sealed under that
// passphrase via the domain.CredentialStore.
package credential
