// Package diagnosis provides the HTTP implementation of the domain
// DiagnosisService, DiagnosisHistory and TrialClient interfaces.
//
// The Diagnosis Service classifies leaf photos and keeps the account's
// diagnosis history and trial state. This package offers a concrete HTTP
// client for it.
//
// Supported operations include:
//   - Submitting an image as a multipart upload (single field "image").
//   - Listing all and recent diagnoses.
//   - Starting a trial and reading subscription usage.
//
// Every request accepts a context for cancellation and deadlines and carries
// a bearer token when one is configured. Non-2xx statuses are decoded into a
// *domain.ServiceError carrying the status and the service's JSON failure
// body; callers classify it further.
package diagnosis
