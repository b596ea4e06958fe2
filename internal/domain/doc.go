// Package domain holds the plantdoc data model (images, diagnoses, failures
// and their classification) and the collaborator contracts the upload flow
// and services are built against. Concrete types live in types, interfaces in
// interfaces; this package re-exports both under one import.
package domain
