// Package services contains the application services of the prepio client:
// session reconciliation against server-confirmed identity, the access
// guard policy, the document cache with readiness derivation, and the
// conversation engine driving one interview session.
package services
