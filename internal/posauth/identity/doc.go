// Package identity recovers a shop identity from an inbound POS request.
//
// A Resolver runs the bearer header through structural checks, the token
// lifecycle cache and the session-token claims validator. When none of those
// yields a shop, POS extension callers get an ordered fallback chain
// (shop header, query params, alternate headers, Referer on iOS, caller
// default) while everyone else is handed to an AdminSessionAuth. Every path
// ends in a Result tagged with the Strategy that produced it, and failures
// carry a FailureKind plus remediation steps for whoever is holding the
// device.
package identity
