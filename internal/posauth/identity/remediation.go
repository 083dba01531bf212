package identity

// SupportStep is the last remediation step for every failure.
const SupportStep = "If the problem continues, contact support and include the request ID shown on this screen."

// Remediation returns the ordered steps shown to whoever is holding the
// device. The output depends only on its arguments.
func Remediation(kind FailureKind, dev DeviceContext) []string {
	var steps []string

	switch kind {
	case Canceled:
		steps = append(steps, "The request was interrupted before it finished. Try the action again.")
		return append(steps, SupportStep)

	case HeaderSuspiciousToken:
		steps = append(steps, "The extension sent a placeholder instead of a session token. Update the extension to the latest version.")
	case StructuralJWTMalformed:
		steps = append(steps, "The session token was damaged in transit. Close the extension and open it again to get a new one.")
	case ClaimsInvalid:
		steps = append(steps, "The session token was rejected. Check that the device date and time are set automatically.")
	}

	switch {
	case dev.IsPOSExtension && dev.IsIOSDevice:
		steps = append(steps,
			"Close the extension and reopen it from the Shopify POS smart grid.",
			"Update the Shopify POS app from the App Store.",
			"Sign out of Shopify POS and sign back in to refresh the session.",
			"Force quit Shopify POS, reopen it, then try again.",
		)
	case dev.IsPOSExtension:
		steps = append(steps,
			"Close the extension and reopen it from the Shopify POS smart grid.",
			"Update the Shopify POS app to the latest version.",
			"Sign out of Shopify POS and sign back in to refresh the session.",
		)
	default:
		steps = append(steps,
			"Open the app from your Shopify admin so a session can be established.",
			"Reload the page. If you were signed out, sign in to Shopify again.",
		)
	}

	if kind == FallbackExhausted {
		steps = append(steps, "Ask a store administrator to confirm the app is installed for this shop.")
	}

	return append(steps, SupportStep)
}
