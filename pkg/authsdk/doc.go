/*
Package authsdk is a Go client for the POS identity service.

# SDKClient vs Session

SDKClient covers the endpoints that need no credentials:

	client := authsdk.NewSDKClient("https://pos-auth.example.com")

	health, err := client.GetReadiness(ctx)
	status, err := client.TokenStatus(ctx, sessionToken)

Session carries a Shopify session token obtained from a TokenSource and the
device headers the service uses to classify the caller:

	session := client.NewSession(fetchIDToken, map[string]string{
		"User-Agent":                      "Shopify POS/9.12.0 (iPad; iOS 17.4)",
		"X-Shopify-POS-Extension-Version": "1.4.0",
	})

	who, err := session.Resolve(ctx)
	notes, err := session.ListCreditNotes(ctx, 20)

# Token reuse

A Session reuses its token until 30 seconds before the exp claim. It drops
the token and asks the TokenSource again when:

 1. the service answers 401
 2. Resolve or Refresh report refreshNeeded
 3. Invalidate is called

# Errors

Failed calls return *APIError. Identity failures carry the failure kind
and remediation steps so a POS tile can show them to the merchant:

	_, err := session.Resolve(ctx)
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && len(apiErr.Remediation) > 0 {
		showSteps(apiErr.Remediation)
	}
*/
package authsdk
