package domain

import "time"

// Shop is a store that has installed the app. The offline access token is
// kept sealed; only the service layer holds the key to open it.
type Shop struct {
	Domain               string    // e.g. "example.myshopify.com"
	AccessTokenEncrypted []byte    // AES-256-GCM sealed offline access token
	Scopes               []string  // Granted OAuth scopes
	InstalledAt          time.Time // First install
	UpdatedAt            time.Time // Last token or scope change
}

