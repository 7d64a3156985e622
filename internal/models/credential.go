package models

import "time"

// Credential providers
const (
	ProviderGoogle = "google"
	ProviderNotion = "notion"
)

// Credential is the MongoDB document holding a user's encrypted provider
// secret. EncryptedData is AES-256-GCM ciphertext under the user-derived key;
// plaintext provider payloads never touch the relational store.
type Credential struct {
	UserID        string    `bson:"userId" json:"user_id"`
	Provider      string    `bson:"provider" json:"provider"`
	EncryptedData string    `bson:"encryptedData" json:"-"`
	Source        string    `bson:"source,omitempty" json:"source,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updated_at"`
}

// GoogleCredential is the decrypted payload for the google provider
type GoogleCredential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry"`
}

// Expired reports whether the stored access token is past (or within 30s of)
// its expiry and needs a refresh before use.
func (g *GoogleCredential) Expired() bool {
	if g.Expiry.IsZero() {
		return true
	}
	return time.Now().After(g.Expiry.Add(-30 * time.Second))
}

// NotionCredential is the decrypted payload for the notion provider
type NotionCredential struct {
	Token      string `json:"token"`
	DatabaseID string `json:"database_id"`
}

// GoogleCredentialRequest is the body for storing Google tokens
type GoogleCredentialRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// NotionCredentialRequest is the body for storing a Notion connection
type NotionCredentialRequest struct {
	Token      string `json:"token"`
	DatabaseID string `json:"database_id"`
}
