package services

import (
	"context"

	"aura/internal/models"
	"aura/internal/notion"
)

// NotionCreator adapts the per-token Notion client to the task adapter's
// creator interface.
type NotionCreator struct{}

// CreatePage creates a task page using a fresh client for the given token
func (NotionCreator) CreatePage(ctx context.Context, token, databaseID, title, status string) (*notion.Page, error) {
	return newNotionClient(token).CreatePage(ctx, databaseID, title, status)
}

// newNotionClient builds a per-token client with the metrics hook attached
func newNotionClient(token string) *notion.Client {
	client := notion.NewClient(token)
	client.Observe = ProviderObserver("notion")
	return client
}

// NotionConfigResolver builds the per-user Notion connection lookup shared by
// the command adapters and the sync service. A stored user credential wins;
// the app-wide token and database from the environment are the fallback.
func NotionConfigResolver(credentials *CredentialService, fallbackToken, fallbackDatabaseID string) func(ctx context.Context, userID string) (string, string, bool) {
	return func(ctx context.Context, userID string) (string, string, bool) {
		if credentials != nil {
			var cred models.NotionCredential
			if err := credentials.Get(ctx, userID, models.ProviderNotion, &cred); err == nil {
				if cred.Token != "" && cred.DatabaseID != "" {
					return cred.Token, cred.DatabaseID, true
				}
			}
		}
		if fallbackToken != "" && fallbackDatabaseID != "" {
			return fallbackToken, fallbackDatabaseID, true
		}
		return "", "", false
	}
}
