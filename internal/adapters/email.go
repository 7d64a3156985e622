package adapters

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"aura/internal/models"
)

var emailPattern = regexp.MustCompile(`(?i)send email to (\S+)(?:\s+(?:about|with subject))?\s*(.*)`)

const defaultEmailSubject = "Email from Aura"

// HandleEmail parses a send-email command, sends through the provider when a
// token is available, and always leaves a mirror record behind.
func (a *Adapters) HandleEmail(ctx context.Context, userID, command string) *models.CommandResult {
	match := emailPattern.FindStringSubmatch(command)
	if match == nil {
		return &models.CommandResult{
			Message: "Email command processed",
			Action:  models.ActionEmailGeneral,
		}
	}

	recipient := match[1]
	subject := strings.TrimSpace(match[2])
	if subject == "" {
		subject = defaultEmailSubject
	}

	token := a.accessToken(ctx, userID)
	if token == "" {
		a.saveDraft(ctx, userID, recipient, subject, command)
		return &models.CommandResult{
			Message:   fmt.Sprintf("Email draft saved for %s. Connect your Google account to send it.", recipient),
			Action:    models.ActionEmailDraftAuthNeeded,
			Recipient: recipient,
			Subject:   subject,
		}
	}

	sent, err := a.Email.SendEmail(ctx, token, recipient, subject, command)
	if err != nil {
		log.Printf("❌ [COMMAND] Email send failed for user %s: %v", userID, err)
		a.saveDraft(ctx, userID, recipient, subject, command)
		return &models.CommandResult{
			Message:   fmt.Sprintf("Could not send email to %s, saved a draft instead", recipient),
			Action:    models.ActionEmailDraftError,
			Error:     err.Error(),
			Recipient: recipient,
			Subject:   subject,
		}
	}

	now := a.now()
	if err := a.Emails.Upsert(ctx, userID, &models.EmailUpsert{
		MessageID:       sent.ID,
		ThreadID:        sent.ThreadID,
		Subject:         subject,
		RecipientEmails: []string{recipient},
		BodyPreview:     command,
		IsSent:          true,
		ReceivedAt:      &now,
		Labels:          []string{"SENT"},
	}); err != nil {
		log.Printf("⚠️  [COMMAND] Failed to mirror sent email: %v", err)
	}

	return &models.CommandResult{
		Message:   fmt.Sprintf("Email sent to %s", recipient),
		Action:    models.ActionEmailSent,
		Recipient: recipient,
		Subject:   subject,
	}
}

func (a *Adapters) saveDraft(ctx context.Context, userID, recipient, subject, body string) {
	if err := a.Emails.Upsert(ctx, userID, &models.EmailUpsert{
		MessageID:       a.localID(),
		Subject:         subject,
		RecipientEmails: []string{recipient},
		BodyPreview:     body,
		IsSent:          false,
	}); err != nil {
		log.Printf("⚠️  [COMMAND] Failed to save email draft: %v", err)
	}
}
