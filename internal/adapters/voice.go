package adapters

import (
	"context"
	"fmt"
	"log"
	"strings"

	"aura/internal/models"
)

// HandleVoice stores the command text as a transcript. Duration is a reading
// speed estimate; there is no audio.
func (a *Adapters) HandleVoice(ctx context.Context, userID, command string) *models.CommandResult {
	now := a.now()
	note := &models.VoiceNote{
		Title:           fmt.Sprintf("Voice note - %s", now.Format("3:04:05 PM")),
		Transcription:   command,
		DurationSeconds: len(command) / 5,
		IsUrgent:        strings.Contains(strings.ToLower(command), "urgent"),
	}

	id, err := a.Voice.Create(ctx, userID, note)
	if err != nil {
		log.Printf("❌ [COMMAND] Voice note save failed for user %s: %v", userID, err)
		return &models.CommandResult{
			Message: "Voice note processed (demo mode)",
			Action:  models.ActionVoiceDemo,
		}
	}

	return &models.CommandResult{
		Message: "Voice note recorded",
		Action:  models.ActionVoiceNoteSaved,
		NoteID:  id,
	}
}
