package adapters

import (
	"context"
	"fmt"
	"log"

	"aura/internal/models"
)

// HandleGeneral is the fallback for commands that match no rule. It records
// an activity entry so the dashboard shows the command was at least seen.
func (a *Adapters) HandleGeneral(ctx context.Context, userID, command string) *models.CommandResult {
	_, err := a.Activities.Record(ctx, userID, &models.AgentActivity{
		AgentName:  "Command Processor",
		Task:       fmt.Sprintf("Processing: %s", command),
		Status:     "completed",
		Progress:   100,
		LastAction: "Command interpreted",
	})
	if err != nil {
		log.Printf("❌ [COMMAND] Activity record failed for user %s: %v", userID, err)
		return &models.CommandResult{
			Message: "Command processed (demo mode)",
			Action:  models.ActionGeneralDemo,
		}
	}

	return &models.CommandResult{
		Message: "Command processed. Try \"send email to\", \"create task\", \"schedule meeting\", or \"record note\" for specific actions.",
		Action:  models.ActionGeneralProcessing,
	}
}
