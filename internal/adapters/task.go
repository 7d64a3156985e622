package adapters

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"aura/internal/models"
)

var taskPattern = regexp.MustCompile(`(?i)create task[:\s]+(.+)`)

const defaultTaskStatus = "To Do"

// HandleTask creates a task in Notion when the integration is configured,
// otherwise persists a local-only task.
func (a *Adapters) HandleTask(ctx context.Context, userID, command string) *models.CommandResult {
	match := taskPattern.FindStringSubmatch(command)
	if match == nil {
		return &models.CommandResult{
			Message: "Task command processed",
			Action:  models.ActionTaskGeneral,
		}
	}
	title := strings.TrimSpace(match[1])

	if a.NotionConfig != nil {
		if token, databaseID, ok := a.NotionConfig(ctx, userID); ok {
			page, err := a.Tasks.CreatePage(ctx, token, databaseID, title, defaultTaskStatus)
			if err == nil {
				if err := a.TaskMirror.Upsert(ctx, userID, &models.NotionTaskUpsert{
					NotionPageID: page.ID,
					Title:        title,
					Status:       defaultTaskStatus,
					URL:          page.URL,
				}); err != nil {
					log.Printf("⚠️  [COMMAND] Failed to mirror Notion task: %v", err)
				}
				return &models.CommandResult{
					Message: fmt.Sprintf("Task created in Notion: %s", title),
					Action:  models.ActionTaskCreatedNotion,
					TaskID:  page.ID,
				}
			}
			log.Printf("❌ [COMMAND] Notion create failed for user %s: %v", userID, err)
		}
	}

	localTask := &models.NotionTaskUpsert{
		NotionPageID: a.localID(),
		Title:        title,
		Status:       defaultTaskStatus,
	}
	if err := a.TaskMirror.Upsert(ctx, userID, localTask); err != nil {
		log.Printf("⚠️  [COMMAND] Failed to save local task: %v", err)
	}

	return &models.CommandResult{
		Message: fmt.Sprintf("Task created: %s", title),
		Action:  models.ActionTaskCreatedLocal,
		TaskID:  localTask.NotionPageID,
	}
}
