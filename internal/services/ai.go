package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/models"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksSuggested     = errors.New("AI did not suggest any tasks")
)

type AIService struct {
	client *openai.Client
}

// SuggestedTask is one task draft extracted from freeform text. Drafts
// flow through the normal create command, so validation and ordering
// apply to them like any other task.
type SuggestedTask struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Deadline    *time.Time          `json:"deadline"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestTasks extracts task drafts from meeting notes or similar text.
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are a task extraction assistant for a kanban board. Extract concrete, actionable tasks from the text below.

Current time: %s

Text:
%s

Return a JSON array of tasks:
[
  {
    "title": "short task title",
    "description": "what needs to be done",
    "priority": "low|medium|high|urgent",
    "deadline": "ISO8601 timestamp, or null when the text gives no deadline"
  }
]

Return only the JSON array, no other text.`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrAINoTasksSuggested
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var suggested []SuggestedTask
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &suggested); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	valid := make([]SuggestedTask, 0, len(suggested))
	for _, t := range suggested {
		if strings.TrimSpace(t.Title) == "" {
			continue
		}
		if !t.Priority.Valid() {
			t.Priority = models.TaskPriorityMedium
		}
		valid = append(valid, t)
		if len(valid) == constants.MaxAIGeneratedTasks {
			break
		}
	}
	if len(valid) == 0 {
		return nil, ErrAINoTasksSuggested
	}

	return valid, nil
}
