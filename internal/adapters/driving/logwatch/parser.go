package logwatch

import (
	"encoding/json"
	"strings"
)

// questSuccessMessage is the in-game mail type a quest completion
// notification carries.
const questSuccessMessage = 10

// successTemplateSuffix follows the quest id in the completion mail's
// template identifier.
const successTemplateSuffix = " successMessageText"

type notificationMessage struct {
	Type       int    `json:"type"`
	TemplateID string `json:"templateId"`
}

type notificationPayload struct {
	Type    string              `json:"type"`
	Message notificationMessage `json:"message"`
}

// parseQuestFinished extracts the quest id from one notification log
// line. A completion arrives as a new_message push whose mail template is
// "<quest-id> successMessageText"; every other line reports not-ok.
//
// Log lines carry a pipe-delimited prefix (timestamp, build, channel)
// before the JSON payload, so parsing starts at the first brace.
func parseQuestFinished(line string) (string, bool) {
	start := strings.IndexByte(line, '{')
	if start < 0 {
		return "", false
	}

	var payload notificationPayload
	if err := json.Unmarshal([]byte(line[start:]), &payload); err != nil {
		return "", false
	}
	if payload.Type != "new_message" || payload.Message.Type != questSuccessMessage {
		return "", false
	}

	questID, ok := strings.CutSuffix(payload.Message.TemplateID, successTemplateSuffix)
	if !ok || questID == "" {
		return "", false
	}
	return questID, true
}
