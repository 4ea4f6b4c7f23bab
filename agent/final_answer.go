package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/tinker"
)

// FinalAnswerToolName is the name of the tool the model calls to finish.
const FinalAnswerToolName = "final_answer"

// FinalAnswerTool returns the tool definition for final_answer.
func FinalAnswerTool() tinker.Tool {
	return tinker.Tool{
		Name:        FinalAnswerToolName,
		Description: "Provides a final answer to the given problem.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"answer": {
					"description": "The final answer to the problem"
				}
			},
			"required": ["answer"]
		}`),
	}
}

// finalAnswerResult extracts the answer argument. Strings are used as is,
// any other JSON value as its compact encoding.
func finalAnswerResult(args json.RawMessage) *tinker.ToolResult {
	var a struct {
		Answer json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return tinker.ErrorResult(fmt.Sprintf("invalid arguments: %s", err))
	}
	if len(a.Answer) == 0 || string(a.Answer) == "null" {
		return tinker.ErrorResult("answer is required")
	}
	var s string
	if err := json.Unmarshal(a.Answer, &s); err == nil {
		return tinker.TextResult(s)
	}
	return tinker.TextResult(strings.TrimSpace(string(a.Answer)))
}

// FinalAnswer returns the answer of a finished run: the argument of a
// successful final_answer call in the last turn, otherwise the most recent
// assistant text.
func FinalAnswer(session *tinker.Session) string {
	for i := len(session.Messages) - 1; i >= 0; i-- {
		trm, ok := session.Messages[i].(tinker.ToolResultMessage)
		if !ok {
			break
		}
		if trm.ToolName == FinalAnswerToolName && !trm.IsError {
			return trm.Text()
		}
	}
	return session.LastAssistantText()
}
