package advisor

import (
	"fmt"
	"strings"
)

// Prompt is the message set sent to an LLMClient.
type Prompt struct {
	System  string
	User    string
	History []Message
	// Reference is the canned answer the model must stay grounded in.
	Reference string
	// Model overrides the client's configured model when set. It is empty
	// unless the operator's request named a model.
	Model string
}

// Message is one prior turn.
type Message struct {
	Role    string
	Content string
}

// BuildNarrationPrompt asks the model to restate the canned answer for
// intent in reply to the operator's prompt, without inventing figures.
func BuildNarrationPrompt(q Query, intent Intent, reference string) Prompt {
	var sb strings.Builder
	sb.WriteString("당신은 해상 물류 관제탑의 AI 어시스턴트입니다.\n")
	sb.WriteString("아래 참고 답변의 수치와 권고사항만 사용해 질문에 답하세요.\n")
	sb.WriteString("- 참고 답변에 없는 수치나 일정은 만들지 마세요.\n")
	sb.WriteString("- Markdown 형식을 유지하세요.\n")
	sb.WriteString(fmt.Sprintf("- 질문 분류: %s\n", intent))
	if len(q.Files) > 0 {
		sb.WriteString("- 첨부 파일:\n")
		for _, f := range q.Files {
			sb.WriteString(fmt.Sprintf("  - %s (%d bytes, %s)\n", f.Name, f.Size, f.ContentType))
		}
	}
	sb.WriteString("\n참고 답변:\n")
	sb.WriteString(reference)

	var msgs []Message
	for _, t := range q.History {
		content := t.Content()
		if content == "" {
			continue
		}
		msgs = append(msgs, Message{Role: t.Role(), Content: content})
	}

	return Prompt{
		System:    sb.String(),
		User:      q.Prompt,
		History:   msgs,
		Reference: reference,
		Model:     q.Model,
	}
}
