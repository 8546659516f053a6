// Package chat turns a persona, retrieved context and recent history
// into the message list sent to the completion backend.
package chat

import (
	"fmt"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/domain/chatmodel"
	"github.com/rizkyfm/docchat/internal/rag/llm"
)

// SystemPrompt merges the persona instruction with the retrieved context.
// When nothing was retrieved the model is told to answer from general
// knowledge instead of inventing citations.
func SystemPrompt(persona string, contextText string) string {
	if persona == "" {
		persona = config.DefaultPersona
	}

	if contextText == "" {
		return persona + "\n\nADDITIONAL INSTRUCTION (IMPORTANT):\n" +
			"Answer from your general knowledge; no relevant reference document was found."
	}

	return fmt.Sprintf(`%s

ADDITIONAL INSTRUCTION (IMPORTANT):
The user has uploaded reference documents. Use the following information to answer the user's question accurately:

%s

If the answer is contained in the references above, answer from them. If not, fall back to your general knowledge.`, persona, contextText)
}

// BuildMessages assembles the full prompt: system instruction, the most
// recent turns oldest-first, then the current question.
func BuildMessages(system string, history []chatmodel.ChatTurn, question string) []llm.Message {
	messages := make([]llm.Message, 0, 2*len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})

	for _, turn := range history {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: turn.Question})
		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: turn.Answer})
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})
	return messages
}

// AutoTitle derives a conversation title from its first question.
func AutoTitle(question string) string {
	runes := []rune(question)
	if len(runes) <= config.ConversationTitleLimit {
		return question
	}
	return string(runes[:config.ConversationTitleLimit]) + "..."
}
