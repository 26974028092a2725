package services

import "strings"

// SystemInstruction frames every prompt sent to the chat model.
const SystemInstruction = "You are a friendly plant care assistant for a houseplant website. " +
	"Use the provided context about plants, common problems and care guides by country to answer. " +
	"If the answer is not in the context, say so and suggest the Plants or Weather pages of this site. " +
	"Keep responses concise."

// NoContext replaces the context section when nothing was retrieved.
const NoContext = "(no context available)"

// AssemblePrompt lays out instruction, context, user turn and assistant cue
// in the plain-text convention the local model continues from.
func AssemblePrompt(systemInstruction, context, userMessage string) string {
	if strings.TrimSpace(context) == "" {
		context = NoContext
	}

	var sb strings.Builder
	sb.WriteString(systemInstruction)
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(context)
	sb.WriteString("\n\nUser: ")
	sb.WriteString(userMessage)
	sb.WriteString("\nAssistant:")
	return sb.String()
}

// JoinContext merges retrieved document texts into one context block.
func JoinContext(texts []string) string {
	return strings.Join(texts, "\n\n")
}
