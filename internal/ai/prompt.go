package ai

import (
	"fmt"
	"strings"
)

// AnswerSystemPrompt instructs the model to answer in markdown.
const AnswerSystemPrompt = "You are a helpful assistant that provides informative responses in markdown format. " +
	"Use appropriate markdown syntax for headings, lists, code blocks, and emphasis where necessary. " +
	"For code blocks, use short-form smaller case language identifiers (e.g., 'js' for JavaScript, " +
	"'py' for Python, 'ts' for TypeScript, 'html' for HTML, 'css' for CSS, etc.)."

// AnswerPrompt builds the prompt for drafting an answer to a question. The
// user's own draft, when present, is to be kept if correct and fixed if not.
func AnswerPrompt(question, content, userAnswer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a markdown-formatted response to the following question: %q.\n\n", question)
	fmt.Fprintf(&b, "Consider the provided context:\n**Context:** %s\n", content)

	if strings.TrimSpace(userAnswer) != "" {
		fmt.Fprintf(&b, "\nAlso, prioritize and incorporate the user's answer when formulating your response:\n**User's Answer:** %s\n\n", userAnswer)
		b.WriteString("Prioritize the user's answer only if it's correct. If it's incomplete or incorrect, " +
			"improve or correct it while keeping the response concise and to the point.\n")
	}

	b.WriteString("Provide the final answer in markdown format.")
	return b.String()
}

// CleanAnswer strips HTML line breaks the model sometimes emits.
func CleanAnswer(text string) string {
	replacer := strings.NewReplacer("<br>", " ", "<br/>", " ", "<br />", " ")
	return strings.TrimSpace(replacer.Replace(text))
}
