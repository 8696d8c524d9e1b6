package chat

import (
	"fmt"
	"strings"

	"github.com/nestieai/nestie/internal/index"
)

const documentPromptTemplate = `You are a helpful assistant with access to company documents.
Use the provided context to answer questions accurately.

Guidelines:
1. Provide clear, accurate answers based on the context
2. Mention source documents when relevant
3. If information isn't found, say "%s"
4. Keep responses concise but complete
5. Be conversational and friendly

For Slack formatting:
- Use *text* for bold (not **text**)
- Use _text_ for italic
- Use ` + "`text`" + ` for inline code
- Use • or - for bullet points (not *)

Context: %s
Question: %s
Answer: `

const generalPromptTemplate = `You are a friendly AI assistant. Respond naturally and conversationally.
Be helpful, engaging, and personable.

For Slack formatting:
- Use *text* for bold (not **text**)
- Use _text_ for italic
- Use • or - for bullet points (not *)

User: %s
Assistant: `

func documentPrompt(passages []index.Passage, question string) string {
	parts := make([]string, 0, len(passages))
	for _, passage := range passages {
		parts = append(parts, passage.Text)
	}
	return fmt.Sprintf(documentPromptTemplate, NoInfoAnswer, strings.Join(parts, "\n\n"), question)
}

func generalPrompt(question string) string {
	return fmt.Sprintf(generalPromptTemplate, question)
}
