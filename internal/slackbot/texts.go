package slackbot

import (
	"fmt"
	"strings"
)

func helloText(userID string) string {
	return fmt.Sprintf("Hello <@%s> :wave:! I'm Nestie - your assistant and companion at work. Ask me anything about our company!", userID)
}

const helpText = `🤖 *Document Assistant Help*

I can answer questions about the company internal documents and channels, and talk with you as a friend too. Here are some examples:

• "Tell me about our company policies"
• "What are the core values in our company culture?"
• "Summarize #channel-name today"

📝 *Available Commands:*
• ` + "`hello`" + ` - Say hi
• ` + "`help`" + ` - Show this help
• ` + "`status`" + ` - Check system status
• ` + "`summarize #channel-name`" + ` - Get a summary of recent content
• ` + "`what's happening in #channel-name today?`" + ` - Recent activity overview
• Just ask any question naturally!

⌛ *Time Filters for asking about channels:*
• today, yesterday, last week, last month

💡 *Tips:*
• Be specific in your questions
• I'll show you which documents I found the information in
• If I can't find something, try rephrasing your question`

func (b *Bot) statusText() string {
	names := b.chatSvc.DocumentNames()
	return fmt.Sprintf(`📊 *System Status*

✅ Status: Ready
📚 Documents loaded: %d
📄 Available documents: %s

Ready to answer your questions!`, len(names), strings.Join(names, ", "))
}
