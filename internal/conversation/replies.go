// internal/conversation/replies.go
package conversation

// Тексты ответов бота. Язык общения с трейдером — английский.
const (
	replyInvalidLink = "⚠️ Oops! Please share a valid TradingView link.\n" +
		"Example: /logtrade https://tradingview.com/chart/xyz123"

	replyAskOutcome = "Alright, let's break this down 🧠\n" +
		"What was the outcome? You can say:\n" +
		"  '+500' or 'I profited 500'\n" +
		"  '-200' or 'Lost two hundred'"

	replyRetryOutcome = "🤔 I didn't quite get that. Try:\n" +
		"  '+500', '-200'\n" +
		"  'I made three hundred'\n" +
		"  'Lost 2 hundred'"

	replyAskSentiment = "How did this trade make you feel? 😊/😟/😐\n" +
		"Tell me anything - 'I was nervous', 'Felt like a pro', etc."

	replyHelp = "COMMANDS:\n" +
		"/logtrade [link] - Log new trade\n" +
		"/stats - View performance\n" +
		"Talk to me like a human - I'll understand!"

	replyNudge = "Let's log some trades! Use /logtrade [TradingView link] " +
		"or ask for help if you're stuck 🤝"

	replySaveFailed = "😵 I couldn't save your trade - it was NOT recorded.\n" +
		"Please start over with /logtrade when you're ready."

	replyInternalError = "😵 Something glitched on my side. Please try again."
)
