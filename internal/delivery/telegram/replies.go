// internal/delivery/telegram/replies.go
package telegram

const (
	replyGreeting = "Hey there, trader! 📊 Let's track your progress.\n\n" +
		"Use /logtrade [TradingView link] to start logging.\n" +
		"Need help? Just ask: 'How do I log a trade?'"

	replyUnknownCommand = "🤷 I don't know that command. Try /logtrade or /stats."

	replyStatsEmpty = "📊 No trades logged yet! Use /logtrade to get started."

	replyStatsUnavailable = "📊 Couldn't fetch your stats right now. Please try again later."
)
