package management

const (
	msgNoSubscriptions = "You don't have any subscriptions yet. Use /watch to create a new subscription."
	msgNothingToManage = "You don't have any subscriptions to manage."
	msgListHeader = "📋 *Your Subscriptions*\n\nSelect a subscription to manage:"
	msgNotFound = "❌ Subscription not found."
	msgPaused = "✅ Subscription paused."
	msgRestarted = "✅ Subscription restarted."
	msgUnsubscribed = "✅ Unsubscribed from subscription."
	msgAllPaused = "✅ All subscriptions have been paused."
	msgAllRestarted = "✅ All subscriptions have been restarted."
	msgAllUnsubscribed = "✅ All subscriptions have been unsubscribed from."
	msgSelectSetting = "Select a setting to change:"
	msgEnterThreshold = "Enter the new notification threshold (greater than 0, at most 2):"
	msgEnterCooldown = "Enter the new notification interval in seconds (at least 60):"
	msgEnterLanguage = "Enter the new language code (for example en, es, zh):"
	msgInvalidThreshold = "❌ Invalid threshold. Please enter a number greater than 0 and at most 2."
	msgInvalidCooldown = "❌ Invalid interval. Please enter a whole number of seconds, at least 60."
	msgInvalidLanguage = "❌ Invalid language. Please enter a short language code."
	msgSettingUpdated = "✅ Setting updated."
	msgOperationFailed = "An error occurred. Please try again."
)
