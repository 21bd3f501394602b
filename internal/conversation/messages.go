package conversation

const (
	msgEnterAddress = "Please enter your account address, or use /watch [address] to skip this step:"
	msgInvalidAddress = "❌ Invalid address. Please try again with a valid Ethereum address."
	msgNoPositionsFound = "❌ No positions found for this address. Please check the address and try again."
	msgLookupFailed = "An error occurred while looking up positions. Please try again."
	msgInvalidSelection = "❌ Invalid selection. Please try again."
	msgEnterThreshold = "Please enter a health factor threshold (greater than 0, at most 2), or pick one below:"
	msgInvalidThreshold = "❌ Invalid threshold. Please enter a number greater than 0 and at most 2."
	msgEnterCooldown = "Please enter a notification interval in seconds (must be at least 60), or pick one below:"
	msgInvalidCooldown = "❌ Invalid interval. Please enter a whole number of seconds, at least 60."
	msgSelectChat = "Please select where you want to receive notifications:"
	msgInvalidChatSelection = "❌ Invalid chat selection. Please try again."
	msgMissingInformation = "❌ Missing required information. Please start over."
	msgSubscriptionAdded = "✅ Subscription added successfully!"
	msgSubscriptionFailed = "❌ Failed to add subscription. Please try again."
	msgUnknownStep = "❌ Unknown step in watch process."
)
