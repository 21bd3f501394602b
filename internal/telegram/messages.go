package telegram

const msgWelcome = `*Welcome to the Silo Watch Bot!* 🤖

Here's how you can interact with me:

/start - Welcome message and initial setup
/watch [address] - Add a new silo position to track (address is optional)
/manage - Manage your subscriptions
/help - Get detailed information about commands
/example - Get an example notification message

Use these commands to stay updated on your Silo Finance positions and manage your alert preferences.`

const msgUnknownCommand = "❌ Unknown command. Please type /help for a list of available commands."
