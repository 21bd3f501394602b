package notifier

import (
	"fmt"

	"github.com/silowatch/silowatch/internal/models"
)

// FormatAlert builds the human readable alert for one eligible subscription.
func FormatAlert(update *models.HealthFactorUpdate, sub *models.Subscription) models.OutboundMessage {
	text := fmt.Sprintf(`🚨 *Low Health Factor Alert* 🚨

Chain: %s
Silo: `+"`%s`"+`
Account: `+"`%s`"+`

Your health factor dropped to *%g* at block %d.

Please take action to avoid liquidation!`,
		models.ChainLabel(update.ChainID),
		models.TruncateAddress(update.Silo),
		models.TruncateAddress(sub.Account),
		update.HealthFactor,
		update.BlockNumber,
	)

	return models.OutboundMessage{
		Text:   text,
		Format: models.FormatMarkdown,
		Actions: []models.MessageAction{
			{Label: "View Position", URL: positionURL(update)},
			{Label: "Add Collateral", URL: addCollateralURL(update)},
			{Label: "Repay Debt", URL: repayDebtURL(update)},
			{Label: "Manage Subscription", CallbackToken: fmt.Sprintf("details:%d", sub.ID)},
		},
	}
}

func positionURL(u *models.HealthFactorUpdate) string {
	return fmt.Sprintf("https://app.silo.finance/silo/%s?chainId=%d", u.Silo, u.ChainID)
}

func addCollateralURL(u *models.HealthFactorUpdate) string {
	return fmt.Sprintf("https://app.silo.finance/silo/%s?chainId=%d&screen=deposit", u.Silo, u.ChainID)
}

func repayDebtURL(u *models.HealthFactorUpdate) string {
	return fmt.Sprintf("https://app.silo.finance/silo/%s?chainId=%d&screen=repay", u.Silo, u.ChainID)
}
