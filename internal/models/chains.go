package models

import "fmt"

// chainNames maps the chain ids the bot supports to display labels.
var chainNames = map[int]string{
	1:     "Mainnet",
	10:    "Optimism",
	8453:  "Base",
	42161: "Arbitrum",
}

// ChainLabel returns a human readable label for a chain id.
// Unknown ids fall back to the bare number.
func ChainLabel(chainID int) string {
	name, ok := chainNames[chainID]
	if !ok {
		return fmt.Sprint(chainID)
	}
	return fmt.Sprintf("%s (%d)", name, chainID)
}

// TruncateAddress shortens an address for display: 0x1234…abcd.
func TruncateAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
