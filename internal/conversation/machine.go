package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/pkg/logger"
	"github.com/silowatch/silowatch/pkg/validation"
)

// Machine drives the /watch wizard. Every transition takes the current
// per-chat state and one input and returns the next state plus the reply to
// show. The machine never holds state itself; the caller owns it and must
// serialize inputs per chat.
type Machine struct {
	store  models.SubscriptionStore
	lookup models.PositionLookup
	log    *logger.Logger
}

func NewMachine(store models.SubscriptionStore, lookup models.PositionLookup, log *logger.Logger) *Machine {
	return &Machine{store: store, lookup: lookup, log: log}
}

// Start begins the wizard for a chat. A non-empty address argument skips
// the address prompt.
func (m *Machine) Start(ctx context.Context, address string) (State, models.Reply) {
	if address != "" {
		return m.handleAddress(ctx, State{Step: StepAddressInput}, address)
	}
	return State{Step: StepAddressInput}, models.Reply{Text: msgEnterAddress}
}

// Advance feeds one input into the wizard and returns the next state and
// reply. Unrecognized (state, input) pairs leave the state unchanged.
func (m *Machine) Advance(ctx context.Context, st State, input string) (State, models.Reply) {
	switch st.Step {
	case StepAddressInput:
		return m.handleAddress(ctx, st, input)
	case StepPositionSelection:
		return m.handlePositionSelection(st, input)
	case StepThresholdSelection:
		return m.handleThreshold(st, input)
	case StepCooldownInput:
		return m.handleCooldown(st, input)
	case StepChatSelection:
		return m.handleChatSelection(st, input)
	case StepConfirmation:
		return m.handleConfirmation(st)
	default:
		return st, models.Reply{Text: msgUnknownStep}
	}
}

// Confirm finalizes the wizard and creates the subscription. chatID is the
// chat running the wizard, userID the creator.
func (m *Machine) Confirm(chatID, userID int64, st State) (State, models.Reply) {
	if st.Step != StepConfirmation {
		return st, models.Reply{Text: msgUnknownStep}
	}
	if st.Selected == nil || st.Address == "" || st.TargetChatID == 0 ||
		st.Threshold == 0 || st.CooldownSeconds == 0 {
		// The wizard lost a required field; force a restart.
		return Idle(), models.Reply{Text: msgMissingInformation}
	}

	draft := &models.SubscriptionDraft{
		ChatID:  st.TargetChatID,
		Creator: userID,
		Position: models.PositionKey{
			ChainID: st.Selected.ChainID,
			Silo:    st.Selected.Silo,
			Account: st.Address,
		},
		NotificationThreshold: st.Threshold,
		CooldownSeconds:       st.CooldownSeconds,
		Language:              models.DefaultLanguage,
	}

	sub, err := m.store.Create(draft)
	if err != nil {
		m.log.Error("Failed to create subscription ", "chat ", chatID, " error ", err)
		return st, models.Reply{Text: msgSubscriptionFailed}
	}

	m.log.Info("Subscription created ", "id ", sub.ID, " creator ", userID, " position ", sub.Key().String())
	return Idle(), models.Reply{
		Text:     msgSubscriptionAdded,
		Markdown: true,
		Buttons: [][]models.Button{
			{{Label: "Manage Subscriptions", Callback: "manage"}},
			{{Label: "Add Another Subscription", Callback: "watch"}},
		},
	}
}

func (m *Machine) handleAddress(ctx context.Context, st State, input string) (State, models.Reply) {
	address, err := validation.ValidateAndNormalizeAddress(strings.TrimSpace(input))
	if err != nil {
		return st, models.Reply{Text: msgInvalidAddress}
	}

	positions, err := m.lookup.ListPositions(ctx, address)
	if err != nil {
		m.log.Error("Position lookup failed ", "address ", address, " error ", err)
		return st, models.Reply{Text: msgLookupFailed}
	}
	if len(positions) == 0 {
		return st, models.Reply{Text: msgNoPositionsFound}
	}

	next := State{
		Step:      StepPositionSelection,
		Address:   address,
		Positions: positions,
	}
	return next, positionListReply(address, positions)
}

func (m *Machine) handlePositionSelection(st State, input string) (State, models.Reply) {
	index, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || index < 0 || index >= len(st.Positions) {
		return st, models.Reply{Text: msgInvalidSelection}
	}

	selected := st.Positions[index]
	st.Selected = &selected
	st.Step = StepThresholdSelection

	return st, models.Reply{
		Text: msgEnterThreshold,
		Buttons: [][]models.Button{{
			{Label: "1.0", Callback: "threshold:1.0"},
			{Label: "1.1", Callback: "threshold:1.1"},
			{Label: "1.5", Callback: "threshold:1.5"},
			{Label: "2.0", Callback: "threshold:2.0"},
		}},
	}
}

func (m *Machine) handleThreshold(st State, input string) (State, models.Reply) {
	threshold, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || models.ValidateThreshold(threshold) != nil {
		return st, models.Reply{Text: msgInvalidThreshold}
	}

	st.Threshold = threshold
	st.Step = StepCooldownInput

	return st, models.Reply{
		Text: msgEnterCooldown,
		Buttons: [][]models.Button{{
			{Label: "1 hour", Callback: "cooldown:3600"},
			{Label: "6 hours", Callback: "cooldown:21600"},
			{Label: "24 hours", Callback: "cooldown:86400"},
		}},
	}
}

func (m *Machine) handleCooldown(st State, input string) (State, models.Reply) {
	seconds, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || models.ValidateCooldown(seconds) != nil {
		return st, models.Reply{Text: msgInvalidCooldown}
	}

	st.CooldownSeconds = seconds
	st.Step = StepChatSelection

	return st, models.Reply{Text: msgSelectChat, RequestChat: true}
}

func (m *Machine) handleChatSelection(st State, input string) (State, models.Reply) {
	chatID, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil || chatID == 0 {
		return st, models.Reply{Text: msgInvalidChatSelection}
	}

	st.TargetChatID = chatID
	st.Step = StepConfirmation

	return st, confirmationReply(st)
}

// handleConfirmation re-shows the summary; the actual creation happens in
// Confirm, driven by the confirm callback.
func (m *Machine) handleConfirmation(st State) (State, models.Reply) {
	if st.Selected == nil {
		return Idle(), models.Reply{Text: msgMissingInformation}
	}
	return st, confirmationReply(st)
}

func positionListReply(address string, positions []models.Position) models.Reply {
	var list strings.Builder
	buttons := make([][]models.Button, 0, len(positions))
	for i, pos := range positions {
		fmt.Fprintf(&list, "%d. *Chain:* %s\n   *Silo:* `%s`\n   *Balance:* %g\n\n",
			i+1, models.ChainLabel(pos.ChainID), models.TruncateAddress(pos.Silo), pos.Balance)
		buttons = append(buttons, []models.Button{{
			Label:    fmt.Sprintf("%s - %s", models.ChainLabel(pos.ChainID), models.TruncateAddress(pos.Silo)),
			Callback: fmt.Sprintf("position:%d", i),
		}})
	}

	text := fmt.Sprintf("📊 Found the following positions for `%s`:\n\n%sPlease select a position to track:",
		models.TruncateAddress(address), list.String())
	return models.Reply{Text: text, Markdown: true, Buttons: buttons}
}

func confirmationReply(st State) models.Reply {
	text := fmt.Sprintf(`Please confirm your subscription:

Chain: %s
Silo: `+"`%s`"+`
Account: `+"`%s`"+`
Threshold: %g
Interval: %d seconds

Notifications will be sent to the selected chat.`,
		models.ChainLabel(st.Selected.ChainID),
		models.TruncateAddress(st.Selected.Silo),
		models.TruncateAddress(st.Address),
		st.Threshold,
		st.CooldownSeconds,
	)
	return models.Reply{
		Text:     text,
		Markdown: true,
		Buttons: [][]models.Button{
			{{Label: "✅ Confirm", Callback: "confirm"}},
		},
	}
}
