package conversation

import "github.com/silowatch/silowatch/internal/models"

// Step is the wizard's current position. The flow is linear:
// AddressInput -> PositionSelection -> ThresholdSelection -> CooldownInput ->
// ChatSelection -> Confirmation -> Idle.
type Step int

const (
	StepIdle Step = iota
	StepAddressInput
	StepPositionSelection
	StepThresholdSelection
	StepCooldownInput
	StepChatSelection
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepAddressInput:
		return "address_input"
	case StepPositionSelection:
		return "position_selection"
	case StepThresholdSelection:
		return "threshold_selection"
	case StepCooldownInput:
		return "cooldown_input"
	case StepChatSelection:
		return "chat_selection"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

// State is the per-chat scratch state of the watch wizard. It is owned
// exclusively by the chat session and reset to idle on completion,
// cancellation or unrecoverable error.
type State struct {
	Step            Step
	Address         string
	Positions       []models.Position
	Selected        *models.Position
	Threshold       float64
	CooldownSeconds int
	TargetChatID    int64
}

// Idle returns the terminal state.
func Idle() State {
	return State{Step: StepIdle}
}

// Active reports whether a wizard is in progress for this chat.
func (s State) Active() bool {
	return s.Step != StepIdle
}
