package management

// ActionKind is the closed set of management operations. Callback strings
// are decoded into these once at the transport boundary, so an unknown
// action can only surface there, never inside the machine.
type ActionKind int

const (
	ActionList ActionKind = iota
	ActionDetails
	ActionChangeSettings
	ActionEditSetting
	ActionPause
	ActionRestart
	ActionUnsubscribe
	ActionPauseAll
	ActionRestartAll
	ActionUnsubscribeAll
)

// Setting names the subscription field being edited.
type Setting int

const (
	SettingNone Setting = iota
	SettingThreshold
	SettingCooldown
	SettingLanguage
)

func (s Setting) String() string {
	switch s {
	case SettingThreshold:
		return "threshold"
	case SettingCooldown:
		return "cooldownPeriod"
	case SettingLanguage:
		return "language"
	default:
		return "none"
	}
}

// Action is one decoded management input. SubscriptionID is required for
// the single-subscription kinds; Setting only for ActionEditSetting.
type Action struct {
	Kind           ActionKind
	SubscriptionID int64
	Setting        Setting
}

// State is the per-chat scratch state of the management wizard. While
// PendingSetting is set the machine expects a typed value for that field.
type State struct {
	SubscriptionID int64
	PendingSetting Setting
}

// AwaitingValue reports whether the next plain-text input is a setting value.
func (s State) AwaitingValue() bool {
	return s.PendingSetting != SettingNone && s.SubscriptionID != 0
}
