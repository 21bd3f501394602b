package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/silowatch/silowatch/internal/management"
)

// Action is one decoded callback token. Buttons carry short string tokens
// over the wire; they are decoded into this closed set exactly once, at the
// transport boundary, so the state machines never see raw strings.
type Action interface{ isAction() }

// StartWatch starts the subscription wizard.
type StartWatch struct{}

// OpenManage opens the subscription list.
type OpenManage struct{}

// ConfirmSubscription finalizes the wizard and creates the subscription.
type ConfirmSubscription struct{}

// SelectPosition picks the position at Index from the offered list.
type SelectPosition struct{ Index int }

// SelectThreshold picks a preset threshold value.
type SelectThreshold struct{ Value string }

// SelectCooldown picks a preset notification interval.
type SelectCooldown struct{ Value string }

// Manage wraps one management machine action.
type Manage struct{ Action management.Action }

func (StartWatch) isAction()          {}
func (OpenManage) isAction()          {}
func (ConfirmSubscription) isAction() {}
func (SelectPosition) isAction()      {}
func (SelectThreshold) isAction()     {}
func (SelectCooldown) isAction()      {}
func (Manage) isAction()              {}

// DecodeCallback turns a callback token into its typed action. Unknown or
// malformed tokens are an error; the caller logs and ignores them.
func DecodeCallback(data string) (Action, error) {
	parts := strings.Split(data, ":")

	switch parts[0] {
	case "watch":
		if len(parts) == 1 {
			return StartWatch{}, nil
		}
	case "manage":
		if len(parts) == 1 {
			return OpenManage{}, nil
		}
	case "confirm":
		if len(parts) == 1 {
			return ConfirmSubscription{}, nil
		}
	case "position":
		if len(parts) == 2 {
			index, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("bad position index in token %q", data)
			}
			return SelectPosition{Index: index}, nil
		}
	case "threshold":
		if len(parts) == 2 {
			return SelectThreshold{Value: parts[1]}, nil
		}
	case "cooldown":
		if len(parts) == 2 {
			return SelectCooldown{Value: parts[1]}, nil
		}
	case "details", "pause", "restart", "unsubscribe":
		if len(parts) == 2 {
			id, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil || id == 0 {
				return nil, fmt.Errorf("bad subscription id in token %q", data)
			}
			kinds := map[string]management.ActionKind{
				"details":     management.ActionDetails,
				"pause":       management.ActionPause,
				"restart":     management.ActionRestart,
				"unsubscribe": management.ActionUnsubscribe,
			}
			return Manage{Action: management.Action{Kind: kinds[parts[0]], SubscriptionID: id}}, nil
		}
	case "settings":
		if len(parts) < 2 || len(parts) > 3 {
			break
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("bad subscription id in token %q", data)
		}
		if len(parts) == 2 {
			return Manage{Action: management.Action{Kind: management.ActionChangeSettings, SubscriptionID: id}}, nil
		}
		settings := map[string]management.Setting{
			"threshold":      management.SettingThreshold,
			"cooldownPeriod": management.SettingCooldown,
			"language":       management.SettingLanguage,
		}
		setting, ok := settings[parts[2]]
		if !ok {
			return nil, fmt.Errorf("unknown setting in token %q", data)
		}
		return Manage{Action: management.Action{
			Kind:           management.ActionEditSetting,
			SubscriptionID: id,
			Setting:        setting,
		}}, nil
	case "pauseAll":
		return Manage{Action: management.Action{Kind: management.ActionPauseAll}}, nil
	case "restartAll":
		return Manage{Action: management.Action{Kind: management.ActionRestartAll}}, nil
	case "unsubscribeAll":
		return Manage{Action: management.Action{Kind: management.ActionUnsubscribeAll}}, nil
	}

	return nil, fmt.Errorf("unknown callback token %q", data)
}
