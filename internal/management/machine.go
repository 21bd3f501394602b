package management

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/pkg/logger"
)

// Machine drives the /manage flow over existing subscriptions. Every
// mutation is funneled through the details view so the UI always has the
// same "go back" affordance, and every confirmation re-displays the updated
// record instead of trusting client-side caching.
type Machine struct {
	store models.SubscriptionStore
	log   *logger.Logger
}

func NewMachine(store models.SubscriptionStore, log *logger.Logger) *Machine {
	return &Machine{store: store, log: log}
}

// Open lists all subscriptions of the requesting user.
func (m *Machine) Open(creator int64) (State, models.Reply) {
	return State{}, m.listReply(creator)
}

// Handle applies one decoded action to the current state.
func (m *Machine) Handle(creator int64, st State, act Action) (State, models.Reply) {
	switch act.Kind {
	case ActionList:
		return State{}, m.listReply(creator)
	case ActionDetails:
		return m.details(creator, act.SubscriptionID)
	case ActionChangeSettings:
		return m.changeSettings(act.SubscriptionID)
	case ActionEditSetting:
		return m.editSetting(act.SubscriptionID, act.Setting)
	case ActionPause:
		requireID(act, "pause")
		return m.setPaused(creator, act.SubscriptionID, true)
	case ActionRestart:
		requireID(act, "restart")
		return m.setPaused(creator, act.SubscriptionID, false)
	case ActionUnsubscribe:
		requireID(act, "unsubscribe")
		return m.unsubscribe(creator, act.SubscriptionID)
	case ActionPauseAll:
		return m.bulk(creator, func() error { return m.store.BulkSetPaused(creator, true) }, msgAllPaused)
	case ActionRestartAll:
		return m.bulk(creator, func() error { return m.store.BulkSetPaused(creator, false) }, msgAllRestarted)
	case ActionUnsubscribeAll:
		return m.bulk(creator, func() error { return m.store.BulkDelete(creator) }, msgAllUnsubscribed)
	default:
		panic(fmt.Sprintf("management: unknown action kind %d", act.Kind))
	}
}

// Input consumes the typed value for the setting selected earlier. On a
// validation failure the pending setting is preserved so the user is not
// asked again which field to edit.
func (m *Machine) Input(creator int64, st State, text string) (State, models.Reply) {
	if !st.AwaitingValue() {
		return st, models.Reply{Text: msgOperationFailed}
	}

	text = strings.TrimSpace(text)
	var fields models.SubscriptionUpdate
	var invalidMsg string

	switch st.PendingSetting {
	case SettingThreshold:
		invalidMsg = msgInvalidThreshold
		threshold, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return st, models.Reply{Text: invalidMsg}
		}
		fields.NotificationThreshold = &threshold
	case SettingCooldown:
		invalidMsg = msgInvalidCooldown
		seconds, err := strconv.Atoi(text)
		if err != nil {
			return st, models.Reply{Text: invalidMsg}
		}
		fields.CooldownSeconds = &seconds
	case SettingLanguage:
		invalidMsg = msgInvalidLanguage
		if text == "" || len(text) > 16 {
			return st, models.Reply{Text: invalidMsg}
		}
		fields.Language = &text
	default:
		panic(fmt.Sprintf("management: input for unknown setting %d", st.PendingSetting))
	}

	if err := m.store.Update(st.SubscriptionID, fields); err != nil {
		if errors.Is(err, models.ErrValidation) {
			return st, models.Reply{Text: invalidMsg}
		}
		if errors.Is(err, models.ErrNotFound) {
			return State{}, m.notFoundReply(creator)
		}
		m.log.Error("Failed to update subscription setting ", "id ", st.SubscriptionID, " error ", err)
		return st, models.Reply{Text: msgOperationFailed}
	}

	next, reply := m.details(creator, st.SubscriptionID)
	reply.Text = msgSettingUpdated + "\n" + reply.Text
	return next, reply
}

func requireID(act Action, op string) {
	if act.SubscriptionID == 0 {
		panic(fmt.Sprintf("management: %s action without subscription id", op))
	}
}

func (m *Machine) details(creator, id int64) (State, models.Reply) {
	sub, err := m.store.Get(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return State{}, m.notFoundReply(creator)
		}
		m.log.Error("Failed to load subscription ", "id ", id, " error ", err)
		return State{}, models.Reply{Text: msgOperationFailed}
	}

	return State{SubscriptionID: id}, detailsReply(sub)
}

func (m *Machine) changeSettings(id int64) (State, models.Reply) {
	buttons := [][]models.Button{
		{{Label: "Change Notification Threshold", Callback: fmt.Sprintf("settings:%d:threshold", id)}},
		{{Label: "Change Notification Interval", Callback: fmt.Sprintf("settings:%d:cooldownPeriod", id)}},
		{{Label: "Update Language", Callback: fmt.Sprintf("settings:%d:language", id)}},
		{{Label: "Back to Subscription", Callback: fmt.Sprintf("details:%d", id)}},
	}
	return State{SubscriptionID: id}, models.Reply{Text: msgSelectSetting, Buttons: buttons}
}

func (m *Machine) editSetting(id int64, setting Setting) (State, models.Reply) {
	var prompt string
	switch setting {
	case SettingThreshold:
		prompt = msgEnterThreshold
	case SettingCooldown:
		prompt = msgEnterCooldown
	case SettingLanguage:
		prompt = msgEnterLanguage
	default:
		panic(fmt.Sprintf("management: edit action for unknown setting %d", setting))
	}
	return State{SubscriptionID: id, PendingSetting: setting}, models.Reply{Text: prompt}
}

func (m *Machine) setPaused(creator, id int64, paused bool) (State, models.Reply) {
	if err := m.store.SetPaused(id, paused); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return State{}, m.notFoundReply(creator)
		}
		m.log.Error("Failed to change paused state ", "id ", id, " error ", err)
		return State{SubscriptionID: id}, models.Reply{Text: msgOperationFailed}
	}

	next, reply := m.details(creator, id)
	if paused {
		reply.Text = msgPaused + "\n" + reply.Text
	} else {
		reply.Text = msgRestarted + "\n" + reply.Text
	}
	return next, reply
}

func (m *Machine) unsubscribe(creator, id int64) (State, models.Reply) {
	if err := m.store.Delete(id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return State{}, m.notFoundReply(creator)
		}
		m.log.Error("Failed to delete subscription ", "id ", id, " error ", err)
		return State{SubscriptionID: id}, models.Reply{Text: msgOperationFailed}
	}

	reply := m.listReply(creator)
	reply.Text = msgUnsubscribed + "\n" + reply.Text
	return State{}, reply
}

func (m *Machine) bulk(creator int64, op func() error, confirmation string) (State, models.Reply) {
	subs, err := m.store.ListByCreator(creator)
	if err != nil {
		m.log.Error("Failed to list subscriptions ", "creator ", creator, " error ", err)
		return State{}, models.Reply{Text: msgOperationFailed}
	}
	if len(subs) == 0 {
		// Nothing to manage; short-circuit without touching the store.
		return State{}, models.Reply{Text: msgNothingToManage}
	}

	if err := op(); err != nil {
		m.log.Error("Bulk operation failed ", "creator ", creator, " error ", err)
		return State{}, models.Reply{Text: msgOperationFailed}
	}

	reply := m.listReply(creator)
	reply.Text = confirmation + "\n" + reply.Text
	return State{}, reply
}

func (m *Machine) notFoundReply(creator int64) models.Reply {
	reply := m.listReply(creator)
	reply.Text = msgNotFound + "\n" + reply.Text
	return reply
}

func (m *Machine) listReply(creator int64) models.Reply {
	subs, err := m.store.ListByCreator(creator)
	if err != nil {
		m.log.Error("Failed to list subscriptions ", "creator ", creator, " error ", err)
		return models.Reply{Text: msgOperationFailed}
	}

	if len(subs) == 0 {
		return models.Reply{
			Text: msgNoSubscriptions,
			Buttons: [][]models.Button{
				{{Label: "Start Watching", Callback: "watch"}},
			},
		}
	}

	buttons := make([][]models.Button, 0, len(subs)+3)
	for _, sub := range subs {
		buttons = append(buttons, []models.Button{{
			Label:    fmt.Sprintf("%s - %s", models.ChainLabel(sub.ChainID), models.TruncateAddress(sub.Silo)),
			Callback: fmt.Sprintf("details:%d", sub.ID),
		}})
	}
	buttons = append(buttons,
		[]models.Button{
			{Label: "Pause All", Callback: "pauseAll"},
			{Label: "Restart All", Callback: "restartAll"},
		},
		[]models.Button{{Label: "Unsubscribe from All", Callback: "unsubscribeAll"}},
		[]models.Button{{Label: "Add New Subscription", Callback: "watch"}},
	)

	return models.Reply{Text: msgListHeader, Markdown: true, Buttons: buttons}
}

func detailsReply(sub *models.Subscription) models.Reply {
	status := "Active"
	if sub.Paused {
		status = "Paused"
	}

	text := fmt.Sprintf(`*Subscription Details*
Chain: %s
Silo: `+"`%s`"+`
Account: `+"`%s`"+`
Status: %s
Notification Threshold: %g
Notification Interval: %d seconds
Language: %s`,
		models.ChainLabel(sub.ChainID),
		models.TruncateAddress(sub.Silo),
		models.TruncateAddress(sub.Account),
		status,
		sub.NotificationThreshold,
		sub.CooldownSeconds,
		sub.Language,
	)

	toggle := models.Button{Label: "⏸ Pause", Callback: fmt.Sprintf("pause:%d", sub.ID)}
	if sub.Paused {
		toggle = models.Button{Label: "▶️ Restart", Callback: fmt.Sprintf("restart:%d", sub.ID)}
	}

	return models.Reply{
		Text:     text,
		Markdown: true,
		Buttons: [][]models.Button{
			{toggle, {Label: "🗑️ Unsubscribe", Callback: fmt.Sprintf("unsubscribe:%d", sub.ID)}},
			{{Label: "⚙️ Change Settings", Callback: fmt.Sprintf("settings:%d", sub.ID)}},
			{{Label: "Back to Subscriptions", Callback: "manage"}},
		},
	}
}
