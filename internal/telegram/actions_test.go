package telegram

import (
	"testing"

	"github.com/silowatch/silowatch/internal/management"
)

func TestDecodeCallbackTokens(t *testing.T) {
	cases := []struct {
		token string
		want  Action
	}{
		{"watch", StartWatch{}},
		{"manage", OpenManage{}},
		{"confirm", ConfirmSubscription{}},
		{"position:2", SelectPosition{Index: 2}},
		{"threshold:1.5", SelectThreshold{Value: "1.5"}},
		{"cooldown:3600", SelectCooldown{Value: "3600"}},
		{"details:7", Manage{Action: management.Action{Kind: management.ActionDetails, SubscriptionID: 7}}},
		{"pause:7", Manage{Action: management.Action{Kind: management.ActionPause, SubscriptionID: 7}}},
		{"restart:7", Manage{Action: management.Action{Kind: management.ActionRestart, SubscriptionID: 7}}},
		{"unsubscribe:7", Manage{Action: management.Action{Kind: management.ActionUnsubscribe, SubscriptionID: 7}}},
		{"settings:7", Manage{Action: management.Action{Kind: management.ActionChangeSettings, SubscriptionID: 7}}},
		{"settings:7:threshold", Manage{Action: management.Action{
			Kind: management.ActionEditSetting, SubscriptionID: 7, Setting: management.SettingThreshold}}},
		{"settings:7:cooldownPeriod", Manage{Action: management.Action{
			Kind: management.ActionEditSetting, SubscriptionID: 7, Setting: management.SettingCooldown}}},
		{"settings:7:language", Manage{Action: management.Action{
			Kind: management.ActionEditSetting, SubscriptionID: 7, Setting: management.SettingLanguage}}},
		{"pauseAll", Manage{Action: management.Action{Kind: management.ActionPauseAll}}},
		{"restartAll", Manage{Action: management.Action{Kind: management.ActionRestartAll}}},
		{"unsubscribeAll", Manage{Action: management.Action{Kind: management.ActionUnsubscribeAll}}},
	}

	for _, tc := range cases {
		got, err := DecodeCallback(tc.token)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", tc.token, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %#v, want %#v", tc.token, got, tc.want)
		}
	}
}

func TestDecodeCallbackRejectsUnknownTokens(t *testing.T) {
	for _, token := range []string{
		"",
		"nonsense",
		"watch:extra",
		"position:abc",
		"pause:0",
		"details:xyz",
		"settings:7:color",
		"settings:0:threshold",
		"settings:1:2:3",
	} {
		if _, err := DecodeCallback(token); err == nil {
			t.Errorf("token %q: expected error", token)
		}
	}
}
