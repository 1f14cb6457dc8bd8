package app

import "strings"

type voiceRule struct {
	keywords []string
	action   Action
}

// Checked in order; the first rule with a keyword in the transcript wins.
// "stop spinning" hits the rotation rule before the reset rule.
var voiceRules = []voiceRule{
	{keywords: []string{"spin", "rotate"}, action: ActionToggleRotation},
	{keywords: []string{"360"}, action: ActionToggle360},
	{keywords: []string{"wireframe", "x-ray", "xray"}, action: ActionToggleWireframe},
	{keywords: []string{"quiz"}, action: ActionStartQuiz},
	{keywords: []string{"photo", "picture", "capture"}, action: ActionSnapshot},
	{keywords: []string{"info", "tell me", "what is"}, action: ActionInfo},
	{keywords: []string{"stop", "reset"}, action: ActionResetView},
}

// MatchVoiceCommand maps a transcript to an action by keyword.
func MatchVoiceCommand(transcript string) (Action, bool) {
	text := strings.ToLower(transcript)
	for _, rule := range voiceRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.action, true
			}
		}
	}
	return "", false
}
