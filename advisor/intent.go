package advisor

import "strings"

// Intent is the topic category of an operator prompt.
type Intent int

const (
	IntentFallback Intent = iota
	IntentSchedule
	IntentWeather
	IntentRisk
	IntentIndexScore
)

func (i Intent) String() string {
	switch i {
	case IntentSchedule:
		return "schedule"
	case IntentWeather:
		return "weather"
	case IntentRisk:
		return "risk"
	case IntentIndexScore:
		return "ioi"
	default:
		return "fallback"
	}
}

type intentRule struct {
	keywords []string
	intent   Intent
}

// Evaluated top to bottom, first match wins. Reordering changes the
// outcome for prompts that mention several topics.
var intentRules = []intentRule{
	{keywords: []string{"스케줄", "schedule"}, intent: IntentSchedule},
	{keywords: []string{"날씨", "weather"}, intent: IntentWeather},
	{keywords: []string{"위험", "risk"}, intent: IntentRisk},
	{keywords: []string{"ioi"}, intent: IntentIndexScore},
}

// Classify maps a free-text prompt to an Intent by case-insensitive
// keyword matching.
func Classify(prompt string) Intent {
	lower := strings.ToLower(prompt)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return IntentFallback
}
