package intent

import "strings"

var positiveIndicators = []string{
	"yes", "yeah", "yep", "yup", "sure", "ok", "okay", "fine",
	"send", "send it", "send email", "send the email",
	"confirm", "confirmed", "confirmation", "approve", "approved",
	"go ahead", "proceed", "do it", "looks good",
}

var negativeIndicators = []string{
	"no", "nope", "don't", "do not", "cancel", "stop", "abort",
	"don't send", "do not send", "wait", "hold on", "nevermind",
}

// IsAffirmative reports whether a confirmation answer should be treated as
// a yes. Negative indicators win over positive ones, so "no, don't send it"
// never confirms.
func IsAffirmative(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, indicator := range negativeIndicators {
		if strings.Contains(lower, indicator) {
			return false
		}
	}
	for _, indicator := range positiveIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
