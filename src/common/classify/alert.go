package classify

import (
	"os"
	"strings"
)

// AlertConfig maps alert category keys (freight, rhtt, steam, charter,
// pullman, royal_train, named_trains) to whether they should fire.
type AlertConfig map[string]bool

// ShouldAlert decides whether a classified service matches the alert
// configuration. Special tags are checked first in list order and the first
// enabled tag wins; then freight; then the general special/charter case. An
// empty config never alerts. The second return value is the alert reason, ""
// when no alert fires.
func ShouldAlert(classification Classification, config AlertConfig) (bool, string) {
	if len(config) == 0 {
		return false, ""
	}

	for _, specialType := range classification.SpecialTypes {
		if config[specialType] {
			return true, "Special service: " + specialType
		}
	}

	if classification.IsFreight && config["freight"] {
		return true, "Freight service"
	}

	if classification.IsSpecial && config["charter"] {
		return true, "Special/Charter service"
	}

	return false, ""
}

// ConfigFromEnv builds an AlertConfig from the ALERT_SERVICES environment
// variable, a comma-separated list of category keys, e.g.
// "freight,rhtt,royal_train".
func ConfigFromEnv() AlertConfig {
	raw := os.Getenv("ALERT_SERVICES")
	if raw == "" {
		return nil
	}

	config := make(AlertConfig)
	for _, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			config[key] = true
		}
	}
	return config
}
