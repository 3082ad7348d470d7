// Package classify derives a service classification for a train from its VSTP
// schedule attributes and headcode, and decides whether a classified service
// matches a user's alert configuration. All functions are pure and safe for
// concurrent use.
package classify

import (
	"strings"

	"github.com/railwatch/vstp-engine/src/common/types"
)

// Classification is the classifier's output. It has no identity beyond its
// content and is recomputed on demand.
type Classification struct {
	ServiceType     string   `json:"service_type"`
	ServiceCategory string   `json:"service_category"`
	Description     string   `json:"description"`
	IsFreight       bool     `json:"is_freight"`
	IsPassenger     bool     `json:"is_passenger"`
	IsSpecial       bool     `json:"is_special"`
	SpecialTypes    []string `json:"special_types"`
	AlertWorthy     bool     `json:"alert_worthy"`
}

// Classify resolves a service classification from schedule attributes and a
// headcode. sched may be nil, in which case classification falls back to
// headcode patterns alone. Special patterns win over the category tables, which
// win over headcode heuristics; once a primary type is set, later stages only
// add special tags or fill still-unknown fields.
func Classify(sched *types.Schedule, headcode string) Classification {
	result := Classification{
		ServiceType:     TypeUnknown,
		ServiceCategory: "unknown",
		Description:     "Unknown service",
		SpecialTypes:    []string{},
	}

	specialTypes := detectSpecialServices(sched, headcode)
	if len(specialTypes) > 0 {
		result.SpecialTypes = specialTypes
		result.IsSpecial = true
		result.AlertWorthy = true

		// Primary type from the highest-priority tag present. Unmatched
		// tags remain listed.
		switch {
		case hasTag(specialTypes, SpecialRoyalTrain):
			result.ServiceType = TypeRoyalTrain
			result.ServiceCategory = "royal_train"
			result.Description = "Royal Train"
		case hasTag(specialTypes, SpecialSteam):
			result.ServiceType = TypeCharter
			result.ServiceCategory = "steam_charter"
			result.Description = "Steam Charter Service"
			result.IsPassenger = true
		case hasTag(specialTypes, SpecialRHTT):
			result.ServiceType = TypeInfrastructure
			result.ServiceCategory = "rhtt"
			result.Description = "Rail Head Treatment Train"
		case hasTag(specialTypes, SpecialPullman):
			result.ServiceType = TypePassenger
			result.ServiceCategory = "luxury_charter"
			result.Description = "Pullman/Luxury Charter"
			result.IsPassenger = true
		case hasTag(specialTypes, SpecialCharter):
			result.ServiceType = TypePassenger
			result.ServiceCategory = "charter"
			result.Description = "Charter Service"
			result.IsPassenger = true
		}
	}

	if sched != nil {
		// Schedules flagged RHTT in operating characteristics may not
		// carry an RHTT headcode. The royal train tag stays exclusive.
		if strings.Contains(sched.OperatingCharacteristics, "R") &&
			!hasTag(result.SpecialTypes, SpecialRHTT) &&
			!hasTag(result.SpecialTypes, SpecialRoyalTrain) {
			result.SpecialTypes = append(result.SpecialTypes, SpecialRHTT)
			result.IsSpecial = true
			result.AlertWorthy = true
			if result.ServiceType == TypeUnknown {
				result.ServiceType = TypeInfrastructure
				result.ServiceCategory = "rhtt"
				result.Description = "Rail Head Treatment Train"
			}
		}

		if serviceType, ok := categoryTypes[sched.TrainCategory]; ok && result.ServiceType == TypeUnknown {
			result.ServiceType = serviceType
			result.ServiceCategory = sched.TrainCategory

			switch {
			case strings.Contains(serviceType, "passenger"):
				result.IsPassenger = true
				result.Description = titleWords(serviceType)
			case serviceType == TypeEmptyCoachingStock:
				result.Description = "Empty Coaching Stock"
			case strings.Contains(serviceType, "bus"):
				result.IsPassenger = true
				result.Description = "Bus Replacement Service"
			case serviceType == TypePostal || serviceType == TypeParcels:
				result.Description = titleWords(serviceType)
			case serviceType == TypeFreightSpecial:
				result.IsFreight = true
				result.IsSpecial = true
				result.AlertWorthy = true
				result.Description = "Special Freight Service"
			}
		}

		if category, ok := freightCategories[sched.TrainCategory]; ok && result.ServiceType == TypeUnknown {
			result.IsFreight = true
			result.ServiceType = TypeFreight
			result.ServiceCategory = category
			result.Description = titleWords(category)
			result.AlertWorthy = true
		}
	}

	if result.ServiceType == TypeUnknown {
		classifyByHeadcode(&result, headcode)
	}

	return result
}

// detectSpecialServices collects special service tags from the headcode and
// schedule attributes. A royal train match short-circuits everything else.
func detectSpecialServices(sched *types.Schedule, headcode string) []string {
	var specialTypes []string

	if royalTrainHeadcodePattern.MatchString(headcode) {
		return []string{SpecialRoyalTrain}
	}

	if rhttHeadcodePattern.MatchString(headcode) {
		specialTypes = append(specialTypes, SpecialRHTT)
	}

	if sched != nil && strings.Contains(sched.OperatingCharacteristics, "R") && !hasTag(specialTypes, SpecialRHTT) {
		specialTypes = append(specialTypes, SpecialRHTT)
	}

	if charterHeadcodePattern.MatchString(headcode) {
		// 1Zxx is the general charter series; steam is confirmed from the
		// power type. "STEAM" is likely not a real feed code but is kept
		// as a best-effort signal.
		specialTypes = append(specialTypes, SpecialCharter)

		if sched != nil && (sched.PowerType == "HST" || sched.PowerType == "STEAM") {
			specialTypes = append(specialTypes, SpecialSteam)
		}
	}

	if sched != nil {
		for _, loc := range sched.ScheduleLocation {
			if matchesPullmanKeyword(loc.TrainIdentity) {
				specialTypes = append(specialTypes, SpecialPullman)
				break
			}
		}

		if matchesPullmanKeyword(sched.TrainClass) && !hasTag(specialTypes, SpecialPullman) {
			specialTypes = append(specialTypes, SpecialPullman)
		}
	}

	if charterHeadcodePattern.MatchString(headcode) && !hasTag(specialTypes, SpecialCharter) {
		specialTypes = append(specialTypes, SpecialCharter)
	}

	return specialTypes
}

// classifyByHeadcode fills a still-unknown classification from headcode
// patterns alone.
func classifyByHeadcode(result *Classification, headcode string) {
	result.Description = "Train " + headcode

	switch {
	case freightHeadcodePattern.MatchString(headcode):
		result.ServiceType = TypeFreight
		result.ServiceCategory = "freight_unclassified"
		result.Description = "Freight Service"
		result.IsFreight = true
		result.AlertWorthy = true
	case ecsHeadcodePattern.MatchString(headcode):
		result.ServiceType = TypeEmptyCoachingStock
		result.ServiceCategory = "ecs"
		result.Description = "Empty Coaching Stock"
	case charterHeadcodePattern.MatchString(headcode):
		result.ServiceType = TypePassenger
		result.ServiceCategory = "charter"
		result.Description = "Charter Service"
		result.IsPassenger = true
		result.IsSpecial = true
		result.AlertWorthy = true
	case len(headcode) == 4 && (headcode[0] == '1' || headcode[0] == '2' || headcode[0] == '3'):
		result.ServiceType = TypePassenger
		result.ServiceCategory = "passenger_unclassified"
		result.Description = "Passenger Service"
		result.IsPassenger = true
	}
}

func matchesPullmanKeyword(text string) bool {
	if text == "" {
		return false
	}
	text = strings.ToLower(text)
	for _, keyword := range pullmanKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// titleWords turns a snake_case type name into a display string, e.g.
// "express_passenger" -> "Express Passenger".
func titleWords(s string) string {
	words := strings.Split(s, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
