package utils

import (
	"encoding/json"

	"github.com/railwatch/vstp-engine/src/common/types"
)

func UnmarshalVSTP(jsonStr string) (*types.VSTPMessage, error) {
	var vstpMsg types.VSTPMessage
	err := json.Unmarshal([]byte(jsonStr), &vstpMsg)
	if err != nil {
		return nil, err
	}
	return &vstpMsg, nil
}

func BuildJourneyKey(trainUID string) string {
	return "vstp:journey:" + trainUID
}

func BuildTiplocKey(tiploc string) string {
	return "tiploc:desc:" + tiploc
}
