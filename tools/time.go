package tools

import (
	"context"
	"encoding/json"
	"time"
)

type TimeInput struct{}

var TimeDefinition = Definition{
	Name:        "time_tool",
	Description: "Returns the current server time.",
	InputSchema: GenerateSchema[TimeInput](),
	Function:    CurrentTime,
}

func CurrentTime(_ context.Context, _ json.RawMessage) (string, error) {
	b, err := json.Marshal(map[string]string{
		"current_time": time.Now().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
