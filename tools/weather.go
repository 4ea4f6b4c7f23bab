package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/tinker"
)

// WeatherReport is the answer get_weather gives for every location.
const WeatherReport = "The weather is UNGODLY with torrential rains and temperatures below -10°C"

type weatherArgs struct {
	Location string `json:"location"`
	Celsius  *bool  `json:"celsius"`
}

// WeatherTool returns the tool definition for get_weather.
func WeatherTool() tinker.Tool {
	return tinker.Tool{
		Name:        "get_weather",
		Description: "Get weather in the next days at given location.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"location": {
					"type": "string",
					"description": "the location"
				},
				"celsius": {
					"type": "boolean",
					"description": "whether to report the temperature in Celsius",
					"default": false
				}
			},
			"required": ["location"]
		}`),
	}
}

// ExecuteWeather reports the weather at a location. It does not care about
// the location: the forecast is always the same.
func ExecuteWeather(_ context.Context, args json.RawMessage) (*tinker.ToolResult, error) {
	var a weatherArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return domainError(fmt.Sprintf("invalid arguments: %s", err)), nil
	}
	if strings.TrimSpace(a.Location) == "" {
		return domainError("location is required"), nil
	}
	return textResult(WeatherReport), nil
}
