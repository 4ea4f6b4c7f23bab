package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/fwojciec/tinker"
)

// decimalLiteral matches an optionally signed run of decimal digits with
// single underscores allowed between digit groups.
var decimalLiteral = regexp.MustCompile(`^[+-]?[0-9]+(?:_[0-9]+)*$`)

type toIntArgs struct {
	X json.RawMessage `json:"x"`
}

// ToIntTool returns the tool definition for to_int.
func ToIntTool() tinker.Tool {
	return tinker.Tool{
		Name:        "to_int",
		Description: "Convert string number to integer number.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"x": {
					"type": "string",
					"description": "any number that will be converted to int."
				}
			},
			"required": ["x"]
		}`),
	}
}

// ExecuteToInt converts its string argument to an integer. A bare JSON
// number is accepted as its literal text.
func ExecuteToInt(_ context.Context, args json.RawMessage) (*tinker.ToolResult, error) {
	var a toIntArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return domainError(fmt.Sprintf("invalid arguments: %s", err)), nil
	}
	if len(a.X) == 0 || string(a.X) == "null" {
		return domainError("x is required"), nil
	}

	var s string
	if err := json.Unmarshal(a.X, &s); err != nil {
		// Not a JSON string; use the raw token (e.g. 40 or 4.5).
		s = string(a.X)
	}

	v, err := ParseInt(s)
	if err != nil {
		return domainError(err.Error()), nil
	}
	return textResult(v.String()), nil
}

// ParseInt parses a base-10 integer literal of any size. Surrounding
// whitespace is ignored; a leading sign and single underscores between
// digits are allowed.
func ParseInt(s string) (*big.Int, error) {
	trimmed := strings.TrimSpace(s)
	if !decimalLiteral.MatchString(trimmed) {
		return nil, fmt.Errorf("invalid literal for int with base 10: %q", s)
	}
	v, ok := new(big.Int).SetString(strings.ReplaceAll(trimmed, "_", ""), 10)
	if !ok {
		return nil, fmt.Errorf("invalid literal for int with base 10: %q", s)
	}
	return v, nil
}
