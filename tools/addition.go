package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fwojciec/tinker"
)

type additionArgs struct {
	X json.Number `json:"x"`
	Y json.Number `json:"y"`
}

// AdditionTool returns the tool definition for addition.
func AdditionTool() tinker.Tool {
	return tinker.Tool{
		Name:        "addition",
		Description: "Add two numbers and return the result. Make sure x and y are integer values.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"x": {
					"type": "integer",
					"description": "first number."
				},
				"y": {
					"type": "integer",
					"description": "second number."
				}
			},
			"required": ["x", "y"]
		}`),
	}
}

// ExecuteAddition adds two integers. Operands are arbitrary precision, so
// the sum never overflows.
func ExecuteAddition(_ context.Context, args json.RawMessage) (*tinker.ToolResult, error) {
	var a additionArgs
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.UseNumber()
	if err := dec.Decode(&a); err != nil {
		return domainError(fmt.Sprintf("invalid arguments: %s", err)), nil
	}

	x, err := integer("x", a.X)
	if err != nil {
		return domainError(err.Error()), nil
	}
	y, err := integer("y", a.Y)
	if err != nil {
		return domainError(err.Error()), nil
	}

	return textResult(Add(x, y).String()), nil
}

// Add returns x + y.
func Add(x, y *big.Int) *big.Int {
	return new(big.Int).Add(x, y)
}

func integer(name string, n json.Number) (*big.Int, error) {
	if n == "" {
		return nil, fmt.Errorf("%s is required", name)
	}
	v, ok := new(big.Int).SetString(n.String(), 10)
	if !ok {
		return nil, fmt.Errorf("%s must be an integer, got %s", name, n)
	}
	return v, nil
}
