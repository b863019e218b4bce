package model

import (
	"github.com/pkoukk/tiktoken-go"
)

// CountTokens returns the number of tokens text takes for the given model,
// falling back to cl100k_base for models tiktoken does not know.
func CountTokens(model, text string) (int, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, err
		}
	}
	return len(enc.Encode(text, nil, nil)), nil
}
