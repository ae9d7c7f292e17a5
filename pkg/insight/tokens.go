// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package insight

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// tokenCounter counts prompt tokens with the cl100k_base encoding, a close
// approximation for Claude models. If the encoding tables cannot load, it
// degrades to the chars/4 estimate.
type tokenCounter struct {
	mu      sync.Mutex
	encoder *tiktoken.Tiktoken
}

var (
	counter     *tokenCounter
	counterOnce sync.Once
)

func getTokenCounter() *tokenCounter {
	counterOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			counter = &tokenCounter{}
			return
		}
		counter = &tokenCounter{encoder: enc}
	})
	return counter
}

func (tc *tokenCounter) Count(text string) int {
	if tc.encoder == nil {
		return len(text) / 4
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.encoder.Encode(text, nil, nil))
}
