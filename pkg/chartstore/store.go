// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package chartstore persists the datasets saved by the in-fragment chart
// editor, keyed by (chart_id, presentation_id). The server core never reads
// this store during slide generation; only the editor routes touch it.
package chartstore

import (
	"context"
	"encoding/json"
	"time"
)

// Record is one saved chart dataset. Payload is the editor's wire object:
// {"family": ..., "rows": [...]}.
type Record struct {
	ChartID        string          `json:"chart_id"`
	PresentationID string          `json:"presentation_id"`
	Payload        json.RawMessage `json:"payload"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// UpsertResult reports the authoritative write timestamp.
type UpsertResult struct {
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence contract the editor routes consume. An external
// implementation can replace the SQL one without touching the server.
type Store interface {
	UpsertChartData(ctx context.Context, rec Record) (UpsertResult, error)
	GetChartData(ctx context.Context, presentationID string) ([]Record, error)
	Close() error
}
