// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/r3labs/sse/v2"
)

// progressStream is the single SSE stream carrying generation progress.
const progressStream = "progress"

// ProgressEvent is the wire form of one generation progress update.
type ProgressEvent struct {
	PresentationID string    `json:"presentation_id"`
	SlideID        string    `json:"slide_id,omitempty"`
	Stage          string    `json:"stage"`
	Timestamp      time.Time `json:"timestamp"`
}

// EventPublisher fans generation progress out to SSE subscribers. Publishing
// never blocks request handling; subscribers that fall behind miss events.
type EventPublisher struct {
	server *sse.Server
}

func NewEventPublisher() *EventPublisher {
	srv := sse.New()
	srv.AutoReplay = false
	srv.CreateStream(progressStream)
	return &EventPublisher{server: srv}
}

// PublishProgress emits one progress event. Safe to call concurrently.
func (p *EventPublisher) PublishProgress(presentationID, slideID, stage string) {
	data, err := json.Marshal(ProgressEvent{
		PresentationID: presentationID,
		SlideID:        slideID,
		Stage:          stage,
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		return
	}
	p.server.Publish(progressStream, &sse.Event{Data: data})
}

// ServeHTTP subscribes the caller to the progress stream. The sse server
// dispatches on a stream query parameter, so it is pinned here.
func (p *EventPublisher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	q.Set("stream", progressStream)
	r.URL.RawQuery = q.Encode()
	p.server.ServeHTTP(w, r)
}

// Close disconnects all subscribers.
func (p *EventPublisher) Close() {
	p.server.Close()
}

// handleEvents is the route entry point.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.stats.request("events")
	s.events.ServeHTTP(w, r)
}
