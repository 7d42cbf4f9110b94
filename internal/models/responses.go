// Package models defines the JSON envelope shared by every API
// response.
package models

import (
	"net/http"

	"nightshuttle.campusgo.org/internal/clock"
)

// ResponseModel is the envelope wrapping every API payload.
type ResponseModel struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Data        any    `json:"data,omitempty"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// ResponseCurrentTime returns the clock's time as Unix milliseconds for
// response stamping.
func ResponseCurrentTime(c clock.Clock) int64 {
	return c.NowUnixMilli()
}

// NewOKResponse wraps data in a 200 envelope.
func NewOKResponse(data any, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        http.StatusOK,
		CurrentTime: ResponseCurrentTime(c),
		Data:        data,
		Text:        "OK",
		Version:     2,
	}
}

// NewEntryResponse wraps a single entry in a 200 envelope.
func NewEntryResponse(entry any, c clock.Clock) ResponseModel {
	return NewOKResponse(map[string]any{"entry": entry}, c)
}

// NewListResponse wraps a list in a 200 envelope.
func NewListResponse(list any, c clock.Clock) ResponseModel {
	return NewOKResponse(map[string]any{"list": list}, c)
}
