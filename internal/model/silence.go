// Package model provides data models for the observability engine.
package model

import (
	"fmt"
	"math"
	"time"
)

// Matcher is an exact-match (name, value) pair that scopes a silence to
// specific alert labels. This engine never emits regex matchers.
type Matcher struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	IsRegex bool   `json:"isRegex"`
}

// Silence is a silence record posted to the alert backend. It is created
// once per silence action and immutable once posted; the engine holds no
// local reference to it afterward.
type Silence struct {
	Matchers  []Matcher `json:"matchers"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	CreatedBy string    `json:"createdBy"`
	Comment   string    `json:"comment"`
}

// Silence duration bounds in minutes. The upper bound is one week.
const (
	MinSilenceMinutes = 1
	MaxSilenceMinutes = 10080
)

// HumanMinutes renders a silence duration in minutes as a compact label for
// response messages. Unlike HumanDuration this rounds: >= 1 day rounds to
// whole days, >= 1 hour rounds to whole hours, below that plain minutes.
func HumanMinutes(minutes int) string {
	switch {
	case minutes >= 1440:
		return fmt.Sprintf("%dd", int(math.Round(float64(minutes)/1440)))
	case minutes >= 60:
		return fmt.Sprintf("%dh", int(math.Round(float64(minutes)/60)))
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
