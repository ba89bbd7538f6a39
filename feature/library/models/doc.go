// Package models defines the per-user library models: saved videos, video
// lists and list entries.
package models
