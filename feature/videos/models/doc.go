// Package models defines the Video model and its JSON tags column type.
//
// Wire names follow the public API: the topic and subtopic foreign keys are
// exposed as "topic" and "subtopic", and the publication time as
// "publishedAt".
package models
