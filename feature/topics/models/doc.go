// Package models defines the GORM models for topics and subtopics.
package models
