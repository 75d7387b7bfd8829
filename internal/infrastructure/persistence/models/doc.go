// Package models contains GORM persistence models for aggregates that own
// child rows (inspections with their room checklist, events with their
// participants). Simpler aggregates are mapped directly from their domain
// structs.
package models
