package inspection

import (
	"fmt"
	"strings"
	"time"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the state of an inspection.
//
// scheduled -> active -> completed. There are no other transitions.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// RoomStatus is the result recorded for one room of an inspection
type RoomStatus string

const (
	RoomStatusPending      RoomStatus = "pending"
	RoomStatusConfirmed    RoomStatus = "confirmed"
	RoomStatusNotConfirmed RoomStatus = "not_confirmed"
	RoomStatusNoAccess     RoomStatus = "no_access"
)

// AllRoomStatuses returns every room status in display order
func AllRoomStatuses() []RoomStatus {
	return []RoomStatus{RoomStatusPending, RoomStatusConfirmed, RoomStatusNotConfirmed, RoomStatusNoAccess}
}

// IsValid checks if the room status is known
func (s RoomStatus) IsValid() bool {
	for _, v := range AllRoomStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// IsDispositioned reports whether the room has a final result
func (s RoomStatus) IsDispositioned() bool {
	return s.IsValid() && s != RoomStatusPending
}

// RoomTarget is a room snapshot used to build the inspection checklist
type RoomTarget struct {
	RoomID       uuid.UUID
	RoomNumber   string
	BuildingName string
	FloorNumber  int
}

// InspectionRoom is one line of the inspection checklist
type InspectionRoom struct {
	ID           uuid.UUID
	InspectionID uuid.UUID
	RoomID       uuid.UUID
	RoomNumber   string
	BuildingName string
	FloorNumber  int
	Status       RoomStatus
	Comment      string
	CheckedAt    *time.Time
	CheckedBy    *uuid.UUID
}

// Inspection is a scheduled walk-through of a set of rooms
type Inspection struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	ScheduledAt time.Time
	Status      Status
	InspectorID uuid.UUID
	StartedAt   *time.Time
	CompletedAt *time.Time
	ReportKey   string
	Rooms       []InspectionRoom
}

// NewInspection schedules an inspection of the given rooms
func NewInspection(tenantID, createdBy uuid.UUID, name, description string, scheduledAt time.Time, inspectorID uuid.UUID, targets []RoomTarget) (*Inspection, error) {
	if err := validateDetails(name, description, scheduledAt); err != nil {
		return nil, err
	}
	if inspectorID == uuid.Nil {
		inspectorID = createdBy
	}

	i := &Inspection{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		Name:                strings.TrimSpace(name),
		Description:         description,
		ScheduledAt:         scheduledAt,
		Status:              StatusScheduled,
		InspectorID:         inspectorID,
	}
	if err := i.setRooms(targets); err != nil {
		return nil, err
	}

	i.AddDomainEvent(NewInspectionScheduledEvent(i))
	return i, nil
}

// Update changes the plan while the inspection has not started.
// A nil targets slice keeps the current room set.
func (i *Inspection) Update(name, description string, scheduledAt time.Time, inspectorID uuid.UUID, targets []RoomTarget) error {
	if i.Status != StatusScheduled {
		return shared.InvalidState("Only scheduled inspections can be edited")
	}
	if err := validateDetails(name, description, scheduledAt); err != nil {
		return err
	}
	if targets != nil {
		if err := i.setRooms(targets); err != nil {
			return err
		}
	}
	i.Name = strings.TrimSpace(name)
	i.Description = description
	i.ScheduledAt = scheduledAt
	if inspectorID != uuid.Nil {
		i.InspectorID = inspectorID
	}
	i.IncrementVersion()
	return nil
}

// EnsureDeletable only allows removing inspections that never started
func (i *Inspection) EnsureDeletable() error {
	if i.Status != StatusScheduled {
		return shared.InvalidState("Only scheduled inspections can be deleted")
	}
	return nil
}

// Start moves a scheduled inspection to active
func (i *Inspection) Start() error {
	if i.Status != StatusScheduled {
		return shared.InvalidState("Only scheduled inspections can be started")
	}
	now := time.Now()
	i.Status = StatusActive
	i.StartedAt = &now
	i.IncrementVersion()
	i.AddDomainEvent(NewInspectionStartedEvent(i))
	return nil
}

// SetRoomStatus records the result for one room while the inspection is active
func (i *Inspection) SetRoomStatus(roomID uuid.UUID, status RoomStatus, comment string, checkedBy uuid.UUID) error {
	if i.Status != StatusActive {
		return shared.InvalidState("Room results can only be recorded while the inspection is active")
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_ROOM_STATUS", "Unknown room status: "+string(status))
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > 1000 {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 1000 characters")
	}
	if status == RoomStatusNotConfirmed && comment == "" {
		return shared.NewDomainError("COMMENT_REQUIRED", "A comment is required when a room is not confirmed")
	}

	room := i.findRoom(roomID)
	if room == nil {
		return shared.NewDomainError("INSPECTION_ROOM_NOT_FOUND", "Room is not part of this inspection")
	}

	room.Status = status
	room.Comment = comment
	if status == RoomStatusPending {
		room.CheckedAt = nil
		room.CheckedBy = nil
	} else {
		now := time.Now()
		room.CheckedAt = &now
		room.CheckedBy = &checkedBy
	}
	i.IncrementVersion()
	return nil
}

// Complete closes an active inspection once every room has a result
func (i *Inspection) Complete() error {
	if i.Status != StatusActive {
		return shared.InvalidState("Only active inspections can be completed")
	}
	if pending := i.PendingCount(); pending > 0 {
		return shared.NewDomainError("INSPECTION_ROOMS_PENDING",
			fmt.Sprintf("%d room(s) still pending", pending))
	}
	now := time.Now()
	i.Status = StatusCompleted
	i.CompletedAt = &now
	i.IncrementVersion()
	i.AddDomainEvent(NewInspectionCompletedEvent(i))
	return nil
}

// AttachReport stores the object key of the archived PDF report
func (i *Inspection) AttachReport(key string) error {
	if i.Status != StatusCompleted {
		return shared.InvalidState("Reports can only be archived for completed inspections")
	}
	if key == "" {
		return shared.NewDomainError("INVALID_REPORT_KEY", "Report key cannot be empty")
	}
	i.ReportKey = key
	i.IncrementVersion()
	return nil
}

// CanRenderReport reports whether there is anything worth printing yet
func (i *Inspection) CanRenderReport() bool {
	return i.Status == StatusActive || i.Status == StatusCompleted
}

// PendingCount returns the number of rooms without a result
func (i *Inspection) PendingCount() int {
	n := 0
	for _, r := range i.Rooms {
		if !r.Status.IsDispositioned() {
			n++
		}
	}
	return n
}

// Summary returns per-status room counts and the share of rooms with a result
func (i *Inspection) Summary() Summary {
	s := Summary{
		Total:    len(i.Rooms),
		ByStatus: make(map[RoomStatus]int, 4),
	}
	for _, st := range AllRoomStatuses() {
		s.ByStatus[st] = 0
	}
	for _, r := range i.Rooms {
		s.ByStatus[r.Status]++
	}
	s.Completion = decimal.Zero
	if s.Total > 0 {
		done := s.Total - s.ByStatus[RoomStatusPending]
		s.Completion = decimal.NewFromInt(int64(done)).
			Mul(decimal.NewFromInt(100)).
			DivRound(decimal.NewFromInt(int64(s.Total)), 2)
	}
	return s
}

// Summary aggregates the results of an inspection
type Summary struct {
	Total      int
	ByStatus   map[RoomStatus]int
	Completion decimal.Decimal // percentage of dispositioned rooms
}

func (i *Inspection) findRoom(roomID uuid.UUID) *InspectionRoom {
	for idx := range i.Rooms {
		if i.Rooms[idx].RoomID == roomID {
			return &i.Rooms[idx]
		}
	}
	return nil
}

func (i *Inspection) setRooms(targets []RoomTarget) error {
	seen := make(map[uuid.UUID]struct{}, len(targets))
	rooms := make([]InspectionRoom, 0, len(targets))
	for _, t := range targets {
		if t.RoomID == uuid.Nil {
			return shared.NewDomainError("INVALID_ROOM", "Room ID cannot be empty")
		}
		if _, dup := seen[t.RoomID]; dup {
			continue
		}
		seen[t.RoomID] = struct{}{}
		rooms = append(rooms, InspectionRoom{
			ID:           uuid.New(),
			InspectionID: i.ID,
			RoomID:       t.RoomID,
			RoomNumber:   t.RoomNumber,
			BuildingName: t.BuildingName,
			FloorNumber:  t.FloorNumber,
			Status:       RoomStatusPending,
		})
	}
	if len(rooms) == 0 {
		return shared.NewDomainError("INSPECTION_NO_ROOMS", "An inspection needs at least one room")
	}
	i.Rooms = rooms
	return nil
}

func validateDetails(name, description string, scheduledAt time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 120 {
		return shared.NewDomainError("INVALID_NAME", "Name must be between 1 and 120 characters")
	}
	if len(description) > 4000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 4000 characters")
	}
	if scheduledAt.IsZero() {
		return shared.NewDomainError("INVALID_SCHEDULE", "Scheduled time is required")
	}
	return nil
}
