package models

import (
	"time"
)

// MaxComplaintImages is the maximum number of evidence images per complaint
const MaxComplaintImages = 3

// Complaint represents a filed grievance
type Complaint struct {
	Seq              int64          `json:"seq" db:"seq"`
	FilerID          string         `json:"filer_id" db:"filer_id"`
	FilerName        string         `json:"filer_name" db:"filer_name"`
	Category         string         `json:"category" db:"category"`
	Location         string         `json:"location" db:"location"`
	Latitude         *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64       `json:"longitude,omitempty" db:"longitude"`
	Description      string         `json:"description" db:"description"`
	Images           []string       `json:"images" db:"-"`
	AssignedResolver string         `json:"assigned_resolver,omitempty" db:"assigned_resolver"`
	Status           Status         `json:"status" db:"status"`
	Rating           *int           `json:"rating,omitempty" db:"rating"`
	FeedbackText     string         `json:"feedback_text,omitempty" db:"feedback_text"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	History          []HistoryEntry `json:"history" db:"-"`
}

// HistoryEntry is one immutable record of a status-affecting change
type HistoryEntry struct {
	Status    Status    `json:"status" db:"status"`
	Actor     string    `json:"actor" db:"actor"`
	Remark    string    `json:"remark" db:"remark"`
	Timestamp time.Time `json:"timestamp" db:"ts"`
}

// Profile holds the externally owned filer/resolver profile fields the
// service reads: display name, contact email and the device push token.
type Profile struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Email     string `json:"email,omitempty" db:"email"`
	PushToken string `json:"push_token,omitempty" db:"push_token"`
}

// Classification is the advisory result from the image classification service
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// CreateComplaintRequest is the intake request payload
type CreateComplaintRequest struct {
	FilerID     string   `json:"filer_id"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Description string   `json:"description"`
	Images      []string `json:"images,omitempty"`
}

// CreateComplaintResponse is the intake response: the stored complaint plus
// an optional advisory classification of the first image
type CreateComplaintResponse struct {
	Complaint      *Complaint      `json:"complaint"`
	Classification *Classification `json:"classification,omitempty"`
}

// UpdateStatusRequest is the status transition request payload
type UpdateStatusRequest struct {
	Status           string  `json:"status"`
	Remark           string  `json:"remark,omitempty"`
	Actor            string  `json:"actor,omitempty"`
	AssignedResolver *string `json:"assigned_resolver,omitempty"`
}

// FeedbackRequest is the citizen feedback payload
type FeedbackRequest struct {
	Rating       int    `json:"rating"`
	FeedbackText string `json:"feedback_text,omitempty"`
}

// UpdatePushTokenRequest registers a device push token for a profile
type UpdatePushTokenRequest struct {
	ProfileID string `json:"profile_id"`
	PushToken string `json:"push_token"`
}

// ComplaintFilter narrows complaint listings; zero value means all complaints
type ComplaintFilter struct {
	FilerID          string
	AssignedResolver string
}

// ComplaintEvent is published to RabbitMQ after a complaint is filed or its
// status changes
type ComplaintEvent struct {
	Seq       int64     `json:"seq"`
	FilerID   string    `json:"filer_id"`
	Category  string    `json:"category"`
	Status    Status    `json:"status"`
	Actor     string    `json:"actor,omitempty"`
	Remark    string    `json:"remark,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the error payload returned by the HTTP layer
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a generic success payload
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}
