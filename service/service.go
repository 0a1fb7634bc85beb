// Package service orchestrates the complaint lifecycle: intake, status
// transitions with history, citizen feedback, and the best-effort
// classification, push notification and event publishing around them.
package service

import (
	"context"
	"fmt"
	"time"

	"complaint-service/metrics"
	"complaint-service/models"

	"github.com/apex/log"
)

// ComplaintStore is the persistence interface the orchestrator depends on
type ComplaintStore interface {
	CreateComplaint(ctx context.Context, c *models.Complaint) (*models.Complaint, error)
	GetComplaint(ctx context.Context, seq int64) (*models.Complaint, error)
	ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
	ListNearby(ctx context.Context, lat, lng float64) ([]models.Complaint, error)
	AppendHistoryAndSetStatus(ctx context.Context, seq int64, entry models.HistoryEntry, newStatus models.Status, resolver *string) error
	SetFeedback(ctx context.Context, seq int64, rating int, text string) error
}

// ProfileStore resolves filer and resolver profiles
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
}

// Classifier suggests a label for an evidence image
type Classifier interface {
	Classify(ctx context.Context, image []byte) (*models.Classification, error)
}

// ImageLoader resolves a storage key to image bytes
type ImageLoader interface {
	Load(key string) ([]byte, error)
}

// Notifier queues a push notification for asynchronous delivery
type Notifier interface {
	Enqueue(token, title, body string) bool
}

// MailSender emails an officer about a newly assigned complaint
type MailSender interface {
	SendAssignmentNotice(recipient string, c *models.Complaint) error
}

// EventPublisher publishes complaint events for downstream consumers
type EventPublisher interface {
	PublishWithRoutingKey(routingKey string, message interface{}) error
}

// Options carries the optional collaborators. Any of them may be nil; the
// corresponding enrichment is then skipped.
type Options struct {
	Classifier Classifier
	Images     ImageLoader
	Notifier   Notifier
	Mail       MailSender
	Events     EventPublisher

	FiledRoutingKey  string
	StatusRoutingKey string
}

// ComplaintLifecycle coordinates the complaint workflow. Intake and
// transitions succeed or fail on persistence and input validity alone;
// classification, notification, email and event publishing are best-effort.
type ComplaintLifecycle struct {
	store    ComplaintStore
	profiles ProfileStore
	opts     Options
}

// NewComplaintLifecycle creates the orchestrator
func NewComplaintLifecycle(store ComplaintStore, profiles ProfileStore, opts Options) *ComplaintLifecycle {
	return &ComplaintLifecycle{
		store:    store,
		profiles: profiles,
		opts:     opts,
	}
}

// FileComplaint validates and persists a new complaint, then tries to
// classify the first evidence image. The classification result only rides
// on the response; the stored category is never rewritten.
func (l *ComplaintLifecycle) FileComplaint(ctx context.Context, req models.CreateComplaintRequest) (*models.CreateComplaintResponse, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	// Denormalize the filer's display name at creation time. A missing
	// profile falls back to the filer id, same as the mobile clients do.
	filerName := req.FilerID
	if profile, err := l.profiles.GetProfile(ctx, req.FilerID); err == nil {
		filerName = profile.Name
	} else {
		log.WithError(err).Warnf("Profile lookup failed for filer %s, using id as name", req.FilerID)
	}

	complaint := &models.Complaint{
		FilerID:     req.FilerID,
		FilerName:   filerName,
		Category:    req.Category,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
		Images:      req.Images,
	}

	stored, err := l.store.CreateComplaint(ctx, complaint)
	if err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	response := &models.CreateComplaintResponse{Complaint: stored}

	// Only the first image is classified; additional images are stored but
	// never sent to the model.
	if len(stored.Images) > 0 {
		response.Classification = l.classifyFirstImage(ctx, stored)
	}

	l.publishEvent(l.opts.FiledRoutingKey, models.ComplaintEvent{
		Seq:       stored.Seq,
		FilerID:   stored.FilerID,
		Category:  stored.Category,
		Status:    stored.Status,
		Actor:     stored.FilerID,
		Timestamp: stored.CreatedAt,
	})

	return response, nil
}

// UpdateStatus applies a status transition: it validates the status value,
// appends a history entry atomically with the status write, and afterwards
// notifies the filer's device if one is registered. Notification failure
// never affects the transition result.
func (l *ComplaintLifecycle) UpdateStatus(ctx context.Context, seq int64, req models.UpdateStatusRequest) (*models.Complaint, error) {
	if req.Status == "" {
		return nil, models.MissingField("status")
	}
	newStatus := models.Status(req.Status)
	if !newStatus.Valid() {
		return nil, &models.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", req.Status)}
	}

	actor := req.Actor
	if actor == "" {
		actor = "officer"
	}
	remark := req.Remark
	if remark == "" {
		remark = "Status updated"
	}

	entry := models.HistoryEntry{
		Status:    newStatus,
		Actor:     actor,
		Remark:    remark,
		Timestamp: time.Now().UTC(),
	}

	if err := l.store.AppendHistoryAndSetStatus(ctx, seq, entry, newStatus, req.AssignedResolver); err != nil {
		return nil, err
	}

	updated, err := l.store.GetComplaint(ctx, seq)
	if err != nil {
		return nil, fmt.Errorf("failed to reload complaint: %w", err)
	}

	l.notifyFiler(ctx, updated, req.Remark)

	if req.AssignedResolver != nil && *req.AssignedResolver != "" {
		l.notifyResolver(ctx, *req.AssignedResolver, updated)
	}

	l.publishEvent(l.opts.StatusRoutingKey, models.ComplaintEvent{
		Seq:       updated.Seq,
		FilerID:   updated.FilerID,
		Category:  updated.Category,
		Status:    updated.Status,
		Actor:     actor,
		Remark:    remark,
		Timestamp: entry.Timestamp,
	})

	return updated, nil
}

// SetFeedback records the citizen's rating and feedback text. Feedback is
// independent of status and appends no history.
func (l *ComplaintLifecycle) SetFeedback(ctx context.Context, seq int64, req models.FeedbackRequest) (*models.Complaint, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &models.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}

	if err := l.store.SetFeedback(ctx, seq, req.Rating, req.FeedbackText); err != nil {
		return nil, err
	}
	return l.store.GetComplaint(ctx, seq)
}

// GetComplaint returns one complaint with its history
func (l *ComplaintLifecycle) GetComplaint(ctx context.Context, seq int64) (*models.Complaint, error) {
	return l.store.GetComplaint(ctx, seq)
}

// ListByFiler returns the filer's complaints, newest first
func (l *ComplaintLifecycle) ListByFiler(ctx context.Context, filerID string) ([]models.Complaint, error) {
	return l.store.ListComplaints(ctx, models.ComplaintFilter{FilerID: filerID})
}

// ListByResolver returns complaints assigned to a resolver, newest first
func (l *ComplaintLifecycle) ListByResolver(ctx context.Context, resolver string) ([]models.Complaint, error) {
	return l.store.ListComplaints(ctx, models.ComplaintFilter{AssignedResolver: resolver})
}

// ListAll returns every complaint, newest first
func (l *ComplaintLifecycle) ListAll(ctx context.Context) ([]models.Complaint, error) {
	return l.store.ListComplaints(ctx, models.ComplaintFilter{})
}

// ListNearby returns complaints around the given coordinates
func (l *ComplaintLifecycle) ListNearby(ctx context.Context, lat, lng float64) ([]models.Complaint, error) {
	return l.store.ListNearby(ctx, lat, lng)
}

// classifyFirstImage loads and classifies the first evidence image. The
// complaint is already persisted; any failure here degrades the response
// payload only.
func (l *ComplaintLifecycle) classifyFirstImage(ctx context.Context, c *models.Complaint) *models.Classification {
	if l.opts.Classifier == nil || l.opts.Images == nil {
		return nil
	}

	image, err := l.opts.Images.Load(c.Images[0])
	if err != nil {
		metrics.ClassificationsTotal.WithLabelValues("load_error").Inc()
		log.WithError(err).Warnf("Failed to load image %s for complaint %d", c.Images[0], c.Seq)
		return nil
	}

	start := time.Now()
	result, err := l.opts.Classifier.Classify(ctx, image)
	metrics.ClassificationDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClassificationsTotal.WithLabelValues("error").Inc()
		log.WithError(err).Warnf("Classification unavailable for complaint %d", c.Seq)
		return nil
	}

	metrics.ClassificationsTotal.WithLabelValues("ok").Inc()
	return result
}

// notifyFiler queues a push notification about the status change. A missing
// profile or token is a no-op.
func (l *ComplaintLifecycle) notifyFiler(ctx context.Context, c *models.Complaint, remark string) {
	if l.opts.Notifier == nil {
		return
	}

	profile, err := l.profiles.GetProfile(ctx, c.FilerID)
	if err != nil {
		log.WithError(err).Warnf("Profile lookup failed for filer %s, skipping notification", c.FilerID)
		return
	}
	if profile.PushToken == "" {
		return
	}

	title := fmt.Sprintf("Complaint Status Update: %s", c.Status)
	body := fmt.Sprintf("Your complaint regarding %s is now %s.", c.Category, c.Status)
	if remark != "" {
		body += fmt.Sprintf(" Remark: %s", remark)
	}
	l.opts.Notifier.Enqueue(profile.PushToken, title, body)
}

// notifyResolver emails the newly assigned officer, off the request path
func (l *ComplaintLifecycle) notifyResolver(ctx context.Context, resolverID string, c *models.Complaint) {
	if l.opts.Mail == nil {
		return
	}

	profile, err := l.profiles.GetProfile(ctx, resolverID)
	if err != nil || profile.Email == "" {
		return
	}

	go func() {
		if err := l.opts.Mail.SendAssignmentNotice(profile.Email, c); err != nil {
			log.WithError(err).Warnf("Failed to send assignment notice for complaint %d", c.Seq)
		}
	}()
}

func (l *ComplaintLifecycle) publishEvent(routingKey string, event models.ComplaintEvent) {
	if l.opts.Events == nil || routingKey == "" {
		return
	}
	if err := l.opts.Events.PublishWithRoutingKey(routingKey, event); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
		log.WithError(err).Warnf("Failed to publish %s event for complaint %d", routingKey, event.Seq)
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues("ok").Inc()
}

func validateCreateRequest(req models.CreateComplaintRequest) error {
	if req.FilerID == "" {
		return models.MissingField("filer_id")
	}
	if req.Category == "" {
		return models.MissingField("category")
	}
	if req.Location == "" {
		return models.MissingField("location")
	}
	if req.Description == "" {
		return models.MissingField("description")
	}
	if len(req.Images) > models.MaxComplaintImages {
		return &models.ValidationError{Field: "images", Reason: fmt.Sprintf("at most %d images allowed", models.MaxComplaintImages)}
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return &models.ValidationError{Field: "coordinates", Reason: "latitude and longitude must be provided together"}
	}
	if req.Latitude != nil {
		if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
			return &models.ValidationError{Field: "coordinates", Reason: "out of range"}
		}
	}
	return nil
}
