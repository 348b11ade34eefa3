package notification

import (
	"context"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dining-status-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender sends through the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Job announces a location's new status to its subscribers.
type Job struct {
	LocationID int64
	Status     string
}

// Payload is the JSON body delivered to the browser.
type Payload struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	LocationID int64  `json:"locationId"`
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Job
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
	log     *zap.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options, log *zap.Logger) *WorkerPool {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log.Named("notification"),
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log := wp.log.With(zap.Int("worker", id))
	log.Debug("worker started")
	for {
		select {
		case job := <-wp.jobs:
			log.Debug("processing location", zap.Int64("location_id", job.LocationID))
			wp.notifySubscribers(ctx, job)
		case <-ctx.Done():
			log.Debug("worker shutting down")
			return
		}
	}
}

// Dispatch queues a job, blocking while the queue is full. It gives up and
// returns ctx.Err() once ctx is done.
func (wp *WorkerPool) Dispatch(ctx context.Context, job Job) error {
	select {
	case wp.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

func (wp *WorkerPool) notifySubscribers(ctx context.Context, job Job) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_location_mapping slm ON slm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("slm.location_id = ?", job.LocationID).
		Find(&subscriptions).Error
	if err != nil {
		wp.log.Error("failed to fetch subscriptions", zap.Int64("location_id", job.LocationID), zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	title := strconv.FormatInt(job.LocationID, 10)
	var location model.Location
	if err := wp.db.WithContext(ctx).Select("name").First(&location, job.LocationID).Error; err != nil {
		wp.log.Warn("failed to fetch location name", zap.Int64("location_id", job.LocationID), zap.Error(err))
	} else if location.Name != "" {
		title = location.Name
	}

	payload, err := json.Marshal(Payload{Title: title, Body: job.Status, LocationID: job.LocationID})
	if err != nil {
		wp.log.Error("failed to encode payload", zap.Error(err))
		return
	}

	wp.log.Info("sending notifications",
		zap.Int64("location_id", job.LocationID), zap.Int("subscriptions", len(subscriptions)))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Warn("failed to send notification", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.log.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.db.WithContext(ctx).Select(clause.Associations).Delete(&sub).Error; err != nil {
			wp.log.Error("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}
