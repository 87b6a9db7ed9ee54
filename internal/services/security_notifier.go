package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/models"
	"github.com/aryasetia/doorguard/internal/realtime"
	"github.com/aryasetia/doorguard/pkg/logger"
	"github.com/aryasetia/doorguard/pkg/mail"
	"github.com/aryasetia/doorguard/pkg/metrics"
)

// AlertBroadcast is the payload pushed to realtime subscribers of the
// security-alerts stream.
type AlertBroadcast struct {
	AlertID      string `json:"alert_id"`
	DoorName     string `json:"door_name"`
	DoorLocation string `json:"door_location"`
	AlertType    string `json:"alert_type"`
	Description  string `json:"description"`
	TriggeredAt  string `json:"triggered_at"`
}

type alertNotification struct {
	alert models.Alert
	door  models.Door
}

// SecurityNotifier fans a freshly created alert out to realtime subscribers
// and, by email, to every active admin. Delivery runs on a worker goroutine
// behind a buffered queue so a slow or failing SMTP server never delays or
// rolls back the alert itself.
type SecurityNotifier struct {
	db           *gorm.DB
	hub          *realtime.Hub
	mailer       mail.Mailer
	from         string
	dashboardURL string

	queue chan alertNotification
	wg    sync.WaitGroup
	once  sync.Once
	log   *zap.Logger
}

// NotifierOptions configures outbound alert delivery.
type NotifierOptions struct {
	Mailer       mail.Mailer
	From         string
	DashboardURL string
	QueueSize    int
}

// NewSecurityNotifier constructs a SecurityNotifier. The hub and mailer are
// both optional; whichever is nil is simply skipped at dispatch time.
func NewSecurityNotifier(db *gorm.DB, hub *realtime.Hub, opts NotifierOptions) (*SecurityNotifier, error) {
	if db == nil {
		return nil, errors.New("security notifier: db is required")
	}
	size := opts.QueueSize
	if size <= 0 {
		size = 64
	}
	return &SecurityNotifier{
		db:           db,
		hub:          hub,
		mailer:       opts.Mailer,
		from:         opts.From,
		dashboardURL: strings.TrimRight(opts.DashboardURL, "/"),
		queue:        make(chan alertNotification, size),
		log:          logger.WithModule("notifier"),
	}, nil
}

// Start launches the dispatch worker.
func (n *SecurityNotifier) Start() {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for item := range n.queue {
			n.dispatch(item)
		}
	}()
}

// Stop drains the queue and waits for in-flight deliveries to finish.
func (n *SecurityNotifier) Stop() {
	n.once.Do(func() { close(n.queue) })
	n.wg.Wait()
}

// Notify enqueues outbound delivery for the alert. It never blocks the
// caller; when the queue is full the notification is dropped and logged.
func (n *SecurityNotifier) Notify(alert models.Alert, door models.Door) {
	select {
	case n.queue <- alertNotification{alert: alert, door: door}:
	default:
		n.log.Warn("notification queue full, dropping alert dispatch",
			zap.String("alert_id", alert.ID))
	}
}

func (n *SecurityNotifier) dispatch(item alertNotification) {
	payload := AlertBroadcast{
		AlertID:      item.alert.ID,
		DoorName:     item.door.Name,
		DoorLocation: item.door.Location,
		AlertType:    item.alert.AlertType,
		Description:  item.alert.Description,
		TriggeredAt:  item.alert.TriggeredAt.UTC().Format(time.RFC3339),
	}

	if n.hub != nil {
		n.hub.BroadcastStream(realtime.StreamSecurityAlerts, realtime.Message{
			Event: "alert.raised",
			Data:  payload,
		})
	}

	n.emailAdmins(item, payload)
}

func (n *SecurityNotifier) emailAdmins(item alertNotification, payload AlertBroadcast) {
	if n.mailer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var admins []models.User
	if err := n.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleAdmin, true).
		Find(&admins).Error; err != nil {
		n.log.Error("load admin recipients", zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Security alert: unauthorized movement at %s", item.door.Name)
	body := n.renderAlertBody(payload)

	for _, admin := range admins {
		msg := mail.Message{
			From:    n.from,
			To:      []string{admin.Email},
			Subject: subject,
			Body:    body,
		}
		if err := n.mailer.Send(ctx, msg); err != nil {
			metrics.MailDispatches.WithLabelValues("failure").Inc()
			n.log.Error("send alert mail",
				zap.String("alert_id", item.alert.ID),
				zap.String("to", admin.Email),
				zap.Error(err))
			continue
		}
		metrics.MailDispatches.WithLabelValues("success").Inc()
	}
}

func (n *SecurityNotifier) renderAlertBody(payload AlertBroadcast) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Unauthorized movement was detected at %s (%s) on %s.\n\n",
		payload.DoorName, payload.DoorLocation, payload.TriggeredAt)
	b.WriteString(payload.Description)
	b.WriteString("\n")
	if n.dashboardURL != "" {
		fmt.Fprintf(&b, "\nReview the alert: %s/alerts/%s\n", n.dashboardURL, payload.AlertID)
	}
	return b.String()
}
