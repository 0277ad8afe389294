package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pusher delivers a payload to a connected user, reporting whether anyone
// was listening.
type Pusher interface {
	Push(userID uuid.UUID, payload any) bool
}

type Mailer interface {
	Send(ctx context.Context, toName, toEmail, subject, htmlContent string) error
}

// NotificationService persists in-app notifications and fans them out over
// websocket and email.
type NotificationService struct {
	DB     *gorm.DB
	Pusher Pusher
	Mailer Mailer
	Log    *zap.Logger

	// async controls whether email is sent on a background goroutine.
	async bool
}

func NewNotificationService(db *gorm.DB, pusher Pusher, mailer Mailer, log *zap.Logger) *NotificationService {
	return &NotificationService{DB: db, Pusher: pusher, Mailer: mailer, Log: nopLogger(log), async: true}
}

type NotificationList struct {
	Data []models.Notification `json:"data"`
	Meta utils.Meta            `json:"meta"`
}

var notificationSubjects = map[models.NotificationType]string{
	models.NotificationBookingCreated:     "New session request",
	models.NotificationBookingConfirmed:   "Your session is confirmed",
	models.NotificationBookingCancelled:   "Session cancelled",
	models.NotificationBookingCompleted:   "Session completed",
	models.NotificationBookingRescheduled: "Session rescheduled",
	models.NotificationSessionReminder:    "Reminder: your session starts soon",
}

func (s *NotificationService) Notify(ctx context.Context, recipientID uuid.UUID, kind models.NotificationType, bookingID *uuid.UUID, message string) error {
	n := models.Notification{
		RecipientID: recipientID,
		Type:        kind,
		BookingID:   bookingID,
		Message:     message,
	}
	if err := s.DB.WithContext(ctx).Create(&n).Error; err != nil {
		return dbError(err, "store notification")
	}

	if s.Pusher != nil && s.Pusher.Push(recipientID, n) {
		s.Log.Debug("Notification pushed", zap.String("user_id", recipientID.String()), zap.String("type", string(kind)))
	}

	if s.Mailer != nil {
		var user models.User
		if err := s.DB.WithContext(ctx).Select("id", "full_name", "email").First(&user, "id = ?", recipientID).Error; err != nil {
			s.Log.Warn("Notification recipient not found for email", zap.String("user_id", recipientID.String()), zap.Error(err))
			return nil
		}
		subject := notificationSubjects[kind]
		if subject == "" {
			subject = "MindCare update"
		}
		body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", html.EscapeString(user.FullName), html.EscapeString(message))
		send := func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.Mailer.Send(sendCtx, user.FullName, user.Email, subject, body); err != nil {
				s.Log.Warn("Notification email failed", zap.String("user_id", recipientID.String()), zap.Error(err))
			}
		}
		if s.async {
			go send()
		} else {
			send()
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, actor Actor, unreadOnly bool, page utils.Page) (*NotificationList, error) {
	page = page.Normalize()
	query := func() *gorm.DB {
		q := s.DB.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", actor.UserID)
		if unreadOnly {
			q = q.Where("read_at IS NULL")
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, dbError(err, "count notifications")
	}
	items := []models.Notification{}
	if err := query().Order("created_at desc").Offset(page.Offset()).Limit(page.Limit).Find(&items).Error; err != nil {
		return nil, dbError(err, "list notifications")
	}
	return &NotificationList{Data: items, Meta: utils.BuildMeta(total, page)}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := s.DB.WithContext(ctx).First(&n, "id = ?", id).Error
	if isNotFound(err) {
		return nil, utils.NotFoundError("Notification not found")
	}
	if err != nil {
		return nil, dbError(err, "load notification")
	}
	if n.RecipientID != actor.UserID {
		return nil, utils.ForbiddenError("You cannot modify this notification")
	}
	if n.ReadAt == nil {
		now := time.Now()
		n.ReadAt = &now
		if err := s.DB.WithContext(ctx).Model(&n).Update("read_at", now).Error; err != nil {
			return nil, dbError(err, "mark notification read")
		}
	}
	return &n, nil
}
