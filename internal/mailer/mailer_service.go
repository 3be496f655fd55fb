package mailer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"shiftwatch/internal/events"
	"shiftwatch/internal/messaging/kafka"
	"shiftwatch/internal/settings"
	"shiftwatch/internal/shared/apperror"
	"shiftwatch/internal/shared/contextutil"
	"shiftwatch/internal/worksession"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sendLockTTL = 30 * time.Second

type Service interface {
	Send(ctx context.Context, sessionID string) error
}

type service struct {
	db           *sql.DB
	sessions     worksession.Repository
	settingsRepo settings.Repository
	outbox       kafka.OutboxRepository
	rdb          *redis.Client
	now          func() time.Time
}

func NewService(
	db *sql.DB,
	sessions worksession.Repository,
	settingsRepo settings.Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
) Service {
	return &service{
		db:           db,
		sessions:     sessions,
		settingsRepo: settingsRepo,
		outbox:       outbox,
		rdb:          rdb,
		now:          time.Now,
	}
}

var errSendInFlight = apperror.New(
	apperror.CodeConflict,
	"The overtime email for this session is already being sent",
	http.StatusConflict,
)

var errSessionStillActive = apperror.New(
	apperror.CodeInvalidState,
	"The work session has not been closed yet",
	http.StatusConflict,
)

var errNoRecipient = apperror.New(
	apperror.CodeInvalidState,
	"No recipient email is configured",
	http.StatusUnprocessableEntity,
)

// Send renders the overtime report for a closed session and enqueues it for
// the external delivery service. Concurrent sends for the same session are
// collapsed by a short-lived redis lock; email_sent and the outbox row are
// written in one transaction.
func (s *service) Send(ctx context.Context, sessionID string) error {
	if s.rdb != nil {
		lockKey := "email:send:" + sessionID
		acquired, err := s.rdb.SetNX(ctx, lockKey, "locked", sendLockTTL).Result()
		if err == nil && !acquired {
			return errSendInFlight
		}
		if err == nil {
			defer s.rdb.Del(context.WithoutCancel(ctx), lockKey)
		}
	}

	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	if sess.Active() {
		return errSessionStillActive
	}

	cfg, err := s.settingsRepo.Find(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		cfg = settings.NewDefaults()
	}
	if cfg.RecipientEmail == "" {
		return errNoRecipient
	}

	minutes := 0
	if sess.OvertimeMinutes != nil {
		minutes = *sess.OvertimeMinutes
	}
	fields := ReportFields{
		Date:            sess.Date.Format("2006-01-02"),
		StartTime:       sess.StartTime,
		EndTime:         sess.EndTime,
		OvertimeMinutes: minutes,
		PhotoCount:      len(sess.Photos),
	}

	photoIDs := make([]string, len(sess.Photos))
	for i, p := range sess.Photos {
		photoIDs[i] = p.ID.String()
	}

	event := events.OvertimeEmailRequestedEvent{
		EventType:       "overtime_email_requested",
		SessionID:       sess.ID.String(),
		RecipientEmail:  cfg.RecipientEmail,
		Subject:         Render(cfg.EmailSubject, fields),
		Body:            Render(cfg.EmailBodyTemplate, fields),
		PhotoIDs:        photoIDs,
		OvertimeMinutes: minutes,
		OccurredAt:      s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "work_session",
		AggregateID:   sess.ID.String(),
		EventType:     event.EventType,
		Topic:         events.OvertimeEmailRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outboxEvent); err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		return err
	}

	sess.EmailSent = true
	if err := s.sessions.WithTx(tx).Update(ctx, sess); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	contextutil.GetLogger(ctx, zap.L()).Info("overtime email queued",
		zap.String("session_id", sess.ID.String()),
		zap.Int("overtime_minutes", minutes),
		zap.Int("photo_count", len(sess.Photos)))
	return nil
}
