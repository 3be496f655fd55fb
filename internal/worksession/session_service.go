package worksession

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"shiftwatch/internal/overtime"
	"shiftwatch/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleLookup resolves the scheduled start/end clock times for a
// calendar day, if the current schedule covers it. Wired from the schedule
// feature by the registry so the packages stay decoupled.
type ScheduleLookup func(ctx context.Context, date string) (start, end *string, err error)

type Service interface {
	Start(ctx context.Context, req StartRequest) (SessionResponse, error)
	End(ctx context.Context, req EndRequest) (SessionResponse, error)
	Edit(ctx context.Context, req EditRequest) (SessionResponse, error)
	AttachPhoto(ctx context.Context, req PhotoRequest) (int, error)
	Active(ctx context.Context) (*SessionResponse, error)
	History(ctx context.Context, limit int) ([]SessionResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	schedule ScheduleLookup
	loc      *time.Location
	now      func() time.Time
}

func NewService(db *sql.DB, repo Repository, schedule ScheduleLookup, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{db: db, repo: repo, schedule: schedule, loc: loc, now: time.Now}
}

var errAlreadyActive = apperror.New(
	apperror.CodeInvalidState,
	"A work session is already active",
	http.StatusConflict,
)

var errAlreadyClosed = apperror.New(
	apperror.CodeConflict,
	"The work session is already closed",
	http.StatusConflict,
)

func (s *service) Start(ctx context.Context, req StartRequest) (SessionResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return SessionResponse{}, apperror.InvalidField("Date")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindActive(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return SessionResponse{}, err
	}
	if err == nil && existing != nil {
		return SessionResponse{}, errAlreadyActive
	}

	var scheduledStart, scheduledEnd *string
	if s.schedule != nil {
		scheduledStart, scheduledEnd, err = s.schedule(ctx, req.Date)
		if err != nil {
			return SessionResponse{}, err
		}
	}

	row := &WorkSession{
		ID:             uuid.New(),
		Date:           day,
		StartTime:      req.StartTimestamp,
		StartLatitude:  req.Latitude,
		StartLongitude: req.Longitude,
		ScheduledStart: scheduledStart,
		ScheduledEnd:   scheduledEnd,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return SessionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return SessionResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) End(ctx context.Context, req EndRequest) (SessionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, apperror.ErrNotFound
		}
		return SessionResponse{}, err
	}
	if !row.Active() {
		return SessionResponse{}, errAlreadyClosed
	}

	now := s.now().In(s.loc)
	minutes, err := overtime.ComputeMinutes(row.ScheduledEnd, now, row.Date, s.loc)
	if err != nil {
		return SessionResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"Failed to compute overtime", http.StatusInternalServerError)
	}

	row.EndTime = &now
	row.EndLatitude = &req.Latitude
	row.EndLongitude = &req.Longitude
	row.OvertimeMinutes = minutes

	if err := qtx.Update(ctx, row); err != nil {
		return SessionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return SessionResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Edit(ctx context.Context, req EditRequest) (SessionResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return SessionResponse{}, apperror.InvalidField("Date")
	}
	if !overtime.ValidClock(req.StartTime) {
		return SessionResponse{}, apperror.InvalidField("Start Time")
	}
	if req.EndTime != nil && !overtime.ValidClock(*req.EndTime) {
		return SessionResponse{}, apperror.InvalidField("End Time")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, apperror.ErrNotFound
		}
		return SessionResponse{}, err
	}

	start, err := overtime.ResolveClock(req.StartTime, day, s.loc)
	if err != nil {
		return SessionResponse{}, apperror.InvalidField("Start Time")
	}

	row.Date = day
	row.StartTime = start
	if req.EndTime != nil {
		end, err := overtime.ResolveClock(*req.EndTime, day, s.loc)
		if err != nil {
			return SessionResponse{}, apperror.InvalidField("End Time")
		}
		minutes, err := overtime.ComputeMinutes(row.ScheduledEnd, end, day, s.loc)
		if err != nil {
			return SessionResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
				"Failed to compute overtime", http.StatusInternalServerError)
		}
		row.EndTime = &end
		row.OvertimeMinutes = minutes
	} else {
		row.EndTime = nil
		row.OvertimeMinutes = nil
	}

	if err := qtx.Update(ctx, row); err != nil {
		return SessionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return SessionResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) AttachPhoto(ctx context.Context, req PhotoRequest) (int, error) {
	row, err := s.repo.FindByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperror.ErrNotFound
		}
		return 0, err
	}

	photo := &SessionPhoto{
		ID:        uuid.New(),
		SessionID: row.ID,
		Data:      req.PhotoBase64,
	}
	if err := s.repo.AddPhoto(ctx, photo); err != nil {
		return 0, err
	}
	return len(row.Photos) + 1, nil
}

func (s *service) Active(ctx context.Context) (*SessionResponse, error) {
	row, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	resp := mapToResponse(*row)
	return &resp, nil
}

func (s *service) History(ctx context.Context, limit int) ([]SessionResponse, error) {
	if limit <= 0 {
		limit = 30
	}
	if limit > 100 {
		limit = 100
	}
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	res := make([]SessionResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}
