package schedule

import (
	"context"
	"errors"
	"time"

	"shiftwatch/internal/overtime"
	"shiftwatch/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	Current(ctx context.Context) (*Response, error)
	UploadPDF(ctx context.Context, req PDFUploadRequest) (Response, error)
	UploadImage(ctx context.Context, req ImageUploadRequest) (Response, error)
	Manual(ctx context.Context, req ManualRequest) (Response, error)
	Delete(ctx context.Context, id string) error
	DayFor(ctx context.Context, date string) (start, end *string, err error)
}

type service struct {
	repo      Repository
	extractor Extractor
	now       func() time.Time
}

func NewService(repo Repository, extractor Extractor) Service {
	return &service{repo: repo, extractor: extractor, now: time.Now}
}

func (s *service) Current(ctx context.Context) (*Response, error) {
	row, err := s.repo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	resp := mapToResponse(*row)
	return &resp, nil
}

func (s *service) UploadPDF(ctx context.Context, req PDFUploadRequest) (Response, error) {
	days, err := s.extractor.ExtractPDF(ctx, req.PDFBase64)
	if err != nil {
		return Response{}, err
	}
	return s.store(ctx, req.Filename, days)
}

func (s *service) UploadImage(ctx context.Context, req ImageUploadRequest) (Response, error) {
	days, err := s.extractor.ExtractImage(ctx, req.ImageBase64)
	if err != nil {
		return Response{}, err
	}
	return s.store(ctx, "schedule_image.jpg", days)
}

func (s *service) Manual(ctx context.Context, req ManualRequest) (Response, error) {
	return s.store(ctx, "manual_entry", req.WorkDays)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.InvalidField("Schedule Id")
	}
	return s.repo.Delete(ctx, id)
}

// DayFor satisfies worksession.ScheduleLookup.
func (s *service) DayFor(ctx context.Context, date string) (*string, *string, error) {
	row, err := s.repo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	for _, d := range row.WorkDays {
		if d.Date == date {
			start, end := d.Start, d.End
			return &start, &end, nil
		}
	}
	return nil, nil, nil
}

func (s *service) store(ctx context.Context, sourceName string, days []WorkDay) (Response, error) {
	if err := validateWorkDays(days); err != nil {
		return Response{}, err
	}

	scheduleID := uuid.New()
	row := &Schedule{
		ID:         scheduleID,
		SourceName: sourceName,
		UploadedAt: s.now().UTC(),
		WorkDays:   make([]ScheduleDay, len(days)),
	}
	for i, d := range days {
		row.WorkDays[i] = ScheduleDay{
			ID:         uuid.New(),
			ScheduleID: scheduleID,
			Date:       d.Date,
			Start:      d.Start,
			End:        d.End,
		}
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return Response{}, err
	}
	return mapToResponse(*row), nil
}

func validateWorkDays(days []WorkDay) error {
	if len(days) == 0 {
		return apperror.RequiredField("Work Days")
	}
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		if _, err := time.Parse("2006-01-02", d.Date); err != nil {
			return apperror.InvalidField("Date")
		}
		if !overtime.ValidClock(d.Start) {
			return apperror.InvalidField("Start")
		}
		if !overtime.ValidClock(d.End) {
			return apperror.InvalidField("End")
		}
		if seen[d.Date] {
			return apperror.New(apperror.CodeInvalidInput,
				"Duplicate date in schedule: "+d.Date, 400)
		}
		seen[d.Date] = true
	}
	return nil
}
