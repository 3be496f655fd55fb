package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Service interface {
	Get(ctx context.Context) (Response, error)
	Update(ctx context.Context, req UpdateRequest) (Response, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context) (Response, error) {
	row, err := s.repo.Find(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = NewDefaults()
			if err := s.repo.Create(ctx, row); err != nil {
				return Response{}, err
			}
			return mapToResponse(*row), nil
		}
		return Response{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (Response, error) {
	row, err := s.repo.Find(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Response{}, err
		}
		row = NewDefaults()
		if err := s.repo.Create(ctx, row); err != nil {
			return Response{}, err
		}
	}

	applyUpdate(row, req)

	if err := s.repo.Save(ctx, row); err != nil {
		return Response{}, err
	}
	return mapToResponse(*row), nil
}

func applyUpdate(row *Settings, req UpdateRequest) {
	if req.ReminderIntervalMinutes != nil {
		row.ReminderIntervalMinutes = *req.ReminderIntervalMinutes
	}
	if req.ReminderDurationSeconds != nil {
		row.ReminderDurationSeconds = *req.ReminderDurationSeconds
	}
	if req.EndOfDayReminderMinutes != nil {
		row.EndOfDayReminderMinutes = *req.EndOfDayReminderMinutes
	}
	if req.OvertimeThresholdMinutes != nil {
		row.OvertimeThresholdMinutes = *req.OvertimeThresholdMinutes
	}
	if req.GeofenceRadiusMeters != nil {
		row.GeofenceRadiusMeters = *req.GeofenceRadiusMeters
	}
	if req.AutoSendEmailOnGeofence != nil {
		row.AutoSendEmailOnGeofence = *req.AutoSendEmailOnGeofence
	}
	if req.WorkLocation != nil {
		lat := req.WorkLocation.Latitude
		lon := req.WorkLocation.Longitude
		radius := req.WorkLocation.Radius
		row.WorkLatitude = &lat
		row.WorkLongitude = &lon
		row.WorkRadiusMeters = &radius
	} else if req.ClearWorkLocation {
		row.WorkLatitude = nil
		row.WorkLongitude = nil
		row.WorkRadiusMeters = nil
	}
	if req.RecipientEmail != nil {
		row.RecipientEmail = *req.RecipientEmail
	}
	if req.EmailSubject != nil {
		row.EmailSubject = *req.EmailSubject
	}
	if req.EmailBodyTemplate != nil {
		row.EmailBodyTemplate = *req.EmailBodyTemplate
	}
}
