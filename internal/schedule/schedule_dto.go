package schedule

import "time"

type WorkDay struct {
	Date  string `json:"date" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type PDFUploadRequest struct {
	PDFBase64 string `json:"pdf_base64" binding:"required"`
	Filename  string `json:"filename" binding:"required"`
}

type ImageUploadRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

type ManualRequest struct {
	WorkDays []WorkDay `json:"work_days" binding:"required,min=1,dive"`
}

type Response struct {
	ID         string    `json:"id"`
	SourceName string    `json:"source_name"`
	UploadedAt time.Time `json:"uploaded_at"`
	WorkDays   []WorkDay `json:"work_days"`
}

func mapToResponse(s Schedule) Response {
	days := make([]WorkDay, len(s.WorkDays))
	for i, d := range s.WorkDays {
		days[i] = WorkDay{Date: d.Date, Start: d.Start, End: d.End}
	}
	return Response{
		ID:         s.ID.String(),
		SourceName: s.SourceName,
		UploadedAt: s.UploadedAt,
		WorkDays:   days,
	}
}
