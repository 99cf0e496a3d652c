package grievances

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"civic-grievances/internal/domain/roles"
	"civic-grievances/internal/domain/status"
	"civic-grievances/internal/platform/logger"
	"civic-grievances/internal/ports/photos"
	"civic-grievances/internal/ports/realtime"
)

type PhotoInput struct {
	Filename    string
	ContentType string
	// Size declarado; el cuerpo se vuelve a medir al leerlo.
	Size int64
	Body io.Reader
}

type SubmitInput struct {
	Title       string
	Description string
	Category    Category
	Urgency     Urgency
	Latitude    *float64
	Longitude   *float64
	Address     string
	Photo       *PhotoInput
}

type SubmitResult struct {
	Grievance Grievance
	// PhotoDropped indica que la foto no pudo subirse y el reclamo se creó sin ella.
	PhotoDropped bool
}

// Normalize valida y completa defaults sin tocar colaboradores externos.
func (in SubmitInput) Normalize(maxPhoto int64) (SubmitInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)

	if in.Title == "" {
		return in, invalid("title", "required")
	}
	if in.Description == "" {
		return in, invalid("description", "required")
	}
	if in.Latitude == nil || in.Longitude == nil {
		return in, invalid("location", "latitude and longitude are required")
	}
	if !finite(*in.Latitude) || !finite(*in.Longitude) {
		return in, invalid("location", "coordinates must be finite numbers")
	}
	if *in.Latitude < -90 || *in.Latitude > 90 {
		return in, invalid("location", "latitude out of range")
	}
	if *in.Longitude < -180 || *in.Longitude > 180 {
		return in, invalid("location", "longitude out of range")
	}

	if in.Category == "" {
		in.Category = CategoryOther
	}
	if !in.Category.Valid() {
		return in, invalid("category", fmt.Sprintf("unknown category %q", in.Category))
	}
	if in.Urgency == "" {
		in.Urgency = UrgencyMedium
	}
	if !in.Urgency.Valid() {
		return in, invalid("urgency", fmt.Sprintf("unknown urgency %q", in.Urgency))
	}

	if p := in.Photo; p != nil {
		if maxPhoto <= 0 {
			maxPhoto = DefaultMaxPhotoBytes
		}
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(p.ContentType)), "image/") {
			return in, invalid("photo", "must be an image")
		}
		if p.Size > maxPhoto {
			return in, invalid("photo", fmt.Sprintf("exceeds %dMB", maxPhoto>>20))
		}
		if p.Body == nil {
			return in, invalid("photo", "empty file")
		}
	}
	return in, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// readPhoto mide el cuerpo real; el tamaño declarado puede mentir.
func readPhoto(p *PhotoInput, maxPhoto int64) (photos.File, error) {
	data, err := io.ReadAll(io.LimitReader(p.Body, maxPhoto+1))
	if err != nil {
		return photos.File{}, invalid("photo", "unreadable file")
	}
	if int64(len(data)) > maxPhoto {
		return photos.File{}, invalid("photo", fmt.Sprintf("exceeds %dMB", maxPhoto>>20))
	}
	if len(data) == 0 {
		return photos.File{}, invalid("photo", "empty file")
	}
	return photos.File{Name: p.Filename, ContentType: p.ContentType, Data: data}, nil
}

// FallbackAddress es la dirección cuando no hay una geocodificada.
func FallbackAddress(lat, lng float64) string {
	return fmt.Sprintf("Location at %.4f, %.4f", lat, lng)
}

// NewGrievance arma el registro inicial a partir de un input ya normalizado.
func NewGrievance(in SubmitInput, actor Actor, photoURL string, now time.Time) Grievance {
	lat, lng := *in.Latitude, *in.Longitude
	addr := in.Address
	if addr == "" {
		addr = FallbackAddress(lat, lng)
	}

	return Grievance{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Urgency:     in.Urgency,
		Location:    Location{Latitude: lat, Longitude: lng, Address: addr},
		PhotoURL:    photoURL,
		Status:      status.Submitted,
		StatusHistory: []StatusChange{{
			Status:    status.Submitted,
			Timestamp: now,
			By:        actor.ID,
			ByName:    actor.DisplayName(),
			Note:      initialNote,
		}},
		UserID:    actor.ID,
		UserName:  actor.DisplayName(),
		UserEmail: actor.Email,
		UserPhoto: actor.Photo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Submit valida todo antes de cualquier llamada externa. Si la subida de la
// foto falla, el reclamo se crea igual sin foto y PhotoDropped queda en true.
func (s *Service) Submit(ctx context.Context, actor Actor, in SubmitInput) (SubmitResult, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return SubmitResult{}, invalid("actor", "missing identity")
	}
	if !actor.Can(roles.ActionReport) {
		return SubmitResult{}, ErrForbidden
	}

	in, err := in.Normalize(s.maxPhoto)
	if err != nil {
		return SubmitResult{}, err
	}

	var file *photos.File
	if in.Photo != nil {
		f, err := readPhoto(in.Photo, s.maxPhoto)
		if err != nil {
			return SubmitResult{}, err
		}
		file = &f
	}

	log := s.logger(ctx)
	var photoURL string
	dropped := false
	if file != nil {
		if s.photos == nil {
			dropped = true
			log.Warn("photo store not configured, submitting without photo", logger.Fields{"user_id": actor.ID})
		} else if url, err := s.photos.Upload(ctx, actor.ID, *file); err != nil {
			dropped = true
			s.metrics.PhotoUploadFailed()
			log.Warn("photo upload failed, submitting without photo", logger.Fields{"user_id": actor.ID, "err": err})
		} else {
			photoURL = url
		}
	}

	g := NewGrievance(in, actor, photoURL, s.now())
	created, err := s.repo.Create(ctx, g)
	if err != nil {
		log.Error("grievance create failed", logger.Fields{"user_id": actor.ID, "err": err})
		return SubmitResult{}, fmt.Errorf("create grievance: %w", err)
	}

	s.metrics.SubmissionAccepted()
	log.Info("grievance submitted", logger.Fields{"id": created.ID, "category": created.Category, "urgency": created.Urgency})
	s.publish(ctx, realtime.KindCreated, created.ID)
	s.reindex(ctx, created)
	return SubmitResult{Grievance: created, PhotoDropped: dropped}, nil
}
