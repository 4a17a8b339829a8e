package api

import (
	"errors"
	"log/slog"
	"net/http"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/storage"
	"portfolio-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type BackendService struct {
	db      *gorm.DB
	objects storage.ObjectStore
}

func NewBackendService(db *gorm.DB, objects storage.ObjectStore) *BackendService {
	return &BackendService{db: db, objects: objects}
}

func (s *BackendService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Route("/api", func(r chi.Router) {
		r.Route("/history", func(r chi.Router) {
			r.Post("/", CreatedHandler(s.CreateHistory))
			r.Get("/", RestHandler(s.ListHistory))
			r.Get("/{id}", RestHandler(s.GetHistory))
		})
		r.Route("/profile", func(r chi.Router) {
			r.Get("/", RestHandler(s.GetProfile))
			r.Put("/", RestHandler(s.UpdateProfile))
		})
		r.Post("/feedback", CreatedHandler(s.CreateFeedback))
	})
}

func (s *BackendService) CreateHistory(r *http.Request) (any, error) {
	req, err := ParseRequest[api.CreateHistoryRequest](r)
	if err != nil {
		return nil, err
	}

	if req.Title == "" || req.Message == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "title and message are required")
	}

	record := database.History{Title: req.Title, Message: req.Message}
	if err := s.db.WithContext(r.Context()).Create(&record).Error; err != nil {
		slog.Error("error creating history record", "error", err)
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	return api.CreateHistoryResponse{Id: record.Id, Title: record.Title, Message: record.Message}, nil
}

func (s *BackendService) ListHistory(r *http.Request) (any, error) {
	var rows []database.History
	if err := s.db.WithContext(r.Context()).Order("created_at DESC").Find(&rows).Error; err != nil {
		slog.Error("error listing history records", "error", err)
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	records := make([]api.History, len(rows))
	for i, row := range rows {
		records[i] = api.History{Id: row.Id, Title: row.Title, Message: row.Message, CreatedAt: row.CreatedAt}
	}

	return records, nil
}

func (s *BackendService) GetHistory(r *http.Request) (any, error) {
	id, err := URLParamInt(r, "id")
	if err != nil {
		return nil, err
	}

	var row database.History
	if err := s.db.WithContext(r.Context()).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The exact message is part of the client contract, odd
			// wording included.
			return nil, CodedErrorf(http.StatusNotFound, "Tidak memiliki akses")
		}
		slog.Error("error getting history record", "id", id, "error", err)
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	return api.History{Id: row.Id, Title: row.Title, Message: row.Message, CreatedAt: row.CreatedAt}, nil
}

func (s *BackendService) GetProfile(r *http.Request) (any, error) {
	var row database.Profile
	if err := s.db.WithContext(r.Context()).First(&row, database.ProfileRowId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "profile not found")
		}
		slog.Error("error getting profile", "error", err)
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	profile := api.Profile{Id: row.Id, Name: row.Name}
	if row.ProfilePictureUrl.Valid {
		profile.ProfilePictureUrl = &row.ProfilePictureUrl.String
	}

	return profile, nil
}

func (s *BackendService) CreateFeedback(r *http.Request) (any, error) {
	req, err := ParseRequest[api.CreateFeedbackRequest](r)
	if err != nil {
		return nil, err
	}

	if req.Comment == "" || req.Rating == 0 {
		return nil, CodedErrorf(http.StatusBadRequest, "comment and rating are required")
	}
	if req.Rating < 1 || req.Rating > 4 {
		return nil, CodedErrorf(http.StatusBadRequest, "rating must be between 1 and 4")
	}

	record := database.Feedback{Comment: req.Comment, Rating: req.Rating}
	if err := s.db.WithContext(r.Context()).Create(&record).Error; err != nil {
		slog.Error("error creating feedback record", "error", err)
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	return api.CreateFeedbackResponse{Id: record.Id, Comment: record.Comment, Rating: record.Rating}, nil
}
