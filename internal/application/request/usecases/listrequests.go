package usecases

import (
	"context"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type ListRequestsQuery struct {
	CustomerName *string
	Status       *string
	Page         int
	PageSize     int
}

type RequestDTO struct {
	ID           uint      `json:"id"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	PackageName  string    `json:"package"`
	CustomDomain string    `json:"custom_domain,omitempty"`
	RequestDate  time.Time `json:"request_date"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	AdminNotes   string    `json:"admin_notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListRequestsResult struct {
	Requests []RequestDTO `json:"requests"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

type ListRequestsUseCase struct {
	requestRepo request.Repository
	logger      logger.Interface
}

func NewListRequestsUseCase(requestRepo request.Repository, logger logger.Interface) *ListRequestsUseCase {
	return &ListRequestsUseCase{
		requestRepo: requestRepo,
		logger:      logger,
	}
}

func (uc *ListRequestsUseCase) Execute(ctx context.Context, query ListRequestsQuery) (*ListRequestsResult, error) {
	filter := request.Filter{
		CustomerName: query.CustomerName,
		Page:         query.Page,
		PageSize:     query.PageSize,
	}
	if query.Status != nil {
		status, err := request.NewStatus(*query.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	requests, total, err := uc.requestRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list customer requests", "error", err)
		return nil, err
	}

	dtos := make([]RequestDTO, 0, len(requests))
	for _, req := range requests {
		dtos = append(dtos, toRequestDTO(req))
	}

	return &ListRequestsResult{
		Requests: dtos,
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

func toRequestDTO(req *request.CustomerRequest) RequestDTO {
	return RequestDTO{
		ID:           req.ID(),
		CustomerName: req.CustomerName(),
		Email:        req.Email(),
		PackageName:  req.PackageName(),
		CustomDomain: req.CustomDomain(),
		RequestDate:  req.RequestDate(),
		Status:       req.Status().String(),
		Notes:        req.Notes(),
		AdminNotes:   req.AdminNotes(),
		CreatedAt:    req.CreatedAt(),
	}
}
