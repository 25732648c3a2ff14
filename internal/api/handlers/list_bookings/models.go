package list_bookings

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// Статус проверяет сервис, здесь только разбор форматов.
func ToServiceRequest(r *http.Request) (*models.ListBookingsRequest, error) {
	query := r.URL.Query()
	req := &models.ListBookingsRequest{
		Search: strings.TrimSpace(query.Get("search")),
	}

	if status := query.Get("status"); status != "" {
		s := domain.BookingStatus(status)
		req.Status = &s
	}

	var err error
	for name, dst := range map[string]**int64{
		"service_id":  &req.ServiceID,
		"staff_id":    &req.StaffID,
		"resource_id": &req.ResourceID,
	} {
		if *dst, err = handlers.QueryID(r, name); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	if req.Date, err = handlers.QueryDate(r, "date"); err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	if req.StartDate, err = handlers.QueryDate(r, "start_date"); err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	if req.EndDate, err = handlers.QueryDate(r, "end_date"); err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}
	if req.Upcoming, err = handlers.QueryBool(r, "upcoming"); err != nil {
		return nil, fmt.Errorf("upcoming: %w", err)
	}

	return req, nil
}
