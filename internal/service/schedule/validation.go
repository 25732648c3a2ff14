package schedule

import (
	"fmt"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/ptr"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

var validate = validation.New()

// validateHours проверяет каждую строку; ключи ошибок вида hours.2.close_time
func validateHours(req *models.UpdateHoursRequest) error {
	errs := validation.Errors{}
	if err := validate.Struct(req); err != nil {
		fields, ok := validation.Fields(err)
		if !ok {
			return err
		}
		for field, msg := range fields {
			errs.Add(field, msg)
		}
	}

	seen := make(map[int]bool, len(req.Hours))
	for i, row := range req.Hours {
		prefix := fmt.Sprintf("hours.%d.", i)

		if err := validate.Struct(row); err != nil {
			fields, ok := validation.Fields(err)
			if !ok {
				return err
			}
			for field, msg := range fields {
				errs.Add(prefix+field, msg)
			}
			continue
		}

		if seen[row.DayOfWeek] {
			errs.Add(prefix+"day_of_week", "day is listed twice")
			continue
		}
		seen[row.DayOfWeek] = true

		checkHoursRow(row, prefix, errs)
	}

	return errs.OrNil()
}

func checkHoursRow(row models.HoursRow, prefix string, errs validation.Errors) {
	open, closing := value(row.OpenTime), value(row.CloseTime)
	if row.IsOpen {
		if open.IsZero() {
			errs.Add(prefix+"open_time", "field is required when the day is open")
		}
		if closing.IsZero() {
			errs.Add(prefix+"close_time", "field is required when the day is open")
		}
		if !open.IsZero() && !closing.IsZero() && !closing.IsAfter(open) {
			errs.Add(prefix+"close_time", "must be after open_time")
		}
	}

	breakStart, breakEnd := value(row.BreakStart), value(row.BreakEnd)
	switch {
	case breakStart.IsZero() && breakEnd.IsZero():
		return
	case breakStart.IsZero() || breakEnd.IsZero():
		errs.Add(prefix+"break_start", "break_start and break_end must be set together")
		return
	case !breakEnd.IsAfter(breakStart):
		errs.Add(prefix+"break_end", "must be after break_start")
		return
	}

	if row.IsOpen && !open.IsZero() && !closing.IsZero() &&
		(breakStart.IsBefore(open) || breakEnd.IsAfter(closing)) {
		errs.Add(prefix+"break_start", "break must be inside opening hours")
	}
}

// validateOverride проверяет тип, парность времени и порядок
func validateOverride(req *models.CreateOverrideRequest) error {
	errs := validation.Errors{}
	if err := validate.Struct(req); err != nil {
		fields, ok := validation.Fields(err)
		if !ok {
			return err
		}
		for field, msg := range fields {
			errs.Add(field, msg)
		}
	}

	_, badStart := errs["start_time"]
	_, badEnd := errs["end_time"]
	if !badStart && !badEnd {
		start, end := value(req.StartTime), value(req.EndTime)
		switch {
		case start.IsZero() != end.IsZero():
			errs.Add("start_time", "start_time and end_time must be set together")
		case !start.IsZero() && !end.IsAfter(start):
			errs.Add("end_time", "must be after start_time")
		}
	}

	return errs.OrNil()
}

func value(s *string) types.TimeString {
	return types.TimeString(ptr.Value(s))
}
