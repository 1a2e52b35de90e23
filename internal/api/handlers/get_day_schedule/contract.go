package get_day_schedule

import (
	"context"

	getDaySchedule "github.com/mkuznecov/zapisly/internal/usecase/get_day_schedule"
)

type GetDayScheduleUseCase interface {
	Execute(ctx context.Context, req *getDaySchedule.Request) (*getDaySchedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
