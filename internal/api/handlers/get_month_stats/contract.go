package get_month_stats

import (
	"context"

	getMonthStats "github.com/mkuznecov/zapisly/internal/usecase/get_month_stats"
)

type GetMonthStatsUseCase interface {
	Execute(ctx context.Context, req *getMonthStats.Request) (*getMonthStats.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
