package ports

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

type LoggerPort interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	WithContext(ctx context.Context) LoggerPort
}

type MetricsPort interface {
	RecordMetrics(c *gin.Context, start time.Time)
	RecordRepositoryOp(op string, start time.Time, err error)
}
