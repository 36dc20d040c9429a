package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/infra"
	"github.com/danieln3m0/POSLas4as/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports how many events were dead
// lettered, in total and per event type. kafka is nil when publishing to Kafka is off.
func Health(db *gorm.DB, rdb *redis.Client, kafka *infra.KafkaPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		var dlq int64
		dlqByType := map[string]int64{}
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else {
			dlq, _ = worker.DLQLength(ctx, rdb)
			if byType, err := worker.DeadEventsByType(ctx, rdb); err == nil {
				dlqByType = byType
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":          status == http.StatusOK,
			"db":          dbStatus,
			"redis":       redisStatus,
			"dlq_events":  dlq,
			"dlq_by_type": dlqByType,
		}
		// an open breaker degrades event fan-out only, the API stays up
		if kafka != nil {
			body["kafka_circuit"] = kafka.BreakerState().String()
		}
		c.JSON(status, body)
	}
}
