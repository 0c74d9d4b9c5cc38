package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tucktruck/tucktruck-backend/internal/models"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	if _, err = RedisClient.Ping(ctx).Result(); err != nil {
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// ErrRedisUnavailable is returned by the cache helpers when no Redis
// connection was established at startup.
var ErrRedisUnavailable = fmt.Errorf("redis is not available")

// SetDriverLocation caches a driver's last known position
func SetDriverLocation(ctx context.Context, driverID uint, lat, lng float64) error {
	if RedisClient == nil {
		return ErrRedisUnavailable
	}
	locationData := map[string]interface{}{
		"lat":     lat,
		"lng":     lng,
		"updated": time.Now().Unix(),
	}

	data, err := json.Marshal(locationData)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("driver:location:%d", driverID)
	return RedisClient.Set(ctx, key, data, time.Hour).Err()
}

// GetDriverLocation retrieves a driver's cached position
func GetDriverLocation(ctx context.Context, driverID uint) (lat, lng float64, err error) {
	if RedisClient == nil {
		return 0, 0, ErrRedisUnavailable
	}
	key := fmt.Sprintf("driver:location:%d", driverID)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	var locationData map[string]interface{}
	if err := json.Unmarshal([]byte(data), &locationData); err != nil {
		return 0, 0, err
	}

	lat, _ = locationData["lat"].(float64)
	lng, _ = locationData["lng"].(float64)

	return lat, lng, nil
}

// RedisLocationPublisher relays persisted location samples through Redis:
// it refreshes the driver's cached position and publishes the sample on the
// booking's channel so other instances can fan it out. Failures are logged
// and never surface to the caller; the sample is already durable.
type RedisLocationPublisher struct{}

func (RedisLocationPublisher) PublishLocation(ctx context.Context, sample models.Location) {
	if RedisClient == nil {
		return
	}

	if err := SetDriverLocation(ctx, sample.DriverID, sample.Latitude, sample.Longitude); err != nil {
		log.Printf("Failed to cache driver %d location: %v", sample.DriverID, err)
	}

	data, err := json.Marshal(sample)
	if err != nil {
		log.Printf("Error marshaling location sample: %v", err)
		return
	}

	channel := fmt.Sprintf("booking:location:%d", sample.BookingID)
	if err := RedisClient.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("Failed to publish location for booking %d: %v", sample.BookingID, err)
	}
}
