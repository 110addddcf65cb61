package lib

import (
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// EventStatsKey is the cache key for an event's check-in summary.
func EventStatsKey(eventID uint) string {
	return fmt.Sprintf("events:%d:stats", eventID)
}

// TicketCodeKey is the cache key for a ticket's rendered QR asset URL.
func TicketCodeKey(ticketID uint) string {
	return fmt.Sprintf("tickets:%d:code", ticketID)
}

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

func NewRedisClient(c *redis.Client) {
	redisClient = c
}
