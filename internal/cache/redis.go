package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for the debtor read models. These are invalidated on every
// write that changes open debt, so a hit is always current.
const (
	DebtorSummariesKey  = "debtors:summaries"
	ReceiptSummariesKey = "debtors:receipts"
	StatementKeyFmt     = "statement:customer:%d"
)

const summaryTTL = 5 * time.Minute

var client *redis.Client

// Init initializes the Redis connection. A failed connection leaves the
// client nil and every cache call becomes a no-op.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, nil when degraded
func GetClient() *redis.Client {
	return client
}

// Get returns the cached bytes for key if present
func Get(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set caches bytes under key with the summary TTL
func Set(ctx context.Context, key string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, summaryTTL)
}

// StatementKey builds the cache key for one customer's statement PDF
func StatementKey(customerID int) string {
	return fmt.Sprintf(StatementKeyFmt, customerID)
}

// InvalidateDebtData drops every cached debt read model. Called after any
// payment or checkout; the next read rebuilds from canonical rows.
func InvalidateDebtData(ctx context.Context, customerID int) {
	if client == nil {
		return
	}
	client.Del(ctx, DebtorSummariesKey, ReceiptSummariesKey, StatementKey(customerID))
}
