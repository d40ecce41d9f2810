package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

// Well-known metric names recorded by the storefront.
const (
	StoreOrderPlaced    = "store_order_placed"
	StoreOrderFailed    = "store_order_failed"
	StoreCartAdd        = "store_cart_add"
	StoreOrderStatusSet = "store_order_status_set"
	SystemCpuuse        = "system_cpuuse"
	SystemMemuse        = "system_memuse"
	ToughstoreCpuuse    = "toughstore_cpuuse"
	ToughstoreMemuse    = "toughstore_memuse"
)

var (
	storage tstorage.Storage
	mu      sync.RWMutex
)

// InitMetrics opens the embedded time-series storage under workdir.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(time.Hour*24*30),
	)
	if err != nil {
		return err
	}
	storage = s
	return nil
}

func insert(name string, value float64) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return
	}
	err := storage.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
	}})
	if err != nil {
		zap.L().Debug("metrics insert failed", zap.String("metric", name), zap.Error(err))
	}
}

// SetGauge records an instantaneous value for name.
func SetGauge(name string, value int64) {
	insert(name, float64(value))
}

// CounterIncr records a single occurrence of name.
func CounterIncr(name string) {
	insert(name, 1)
}

// Select returns the datapoints for name between start and end (unix seconds).
func Select(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return nil, nil
	}
	points, err := storage.Select(name, nil, start, end)
	if err == tstorage.ErrNoDataPoints {
		return nil, nil
	}
	return points, err
}

// Close flushes and closes the storage.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
