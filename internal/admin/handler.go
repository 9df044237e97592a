// AngelaMos | 2026
// handler.go

// Package admin serves the PlatformOwner operations view: connection
// pools, process runtime and the platform-wide tenant census.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
	"github.com/carterperez-dev/guardops/internal/middleware"
	"github.com/carterperez-dev/guardops/internal/tenant"
)

const pingTimeout = 2 * time.Second

// TenantCensus reports tenant and user totals across the platform.
type TenantCensus interface {
	Summary(ctx context.Context) (*tenant.Summary, error)
}

type Handler struct {
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	dbPing     func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
	tenants    TenantCensus
	started    time.Time
}

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
	Tenants    TenantCensus
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		dbPing:     cfg.DBPing,
		redisPing:  cfg.RedisPing,
		tenants:    cfg.Tenants,
		started:    time.Now(),
	}
}

// RegisterRoutes mounts /stats under an authenticated /platform group.
func (h *Handler) RegisterRoutes(r chi.Router, rec middleware.DenialRecorder) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePolicy(authz.PlatformOwnerOnly, rec))

		r.Get("/stats", h.PlatformStats)
		r.Get("/stats/runtime", h.RuntimeStats)
	})
}

func (h *Handler) PlatformStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := PlatformStatsResponse{
		Database: DatabaseStatus{
			Healthy: ping(ctx, h.dbPing),
			Stats:   h.poolStats(),
		},
		Redis: RedisStatus{
			Healthy: ping(ctx, h.redisPing),
			Stats:   h.cacheStats(),
		},
		Runtime: h.runtime(),
	}

	if h.tenants != nil {
		summary, err := h.tenants.Summary(ctx)
		if err != nil {
			core.InternalServerError(w, fmt.Errorf("tenant census: %w", err))
			return
		}
		resp.Tenants = summary
	}

	core.OK(w, resp)
}

func (h *Handler) RuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.runtime())
}

func ping(ctx context.Context, fn func(context.Context) error) bool {
	if fn == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return fn(ctx) == nil
}

func (h *Handler) runtime() Runtime {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return Runtime{
		GoVersion:    runtime.Version(),
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		HeapAlloc:    mem.HeapAlloc,
		Sys:          mem.Sys,
		NumGC:        mem.NumGC,
	}
}

func (h *Handler) poolStats() *DBPool {
	if h.dbStats == nil {
		return nil
	}

	s := h.dbStats()
	return &DBPool{
		MaxOpen:      s.MaxOpenConnections,
		Open:         s.OpenConnections,
		InUse:        s.InUse,
		Idle:         s.Idle,
		WaitCount:    s.WaitCount,
		WaitDuration: s.WaitDuration.String(),
	}
}

func (h *Handler) cacheStats() *RedisPool {
	if h.redisStats == nil {
		return nil
	}

	s := h.redisStats()
	if s == nil {
		return nil
	}
	return &RedisPool{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
	}
}

type PlatformStatsResponse struct {
	Database DatabaseStatus  `json:"database"`
	Redis    RedisStatus     `json:"redis"`
	Runtime  Runtime         `json:"runtime"`
	Tenants  *tenant.Summary `json:"tenants,omitempty"`
}

type DatabaseStatus struct {
	Healthy bool    `json:"healthy"`
	Stats   *DBPool `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool       `json:"healthy"`
	Stats   *RedisPool `json:"stats,omitempty"`
}

type DBPool struct {
	MaxOpen      int    `json:"max_open_connections"`
	Open         int    `json:"open_connections"`
	InUse        int    `json:"in_use"`
	Idle         int    `json:"idle"`
	WaitCount    int64  `json:"wait_count"`
	WaitDuration string `json:"wait_duration"`
}

type RedisPool struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type Runtime struct {
	GoVersion    string `json:"go_version"`
	Uptime       string `json:"uptime"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	HeapAlloc    uint64 `json:"heap_alloc_bytes"`
	Sys          uint64 `json:"sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
