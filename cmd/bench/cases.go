// README: Smoke-check cases; environment, schema, endpoint contract, and load checks.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.httpc.Do(req)
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "FAIL", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "pass -apply-migration to enable"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if _, err := r.db.Exec(ctx, string(sql)); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Schema: bookings and blocked_slots exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				for _, table := range []string{"bookings", "blocked_slots"} {
					var reg *string
					err := r.db.QueryRow(ctx, "SELECT to_regclass($1)::text", table).Scan(&reg)
					if err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					if reg == nil {
						return Result{Status: "FAIL", Note: table + " missing"}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "HTTP: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/health", nil)
				resp, err := r.httpc.Do(req)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return Result{Status: "FAIL", Note: resp.Status}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},
		{
			Name: "HTTP: quote rejects missing address",
			Run: func(ctx context.Context, r *Runner) Result {
				resp, err := r.postJSON(ctx, "/api/quote", map[string]string{"pickup": "", "dropoff": "somewhere"})
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusBadRequest {
					return Result{Status: "FAIL", Note: "want 400, got " + resp.Status}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "HTTP: booking rejects missing address",
			Run: func(ctx context.Context, r *Runner) Result {
				resp, err := r.postJSON(ctx, "/api/bookings", map[string]string{"pickup": " ", "dropoff": ""})
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusBadRequest {
					return Result{Status: "FAIL", Note: "want 400, got " + resp.Status}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "HTTP: blocked list responds",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/api/blocked?rideDate="+date, nil)
				resp, err := r.httpc.Do(req)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				defer resp.Body.Close()
				body, _ := io.ReadAll(resp.Body)
				if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "blocked") {
					return Result{Status: "FAIL", Note: resp.Status}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},
		{
			Name: "HTTP: webhook rejects unsigned payload",
			Run: func(ctx context.Context, r *Runner) Result {
				resp, err := r.postJSON(ctx, "/api/stripe-webhook", map[string]string{"id": "evt_fake"})
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusBadRequest {
					return Result{Status: "FAIL", Note: "want 400, got " + resp.Status}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Load: concurrent blocked lookups",
			Run:  runBlockedLoad,
		},
	}
}

// runBlockedLoad hammers the cheapest DB-backed endpoint with cfg.Concurrency
// workers for cfg.Duration and fails on any non-200.
func runBlockedLoad(ctx context.Context, r *Runner) Result {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Duration)
	defer cancel()

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	url := r.cfg.BaseURL + "/api/blocked?rideDate=" + date

	var total, failed, latencySum atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				start := time.Now()
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
				resp, err := r.httpc.Do(req)
				if ctx.Err() != nil {
					return
				}
				total.Add(1)
				latencySum.Add(int64(time.Since(start)))
				if err != nil || resp.StatusCode != http.StatusOK {
					failed.Add(1)
				}
				if resp != nil {
					_, _ = io.Copy(io.Discard, resp.Body)
					_ = resp.Body.Close()
				}
			}
		}()
	}
	wg.Wait()

	n := total.Load()
	if n == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	avg := time.Duration(latencySum.Load() / n)
	note := fmt.Sprintf("%d reqs, %d failed, avg %s", n, failed.Load(), avg)
	if failed.Load() > 0 {
		return Result{Status: "FAIL", Note: note}
	}
	return Result{Status: "PASS", Latency: avg, Note: note}
}
