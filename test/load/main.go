package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Netflix/go-env"
	"github.com/nimasrn/bizledger/pkg/worker"
	"github.com/valyala/fasthttp"
)

type loadConfig struct {
	BaseURL           string `env:"TARGET_URL,default=http://localhost:5000"`
	RequestsPerSecond int    `env:"REQUESTS_PER_SECOND,default=200"`
	DurationSeconds   int    `env:"DURATION_SECONDS,default=10"`
	ConcurrentWorkers int    `env:"CONCURRENT_WORKERS,default=50"`
	Email             string `env:"LOAD_USER_EMAIL,default=load@example.com"`
	Password          string `env:"LOAD_USER_PASSWORD,default=load-secret"`
}

type stats struct {
	successCount  atomic.Int64
	errorCount    atomic.Int64
	responseTimes []float64
	mu            sync.Mutex
}

func (s *stats) record(d time.Duration, ok bool) {
	if ok {
		s.successCount.Add(1)
	} else {
		s.errorCount.Add(1)
	}
	s.mu.Lock()
	s.responseTimes = append(s.responseTimes, d.Seconds())
	s.mu.Unlock()
}

func (s *stats) sortedTimes() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	times := make([]float64, len(s.responseTimes))
	copy(times, s.responseTimes)
	sort.Float64s(times)
	return times
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

type client struct {
	http  *fasthttp.Client
	base  string
	token string
}

func (c *client) call(method, path string, body any) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.base + path)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(b)
	}

	if err := c.http.DoTimeout(req, resp, 30*time.Second); err != nil {
		return 0, nil, err
	}
	return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
}

// authenticate registers the load user, falling back to login when it exists.
func (c *client) authenticate(cfg loadConfig) error {
	creds := map[string]string{"name": "Load Test", "email": cfg.Email, "password": cfg.Password}
	status, body, err := c.call("POST", "/api/auth/register", creds)
	if err != nil {
		return err
	}
	if status != fasthttp.StatusCreated {
		status, body, err = c.call("POST", "/api/auth/login", creds)
		if err != nil {
			return err
		}
		if status != fasthttp.StatusOK {
			return fmt.Errorf("login failed with status %d: %s", status, body)
		}
	}

	var res struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err = json.Unmarshal(body, &res); err != nil {
		return err
	}
	c.token = res.Data.Token
	return nil
}

var categories = []string{"fuel", "driver", "car_owner", "turni_boys", "repairs", "miscellaneous", "traffic_fines"}

func payload(n int) map[string]any {
	if n%3 == 0 {
		return map[string]any{
			"type":        "expense",
			"category":    categories[n%len(categories)],
			"amount":      fmt.Sprintf("%d.%02d", 10+n%90, n%100),
			"description": "load expense",
		}
	}
	kind := "sale"
	if n%5 == 0 {
		kind = "delivery_fee"
	}
	return map[string]any{"type": kind, "amount": 100 + n%400, "description": "load " + kind}
}

func main() {
	var cfg loadConfig
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		panic(err)
	}

	c := &client{
		http: &fasthttp.Client{MaxConnsPerHost: cfg.ConcurrentWorkers},
		base: strings.TrimRight(cfg.BaseURL, "/"),
	}
	if err := c.authenticate(cfg); err != nil {
		panic(err)
	}

	fmt.Println("Starting load test...")
	fmt.Printf("Target: %s/api/transactions\n", c.base)
	fmt.Printf("Target RPS: %d\n", cfg.RequestsPerSecond)
	fmt.Printf("Concurrent workers: %d\n", cfg.ConcurrentWorkers)
	fmt.Printf("Duration: %d seconds\n", cfg.DurationSeconds)
	fmt.Println(strings.Repeat("-", 50))

	st := &stats{}
	pool := worker.NewPool(cfg.RequestsPerSecond, cfg.ConcurrentWorkers, func(_ int, n int) {
		start := time.Now()
		status, _, err := c.call("POST", "/api/transactions", payload(n))
		st.record(time.Since(start), err == nil && status == fasthttp.StatusCreated)
	})
	ctx := context.Background()
	pool.Start(ctx)

	startTime := time.Now()
	sent := 0
	for i := 0; i < cfg.DurationSeconds; i++ {
		batchStart := time.Now()
		for j := 0; j < cfg.RequestsPerSecond; j++ {
			if err := pool.Enqueue(ctx, sent); err != nil {
				panic(err)
			}
			sent++
		}

		success, failed := st.successCount.Load(), st.errorCount.Load()
		fmt.Printf("[%ds] Completed: %d | Success: %d | Errors: %d | Queued: %d\n",
			i+1, success+failed, success, failed, pool.Pending())

		if elapsed := time.Since(batchStart); elapsed < time.Second {
			time.Sleep(time.Second - elapsed)
		}
	}
	pool.Close()
	duration := time.Since(startTime).Seconds()

	success, failed := st.successCount.Load(), st.errorCount.Load()
	total := success + failed
	times := st.sortedTimes()
	var avg float64
	for _, t := range times {
		avg += t
	}
	if len(times) > 0 {
		avg /= float64(len(times))
	}

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("LOAD TEST RESULTS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Duration: %.2f seconds\n", duration)
	fmt.Printf("Total requests: %d\n", total)
	fmt.Printf("Successful: %d\n", success)
	fmt.Printf("Failed: %d\n", failed)
	if total > 0 {
		fmt.Printf("Success rate: %.2f%%\n", float64(success)/float64(total)*100)
	}
	fmt.Printf("\nActual RPS: %.2f\n", float64(total)/duration)
	fmt.Printf("\nResponse times:\n")
	fmt.Printf("  Average: %.2f ms\n", avg*1000)
	fmt.Printf("  P50: %.2f ms\n", percentile(times, 0.50)*1000)
	fmt.Printf("  P95: %.2f ms\n", percentile(times, 0.95)*1000)
	fmt.Printf("  P99: %.2f ms\n", percentile(times, 0.99)*1000)
	if len(times) > 0 {
		fmt.Printf("  Min: %.2f ms\n", times[0]*1000)
		fmt.Printf("  Max: %.2f ms\n", times[len(times)-1]*1000)
	}

	start := time.Now()
	status, body, err := c.call("GET", "/api/transactions/analytics?period=month", nil)
	if err != nil {
		panic(err)
	}
	fmt.Printf("\nAnalytics (%d, %.2f ms): %s\n", status, time.Since(start).Seconds()*1000, body)
}
