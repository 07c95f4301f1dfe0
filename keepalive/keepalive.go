// Package keepalive periodically pings a URL so free-tier hosts don't spin
// the process down.  It holds no interesting state beyond its counters.
package keepalive

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/savishkar/mediakit/core"
)

// Pinger issues a GET against a fixed URL on a fixed interval.
type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	log      core.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	pingCount int64
	failCount int64
	lastPing  time.Time
}

// New creates a stopped Pinger.  logger may be nil.
func New(url string, interval time.Duration, logger core.Logger) *Pinger {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Pinger{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      core.OrNop(logger),
	}
}

// Start launches the ping loop.  Calling Start on a running Pinger is a no-op.
func (p *Pinger) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.loop(ctx)
	p.log.Info("keepalive.started", "url", p.url, "interval", p.interval.String())
}

// Stop terminates the ping loop.
func (p *Pinger) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Stats returns total and failed ping counts.
func (p *Pinger) Stats() (pings, failures int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pingCount, p.failCount
}

func (p *Pinger) loop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ping(ctx)
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.record(false)
		p.log.Warn("keepalive.failed", "error", err.Error())
		return
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.record(false)
		p.log.Warn("keepalive.failed", "error", err.Error())
		return
	}
	resp.Body.Close()
	p.record(resp.StatusCode < 400)
	p.log.Debug("keepalive.ping", "status", resp.StatusCode)
}

func (p *Pinger) record(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pingCount++
	if !ok {
		p.failCount++
	}
	p.lastPing = time.Now()
}
