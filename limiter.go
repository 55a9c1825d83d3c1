package folio

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter rate-limits failed login attempts per IP address. Each IP gets
// a token bucket holding max attempts that refills over window.
type LoginLimiter struct {
	mu       sync.Mutex
	visitors map[string]*loginVisitor
	max      int
	window   time.Duration
	now      func() time.Time
	swept    time.Time
}

type loginVisitor struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewLoginLimiter creates a LoginLimiter that allows max attempts per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		visitors: make(map[string]*loginVisitor),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

func (l *LoginLimiter) visitor(ip string) *loginVisitor {
	now := l.now()
	if now.Sub(l.swept) > l.window {
		for k, v := range l.visitors {
			if now.Sub(v.seen) > l.window {
				delete(l.visitors, k)
			}
		}
		l.swept = now
	}
	v, ok := l.visitors[ip]
	if !ok {
		every := rate.Every(l.window / time.Duration(l.max))
		v = &loginVisitor{limiter: rate.NewLimiter(every, l.max)}
		l.visitors[ip] = v
	}
	v.seen = now
	return v
}

// Check returns true if the IP has an attempt left. It does not record one;
// call Record on failure.
func (l *LoginLimiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visitor(ip).limiter.TokensAt(l.now()) >= 1
}

// Record registers a failed login attempt for the given IP.
func (l *LoginLimiter) Record(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visitor(ip).limiter.AllowN(l.now(), 1)
}
