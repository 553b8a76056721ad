// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// lockoutCap bounds the exponential backoff on repeated lockouts.
const lockoutCap = 24 * time.Hour

// LoginProtectionConfig tunes the sign-in abuse defenses.
type LoginProtectionConfig struct {
	IPRateLimit       float64       // requests per second per client IP
	IPBurst           int           // burst allowance per client IP
	MaxFailedAttempts int           // failures inside the window before a lockout
	LockoutDuration   time.Duration // first lockout length; doubles per lockout
	AttemptWindow     time.Duration // how far back failures count
}

// DefaultLoginProtectionConfig returns the production defaults: one login
// request per two seconds per IP, five failures per quarter hour.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// attemptRecord tracks sign-in failures for one account.
type attemptRecord struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtection combines per-IP rate limiting with per-account lockouts
// on the admin sign-in endpoint. Both ledgers live in process memory;
// restarts forgive, which is acceptable because the Argon2 verify cost and
// the IP limiter remain in force.
type LoginProtection struct {
	ipLimiters *limiterCache[string]

	attemptsMu     sync.RWMutex
	failedAttempts map[string]*attemptRecord

	maxFailedAttempts int
	lockoutDuration   time.Duration
	attemptWindow     time.Duration
}

// NewLoginProtection creates the protection state and starts its janitor.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = def.AttemptWindow
	}

	lp := &LoginProtection{
		ipLimiters:        newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		failedAttempts:    make(map[string]*attemptRecord),
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		attemptWindow:     cfg.AttemptWindow,
	}
	go lp.janitor()
	return lp
}

// CheckIPRateLimit reports whether a login request from the IP may proceed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	return lp.ipLimiters.get(ip).Allow()
}

// IsAccountLocked reports whether the account is locked out and for how
// much longer.
func (lp *LoginProtection) IsAccountLocked(email string) (bool, time.Duration) {
	lp.attemptsMu.RLock()
	rec, ok := lp.failedAttempts[email]
	lp.attemptsMu.RUnlock()

	if !ok || !time.Now().Before(rec.lockedUntil) {
		return false, 0
	}
	return true, time.Until(rec.lockedUntil)
}

// RecordFailedAttempt counts a failed sign-in. When the failure count
// reaches the limit inside the window, the account locks and the lockout
// length doubles with each repeat. Returns whether a lockout started and
// its length.
func (lp *LoginProtection) RecordFailedAttempt(email string) (bool, time.Duration) {
	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()

	now := time.Now()
	rec, ok := lp.failedAttempts[email]
	if !ok {
		lp.failedAttempts[email] = &attemptRecord{count: 1, firstFailed: now}
		return false, 0
	}
	if now.Sub(rec.firstFailed) > lp.attemptWindow {
		rec.count = 1
		rec.firstFailed = now
		return false, 0
	}

	rec.count++
	if rec.count < lp.maxFailedAttempts {
		return false, 0
	}

	lock := lp.lockDuration(rec.lockouts)
	rec.lockedUntil = now.Add(lock)
	rec.lockouts++
	rec.count = 0

	slog.Warn("account locked after repeated sign-in failures",
		"email", email,
		"lockouts", rec.lockouts,
		"duration", lock,
	)
	return true, lock
}

// lockDuration doubles the base lockout per prior lockout, capped.
func (lp *LoginProtection) lockDuration(priorLockouts int) time.Duration {
	lock := lp.lockoutDuration
	for i := 0; i < priorLockouts && lock < lockoutCap; i++ {
		lock *= 2
	}
	if lock > lockoutCap {
		lock = lockoutCap
	}
	return lock
}

// RecordSuccessfulLogin clears the failure ledger for the account.
func (lp *LoginProtection) RecordSuccessfulLogin(email string) {
	lp.attemptsMu.Lock()
	delete(lp.failedAttempts, email)
	lp.attemptsMu.Unlock()
}

// GetRemainingAttempts returns how many failures remain before a lockout.
func (lp *LoginProtection) GetRemainingAttempts(email string) int {
	lp.attemptsMu.RLock()
	rec, ok := lp.failedAttempts[email]
	lp.attemptsMu.RUnlock()

	if !ok || time.Since(rec.firstFailed) > lp.attemptWindow {
		return lp.maxFailedAttempts
	}
	if remaining := lp.maxFailedAttempts - rec.count; remaining > 0 {
		return remaining
	}
	return 0
}

// janitor drops stale ledger entries every ten minutes.
func (lp *LoginProtection) janitor() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		lp.cleanupStaleEntries()
	}
}

func (lp *LoginProtection) cleanupStaleEntries() {
	if lp.ipLimiters.clearIfExceeds(10000) {
		slog.Info("reset login IP limiter cache after size overflow")
	}

	now := time.Now()
	lp.attemptsMu.Lock()
	for email, rec := range lp.failedAttempts {
		if now.After(rec.lockedUntil) && now.Sub(rec.firstFailed) > lp.attemptWindow {
			delete(lp.failedAttempts, email)
		}
	}
	lp.attemptsMu.Unlock()
}

// Middleware rate-limits login POSTs per client IP. Account lockouts are
// enforced in the login handler itself, where the email is known.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)
			if !lp.CheckIPRateLimit(ip) {
				slog.Warn("login rate limit exceeded", "ip", ip)
				writeAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many login attempts. Please wait and try again.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
