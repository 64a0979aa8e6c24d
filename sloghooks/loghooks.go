package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/tagcache/tagcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	EvictedEvery uint64
	ExpiredEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	evictedCtr atomic.Uint64
	expiredCtr atomic.Uint64
}

var _ tagcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) EntryEvicted(ns, key string) {
	if h.l == nil || !sample(h.opts.EvictedEvery, &h.evictedCtr) {
		return
	}
	h.l.Debug("tagcache.entry_evicted",
		"ns", ns,
		"key", h.redact(key))
}

func (h *Hooks) EntryExpired(ns, key, reason string) {
	if h.l == nil || !sample(h.opts.ExpiredEvery, &h.expiredCtr) {
		return
	}
	h.l.Debug("tagcache.entry_expired",
		"ns", ns,
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) TagInvalidated(tag string, removed int) {
	if h.l == nil {
		return
	}
	h.l.Info("tagcache.tag_invalidated",
		"tag", tag,
		"removed", removed)
}

func (h *Hooks) KeyEncodeError(ns string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("tagcache.key_encode_error",
		"ns", ns,
		"err", err)
}

func (h *Hooks) SweepError(err error) {
	if h.l == nil {
		return
	}
	h.l.Error("tagcache.sweep_error",
		"err", err)
}
