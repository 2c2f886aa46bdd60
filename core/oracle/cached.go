package oracle

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/ProofWeave/core/cache"
	"github.com/FocuswithJustin/ProofWeave/core/codec"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// CacheEvent is reported by Cached after every lookup.
type CacheEvent struct {
	Key string
	Hit bool
}

// Cached wraps an oracle with a content-addressed result cache. Results are
// stored in interchange form, so a hit decodes to a fresh document. Failed
// calls are never cached.
type Cached struct {
	Inner Oracle
	Store cache.Store

	// OnEvent, if set, observes hits and misses.
	OnEvent func(CacheEvent)
}

// Identifier is implemented by oracles whose results depend on more than
// their name, such as the executable a process oracle runs. Cached keys
// results by the identity when it is available.
type Identifier interface {
	Identity() string
}

// NewCached wraps inner with store.
func NewCached(inner Oracle, store cache.Store) *Cached {
	return &Cached{Inner: inner, Store: store}
}

// Name implements Oracle.
func (c *Cached) Name() string { return c.Inner.Name() }

// Annotate implements Oracle.
func (c *Cached) Annotate(ctx context.Context, chunks []string, args []string) (fragment.Document, error) {
	key := CacheKey(c.identity(), chunks, args)

	data, ok, err := c.Store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("oracle cache lookup: %w", err)
	}
	if ok {
		doc, err := codec.Unmarshal(data)
		if err == nil && VerifyContents(c.Name(), chunks, doc) == nil {
			c.report(key, true)
			return doc, nil
		}
		// A corrupt entry is a miss and is overwritten below.
	}
	c.report(key, false)

	doc, err := c.Inner.Annotate(ctx, chunks, args)
	if err != nil {
		return nil, err
	}
	encoded, err := codec.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode oracle result: %w", err)
	}
	if err := c.Store.Put(ctx, key, encoded); err != nil {
		return nil, fmt.Errorf("oracle cache store: %w", err)
	}
	return doc, nil
}

func (c *Cached) identity() string {
	if id, ok := c.Inner.(Identifier); ok {
		return id.Identity()
	}
	return c.Inner.Name()
}

func (c *Cached) report(key string, hit bool) {
	if c.OnEvent != nil {
		c.OnEvent(CacheEvent{Key: key, Hit: hit})
	}
}

// CacheKey returns the hex BLAKE3 digest identifying one oracle call; name is
// the oracle's identity. Every string is length-prefixed so distinct inputs
// never collide by concatenation.
func CacheKey(name string, chunks, args []string) string {
	h := blake3.New()
	var n [8]byte
	write := func(s string) {
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	writeList := func(list []string) {
		binary.BigEndian.PutUint64(n[:], uint64(len(list)))
		h.Write(n[:])
		for _, s := range list {
			write(s)
		}
	}

	write(name)
	writeList(args)
	writeList(chunks)
	return hex.EncodeToString(h.Sum(nil))
}
