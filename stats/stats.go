// Package stats keeps process-wide request counters and periodically logs them.
package stats

import "sync/atomic"

type Counters struct {
	cropOK       atomic.Int64
	cropFailed   atomic.Int64
	cropRejected atomic.Int64
	proxied      atomic.Int64
	proxyFailed  atomic.Int64
}

type Snapshot struct {
	CropOK       int64 `json:"crop_ok"`
	CropFailed   int64 `json:"crop_failed"`
	CropRejected int64 `json:"crop_rejected"`
	Proxied      int64 `json:"proxied"`
	ProxyFailed  int64 `json:"proxy_failed"`
}

func (c *Counters) CropSucceeded() { c.cropOK.Add(1) }
func (c *Counters) CropFailed()    { c.cropFailed.Add(1) }
func (c *Counters) CropRejected()  { c.cropRejected.Add(1) }
func (c *Counters) Proxied()       { c.proxied.Add(1) }
func (c *Counters) ProxyFailed()   { c.proxyFailed.Add(1) }

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		CropOK:       c.cropOK.Load(),
		CropFailed:   c.cropFailed.Load(),
		CropRejected: c.cropRejected.Load(),
		Proxied:      c.proxied.Load(),
		ProxyFailed:  c.proxyFailed.Load(),
	}
}
