package telemetry

import (
	"sync"
	"time"
)

// ChannelInfo holds publish statistics for one record channel.
type ChannelInfo struct {
	Path          string
	RecordCount   int64
	LastPoseCount int
	LastPublished int64 // unix nanoseconds
}

// ChannelStats tracks per-channel publish statistics for the diagnostics API.
type ChannelStats struct {
	mu       sync.RWMutex
	channels map[string]*ChannelInfo
}

// NewChannelStats creates an empty stats registry.
func NewChannelStats() *ChannelStats {
	return &ChannelStats{channels: make(map[string]*ChannelInfo)}
}

// Update records a publish on the given channel.
func (s *ChannelStats) Update(path string, poseCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, exists := s.channels[path]
	if !exists {
		info = &ChannelInfo{Path: path}
		s.channels[path] = info
	}
	info.RecordCount++
	info.LastPoseCount = poseCount
	info.LastPublished = time.Now().UnixNano()
}

// Get returns a copy of one channel's statistics.
func (s *ChannelStats) Get(path string) (ChannelInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, exists := s.channels[path]
	if !exists {
		return ChannelInfo{}, false
	}
	return *info, true
}

// Snapshot returns statistics for every channel, keyed by path, in a shape
// the diagnostics endpoint can serialize directly.
func (s *ChannelStats) Snapshot() map[string]map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]map[string]interface{}, len(s.channels))
	for path, info := range s.channels {
		stats[path] = map[string]interface{}{
			"records":         info.RecordCount,
			"last_pose_count": info.LastPoseCount,
			"last_published":  info.LastPublished,
		}
	}
	return stats
}
