package yamux

import "sync"

// streamRegistry 会话内活跃流的登记表
type streamRegistry struct {
	mu      sync.RWMutex
	streams map[uint32]*Stream
}

func newStreamRegistry() *streamRegistry {
	return &streamRegistry{streams: make(map[uint32]*Stream)}
}

func (r *streamRegistry) add(s *Stream) {
	r.mu.Lock()
	r.streams[s.ID()] = s
	r.mu.Unlock()
}

func (r *streamRegistry) remove(id uint32) {
	r.mu.Lock()
	delete(r.streams, id)
	r.mu.Unlock()
}

func (r *streamRegistry) get(id uint32) (*Stream, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.streams[id]
	return s, ok
}

func (r *streamRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.streams)
}

// drain 清空登记表并返回原有的流
func (r *streamRegistry) drain() []*Stream {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Stream, 0, len(r.streams))
	for _, s := range r.streams {
		out = append(out, s)
	}
	r.streams = make(map[uint32]*Stream)
	return out
}
