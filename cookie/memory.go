package cookie

import (
	"sync"
	"time"
)

// MemoryJar keeps cookies in process memory.
type MemoryJar struct {
	mu      sync.Mutex
	cookies map[string]Cookie
	nowTime func() time.Time
}

// MemoryJarOption defines a function type to modify a MemoryJar instance.
type MemoryJarOption func(*MemoryJar)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) MemoryJarOption {
	return func(j *MemoryJar) {
		j.nowTime = nowFunc
	}
}

func NewMemoryJar(options ...MemoryJarOption) *MemoryJar {
	j := &MemoryJar{
		cookies: make(map[string]Cookie),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(j)
	}
	return j
}

func (j *MemoryJar) Set(c Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if c.Expired(j.nowTime()) {
		delete(j.cookies, c.Name)
		return
	}
	j.cookies[c.Name] = c
}

func (j *MemoryJar) Get(name string) (Cookie, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	c, ok := j.cookies[name]
	if !ok {
		return Cookie{}, false
	}
	if c.Expired(j.nowTime()) {
		delete(j.cookies, name)
		return Cookie{}, false
	}
	return c, true
}

func (j *MemoryJar) Delete(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, name)
}

func (j *MemoryJar) EndSession() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for name, c := range j.cookies {
		if c.Session {
			delete(j.cookies, name)
		}
	}
}
