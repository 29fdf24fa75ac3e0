package cookie

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// FileJar persists cookies to a JSON file so a CLI run can pick up the
// credentials a previous run stored. Session cookies are held in memory
// only and never written to disk: constructing a new FileJar over the same
// file therefore behaves like a browser restart.
type FileJar struct {
	mu      sync.Mutex
	path    string
	cookies map[string]Cookie
	session map[string]Cookie
	nowTime func() time.Time
}

// FileJarOption defines a function type to modify a FileJar instance.
type FileJarOption func(*FileJar)

// WithFileNowTime sets the now time function (primarily for testing)
func WithFileNowTime(nowFunc func() time.Time) FileJarOption {
	return func(j *FileJar) {
		j.nowTime = nowFunc
	}
}

func NewFileJar(path string, options ...FileJarOption) (*FileJar, error) {
	j := &FileJar{
		path:    path,
		cookies: make(map[string]Cookie),
		session: make(map[string]Cookie),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(j)
	}
	if err := j.load(); err != nil {
		return nil, errors.Wrap(err, "[NewFileJar] load")
	}
	return j, nil
}

func (j *FileJar) Set(c Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, c.Name)
	delete(j.session, c.Name)
	if c.Expired(j.nowTime()) {
		j.persist()
		return
	}
	if c.Session {
		j.session[c.Name] = c
		return
	}
	j.cookies[c.Name] = c
	j.persist()
}

func (j *FileJar) Get(name string) (Cookie, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if c, ok := j.session[name]; ok {
		return c, true
	}
	c, ok := j.cookies[name]
	if !ok {
		return Cookie{}, false
	}
	if c.Expired(j.nowTime()) {
		delete(j.cookies, name)
		j.persist()
		return Cookie{}, false
	}
	return c, true
}

func (j *FileJar) Delete(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.session, name)
	if _, ok := j.cookies[name]; ok {
		delete(j.cookies, name)
		j.persist()
	}
}

func (j *FileJar) EndSession() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.session = make(map[string]Cookie)
}

func (j *FileJar) load() error {
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var stored []Cookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}
	now := j.nowTime()
	for _, c := range stored {
		if c.Session || c.Expired(now) {
			continue
		}
		j.cookies[c.Name] = c
	}
	return nil
}

// persist rewrites the file under the jar lock. Failures are swallowed: a
// read-only disk should not break an interactive session, it only loses
// persistence across runs.
func (j *FileJar) persist() {
	stored := make([]Cookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		stored = append(stored, c)
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return
	}
	tmp := j.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, j.path)
}
