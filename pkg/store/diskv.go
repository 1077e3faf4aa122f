package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/harmonizer/pkg/session"
)

const (
	sessionsDir    = "sessions"
	orderIndexFile = ".order.json"
)

// Diskv stores one JSON document per session below basePath/sessions and
// keeps insertion order in basePath/.order.json.
type Diskv struct {
	d        *diskv.Diskv
	basePath string

	// guards the order index read-modify-write
	mu sync.Mutex
}

var (
	_ Persistence = (*Diskv)(nil)
	_ Writer      = (*Diskv)(nil)
	_ Watcher     = (*Diskv)(nil)
)

// NewDiskv opens (creating if needed) a diskv directory at basePath.
func NewDiskv(basePath string) (*Diskv, error) {
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		// Uncached: other processes edit the same directory and Watch
		// relies on reads seeing their writes.
		CacheSizeMax: 0,
	}), basePath: basePath}, nil
}

// BasePath reports the directory backing the store.
func (p *Diskv) BasePath() string {
	return p.basePath
}

func (p *Diskv) read(key string) (session.Session, error) {
	var s session.Session
	val, err := p.d.Read(key)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(val, &s); err != nil {
		return s, err
	}
	return s, nil
}

func (p *Diskv) write(s session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(s.ID), data)
}

// LoadAll reads every session, ordered by the order index. Files missing
// from the index follow, sorted by id.
func (p *Diskv) LoadAll(ctx context.Context) ([]session.Session, error) {
	byID := make(map[string]session.Session)
	for key := range p.d.Keys(ctx.Done()) {
		if _, ok := fromKey(key); key == "" || !ok {
			continue
		}
		s, err := p.read(key)
		if err != nil {
			return nil, fmt.Errorf("store: read %s: %w", key, err)
		}
		byID[s.ID] = s
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	order, err := p.loadOrder()
	p.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("store: load order index: %w", err)
	}

	out := make([]session.Session, 0, len(byID))
	for _, id := range order {
		if s, ok := byID[id]; ok {
			out = append(out, s)
			delete(byID, id)
		}
	}
	rest := make([]session.Session, 0, len(byID))
	for _, s := range byID {
		rest = append(rest, s)
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].ID < rest[j].ID })
	return append(out, rest...), nil
}

// Persist rewrites the stored document of id with u applied.
func (p *Diskv) Persist(ctx context.Context, id string, u session.Updates) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := toKey(id)
	if !p.d.Has(key) {
		return fmt.Errorf("store: persist %s: %w", id, ErrNotFound)
	}
	s, err := p.read(key)
	if err != nil {
		return fmt.Errorf("store: persist %s: %w", id, err)
	}
	if err := p.write(s.Apply(u)); err != nil {
		return fmt.Errorf("store: persist %s: %w", id, err)
	}
	return nil
}

// Store writes s and appends its id to the order index if new.
func (p *Diskv) Store(s session.Session) error {
	if s.ID == "" {
		return errors.New("store: session id required")
	}
	if err := p.write(s); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	order, err := p.loadOrder()
	if err != nil {
		return fmt.Errorf("store: load order index: %w", err)
	}
	for _, id := range order {
		if id == s.ID {
			return nil
		}
	}
	if err := p.saveOrder(append(order, s.ID)); err != nil {
		return fmt.Errorf("store: save order index: %w", err)
	}
	return nil
}

func (p *Diskv) orderIndexPath() string {
	return filepath.Join(p.basePath, orderIndexFile)
}

func (p *Diskv) loadOrder() ([]string, error) {
	data, err := os.ReadFile(p.orderIndexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var order []string
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	return order, nil
}

func (p *Diskv) saveOrder(order []string) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	path := p.orderIndexPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Session ids are hex encoded so any id is a safe file name.
func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{sessionsDir},
		FileName: key,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) != 1 || pathKey.Path[0] != sessionsDir {
		return ""
	}
	return pathKey.FileName
}

func toKey(id string) string {
	return hex.EncodeToString([]byte(id))
}

func fromKey(key string) (string, bool) {
	b, err := hex.DecodeString(key)
	if err != nil {
		return "", false
	}
	return string(b), true
}
