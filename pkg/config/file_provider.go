package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/linkweaver/linkweaver-oss/pkg/domain"
)

// FileRuleProvider watches a rule file and serves the current rule set. It
// implements domain.RuleStore, so a running server picks up rule edits
// without restart.
type FileRuleProvider struct {
	path        string
	logger      zerolog.Logger
	mu          sync.RWMutex
	snapshot    domain.RuleSnapshot
	index       map[string]int
	subscribers []chan domain.RuleSnapshot
	watcher     *fsnotify.Watcher
	cancel      context.CancelFunc
}

// NewFileRuleProvider creates a provider watching the specified file and
// performs the initial load. A missing file is not fatal: the provider
// starts empty and loads once the file appears.
func NewFileRuleProvider(path string, logger zerolog.Logger) (*FileRuleProvider, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve rule file path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &FileRuleProvider{
		path:    absPath,
		logger:  logger,
		watcher: watcher,
		cancel:  cancel,
		index:   map[string]int{},
	}

	if err := p.load(); err != nil {
		p.logger.Warn().Err(err).Str("path", absPath).Msg("initial rule load failed")
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		_ = watcher.Close()
		cancel()
		return nil, fmt.Errorf("watch rule directory: %w", err)
	}

	go p.watchLoop(ctx)

	return p, nil
}

// ListActiveRules implements domain.RuleStore.
func (p *FileRuleProvider) ListActiveRules(_ context.Context) ([]domain.LinkRule, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return domain.CloneRules(p.snapshot.Rules), nil
}

// GetRule implements domain.RuleStore.
func (p *FileRuleProvider) GetRule(_ context.Context, id string) (*domain.LinkRule, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	i, ok := p.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRuleNotFound, id)
	}
	rule := p.snapshot.Rules[i].Clone()
	return &rule, nil
}

// CurrentSnapshot returns the current rule snapshot.
func (p *FileRuleProvider) CurrentSnapshot() domain.RuleSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return domain.RuleSnapshot{
		Generation: p.snapshot.Generation,
		Rules:      domain.CloneRules(p.snapshot.Rules),
	}
}

// Subscribe returns a channel receiving rule set updates, primed with the
// current snapshot.
func (p *FileRuleProvider) Subscribe() <-chan domain.RuleSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan domain.RuleSnapshot, 1)
	p.subscribers = append(p.subscribers, ch)
	ch <- p.snapshot
	return ch
}

// Close stops the watcher and cleans up resources.
func (p *FileRuleProvider) Close() error {
	p.cancel()
	return p.watcher.Close()
}

func (p *FileRuleProvider) watchLoop(ctx context.Context) {
	var debounceTimer *time.Timer
	const debounce = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != p.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Chmod) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, func() {
					if err := p.load(); err != nil {
						p.logger.Error().Err(err).Msg("rule reload failed")
					} else {
						p.logger.Info().Str("path", p.path).Msg("rules reloaded")
					}
				})
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error().Err(err).Msg("rule watcher error")
		}
	}
}

func (p *FileRuleProvider) load() error {
	snapshot, err := LoadSnapshot(p.path)
	if err != nil {
		return err
	}

	ruleSet, skipped := snapshot.ToDomain()
	for _, id := range skipped {
		p.logger.Warn().Str("rule_id", id).Msg("skipping malformed rule")
	}

	next := domain.RuleSnapshot{Generation: snapshot.Generation, Rules: ruleSet}
	index := make(map[string]int, len(ruleSet))
	for i, rule := range ruleSet {
		index[rule.ID] = i
	}

	p.mu.Lock()
	p.snapshot = next
	p.index = index
	subscribers := make([]chan domain.RuleSnapshot, len(p.subscribers))
	copy(subscribers, p.subscribers)
	p.mu.Unlock()

	for _, ch := range subscribers {
		select {
		case ch <- next:
		default:
			// Skip slow consumers.
		}
	}

	return nil
}

// LoadSnapshot reads and parses a rule file. YAML is tried first, then JSON.
func LoadSnapshot(path string) (Snapshot, error) {
	// #nosec G304 -- File path is configured at startup
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read rule file: %w", err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		if jsonErr := json.Unmarshal(data, &snapshot); jsonErr != nil {
			return Snapshot{}, fmt.Errorf("parse rule file: %v", err)
		}
	}
	snapshot.ReceivedAt = time.Now()

	return snapshot, nil
}
