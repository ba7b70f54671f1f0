package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"ecobarter-backend/pkg/llm"

	"github.com/fsnotify/fsnotify"
	"github.com/zeromicro/go-zero/core/logx"
)

// Provider holds the current configuration and swaps it on reload.
type Provider struct {
	path    string
	current atomic.Pointer[Config]
}

func NewProvider(path string) (*Provider, error) {
	p := &Provider{path: path}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewStaticProvider wraps an already built config; Reload is a no-op for it.
func NewStaticProvider(cfg *Config) *Provider {
	p := &Provider{}
	p.current.Store(cfg)
	return p
}

func (p *Provider) Current() *Config {
	return p.current.Load()
}

func (p *Provider) AISettings() llm.Settings {
	return p.Current().AISettings()
}

func (p *Provider) Reload() error {
	if p.path == "" && p.current.Load() != nil {
		return nil
	}
	cfg, err := Load(p.path)
	if err != nil {
		return err
	}
	p.current.Store(cfg)
	return nil
}

// Watch reloads the config whenever the file changes, until ctx is done.
// The parent directory is watched because editors usually replace the file.
func (p *Provider) Watch(ctx context.Context) error {
	if p.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(p.path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := p.Reload(); err != nil {
					logx.Errorf("config reload failed: %v", err)
					continue
				}
				logx.Infof("config reloaded from %s", p.path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logx.Errorf("config watcher error: %v", err)
			}
		}
	}()
	return nil
}
