// Package assets decodes images on a worker pool and hands the results back
// to the render thread.
package assets

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"

	"scene-renderer/internal/logger"
	"scene-renderer/scene"
)

// Poster runs fn on the render thread between frames.
type Poster interface {
	Post(fn func())
}

// DecodeFunc loads one image.
type DecodeFunc func(path string) (*image.RGBA, error)

type Options struct {
	Workers int
	// Retries is the number of extra attempts after the first failure.
	Retries int
	// Backoff is the wait before the first retry. It doubles per attempt.
	Backoff time.Duration
	// Decode defaults to scene.LoadImage.
	Decode DecodeFunc
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Backoff <= 0 {
		o.Backoff = 100 * time.Millisecond
	}
	if o.Decode == nil {
		o.Decode = scene.LoadImage
	}
	return o
}

// Loader decodes images asynchronously. Completions are posted to the render
// thread; failures are retried with exponential backoff and then logged.
type Loader struct {
	pool    worker.DynamicWorkerPool
	poster  Poster
	opts    Options
	nextID  atomic.Int64
	pending sync.WaitGroup
	failed  atomic.Int64
}

func NewLoader(poster Poster, opts Options) *Loader {
	opts = opts.withDefaults()
	return &Loader{
		pool:   worker.NewDynamicWorkerPool(opts.Workers, 256, time.Second),
		poster: poster,
		opts:   opts,
	}
}

// LoadImage decodes path on the pool and posts done with the result. done is
// never called if every attempt fails.
func (l *Loader) LoadImage(path string, done func(img *image.RGBA)) {
	l.pending.Add(1)
	id := int(l.nextID.Add(1))
	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer l.pending.Done()

			img, err := l.decode(path)
			if err != nil {
				l.failed.Add(1)
				logger.Log.Error("image load failed",
					zap.String("path", path),
					zap.Int("attempts", l.opts.Retries+1),
					zap.Error(err))
				return nil, err
			}
			l.poster.Post(func() { done(img) })
			return nil, nil
		},
	})
}

func (l *Loader) decode(path string) (*image.RGBA, error) {
	wait := l.opts.Backoff
	var err error
	for attempt := 0; ; attempt++ {
		var img *image.RGBA
		img, err = l.opts.Decode(path)
		if err == nil {
			return img, nil
		}
		if attempt >= l.opts.Retries {
			break
		}
		logger.Log.Warn("image load retry",
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err))
		time.Sleep(wait)
		wait *= 2
	}
	return nil, fmt.Errorf("load %q: %w", path, err)
}

// Wait blocks until every submitted load has finished decoding. Posted
// completions may still be queued on the render thread.
func (l *Loader) Wait() {
	l.pending.Wait()
}

// Failed is the number of loads that gave up.
func (l *Loader) Failed() int {
	return int(l.failed.Load())
}
