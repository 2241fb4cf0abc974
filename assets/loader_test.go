package assets

import (
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"scene-renderer/scene"
)

// queuePoster collects posted callbacks for the test to run, standing in for
// the render thread.
type queuePoster struct {
	mu    sync.Mutex
	tasks []func()
}

func (q *queuePoster) Post(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, fn)
}

func (q *queuePoster) drain() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()
	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

func TestLoadImage(t *testing.T) {
	q := &queuePoster{}
	l := NewLoader(q, Options{
		Workers: 2,
		Decode: func(path string) (*image.RGBA, error) {
			return scene.SolidImage(1, 2, 3, 4), nil
		},
	})

	got := map[string]bool{}
	for _, p := range []string{"a.png", "b.png", "c.png"} {
		l.LoadImage(p, func(img *image.RGBA) {
			got[p] = img != nil
		})
	}
	l.Wait()

	// Nothing runs until the render thread drains the queue.
	testutil.AssertEqual(t, "before drain", len(got), 0)
	testutil.AssertEqual(t, "posted", q.drain(), 3)
	testutil.AssertEqual(t, "loaded", len(got), 3)
	testutil.AssertEqual(t, "failed", l.Failed(), 0)
}

func TestLoadImage_Retry(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	q := &queuePoster{}
	l := NewLoader(q, Options{
		Workers: 1,
		Retries: 3,
		Backoff: time.Millisecond,
		Decode: func(path string) (*image.RGBA, error) {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			if attempts < 3 {
				return nil, errors.New("busy")
			}
			return scene.SolidImage(0, 0, 0, 0), nil
		},
	})

	done := false
	l.LoadImage("flaky.png", func(*image.RGBA) { done = true })
	l.Wait()
	q.drain()

	testutil.AssertEqual(t, "attempts", attempts, 3)
	testutil.AssertEqual(t, "done", done, true)
}

func TestLoadImage_GivesUp(t *testing.T) {
	q := &queuePoster{}
	l := NewLoader(q, Options{
		Workers: 1,
		Retries: 2,
		Backoff: time.Millisecond,
		Decode: func(path string) (*image.RGBA, error) {
			return nil, errors.New("no such file")
		},
	})

	called := false
	l.LoadImage("missing.png", func(*image.RGBA) { called = true })
	l.Wait()

	testutil.AssertEqual(t, "posted", q.drain(), 0)
	testutil.AssertEqual(t, "called", called, false)
	testutil.AssertEqual(t, "failed", l.Failed(), 1)
}

func TestDecode_WrapsPath(t *testing.T) {
	l := &Loader{opts: Options{Decode: func(string) (*image.RGBA, error) {
		return nil, errors.New("boom")
	}}.withDefaults()}
	l.opts.Retries = 0

	_, err := l.decode("x.png")
	testutil.AssertErrorContains(t, err, `load "x.png": boom`)
}
