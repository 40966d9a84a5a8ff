// Package mirror 内存集合到KV存储的尽力而为镜像
//
// 内存仓储是唯一的事实来源;mirror在后台单协程按FIFO顺序把快照写到Store。
// 写失败只记录日志和指标,不会影响调用方,调用方可以通过Task观察结果。
// 每个集合序列化成JSON数组,键为<prefix><collection>_data。
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/storefront/pkg/circuitbreaker"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/tracing"
)

// Collection 集合名
type Collection string

const (
	Books      Collection = "books"
	Categories Collection = "categories"
	Users      Collection = "users"
	Orders     Collection = "orders"
)

var (
	// ErrClosed mirror已关闭
	ErrClosed = errors.New("mirror: closed")
	// ErrQueueFull 写队列已满,本次快照被丢弃
	ErrQueueFull = errors.New("mirror: queue full")
)

// Options mirror参数
type Options struct {
	KeyPrefix    string
	WriteTimeout time.Duration
	QueueSize    int
	Breaker      *circuitbreaker.CircuitBreaker
	Logger       *slog.Logger
}

type job struct {
	entries     map[string][]byte
	collections []Collection
	task        *Task
}

// Mirror 异步快照写入器
type Mirror struct {
	store   Store
	prefix  string
	timeout time.Duration
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan job
	done   chan struct{}
}

// New 创建mirror并启动写协程
func New(store Store, opts Options) *Mirror {
	metrics.Init()

	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 3 * time.Second
	}

	m := &Mirror{
		store:   store,
		prefix:  opts.KeyPrefix,
		timeout: opts.WriteTimeout,
		breaker: opts.Breaker,
		logger:  logger.Component(opts.Logger, "mirror"),
		queue:   make(chan job, opts.QueueSize),
		done:    make(chan struct{}),
	}
	go m.run()
	return m
}

// Key 集合对应的存储键
func (m *Mirror) Key(c Collection) string {
	return m.prefix + string(c) + "_data"
}

// Save 异步镜像一个集合
func (m *Mirror) Save(c Collection, data any) *Task {
	return m.SaveBatch(map[Collection]any{c: data})
}

// SaveBatch 异步镜像多个集合,这些集合在一次Store.SetMany里原子写入
// 序列化在调用方协程完成,之后调用方可以继续修改自己的数据
func (m *Mirror) SaveBatch(batch map[Collection]any) *Task {
	entries := make(map[string][]byte, len(batch))
	collections := make([]Collection, 0, len(batch))
	for c, data := range batch {
		raw, err := json.Marshal(data)
		if err != nil {
			err = fmt.Errorf("序列化%s失败: %w", c, err)
			m.logger.Error("snapshot encode failed", "collection", c, "error", err)
			return failedTask(err)
		}
		entries[m.Key(c)] = raw
		collections = append(collections, c)
	}
	sort.Slice(collections, func(i, j int) bool { return collections[i] < collections[j] })

	return m.enqueue(job{entries: entries, collections: collections, task: newTask()}, false)
}

// Flush 返回在此之前提交的写入全部完成后才完成的Task
// 队列满时Flush会等待空位
func (m *Mirror) Flush() *Task {
	return m.enqueue(job{task: newTask()}, true)
}

// enqueue 快照写入在队列满时直接丢弃,调用方往往持有业务锁,不能在这里等存储。
// 每个快照都是集合的全量数据,下一次写入会覆盖被丢弃的那次。
func (m *Mirror) enqueue(j job, wait bool) *Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		j.task.finish(ErrClosed)
		return j.task
	}
	metrics.SnapshotQueueDepth.Inc()
	if wait {
		m.queue <- j
		return j.task
	}

	select {
	case m.queue <- j:
	default:
		metrics.SnapshotQueueDepth.Dec()
		names := make([]string, len(j.collections))
		for i, c := range j.collections {
			names[i] = string(c)
			metrics.SnapshotWritesTotal.WithLabelValues(string(c), "rejected").Inc()
		}
		m.logger.Warn("snapshot dropped, queue full", "collections", names)
		j.task.finish(ErrQueueFull)
	}
	return j.task
}

// Close 停止接收新写入,等待队列写完
func (m *Mirror) Close(ctx context.Context) error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.queue)
	}
	m.mu.Unlock()

	select {
	case <-m.done:
		return m.store.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mirror) run() {
	defer close(m.done)
	for j := range m.queue {
		metrics.SnapshotQueueDepth.Dec()
		if len(j.entries) == 0 {
			j.task.finish(nil)
			continue
		}
		j.task.finish(m.write(j))
	}
}

func (m *Mirror) write(j job) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	names := make([]string, len(j.collections))
	for i, c := range j.collections {
		names[i] = string(c)
	}
	ctx, span := tracing.StartSpan(ctx, "mirror.write", attribute.StringSlice("collections", names))

	start := time.Now()
	write := func(ctx context.Context) error { return m.store.SetMany(ctx, j.entries) }
	var err error
	if m.breaker != nil {
		err = m.breaker.Execute(ctx, write)
	} else {
		err = write(ctx)
	}
	metrics.SnapshotWriteDuration.Observe(time.Since(start).Seconds())
	tracing.End(span, err)

	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
		m.logger.Warn("snapshot write skipped, breaker open", "collections", names)
	case err != nil:
		result = "failure"
		m.logger.Error("snapshot write failed", "collections", names, "error", err)
	default:
		m.logger.Debug("snapshot written", "collections", names)
	}
	for _, c := range j.collections {
		metrics.SnapshotWritesTotal.WithLabelValues(string(c), result).Inc()
	}
	return err
}

// SeedFunc 提供内置种子数据
type SeedFunc[T any] func() ([]T, error)

// Load 读取集合快照
// 快照不存在、为空或无法解析时回退到种子数据,并把种子镜像回存储
func Load[T any](ctx context.Context, m *Mirror, c Collection, seed SeedFunc[T]) ([]T, error) {
	raw, err := m.store.Get(ctx, m.Key(c))
	switch {
	case err == nil:
		var items []T
		if jsonErr := json.Unmarshal(raw, &items); jsonErr != nil {
			m.logger.Warn("snapshot unreadable, using seed", "collection", c, "error", jsonErr)
		} else if len(items) > 0 {
			metrics.SnapshotLoadsTotal.WithLabelValues(string(c), "store").Inc()
			return items, nil
		}
	case errors.Is(err, ErrKeyNotFound):
	default:
		m.logger.Warn("snapshot read failed, using seed", "collection", c, "error", err)
	}

	items, err := seed()
	if err != nil {
		return nil, fmt.Errorf("加载%s种子数据失败: %w", c, err)
	}
	metrics.SnapshotLoadsTotal.WithLabelValues(string(c), "seed").Inc()
	m.Save(c, items)
	return items, nil
}
