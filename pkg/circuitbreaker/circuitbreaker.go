// Package circuitbreaker 熔断器
//
// 用于保护快照写入:后端(Redis/MySQL/SQLite)连续失败时不再排队等待超时,
// 直接跳过本次镜像,过一段时间再放少量请求探测。
//
// 状态:CLOSED(正常) -> OPEN(熔断) -> HALF_OPEN(探测) -> CLOSED/OPEN
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpenState 熔断器打开,请求未执行
var ErrOpenState = errors.New("circuit breaker is open")

// Counts 当前统计窗口内的计数
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRate 失败率
func (c Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

func (c *Counts) record(success bool) {
	if success {
		c.TotalSuccesses++
		c.ConsecutiveSuccesses++
		c.ConsecutiveFailures = 0
		return
	}
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// Settings 熔断器参数
type Settings struct {
	// MaxRequests 半开状态允许通过的探测请求数,0按1处理
	MaxRequests uint32
	// Interval 关闭状态下统计窗口长度,0表示不重置
	Interval time.Duration
	// Timeout 打开状态持续时间
	Timeout time.Duration
	// ReadyToTrip 关闭状态下每次失败后调用,返回true则熔断
	// 默认:连续失败5次
	ReadyToTrip func(Counts) bool
	// IsSuccessful 判断一次调用算不算成功,默认err==nil
	// 调用方取消(context.Canceled)不应计入后端故障
	IsSuccessful func(err error) bool
	// OnStateChange 状态切换回调(日志、指标)
	OnStateChange func(name string, from, to State)
}

// ConsecutiveFailures 连续失败n次即熔断
func ConsecutiveFailures(n uint32) func(Counts) bool {
	return func(c Counts) bool { return c.ConsecutiveFailures >= n }
}

// CircuitBreaker 熔断器,并发安全
type CircuitBreaker struct {
	name     string
	settings Settings

	mu         sync.Mutex
	state      State
	generation uint64
	counts     Counts
	expiry     time.Time
	now        func() time.Time
}

// New 创建熔断器
func New(name string, s Settings) *CircuitBreaker {
	if s.MaxRequests == 0 {
		s.MaxRequests = 1
	}
	if s.ReadyToTrip == nil {
		s.ReadyToTrip = ConsecutiveFailures(5)
	}
	if s.IsSuccessful == nil {
		s.IsSuccessful = func(err error) bool { return err == nil }
	}

	cb := &CircuitBreaker{name: name, settings: s, now: time.Now}
	cb.resetWindow(cb.now())
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string { return cb.name }

// Execute 在熔断器保护下执行fn
// 熔断打开时直接返回ErrOpenState,fn不会被调用
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	generation, err := cb.before()
	if err != nil {
		return err
	}

	err = fn(ctx)
	if errors.Is(err, context.Canceled) {
		// 不计入统计,但要归还半开状态下的名额
		cb.release(generation)
		return err
	}
	cb.after(generation, cb.settings.IsSuccessful(err))
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	state, _ := cb.current(cb.now())
	return state
}

// Counts 当前窗口计数
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.current(cb.now())
	switch {
	case state == StateOpen:
		return generation, ErrOpenState
	case state == StateHalfOpen && cb.counts.Requests >= cb.settings.MaxRequests:
		return generation, ErrOpenState
	}
	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) after(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	state, generation := cb.current(now)
	if generation != before {
		// 执行期间状态已切换,结果属于旧窗口
		return
	}

	cb.counts.record(success)
	switch {
	case success && state == StateHalfOpen:
		cb.transition(StateClosed, now)
	case !success && state == StateHalfOpen:
		cb.transition(StateOpen, now)
	case !success && state == StateClosed && cb.settings.ReadyToTrip(cb.counts):
		cb.transition(StateOpen, now)
	}
}

func (cb *CircuitBreaker) release(before uint64) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if _, generation := cb.current(cb.now()); generation == before && cb.counts.Requests > 0 {
		cb.counts.Requests--
	}
}

// current 处理过期:关闭状态窗口到期重置计数,打开状态超时转半开
func (cb *CircuitBreaker) current(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.resetWindow(now)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.transition(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) transition(to State, now time.Time) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	cb.resetWindow(now)

	if cb.settings.OnStateChange != nil {
		cb.settings.OnStateChange(cb.name, from, to)
	}
}

func (cb *CircuitBreaker) resetWindow(now time.Time) {
	cb.generation++
	cb.counts = Counts{}

	switch cb.state {
	case StateClosed:
		if cb.settings.Interval > 0 {
			cb.expiry = now.Add(cb.settings.Interval)
		} else {
			cb.expiry = time.Time{}
		}
	case StateOpen:
		cb.expiry = now.Add(cb.settings.Timeout)
	default:
		cb.expiry = time.Time{}
	}
}
