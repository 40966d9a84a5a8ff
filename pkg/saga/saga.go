// Package saga 带补偿的多步操作
//
// 每一步有正向操作和补偿操作;某一步失败时按相反顺序补偿已完成的步骤。
// 用在跨多个集合、必须整体成功或整体回滚的操作上(例如分类改名连带改写图书)。
package saga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xiebiao/storefront/pkg/metrics"
)

// ErrCompensationFailed 至少一个补偿步骤失败,状态可能不一致
var ErrCompensationFailed = errors.New("saga compensation failed")

// Step 一个步骤
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga 一次性使用,Execute之后不要再AddStep
type Saga struct {
	name     string
	steps    []Step
	executed []Step
	timeout  time.Duration
	logger   *slog.Logger
}

// Option 配置项
type Option func(*Saga)

// WithTimeout 整体超时
func WithTimeout(d time.Duration) Option {
	return func(s *Saga) { s.timeout = d }
}

// WithLogger 补偿失败时写日志
func WithLogger(l *slog.Logger) Option {
	return func(s *Saga) { s.logger = l }
}

// New 创建saga
func New(name string, opts ...Option) *Saga {
	s := &Saga{name: name, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStep 追加步骤,返回自身便于链式调用
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{Name: name, Action: action, Compensate: compensate})
	return s
}

// Execute 依次执行
// 失败时返回的错误包装了原始错误(errors.Is/As可用);
// 若补偿也失败,额外包含ErrCompensationFailed
func (s *Saga) Execute(ctx context.Context) error {
	metrics.Init()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return s.abort(fmt.Errorf("saga %s 在步骤[%d:%s]前超时: %w", s.name, i, step.Name, err))
		}
		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				return s.abort(fmt.Errorf("saga %s 步骤[%d:%s]失败: %w", s.name, i, step.Name, err))
			}
		}
		s.executed = append(s.executed, step)
	}

	metrics.SagaExecutionsTotal.WithLabelValues(s.name, "success").Inc()
	return nil
}

func (s *Saga) abort(cause error) error {
	// 补偿使用独立的context,避免原context已超时导致补偿也失败
	compErr := s.compensate(context.Background())
	if compErr != nil {
		metrics.SagaExecutionsTotal.WithLabelValues(s.name, "failed").Inc()
		return errors.Join(cause, compErr)
	}
	metrics.SagaExecutionsTotal.WithLabelValues(s.name, "compensated").Inc()
	return cause
}

func (s *Saga) compensate(ctx context.Context) error {
	var errs []error
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		metrics.SagaCompensationsTotal.Inc()
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("补偿失败", "saga", s.name, "step", step.Name, "error", err)
			errs = append(errs, fmt.Errorf("%w: 步骤%s: %w", ErrCompensationFailed, step.Name, err))
		}
	}
	s.executed = nil
	return errors.Join(errs...)
}
