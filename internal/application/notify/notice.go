// Package notify 面向用户的操作反馈(前端Toast)
//
// 每个变更操作都会产生一条Notice,由Notifier分发到:
// 最近通知列表(GET /notices)、结构化日志、消息队列。
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// Severity 通知级别
type Severity string

const (
	SeveritySuccess     Severity = "success"
	SeverityInfo        Severity = "info"
	SeverityDestructive Severity = "destructive"
)

// Notice 一条用户通知
type Notice struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Severity    Severity  `json:"severity"`
	At          time.Time `json:"at"`
}

// Success 成功通知
func Success(title, format string, args ...any) Notice {
	return Notice{Title: title, Description: fmt.Sprintf(format, args...), Severity: SeveritySuccess}
}

// Info 提示通知
func Info(title, format string, args ...any) Notice {
	return Notice{Title: title, Description: fmt.Sprintf(format, args...), Severity: SeverityInfo}
}

// Failure 把错误转成destructive通知
// title为空时使用AppError的Message,描述取AppError.Description()
func Failure(title string, err error) Notice {
	appErr := apperrors.GetAppError(err)
	if title == "" {
		title = appErr.Message
	}
	return Notice{Title: title, Description: appErr.Description(), Severity: SeverityDestructive}
}

// Notifier 通知分发
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// =========================================
// Recorder 保留最近N条通知
// =========================================

type Recorder struct {
	mu    sync.RWMutex
	limit int
	items []Notice
}

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 50
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, n)
	if over := len(r.items) - r.limit; over > 0 {
		r.items = slices.Delete(r.items, 0, over)
	}
}

// Recent 最近的通知,最新在前;n<=0返回全部
func (r *Recorder) Recent(n int) []Notice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.items)
	slices.Reverse(out)
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// =========================================
// LogNotifier 写结构化日志
// =========================================

type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(l *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Component(l, "notice")}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) {
	level := slog.LevelInfo
	if notice.Severity == SeverityDestructive {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, notice.Title,
		"severity", notice.Severity,
		"description", notice.Description,
	)
}

// =========================================
// Multi 扇出到多个Notifier
// =========================================

type Multi []Notifier

// Notify 补齐时间戳、计数后依次分发
func (m Multi) Notify(ctx context.Context, n Notice) {
	metrics.Init()

	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	metrics.NoticesTotal.WithLabelValues(string(n.Severity)).Inc()
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}
