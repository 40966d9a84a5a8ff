package mirror

import (
	"context"
	"sync"
)

// Task 一次异步写入的完成通知
// 调用方可以忽略它(fire-and-forget),也可以等待结果
type Task struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func failedTask(err error) *Task {
	t := newTask()
	t.finish(err)
	return t
}

func (t *Task) finish(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Done 写入完成(无论成败)后关闭
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err 写入结果,完成前返回nil
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait 等待写入完成
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
