package order

// TransitionPolicy 订单状态流转策略
type TransitionPolicy interface {
	Allow(from, to Status) bool
	Name() string
}

// PermissivePolicy 任意状态之间都可以切换(后台手工纠错时使用,默认策略)
type PermissivePolicy struct{}

func (PermissivePolicy) Allow(_, _ Status) bool { return true }
func (PermissivePolicy) Name() string           { return "permissive" }

// MonotonicPolicy 单调状态机
//
//	pending -> processing -> shipped -> delivered
//	pending | processing -> cancelled
//
// delivered、cancelled 为终态;原地设置同一状态视为无操作,总是允许。
type MonotonicPolicy struct{}

var forward = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func (MonotonicPolicy) Allow(from, to Status) bool {
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	for _, next := range forward[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (MonotonicPolicy) Name() string { return "monotonic" }

// PolicyFor 根据配置选择策略
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return MonotonicPolicy{}
	}
	return PermissivePolicy{}
}
