package order

import (
	"fmt"
)

// FormatOrderNo 订单号:序号左补零到3位("001","002",...,"1000")
func FormatOrderNo(n int) string {
	return fmt.Sprintf("%03d", n)
}

// NextOrderNo 分配下一个订单号
// 规则:len+1;若号码已被占用(快照被手工编辑过)则顺延
func NextOrderNo(existing []Order) string {
	used := make(map[string]struct{}, len(existing))
	for _, o := range existing {
		used[o.ID] = struct{}{}
	}
	for n := len(existing) + 1; ; n++ {
		id := FormatOrderNo(n)
		if _, taken := used[id]; !taken {
			return id
		}
	}
}
