package activity

import "time"

const (
	// ActionLogin 是登录事件的 action。
	ActionLogin = "login"
	// ActionNewDeviceLogin 在新设备登录时额外写入。
	ActionNewDeviceLogin = "new_device_login"

	// RecentWindow 是判定时读取的最近日志条数。
	RecentWindow = 50
	// LoginThreshold 为一小时内登录次数上限，超过即视为可疑。
	LoginThreshold = 10
	// LoginWindow 是登录频率统计的时间窗口。
	LoginWindow = time.Hour

	// SuspiciousReason 是可疑登录的固定说明。
	SuspiciousReason = "Unusual login frequency detected: more than 10 logins in the last hour"
)

// Entry 是判定所需的活动日志字段。
type Entry struct {
	Action      string
	Fingerprint string
	CreatedAt   time.Time
}

// Classification 是登录风险判定结果，仅作提示，不阻止登录。
type Classification struct {
	IsSuspicious bool   `json:"is_suspicious"`
	Reason       string `json:"reason,omitempty"`
	NewDevice    bool   `json:"new_device"`
}

// Classify 基于最近的活动日志（按时间倒序）判定当前登录。
// 没有任何历史记录时既不可疑也不算新设备。
func Classify(recent []Entry, fingerprint string, now time.Time) Classification {
	if len(recent) == 0 {
		return Classification{}
	}

	var out Classification

	known := false
	for _, e := range recent {
		if e.Fingerprint == fingerprint {
			known = true
			break
		}
	}
	out.NewDevice = !known

	cutoff := now.Add(-LoginWindow)
	logins := 0
	for _, e := range recent {
		if e.Action == ActionLogin && e.CreatedAt.After(cutoff) {
			logins++
		}
	}
	if logins > LoginThreshold {
		out.IsSuspicious = true
		out.Reason = SuspiciousReason
	}

	return out
}
