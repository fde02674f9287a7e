package activity

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"studentfolio/internal/database"
	"studentfolio/internal/errcode"
	"studentfolio/internal/metrics"
	"studentfolio/internal/repository"
)

// Notice 是推送给前端的安全提示，用户可关闭。
type Notice struct {
	Type    string    `json:"type"`
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Device  Device    `json:"device"`
	At      time.Time `json:"at"`
}

// Notifier 把提示投递给在线客户端。
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notice Notice) error
}

// LoginInput 描述一次登录的客户端信号。
type LoginInput struct {
	UserID       uuid.UUID
	UserAgent    string
	Language     string
	ScreenWidth  int
	ScreenHeight int
	IP           string
}

// LoginResult 是 RecordLogin 的返回值。
type LoginResult struct {
	Device         Device         `json:"device"`
	Fingerprint    string         `json:"fingerprint"`
	Classification Classification `json:"classification"`
	Notices        []Notice       `json:"notices"`
}

// Monitor 记录登录活动并给出风险提示。
type Monitor struct {
	store    repository.ActivityStore
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewMonitor 创建 Monitor。notifier 可以为 nil。
func NewMonitor(store repository.ActivityStore, notifier Notifier, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{store: store, notifier: notifier, logger: logger, now: time.Now}
}

// RecordLogin 读取最近窗口、判定并追加日志。存储或推送失败只记录日志，不影响登录。
func (m *Monitor) RecordLogin(ctx context.Context, in LoginInput) LoginResult {
	device := ParseUserAgent(in.UserAgent)
	fp := Fingerprint(in.UserAgent, in.Language, in.ScreenWidth, in.ScreenHeight)
	now := m.now()
	logger := m.logger.With(slog.String("user_id", in.UserID.String()), slog.String("fingerprint", fp))

	recent, err := m.store.Recent(ctx, in.UserID, RecentWindow)
	if err != nil {
		logger.Warn("load recent activity failed", slog.Any("error", err))
		recent = nil
	}
	class := Classify(toEntries(recent), fp, now)
	metrics.ObserveLogin(class.IsSuspicious, class.NewDevice)

	meta := database.ActivityMetadata{
		Language:     in.Language,
		ScreenWidth:  in.ScreenWidth,
		ScreenHeight: in.ScreenHeight,
		IP:           in.IP,
		NewDevice:    class.NewDevice,
		Reason:       class.Reason,
	}
	m.append(ctx, logger, in, device, fp, ActionLogin, class.IsSuspicious, meta, now)
	if class.NewDevice {
		m.append(ctx, logger, in, device, fp, ActionNewDeviceLogin, class.IsSuspicious, meta, now)
	}

	result := LoginResult{Device: device, Fingerprint: fp, Classification: class, Notices: []Notice{}}
	if class.NewDevice {
		result.Notices = append(result.Notices, Notice{
			Type:    ActionNewDeviceLogin,
			Code:    errcode.NewDevice,
			Message: "New device login detected: " + device.Browser + " on " + device.OS,
			Device:  device,
			At:      now,
		})
	}
	if class.IsSuspicious {
		result.Notices = append(result.Notices, Notice{
			Type:    "suspicious_login",
			Code:    errcode.SuspiciousLogin,
			Message: class.Reason,
			Device:  device,
			At:      now,
		})
	}

	if m.notifier != nil {
		for _, n := range result.Notices {
			if err := m.notifier.Notify(ctx, in.UserID, n); err != nil {
				logger.Warn("publish security notice failed", slog.String("type", n.Type), slog.Any("error", err))
			}
		}
	}

	return result
}

// Recent 返回用户最近的活动记录。
func (m *Monitor) Recent(ctx context.Context, userID uuid.UUID) ([]database.ActivityLog, error) {
	return m.store.Recent(ctx, userID, RecentWindow)
}

func (m *Monitor) append(
	ctx context.Context,
	logger *slog.Logger,
	in LoginInput,
	device Device,
	fp, action string,
	suspicious bool,
	meta database.ActivityMetadata,
	now time.Time,
) {
	userID := in.UserID
	entry := &database.ActivityLog{
		UserID:            &userID,
		Action:            action,
		UserAgent:         truncate(in.UserAgent, 512),
		DeviceType:        device.Type,
		Browser:           device.Browser,
		OS:                device.OS,
		DeviceFingerprint: fp,
		IsSuspicious:      suspicious,
		Metadata:          datatypes.NewJSONType(meta),
		CreatedAt:         now,
	}
	if err := m.store.Create(ctx, entry); err != nil {
		logger.Warn("write activity log failed", slog.String("action", action), slog.Any("error", err))
	}
}

func toEntries(logs []database.ActivityLog) []Entry {
	out := make([]Entry, 0, len(logs))
	for _, l := range logs {
		out = append(out, Entry{Action: l.Action, Fingerprint: l.DeviceFingerprint, CreatedAt: l.CreatedAt})
	}
	return out
}

// truncate 截断到至多 n 字节，且不拆分多字节字符。
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
