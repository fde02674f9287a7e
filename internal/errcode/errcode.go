package errcode

// 错误码约定：
// - 0：无错误
// - 4xxx：业务可恢复/告警类错误（校验失败、资源缺失、冲突、外部服务拒绝）
// - 5xxx：系统错误（需要中断流程）
const (
	OK = 0

	InvalidInput    = 4000
	Unauthorized    = 4001
	UsageCapReached = 4002
	Forbidden       = 4003
	ResourceMissing = 4004
	SlugTaken       = 4009
	FileTooLarge    = 4013
	UnsupportedFile = 4015
	RateLimited     = 4029

	SuspiciousLogin = 4101
	NewDevice       = 4102

	SystemError   = 5000
	UpstreamError = 5002
	StorageError  = 5003
)
