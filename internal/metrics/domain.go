package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "studentfolio"

var (
	resumeRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resume",
			Name:      "renders_total",
			Help:      "按模板与输出方式统计的简历渲染次数。",
		},
		[]string{"template", "mode"},
	)

	loginClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "activity",
			Name:      "login_classifications_total",
			Help:      "登录风险判定结果计数。",
		},
		[]string{"suspicious", "new_device"},
	)

	suggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "suggest",
			Name:      "requests_total",
			Help:      "AI 建议请求结果计数。",
		},
		[]string{"outcome"},
	)

	certificateUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "certificate",
			Name:      "uploads_total",
			Help:      "证书上传结果计数。",
		},
		[]string{"outcome"},
	)
)

// ObserveRender 记录一次简历渲染。mode 为 download、print 或 preview。
func ObserveRender(template, mode string) {
	resumeRendersTotal.WithLabelValues(template, mode).Inc()
}

// ObserveLogin 记录一次登录判定。
func ObserveLogin(suspicious, newDevice bool) {
	loginClassificationsTotal.WithLabelValues(strconv.FormatBool(suspicious), strconv.FormatBool(newDevice)).Inc()
}

// ObserveSuggestion 记录一次 AI 建议调用结果。
func ObserveSuggestion(outcome string) {
	suggestionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveCertificateUpload 记录一次证书上传结果。
func ObserveCertificateUpload(outcome string) {
	certificateUploadsTotal.WithLabelValues(outcome).Inc()
}
