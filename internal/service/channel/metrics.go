package channel

import (
	"context"
	"time"

	"gitee.com/flycash/notifyhub/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// SenderMetrics 发送指标，进程内只注册一份，由各渠道的装饰器共享
type SenderMetrics struct {
	sendDurationSummary *prometheus.SummaryVec
	sendCounter         *prometheus.CounterVec
}

func NewSenderMetrics() *SenderMetrics {
	sendDurationSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "notifyhub_sender_send_duration_seconds",
			Help:       "渠道发送通知耗时统计（秒）",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.95: 0.005, 0.99: 0.001},
			MaxAge:     time.Minute * 5,
		},
		[]string{"channel", "status"},
	)

	sendCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifyhub_sender_send_total",
			Help: "渠道发送通知状态统计",
		},
		[]string{"channel", "status"},
	)

	prometheus.MustRegister(sendDurationSummary, sendCounter)

	return &SenderMetrics{
		sendDurationSummary: sendDurationSummary,
		sendCounter:         sendCounter,
	}
}

// MetricsSender 为发送器添加指标收集的装饰器
type MetricsSender struct {
	Sender
	metrics *SenderMetrics
}

func NewMetricsSender(sender Sender, metrics *SenderMetrics) *MetricsSender {
	return &MetricsSender{
		Sender:  sender,
		metrics: metrics,
	}
}

func (m *MetricsSender) Send(ctx context.Context, notification domain.Notification, tmpl domain.ChannelTemplate) error {
	start := time.Now()
	err := m.Sender.Send(ctx, notification, tmpl)

	status := "SUCCESS"
	if err != nil {
		status = "FAILED"
	}
	channel := string(m.Sender.Channel())
	m.metrics.sendCounter.WithLabelValues(channel, status).Inc()
	m.metrics.sendDurationSummary.WithLabelValues(channel, status).Observe(time.Since(start).Seconds())

	return err
}
