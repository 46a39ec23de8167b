package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/annel0/world-graph/internal/logging"
)

var (
	cpuUsageGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "world_system_cpu_percent",
		Help: "Загрузка CPU хоста в процентах",
	})
	memUsageGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "world_system_memory_percent",
		Help: "Использование памяти хоста в процентах",
	})
	memUsedBytesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "world_system_memory_used_bytes",
		Help: "Занятая память хоста в байтах",
	})
)

// SystemMetrics периодически публикует CPU/память хоста в Prometheus
type SystemMetrics struct {
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// StartSystemMetrics запускает сбор системных метрик с указанным интервалом
func StartSystemMetrics(interval time.Duration) *SystemMetrics {
	sm := &SystemMetrics{
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go sm.loop()
	return sm
}

func (sm *SystemMetrics) loop() {
	defer close(sm.doneCh)
	logger := logging.GetComponentLogger("metrics")
	ticker := time.NewTicker(sm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
				cpuUsageGauge.Set(percents[0])
			} else if err != nil {
				logger.Warn("⚠️ cpu stats: %v", err)
			}
			if vm, err := mem.VirtualMemory(); err == nil {
				memUsageGauge.Set(vm.UsedPercent)
				memUsedBytesGauge.Set(float64(vm.Used))
			} else {
				logger.Warn("⚠️ memory stats: %v", err)
			}
		case <-sm.stopCh:
			return
		}
	}
}

// Stop останавливает сбор метрик
func (sm *SystemMetrics) Stop() {
	close(sm.stopCh)
	<-sm.doneCh
}
