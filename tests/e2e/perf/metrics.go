// Package perf collects browser timing data and checks it against thresholds.
package perf

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/playwright-community/playwright-go"
)

// navigationTimingScript reads the Navigation Timing and Paint Timing entries.
const navigationTimingScript = `() => {
	const navigation = performance.getEntriesByType('navigation')[0];
	const paint = performance.getEntriesByType('paint');
	const firstPaint = paint.find(e => e.name === 'first-paint');
	const firstContentfulPaint = paint.find(e => e.name === 'first-contentful-paint');
	return {
		domContentLoaded: navigation.domContentLoadedEventEnd - navigation.domContentLoadedEventStart,
		loadComplete: navigation.loadEventEnd - navigation.loadEventStart,
		firstPaint: firstPaint ? firstPaint.startTime : null,
		firstContentfulPaint: firstContentfulPaint ? firstContentfulPaint.startTime : null,
		totalLoadTime: navigation.loadEventEnd - navigation.fetchStart,
	};
}`

// NavigationMetrics are in milliseconds. Paint entries are nil when the
// browser does not report them.
type NavigationMetrics struct {
	DOMContentLoaded     float64  `mapstructure:"domContentLoaded"`
	LoadComplete         float64  `mapstructure:"loadComplete"`
	FirstPaint           *float64 `mapstructure:"firstPaint"`
	FirstContentfulPaint *float64 `mapstructure:"firstContentfulPaint"`
	TotalLoadTime        float64  `mapstructure:"totalLoadTime"`
}

// CollectNavigationMetrics evaluates the timing script in page.
func CollectNavigationMetrics(page playwright.Page) (NavigationMetrics, error) {
	raw, err := page.Evaluate(navigationTimingScript)
	if err != nil {
		return NavigationMetrics{}, fmt.Errorf("failed to evaluate navigation timing: %w", err)
	}
	return DecodeNavigationMetrics(raw)
}

// DecodeNavigationMetrics converts the value returned by the timing script.
func DecodeNavigationMetrics(raw interface{}) (NavigationMetrics, error) {
	var m NavigationMetrics
	if raw == nil {
		return m, fmt.Errorf("navigation timing unavailable")
	}
	if err := mapstructure.Decode(raw, &m); err != nil {
		return m, fmt.Errorf("failed to decode navigation timing: %w", err)
	}
	return m, nil
}

// Thresholds are upper bounds for navigation metrics.
type Thresholds struct {
	TotalLoad        time.Duration
	DOMContentLoaded time.Duration
}

// Violations lists every metric at or above its bound.
func (th Thresholds) Violations(m NavigationMetrics) []string {
	var out []string
	if limit := float64(th.TotalLoad.Milliseconds()); m.TotalLoadTime >= limit {
		out = append(out, fmt.Sprintf("total load %.0fms >= %.0fms", m.TotalLoadTime, limit))
	}
	if limit := float64(th.DOMContentLoaded.Milliseconds()); m.DOMContentLoaded >= limit {
		out = append(out, fmt.Sprintf("DOMContentLoaded %.0fms >= %.0fms", m.DOMContentLoaded, limit))
	}
	return out
}
