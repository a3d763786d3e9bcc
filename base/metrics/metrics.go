/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"strings"

	"github.com/x-xyz/marketapi/base/env"
)

const (
	// TagValueNA is used for tags whose values are not available.
	TagValueNA = "n/a"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// Option is functional parameter for metrics option
type Option func(*opt)

type opt struct {
	// default: true
	withPodName bool
}

// WithoutPodName drops the pod tag, which otherwise yields one custom metric per pod
func WithoutPodName() Option {
	return func(o *opt) {
		o.withPodName = false
	}
}

// New creates a metric client with package name as prefix
func New(pkgName string, options ...Option) Service {
	o := opt{
		withPodName: true,
	}
	for _, option := range options {
		option(&o)
	}

	// "host:" removes the host tag datadog attaches by default
	ddTags := []string{"host:"}
	if o.withPodName {
		ddTags = append(ddTags, "pod:"+env.PodName())
	}
	ddTags = append(ddTags, "env:"+env.EnvName(), "app:"+env.AppName())

	return &Metrics{
		pkgName: pkgName,
		datadog: DDMetrics{
			ddTags: ddTags,
		},
	}
}

// Metrics prefixes keys with the package name and never lets a bump panic escape
type Metrics struct {
	pkgName string
	datadog DDMetrics
}

const sampleRate = 1.0

func (mt *Metrics) guard(typ, key string, tags []string) {
	if err := recover(); err != nil {
		mt.datadog.BumpSum(typ+".panic", 1, 1, "tag", mt.pkgName+`.`+key+"#"+strings.Join(tags, "#"))
	}
}

func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.guard("bumpavg", key, tags)
	mt.datadog.BumpAvg(mt.pkgName+`.`+key, val, sampleRate, tags...)
}

func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.guard("bumpsum", key, tags)
	mt.datadog.BumpSum(mt.pkgName+`.`+key, val, sampleRate, tags...)
}

func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.guard("bumphistogram", key, tags)
	mt.datadog.BumpHistogram(mt.pkgName+`.`+key, val, sampleRate, tags...)
}

// BumpTime starts a timer; call End() on the returned value to record it.
//
//     defer s.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{
		ddEnd: mt.datadog.BumpTime(mt.pkgName+`.`+key, sampleRate, tags...),
		panicHandler: func() {
			mt.datadog.BumpSum("bumptime.panic", 1, 1, "tag", mt.pkgName+`.`+key+"#"+strings.Join(tags, "#"))
		},
	}
}

type timeTracker struct {
	ddEnd        Ender
	panicHandler func()
}

func (t *timeTracker) End() {
	defer func() {
		if err := recover(); err != nil {
			t.panicHandler()
		}
	}()
	t.ddEnd.End()
}
