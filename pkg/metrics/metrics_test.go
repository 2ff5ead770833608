package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "cohort")
				So(manager.subsystem, ShouldEqual, "search")
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When empty option values are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "cohort")
				So(manager.subsystem, ShouldEqual, "search")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestQueryMetrics(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording interpreted queries", func() {
			m.RecordQueryInterpreted([]string{"age", "gender"})
			m.RecordQueryInterpreted([]string{"gender"})
			m.RecordQueryInterpreted(nil)

			Convey("Then totals and per-field counts are tracked", func() {
				So(testutil.ToFloat64(m.queriesInterpreted), ShouldEqual, 3.0)
				So(testutil.ToFloat64(m.queriesEmpty), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.constraintsExtracted.WithLabelValues("gender")), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.constraintsExtracted.WithLabelValues("age")), ShouldEqual, 1.0)
			})
		})

		Convey("When recording filter passes", func() {
			m.RecordFilter(100, 7, 0.5)
			m.RecordFilter(50, 0, 0.2)

			Convey("Then scanned records accumulate", func() {
				So(testutil.ToFloat64(m.recordsScanned), ShouldEqual, 150.0)
			})
		})

		Convey("When recording panel loads", func() {
			m.RecordPanelLoad(42, 1_700_000_000)

			Convey("Then size and load time are set", func() {
				So(testutil.ToFloat64(m.panelSize), ShouldEqual, 42.0)
				So(testutil.ToFloat64(m.panelLoadsTotal), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.panelLastLoadUnix), ShouldEqual, 1_700_000_000.0)
			})

			Convey("And size can be updated independently", func() {
				m.UpdatePanelSize(10)
				So(testutil.ToFloat64(m.panelSize), ShouldEqual, 10.0)
			})
		})

		Convey("When recording store failures", func() {
			m.RecordStoreError()
			m.RecordStoreQueryLatency(3)
			So(testutil.ToFloat64(m.storeErrors), ShouldEqual, 1.0)
		})
	})
}

func TestHTTPAndErrorMetrics(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording HTTP requests", func() {
			m.RecordHTTPRequest("search", "GET", "200")
			m.RecordHTTPRequest("search", "GET", "200")
			m.RecordHTTPRequestDuration("search", "GET", "200", 5.0)

			Convey("Then they are counted per label set", func() {
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("search", "GET", "200")), ShouldEqual, 2.0)
			})
		})

		Convey("When recording errors", func() {
			m.RecordErrorByComponent("store", "timeout")
			m.RecordErrorByType("client_error", "medium")
			m.RecordErrorByEndpoint("filter", "POST", "client_error")
			m.RecordErrorLatency("http", "client_error", 1.5)

			Convey("Then each vector tracks its labels", func() {
				So(testutil.ToFloat64(m.errorRateByComponent.WithLabelValues("store", "timeout")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.errorRateByType.WithLabelValues("client_error", "medium")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.errorRateByEndpoint.WithLabelValues("filter", "POST", "client_error")), ShouldEqual, 1.0)
			})
		})

		Convey("When updating system metrics", func() {
			m.UpdateSystemMemoryUsage(2048)
			m.UpdateSystemGoroutineCount(12)
			m.RecordSystemGCPauseTime(0.3)

			Convey("Then gauges hold the latest value", func() {
				So(testutil.ToFloat64(m.systemMemoryUsage), ShouldEqual, 2048.0)
				So(testutil.ToFloat64(m.systemGoroutineCount), ShouldEqual, 12.0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then package-level helpers do not panic", func() {
			So(func() {
				RecordQueryInterpreted([]string{"location"})
				RecordFilter(10, 2, 0.1)
				UpdatePanelSize(10)
				RecordPanelLoad(10, 1)
				RecordStoreQueryLatency(1)
				RecordStoreError()
				RecordHTTPRequest("search", "GET", "200")
				RecordHTTPRequestDuration("search", "GET", "200", 1)
				RecordErrorByComponent("store", "x")
				RecordErrorByType("x", "low")
				RecordErrorByEndpoint("search", "GET", "x")
				RecordErrorLatency("http", "x", 1)
				UpdateSystemMemoryUsage(1)
				UpdateSystemGoroutineCount(1)
				RecordSystemGCPauseTime(1)
			}, ShouldNotPanic)
		})

		Convey("And the custom registry gathers our metrics", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
