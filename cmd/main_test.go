package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/cohort/internal/app"
	"github.com/okian/cohort/internal/config"
	"github.com/okian/cohort/pkg/logger"
	"github.com/okian/cohort/pkg/metrics"
)

const testPanel = `people:
  - {id: "1", age: 29, gender: Women, generation: Millennial, location: "Toronto, ON", industry: Fintech}
  - {id: "2", age: 31, gender: Men, generation: Millennial, location: "Toronto, ON", industry: Fintech}
  - {id: "3", age: 44, gender: Women, generation: Gen X, location: "Halifax, NS", industry: Healthcare}
`

func writePanel(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "panel.yaml")
	if err := os.WriteFile(path, []byte(testPanel), 0o600); err != nil {
		t.Fatalf("write panel: %v", err)
	}
	return path
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("COHORT_ADDR", ":8080")
			_ = os.Setenv("COHORT_MAX_RESULTS", "25")
			defer func() {
				_ = os.Unsetenv("COHORT_ADDR")
				_ = os.Unsetenv("COHORT_MAX_RESULTS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxResults, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When testing service creation from config", func() {
			cfg := config.New()
			cfg.MaxResults = 7
			cfg.Keywords.Country = "usa"

			svc := newService(cfg, nil, logger.Nop())

			convey.Convey("Then the config is mapped onto the service", func() {
				stats := svc.GetStats()
				convey.So(stats["maxResults"], convey.ShouldEqual, 7)
				convey.So(stats["country"], convey.ShouldEqual, "usa")
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewStore(t *testing.T) {
	convey.Convey("Given store selection from config", t, func() {
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("When the memory store is selected", func() {
			store, err := newStore(ctx, cfg)

			convey.Convey("Then the service builds its own store", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(store, convey.ShouldBeNil)
			})
		})

		convey.Convey("When an unknown store is selected", func() {
			cfg.Store = "cassandra"
			_, err := newStore(ctx, cfg)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When postgres is selected with an unusable URL", func() {
			cfg.Store = config.StorePostgres
			cfg.DatabaseURL = "postgres://cohort@127.0.0.1:1/cohort?connect_timeout=1"
			_, err := newStore(ctx, cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When redis is selected with an unreachable server", func() {
			cfg.Store = config.StoreRedis
			cfg.RedisURL = "redis://127.0.0.1:1/0?dial_timeout=1s"
			_, err := newStore(ctx, cfg)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "connect redis store")
		})
	})
}

func TestLoadDotEnv(t *testing.T) {
	convey.Convey("Given a .env file", t, func() {
		path := filepath.Join(t.TempDir(), ".env")
		convey.So(os.WriteFile(path, []byte("COHORT_DOTENV_PROBE=loaded\n"), 0o600), convey.ShouldBeNil)
		defer func() { _ = os.Unsetenv("COHORT_DOTENV_PROBE") }()

		convey.Convey("When loading it", func() {
			convey.So(loadDotEnv(path), convey.ShouldBeNil)

			convey.Convey("Then its variables are in the environment", func() {
				convey.So(os.Getenv("COHORT_DOTENV_PROBE"), convey.ShouldEqual, "loaded")
			})
		})

		convey.Convey("When the file is missing", func() {
			convey.So(loadDotEnv(path+".missing"), convey.ShouldBeNil)
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a started service over a panel file", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.PanelPath = writePanel(t)

		svc := newService(cfg, nil, logger.Nop())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(ctx, svc)

		convey.Convey("When searching over HTTP", func() {
			req := httptest.NewRequest("GET", "/search?q=Millennial+women+in+Toronto+working+in+fintech", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.Convey("Then the interpreted filter is applied to the panel", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				var body struct {
					Total  int `json:"total"`
					People []struct {
						ID string `json:"id"`
					} `json:"people"`
				}
				convey.So(json.NewDecoder(w.Body).Decode(&body), convey.ShouldBeNil)
				convey.So(body.Total, convey.ShouldEqual, 1)
				convey.So(body.People[0].ID, convey.ShouldEqual, "1")
			})
		})

		convey.Convey("When requesting the docs", func() {
			for _, path := range []string{"/", "/api-docs", "/openapi.yaml", "/healthz", "/stats", "/people"} {
				req := httptest.NewRequest("GET", path, nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a configuration", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			convey.Convey("Then run shuts down cleanly", func() {
				convey.So(run(ctx, cfg, logger.Nop()), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the panel file is missing", func() {
			cfg.PanelPath = filepath.Join(t.TempDir(), "missing.yaml")

			convey.Convey("Then run fails before serving", func() {
				convey.So(run(context.Background(), cfg, logger.Nop()), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it returns once the context is done", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New(app.WithLogger(logger.Nop()))

			convey.Convey("Then it returns once the context is done", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing metric updates", func() {
			svc := app.New(app.WithLogger(logger.Nop()))

			convey.Convey("Then they update without panicking", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})
	})
}
