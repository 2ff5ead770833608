package panelgen_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/cohort/internal/adapters/http/api"
	"github.com/okian/cohort/internal/adapters/repository"
	service "github.com/okian/cohort/internal/app"
	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/internal/panelgen"
	"github.com/okian/cohort/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

var refTime = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestGenerationFor(t *testing.T) {
	Convey("Given birth years around generation boundaries", t, func() {
		cases := []struct {
			year int
			want string
		}{
			{2008, model.GenerationGenZ},
			{1997, model.GenerationGenZ},
			{1996, model.GenerationMillennial},
			{1981, model.GenerationMillennial},
			{1980, model.GenerationGenX},
			{1965, model.GenerationGenX},
			{1964, panelgen.GenerationBoomer},
		}
		for _, c := range cases {
			So(panelgen.GenerationFor(c.year), ShouldEqual, c.want)
		}
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given a generation config", t, func() {
		ctx := context.Background()
		cfg := &panelgen.Config{NumPeople: 200, Seed: 42, Workers: 4, Now: refTime}

		Convey("When generating a panel", func() {
			people, err := panelgen.Generate(ctx, cfg)
			So(err, ShouldBeNil)

			Convey("Then every person is well formed", func() {
				So(len(people), ShouldEqual, 200)
				seen := map[string]bool{}
				for _, p := range people {
					So(p.ID, ShouldNotBeBlank)
					So(seen[p.ID], ShouldBeFalse)
					seen[p.ID] = true
					So(p.Age, ShouldBeBetweenOrEqual, 18, 65)
					So(p.Generation, ShouldEqual, panelgen.GenerationFor(refTime.Year()-p.Age))
					So(p.Gender, ShouldBeIn, []string{model.GenderWomen, model.GenderMen})
					So(p.Location, ShouldContainSubstring, ", ")
					So(p.Industry, ShouldNotBeBlank)
					So(p.Attributes, ShouldContainKey, "income")
				}
			})
		})

		Convey("When generating twice with different worker counts", func() {
			a, err := panelgen.Generate(ctx, cfg)
			So(err, ShouldBeNil)
			cfg.Workers = 1
			b, err := panelgen.Generate(ctx, cfg)
			So(err, ShouldBeNil)

			Convey("Then the panels are identical", func() {
				So(b, ShouldResemble, a)
			})
		})

		Convey("When the seed changes", func() {
			a, _ := panelgen.Generate(ctx, cfg)
			cfg.Seed = 43
			b, _ := panelgen.Generate(ctx, cfg)
			So(b[0].ID, ShouldNotEqual, a[0].ID)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := panelgen.Generate(cctx, cfg)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("When the size is zero", func() {
			cfg.NumPeople = 0
			people, err := panelgen.Generate(ctx, cfg)
			So(err, ShouldBeNil)
			So(people, ShouldBeEmpty)
		})
	})
}

func newTestService(people []model.Person) (*httptest.Server, func()) {
	ctx := context.Background()
	store, err := repository.NewMemoryStore(ctx, repository.WithPeople(people))
	So(err, ShouldBeNil)
	svc := service.New(service.WithStore(store), service.WithLogger(logger.Nop()))
	So(svc.Start(ctx), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	srv := httptest.NewServer(mux)
	return srv, func() {
		srv.Close()
		svc.Stop()
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		srv, cleanup := newTestService([]model.Person{
			{ID: "1", Age: 30, Gender: "Women", Generation: "Millennial", Location: "Toronto, ON", Industry: "Fintech"},
		})
		defer cleanup()

		output := filepath.Join(t.TempDir(), "out", "panel.json")
		cfg := &panelgen.Config{
			NumPeople:  50,
			Seed:       7,
			Workers:    2,
			OutputFile: output,
			BaseURL:    srv.URL,
			Timeout:    5 * time.Second,
			Verbose:    true,
			Now:        refTime,
		}

		Convey("When running generation with a smoke test", func() {
			stats, err := panelgen.Run(context.Background(), cfg)

			Convey("Then the panel is written and every query succeeds", func() {
				So(err, ShouldBeNil)
				So(stats.PeopleGenerated, ShouldEqual, 50)
				So(stats.QueriesSent, ShouldEqual, len(panelgen.DefaultQueries))
				So(stats.QueriesFailed, ShouldEqual, 0)

				people, err := repository.ReadPanelFile(output)
				So(err, ShouldBeNil)
				So(len(people), ShouldEqual, 50)
			})
		})

		Convey("When the service is unreachable", func() {
			cfg.BaseURL = "http://127.0.0.1:1"
			cfg.Timeout = time.Second
			_, err := panelgen.Run(context.Background(), cfg)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a service that rejects searches", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		mux.HandleFunc("/search", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		cfg := &panelgen.Config{
			NumPeople: 5,
			Workers:   1,
			BaseURL:   srv.URL,
			Queries:   []string{"women", "men"},
			Timeout:   time.Second,
		}

		Convey("Then the run reports the failed queries", func() {
			stats, err := panelgen.Run(context.Background(), cfg)
			So(errors.Is(err, panelgen.ErrSmokeFailed), ShouldBeTrue)
			So(stats.QueriesFailed, ShouldEqual, 2)
		})
	})

	Convey("Given a service that fails the first search", t, func() {
		var calls atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		mux.HandleFunc("/search", func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				http.Error(w, "warming up", http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"fields":["gender"],"total":3,"returned":3}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		cfg := &panelgen.Config{
			NumPeople: 5,
			Workers:   1,
			BaseURL:   srv.URL,
			Queries:   []string{"women"},
			Timeout:   time.Second,
			Retries:   2,
		}

		Convey("Then the query is retried and succeeds", func() {
			stats, err := panelgen.Run(context.Background(), cfg)
			So(err, ShouldBeNil)
			So(stats.QueriesFailed, ShouldEqual, 0)
			So(calls.Load(), ShouldEqual, 2)
		})
	})

	Convey("Given an unreachable Redis", t, func() {
		cfg := &panelgen.Config{
			NumPeople: 5,
			Workers:   1,
			RedisURL:  "redis://127.0.0.1:1/0?dial_timeout=1s",
			RedisKey:  "cohort:people",
		}

		Convey("Then publishing fails the run", func() {
			stats, err := panelgen.Run(context.Background(), cfg)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "redis")
			So(stats.PeopleGenerated, ShouldEqual, 5)
		})
	})
}
