package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/course-admin-api/internal/client"
	"github.com/noah-isme/course-admin-api/internal/slotset"
	"github.com/noah-isme/course-admin-api/internal/timeslot"
	"github.com/noah-isme/course-admin-api/pkg/config"
	"github.com/noah-isme/course-admin-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		baseURL  string
		term     string
		courseID string
	)
	flag.StringVar(&baseURL, "base-url", cfg.AdminAPI.BaseURL, "Course admin API base URL")
	flag.StringVar(&term, "term", "", "Term to work in, defaults to the newest known term")
	flag.StringVar(&courseID, "course", "", "Open this course on start")
	flag.DurationVar(&cfg.AdminAPI.Timeout, "timeout", cfg.AdminAPI.Timeout, "HTTP client timeout")
	flag.Parse()

	cfg.Log.Format = "console"
	logr, err := logger.New(cfg, "slot-editor")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(baseURL, &http.Client{Timeout: cfg.AdminAPI.Timeout})

	codec, err := remoteCodec(ctx, api)
	if err != nil {
		logr.Fatal("failed to load time slot catalog", zap.String("base_url", baseURL), zap.Error(err))
	}

	if term == "" {
		terms, err := api.ListTerms(ctx)
		if err != nil {
			logr.Fatal("failed to list terms", zap.Error(err))
		}
		term = client.DefaultTerm("", terms)
	}

	manager := slotset.NewManager(codec, api, logr)
	con := newConsole(api, manager, os.Stdout, logr, term)
	if courseID != "" {
		if err := con.open(ctx, courseID); err != nil {
			logr.Fatal("failed to open course", zap.String("course_id", courseID), zap.Error(err))
		}
	}

	if err := con.run(ctx, os.Stdin); err != nil {
		logr.Fatal("console failed", zap.Error(err))
	}
}

// remoteCodec builds the codec from the server's catalog so both sides agree on every id.
func remoteCodec(ctx context.Context, api *client.AdminClient) (*timeslot.Codec, error) {
	catalog, err := api.TimeSlotCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return timeslot.NewCodec(timeslot.Schedule{Days: catalog.Days, Hours: catalog.Hours})
}
