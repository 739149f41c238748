package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardbinder/cardbinder/pkg/collection"
	"github.com/cardbinder/cardbinder/pkg/common"
	"github.com/cardbinder/cardbinder/pkg/messaging"
	"github.com/cardbinder/cardbinder/pkg/server"
	"github.com/cardbinder/cardbinder/pkg/storage"
)

var enableProfiling = flag.Bool("profiling", false, "enable profiling endpoints")

var listenAddress = ":8080"
var dataDir = "data"
var rabbitUrl = os.Getenv("RABBIT_URL")
var rabbitPrefix = os.Getenv("RABBIT_PREFIX")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")

func init() {
	flag.Parse()
	if v, ok := os.LookupEnv("LISTEN_ADDRESS"); ok {
		listenAddress = v
	}
	if v, ok := os.LookupEnv("DATA_DIR"); ok {
		dataDir = v
	}
	if rabbitPrefix == "" {
		rabbitPrefix = "cardbinder"
	}
}

func main() {
	store := collection.NewStore()
	db := storage.NewDiskStorage(dataDir)
	if err := db.LoadCollection(store); err != nil {
		log.Printf("Could not load collection from %s: %v", dataDir, err)
	}

	var publisher *messaging.ChangePublisher
	if rabbitUrl != "" {
		var err error
		publisher, err = messaging.NewChangePublisher(rabbitUrl, rabbitPrefix)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		store.OnChange(publisher.Handle)
		log.Printf("Change messaging enabled, url: %s", rabbitUrl)
	}

	srv := &server.WebServer{
		Store: store,
		Db:    db,
	}
	if redisUrl != "" {
		srv.Cache = server.NewCache(redisUrl, redisPassword, 0)
		log.Printf("List cache enabled, url: %s", redisUrl)
	}

	auth, err := server.NewTokenAuth()
	if err != nil {
		log.Printf("Admin auth disabled: %v", err)
		srv.Auth = &server.MockAuth{}
	} else {
		srv.Auth = auth
	}

	api := srv.Handler()
	mux := http.NewServeMux()
	mux.Handle("/api/", api)
	mux.Handle("/health", api)
	mux.Handle("/metrics", promhttp.Handler())
	if *enableProfiling {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	}

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	httpServer := common.NewServerWithTimeouts(&http.Server{
		Addr:    listenAddress,
		Handler: mux,
	}, timeouts)

	saveHook := func(ctx context.Context) error {
		return db.SaveCollection(store)
	}
	closeHook := func(ctx context.Context) error {
		if publisher != nil {
			publisher.Close()
		}
		if srv.Cache != nil {
			srv.Cache.Close()
		}
		return nil
	}

	common.RunServerWithShutdown(httpServer, "cardbinder", timeouts.Shutdown, timeouts.Hook, saveHook, closeHook)
}
