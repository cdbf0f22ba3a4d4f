package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kelseyhightower/envconfig"

	"github.com/skerry/tidedash/pkg/admiralty"
	"github.com/skerry/tidedash/pkg/handlers"
	"github.com/skerry/tidedash/pkg/metrics"
)

type Config struct {
	Port    string `default:"8080"`
	Prefix  string `default:"/"`
	Station string `default:"0113"`
	APIKey  string `envconfig:"ADMIRALTY_API_KEY"`
}

func main() {
	var env Config
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal(err.Error())
	}
	if env.APIKey == "" {
		log.Println("ADMIRALTY_API_KEY is not set; the API will reject tide fetches")
	}

	r := mux.NewRouter().StrictSlash(true)
	r.Use(metrics.LatencyHandler)
	s := r.PathPrefix(env.Prefix).Subrouter()
	handlers.Register(s, handlers.Config{
		Prefix:  env.Prefix,
		Client:  &admiralty.Client{Key: env.APIKey},
		Station: admiralty.Station(env.Station),
	})

	srv := &http.Server{
		Handler:      r,
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	log.Printf("Listening and serving on %s%s", srv.Addr, env.Prefix)
	log.Fatal(srv.ListenAndServe())
}
