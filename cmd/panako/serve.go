package main

import (
	"log"
	"net/http"

	"panako/core"
	"panako/httpapi"
	"panako/storage"
)

func runServe(backend storage.Backend, cfg core.Config, port string) {
	server := httpapi.NewServer(backend, cfg)

	log.Printf("starting server on port %s", port)
	if err := http.ListenAndServe(":"+port, server.Mux()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
