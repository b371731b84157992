// Package main runs a demo WebSocket client for run events.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/api/runs/ws"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var e event
			if err := c.ReadJSON(&e); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %v", e.Type, e.Data)
		}
	}()

	// Fetch the sample packing problem and compare both algorithms on it;
	// each finished run arrives as its own event.
	resp, err := http.Get(base + "/api/packing/example")
	if err != nil {
		log.Fatal(err)
	}
	example, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		log.Fatal(err)
	}
	resp, err = http.Post(base+"/api/packing/compare", "application/json", bytes.NewReader(example))
	if err != nil {
		log.Fatal(err)
	}
	var cmp struct {
		Comparison map[string]any `json:"comparison"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cmp); err != nil {
		log.Fatal(err)
	}
	_ = resp.Body.Close()
	log.Printf("comparison: %v", cmp.Comparison)

	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}
