package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/naucourse/chooser/internal/api/handlers"
	"github.com/naucourse/chooser/internal/withdrawal"
	"github.com/naucourse/chooser/internal/workerpool"
)

// TestNewServer tests NewServer creation
func TestNewServer(t *testing.T) {
	config := DefaultConfig()
	config.Engine = stubEngine{}

	server := NewServer(config)
	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.bindAddr != config.BindAddr {
		t.Errorf("NewServer() bindAddr = %q, want %q", server.bindAddr, config.BindAddr)
	}
	if server.bindPort != config.BindPort {
		t.Errorf("NewServer() bindPort = %d, want %d", server.bindPort, config.BindPort)
	}
	if server.engine == nil {
		t.Error("NewServer() did not set engine")
	}
	if server.history == nil {
		t.Error("NewServer() did not create history")
	}
}

// TestNewServer_NilConfig tests NewServer with nil config
func TestNewServer_NilConfig(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewServer() with nil config should panic")
		}
	}()

	NewServer(nil)
}

// TestNewServerWithListener_Invalid tests listener constructor validation
func TestNewServerWithListener_Invalid(t *testing.T) {
	config := DefaultConfig()
	if _, err := NewServerWithListener(config, nil); err == nil {
		t.Error("NewServerWithListener() without engine = nil error, want error")
	}

	config.Engine = stubEngine{}
	if _, err := NewServerWithListener(config, nil); err == nil {
		t.Error("NewServerWithListener() without listener = nil error, want error")
	}
}

// TestServer_EndToEnd drives a real coordinator through the HTTP API
func TestServer_EndToEnd(t *testing.T) {
	pool, err := workerpool.New(&workerpool.Config{Workers: 2})
	if err != nil {
		t.Fatalf("workerpool.New() error = %v", err)
	}
	defer pool.Close(context.Background())

	sub := withdrawal.SubmitterFunc(func(ctx context.Context, u withdrawal.Unit) (*withdrawal.Result, error) {
		if u.Course.PostID == "bad" {
			return nil, fmt.Errorf("rejected")
		}
		return &withdrawal.Result{Course: u.Course, Type: u.Type, Accepted: true, Message: "ok"}, nil
	})
	coord, err := withdrawal.NewCoordinator(pool, sub, nil)
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create test listener: %v", err)
	}

	config := DefaultConfig()
	config.Engine = coord
	server, err := NewServerWithListener(config, listener)
	if err != nil {
		t.Fatalf("NewServerWithListener() error = %v", err)
	}
	if err := server.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	base := "http://" + server.Addr() + "/api/v1"

	resp, err := http.Get(base + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /health status = %d, want 200", resp.StatusCode)
	}

	plan := `{"groups":[{"type":{"name":"Elective","start_date":"a","end_date":"b"},"courses":[
		{"post_id":"good","post_tc":"t","post_c":"c"},
		{"post_id":"bad","post_tc":"t","post_c":"c"}]}]}`
	resp, err = http.Post(base+"/withdrawals", "application/json", strings.NewReader(plan))
	if err != nil {
		t.Fatalf("POST /withdrawals error = %v", err)
	}
	var submitted handlers.SubmitResponse
	json.NewDecoder(resp.Body).Decode(&submitted)
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("POST /withdrawals status = %d, want 202", resp.StatusCode)
	}
	if submitted.Units != 2 || submitted.BatchID == "" {
		t.Fatalf("POST /withdrawals response = %+v", submitted)
	}

	var status handlers.StatusResponse
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err = http.Get(base + "/withdrawals/status")
		if err != nil {
			t.Fatalf("GET /withdrawals/status error = %v", err)
		}
		status = handlers.StatusResponse{}
		json.NewDecoder(resp.Body).Decode(&status)
		resp.Body.Close()

		if status.Last != nil && status.Last.Finished {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("batch did not finish in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if status.Last.ID != submitted.BatchID {
		t.Errorf("status last id = %q, want %q", status.Last.ID, submitted.BatchID)
	}
	if len(status.Last.Succeeded) != 1 || len(status.Last.Failed) != 1 {
		t.Errorf("status last = %+v, want one success and one failure", status.Last)
	}
	if status.Last.Failed[0] != withdrawal.DataPost {
		t.Errorf("status failure kind = %v, want %v", status.Last.Failed[0], withdrawal.DataPost)
	}
	if status.Engine.Completed != 2 {
		t.Errorf("status completed = %d, want 2", status.Engine.Completed)
	}

	resp, err = http.Post(base+"/withdrawals/cancel", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /withdrawals/cancel error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("POST /withdrawals/cancel status = %d, want 202", resp.StatusCode)
	}
}
