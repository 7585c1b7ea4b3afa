package simulator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"scenegen/internal/core/domain"
)

func TestSpawnPostsDescriptorAndPose(t *testing.T) {
	var gotPath string
	var gotBody spawnRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(statusResponse{Success: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	pose := domain.Pose{Position: domain.Point3{X: -0.5, Y: 0, Z: 0.025}, RPY: [3]float64{0, 0, 1.2}}
	err := client.Spawn(context.Background(), "target_object", "<sdf/>", pose)
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}

	if gotPath != "/models" {
		t.Errorf("path = %q, want /models", gotPath)
	}
	if gotBody.Name != "target_object" || gotBody.Descriptor != "<sdf/>" {
		t.Errorf("body = %+v", gotBody)
	}
	if gotBody.Pose.Position.X != -0.5 {
		t.Errorf("pose x = %g", gotBody.Pose.Position.X)
	}
}

func TestSpawnRejectedByBridge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(statusResponse{Success: false, Message: "duplicate model"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	err := client.Spawn(context.Background(), "x", "<sdf/>", domain.Pose{})
	if err == nil {
		t.Fatal("Spawn() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate model") {
		t.Errorf("error = %v, want bridge message", err)
	}
}

func TestSpawnEmptyBodyIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	if err := client.Spawn(context.Background(), "x", "<sdf/>", domain.Pose{}); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
}

func TestGetPose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/object_1/pose" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(domain.Point3{X: -0.45, Y: 0.08, Z: 0.03})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	pose, err := client.GetPose(context.Background(), "object_1")
	if err != nil {
		t.Fatalf("GetPose() error = %v", err)
	}
	if pose.X != -0.45 || pose.Y != 0.08 || pose.Z != 0.03 {
		t.Errorf("pose = %+v", pose)
	}
}

func TestApplyForceEncodesDuration(t *testing.T) {
	var gotBody forceRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/object_1/force" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(statusResponse{Success: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	dir := domain.Point3{X: 1, Y: 0, Z: 0}
	err := client.ApplyForce(context.Background(), "object_1", dir, 2, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("ApplyForce() error = %v", err)
	}
	if gotBody.Magnitude != 2 {
		t.Errorf("magnitude = %g, want 2", gotBody.Magnitude)
	}
	if gotBody.DurationMS != 100 {
		t.Errorf("duration_ms = %d, want 100", gotBody.DurationMS)
	}
}

func TestDeleteNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	err := client.Delete(context.Background(), "ghost")
	if err == nil {
		t.Fatal("Delete() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, want status in message", err)
	}
}

func TestPingUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // immediately, so the port is dead

	client := NewClient(server.URL, time.Second)
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("Ping() expected error against closed server, got nil")
	}
}

func TestContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL, 10*time.Second)
	if err := client.Ping(ctx); err == nil {
		t.Fatal("Ping() expected error after context timeout, got nil")
	}
}
