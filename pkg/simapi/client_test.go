package simapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"npv-risk-web/internal/models"
)

func TestSimulate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/simulate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}

		var req models.SimulationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.NumSimulations != 1000 {
			t.Errorf("numSimulations = %d, want 1000", req.NumSimulations)
		}

		json.NewEncoder(w).Encode(models.SimulationResult{MeanNPV: 123, ProbLoss: 0.1})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 5*time.Second)
	result, err := client.Simulate(context.Background(), models.SimulationRequest{NumSimulations: 1000})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if result.MeanNPV != 123 || result.ProbLoss != 0.1 {
		t.Errorf("result = %+v", result)
	}
}

func TestSimulate_ServerErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"error string is kept verbatim", 400, `{"error":"Duration must be positive","code":400}`, "Duration must be positive"},
		{"missing error field", 500, `{"message":"boom"}`, "Failed to run simulation"},
		{"non-JSON body", 502, `<html>bad gateway</html>`, "Failed to run simulation"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, 5*time.Second).Simulate(context.Background(), models.SimulationRequest{})

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.Message != tc.expected || apiErr.StatusCode != tc.status {
				t.Errorf("APIError = %+v, want %q with status %d", apiErr, tc.expected, tc.status)
			}
		})
	}
}

func TestSimulate_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Simulate(context.Background(), models.SimulationRequest{})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestSimulate_MalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Simulate(context.Background(), models.SimulationRequest{})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestDemo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/demo" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"initialInvestment":100000,"duration":5,"historicalRevenues":[1,2]}`))
	}))
	defer server.Close()

	demo, err := NewClient(server.URL, time.Second).Demo(context.Background())
	if err != nil {
		t.Fatalf("Demo() error = %v", err)
	}
	if demo.InitialInvestment != 100000 || demo.Duration != 5 || len(demo.HistoricalRevenues) != 2 {
		t.Errorf("demo = %+v", demo)
	}
}
