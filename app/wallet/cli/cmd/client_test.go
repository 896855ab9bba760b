package cmd

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_ClientRetry(t *testing.T) {
	maxElapsed = 5 * time.Second

	t.Log("Given the need to call a node that is briefly failing.")
	{
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error":"busy"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"valid":true,"blocks":2}`))
		}))
		defer srv.Close()

		var resp struct {
			Valid  bool `json:"valid"`
			Blocks int  `json:"blocks"`
		}
		if err := newClient(srv.URL).get("/v1/chain/validate", &resp); err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould succeed after retrying: %s", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould succeed after retrying.", success)

		if calls.Load() != 3 || !resp.Valid || resp.Blocks != 2 {
			t.Fatalf("\t%s\tTest 0:\tShould call 3 times and decode the answer, got %d.", failed, calls.Load())
		}
		t.Logf("\t%s\tTest 0:\tShould call 3 times and decode the answer.", success)
	}
}

func Test_ClientPermanent(t *testing.T) {
	maxElapsed = 5 * time.Second

	t.Log("Given the need to stop on client errors.")
	{
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":"no transactions in mempool"}`))
		}))
		defer srv.Close()

		err := newClient(srv.URL).post("/v1/mining/mine", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "no transactions in mempool") {
			t.Fatalf("\t%s\tTest 0:\tShould return the node error, got %v.", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould return the node error.", success)

		if calls.Load() != 1 {
			t.Fatalf("\t%s\tTest 0:\tShould not retry, got %d calls.", failed, calls.Load())
		}
		t.Logf("\t%s\tTest 0:\tShould not retry.", success)
	}
}

func Test_ClientPostNotReplayed(t *testing.T) {
	maxElapsed = 5 * time.Second

	t.Log("Given the need to send a transaction only once.")
	{
		t.Logf("\tTest 0:\tWhen the connection drops after the node took the request.")
		{
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				conn, _, err := w.(http.Hijacker).Hijack()
				if err != nil {
					return
				}
				conn.Close()
			}))
			defer srv.Close()

			if err := newClient(srv.URL).post("/v1/tx/submit", map[string]int{"nonce": 1}, nil); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould return the transport error.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould return the transport error.", success)

			if calls.Load() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould send the request once, got %d.", failed, calls.Load())
			}
			t.Logf("\t%s\tTest 0:\tShould send the request once.", success)
		}

		t.Logf("\tTest 1:\tWhen the node answers with a server error.")
		{
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error":"mining timed out"}`))
			}))
			defer srv.Close()

			err := newClient(srv.URL).post("/v1/mining/mine", nil, nil)
			if err == nil || !strings.Contains(err.Error(), "mining timed out") {
				t.Fatalf("\t%s\tTest 1:\tShould return the node error, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould return the node error.", success)

			if calls.Load() != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould send the request once, got %d.", failed, calls.Load())
			}
			t.Logf("\t%s\tTest 1:\tShould send the request once.", success)
		}
	}
}

func Test_ClientPostDialRetry(t *testing.T) {
	maxElapsed = 5 * time.Second

	t.Log("Given the need to reach a node that is still starting.")
	{
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould reserve an address: %s", failed, err)
		}
		addr := ln.Addr().String()
		ln.Close()

		var calls atomic.Int32
		srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		started := make(chan struct{})
		go func() {
			defer close(started)
			time.Sleep(300 * time.Millisecond)
			l, err := net.Listen("tcp", addr)
			if err != nil {
				return
			}
			srv.Listener.Close()
			srv.Listener = l
			srv.Start()
		}()

		err = newClient("http://"+addr).post("/v1/tx/submit", map[string]int{"nonce": 1}, nil)
		<-started
		if err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould retry until the node is listening: %s", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould retry until the node is listening.", success)

		if calls.Load() != 1 {
			t.Fatalf("\t%s\tTest 0:\tShould deliver the request once, got %d.", failed, calls.Load())
		}
		t.Logf("\t%s\tTest 0:\tShould deliver the request once.", success)
	}
}
