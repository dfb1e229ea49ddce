// Package httpclient provides a shared pool of tuned HTTP clients for
// calls to external providers (Twilio, ipapi.co).
package httpclient

import (
	"net/http"
	"sync"
	"time"
)

// Pool manages a fixed-size pool of HTTP clients
type Pool struct {
	clients chan *http.Client
	factory func() *http.Client
}

// NewPool creates a pool pre-populated with maxClients clients
func NewPool(maxClients int) *Pool {
	pool := &Pool{
		clients: make(chan *http.Client, maxClients),
		factory: newClient,
	}
	for i := 0; i < maxClients; i++ {
		pool.clients <- pool.factory()
	}
	return pool
}

func newClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Get retrieves a client from the pool, creating one if the pool is empty
func (p *Pool) Get() *http.Client {
	select {
	case client := <-p.clients:
		return client
	default:
		return p.factory()
	}
}

// Put returns a client to the pool, discarding it if the pool is full
func (p *Pool) Put(client *http.Client) {
	select {
	case p.clients <- client:
	default:
	}
}

var (
	globalPool *Pool
	once       sync.Once
)

// GetGlobalPool returns the shared process-wide pool
func GetGlobalPool() *Pool {
	once.Do(func() {
		globalPool = NewPool(20)
	})
	return globalPool
}
