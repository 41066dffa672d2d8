// Package control serves an HTTP surface for a running session. It lists
// graph nodes, accepts parameter changes and exposes metrics.
//
//	GET  /nodes                        nodes with their ports
//	PUT  /nodes/{node}/params/{param}  body is a new value
//	GET  /metrics                      prometheus metrics
//	GET  /debug/vars                   expvar counters
package control

import (
	"encoding/json"
	"errors"
	"expvar"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dudk/sigraph"
	"github.com/dudk/sigraph/host"
	"github.com/dudk/sigraph/patch"
)

// maxBody limits the size of parameter values.
const maxBody = 64

// Node is a description of a graph node.
type Node struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Params  []string `json:"params,omitempty"`
	Inputs  []string `json:"inputs,omitempty"`
	Outputs []string `json:"outputs,omitempty"`
}

type server struct {
	graph   *patch.Graph
	session *host.Session
}

// NewHandler creates a handler for the session of the graph. Metrics are
// served from the gatherer if it's not nil.
func NewHandler(g *patch.Graph, s *host.Session, gatherer prometheus.Gatherer) http.Handler {
	srv := &server{graph: g, session: s}
	r := chi.NewRouter()
	r.Get("/nodes", srv.nodes)
	r.Put("/nodes/{node}/params/{param}", srv.setParam)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	r.Handle("/debug/vars", expvar.Handler())
	return r
}

func (srv *server) nodes(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(srv.graph.Nodes))
	for name := range srv.graph.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	nodes := make([]Node, 0, len(names))
	for _, name := range names {
		k := srv.graph.Nodes[name].Kind()
		nodes = append(nodes, Node{
			Name:    name,
			Kind:    k.String(),
			Params:  k.Params(),
			Inputs:  k.Inputs(),
			Outputs: k.Outputs(),
		})
	}
	writeJSON(w, nodes)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(append(b, '\n'))
}

func (srv *server) setParam(w http.ResponseWriter, r *http.Request) {
	n := srv.graph.Node(chi.URLParam(r, "node"))
	if n == nil {
		http.Error(w, patch.ErrUnknownNode.Error(), http.StatusNotFound)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(body)), 32)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = srv.session.Push(host.Mutation{
		Node:  n,
		Param: chi.URLParam(r, "param"),
		Value: float32(v),
	})
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, sigraph.ErrUnknownParam):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, host.ErrMutationOverflow):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
