package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable"
)

var errMalformedRequest = errors.New("malformed request")

type request struct {
	ID     int
	Method string
	Path   string
}

type response struct {
	RequestID int
	Status    int
	Body      string
}

// requestError is the error payload of the request stream.
type requestError struct {
	RequestID int
	Err       error
}

func (e requestError) Error() string {
	return fmt.Sprintf("request %d: %v", e.RequestID, e.Err)
}

func (e requestError) Unwrap() error {
	return e.Err
}

func mockRequests() []request {
	return []request{
		{ID: 1, Method: http.MethodGet, Path: "/books"},
		{ID: 2, Method: http.MethodPost, Path: "/books/42/lend"},
		{ID: 3, Method: http.MethodGet, Path: "/readers/7"},
	}
}

// requestStream emits requests in order and fails with a requestError at the first malformed one.
func requestStream(requests []request, logger *slog.Logger) (observable.Observable[request, requestError], error) {
	return observable.New(
		func(o *observable.Observer[request, requestError]) observable.Teardown {
			for _, req := range requests {
				if o.IsUnsubscribed() {
					return nil
				}

				if req.Method == "" || !strings.HasPrefix(req.Path, "/") {
					o.Error(requestError{RequestID: req.ID, Err: errMalformedRequest})
					return nil
				}

				o.Next(req)
			}

			o.Complete()

			return nil
		},
		observable.WithName("requests"),
		observable.WithLogger(logger),
	)
}

type requestHandler struct {
	logger    *slog.Logger
	responses []response
	failure   error
}

func (h *requestHandler) handleRequest(req request) {
	res := response{RequestID: req.ID, Status: http.StatusOK, Body: req.Method + " " + req.Path}
	if req.Method == http.MethodPost {
		res.Status = http.StatusCreated
	}

	h.responses = append(h.responses, res)
	h.logger.Info("handled request", "request_id", req.ID, "status", res.Status, "body", res.Body)
}

func (h *requestHandler) handleError(err requestError) {
	h.failure = err
	h.logger.Error("request stream failed", "request_id", err.RequestID, "error", err.Error())
}

func (h *requestHandler) handleComplete() {
	h.logger.Info("all requests handled", "responses", len(h.responses))
}

func (h *requestHandler) handlers() observable.Handlers[request, requestError] {
	return observable.Handlers[request, requestError]{
		Next:     h.handleRequest,
		Error:    h.handleError,
		Complete: h.handleComplete,
	}
}

func run(logger *slog.Logger, requests []request) error {
	stream, err := requestStream(requests, logger)
	if err != nil {
		return err
	}

	handler := &requestHandler{logger: logger}
	stream.Subscribe(handler.handlers())

	return handler.failure
}
