package service

import (
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"
)

// CallErrorKind classifies a failed collaborator call.
type CallErrorKind string

const (
	CallErrorConnect CallErrorKind = "connect"
	CallErrorTimeout CallErrorKind = "timeout"
	CallErrorStatus  CallErrorKind = "status"
)

// CallError carries the distinguishable failure cause of a collaborator
// call. StatusCode is set only for the status kind.
type CallError struct {
	Kind       CallErrorKind
	StatusCode int
	Err        error
}

func (e *CallError) Error() string {
	switch e.Kind {
	case CallErrorStatus:
		return fmt.Sprintf("quiz service returned status %d", e.StatusCode)
	case CallErrorTimeout:
		return fmt.Sprintf("quiz service call timed out: %v", e.Err)
	default:
		return fmt.Sprintf("quiz service unreachable: %v", e.Err)
	}
}

func (e *CallError) Unwrap() error { return e.Err }

// AddressResolver supplies the collaborator's base URL per call. Consul
// discovery implements it; a fixed URL is the fallback.
type AddressResolver interface {
	ServiceURL(name string) (string, error)
}

// QuizClient makes the one outbound call this service performs: a GET to the
// quiz-orchestration collaborator's hello endpoint.
type QuizClient struct {
	BaseURL     string
	ServiceName string
	Resolver    AddressResolver
	HTTP        *http.Client
	Logger      *log.Logger
}

func NewQuizClient(baseURL, serviceName string, resolver AddressResolver, timeout time.Duration, logger *log.Logger) *QuizClient {
	if logger == nil {
		logger = log.Default()
	}
	return &QuizClient{
		BaseURL:     baseURL,
		ServiceName: serviceName,
		Resolver:    resolver,
		HTTP:        &http.Client{Timeout: timeout},
		Logger:      logger,
	}
}

// CallHello GETs the collaborator's /quiz/hello endpoint and returns the body
// verbatim. Failures come back as a *CallError with the cause preserved.
func (c *QuizClient) CallHello() (string, error) {
	base := c.BaseURL
	if c.Resolver != nil {
		resolved, err := c.Resolver.ServiceURL(c.ServiceName)
		if err != nil {
			c.Logger.Printf("Discovery lookup for %q failed, using configured URL: %v", c.ServiceName, err)
		} else {
			base = resolved
		}
	}

	url := base + "/quiz/hello"
	c.Logger.Printf("Calling quiz service at %s", url)

	resp, err := c.HTTP.Get(url)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &CallError{Kind: CallErrorConnect, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &CallError{Kind: CallErrorStatus, StatusCode: resp.StatusCode}
	}

	c.Logger.Printf("Received %d bytes from quiz service", len(body))
	return string(body), nil
}

func classifyTransportError(err error) *CallError {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return &CallError{Kind: CallErrorTimeout, Err: err}
	}
	return &CallError{Kind: CallErrorConnect, Err: err}
}
