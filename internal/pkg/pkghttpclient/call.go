package pkghttpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/shandysiswandi/faultline/internal/pkg/pkglog"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgresult"
)

const maxErrorBodyBytes = 64 * 1024

// Condition names the transport outcome of a failed call.
type Condition int

const (
	ConditionUnknown     Condition = iota // Anything not recognized below.
	ConditionTimeout                      // Connect, send or receive timed out.
	ConditionBadResponse                  // The server answered with a non-2xx status.
	ConditionCancel                       // The caller canceled the call.
	ConditionConnection                   // No route to the server.
	ConditionCertificate                  // TLS or certificate verification failed.
)

func (c Condition) String() string {
	switch c {
	case ConditionTimeout:
		return "CONDITION_TIMEOUT"
	case ConditionBadResponse:
		return "CONDITION_BAD_RESPONSE"
	case ConditionCancel:
		return "CONDITION_CANCEL"
	case ConditionConnection:
		return "CONDITION_CONNECTION"
	case ConditionCertificate:
		return "CONDITION_CERTIFICATE"
	default:
		return "CONDITION_UNKNOWN"
	}
}

// RemoteError is the failure side of every Call.
type RemoteError struct {
	Condition  Condition
	Message    string
	StatusCode int
	Cause      error
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// errorEnvelope is the server's error body.
type errorEnvelope struct {
	Error      bool   `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// successEnvelope is the server's success body.
type successEnvelope struct {
	Message *string         `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client calls a single remote service.
type Client struct {
	baseURL string
	hc      *http.Client
	header  http.Header
}

// NewClient binds hc to baseURL. A nil hc gets NewHTTPClient defaults.
func NewClient(baseURL string, hc *http.Client, header http.Header) *Client {
	if hc == nil {
		hc = NewHTTPClient()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      hc,
		header:  header.Clone(),
	}
}

// Request describes one call. Body, when not nil, is sent as JSON.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
}

// Call performs req and decodes a 2xx JSON body into T. A body shaped like
// {"message": ..., "data": ...} is unwrapped to its data. Everything else
// becomes a failure carrying a *RemoteError.
func Call[T any](ctx context.Context, c *Client, req Request) pkgresult.Result[T] {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return pkgresult.Failure[T](&RemoteError{
			Condition: ConditionUnknown,
			Message:   "Network error: " + err.Error(),
			Cause:     err,
		})
	}

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return pkgresult.Failure[T](Classify(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pkgresult.Failure[T](badResponse(resp))
	}

	var out T
	if resp.StatusCode == http.StatusNoContent {
		return pkgresult.Success(out)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgresult.Failure[T](Classify(err))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return pkgresult.Success(out)
	}

	if err := decode(body, &out); err != nil {
		return pkgresult.Failure[T](&RemoteError{
			Condition:  ConditionUnknown,
			Message:    "Network error: invalid response body: " + err.Error(),
			StatusCode: resp.StatusCode,
			Cause:      err,
		})
	}

	return pkgresult.Success(out)
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	for k, vs := range c.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if cid := pkglog.GetCorrelationID(ctx); cid != "" && httpReq.Header.Get(pkglog.HeaderCorrelationID) == "" {
		httpReq.Header.Set(pkglog.HeaderCorrelationID, cid)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	return httpReq, nil
}

func decode(body []byte, out any) error {
	var env successEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(body, out)
}

func badResponse(resp *http.Response) *RemoteError {
	//nolint:errcheck // best effort, the status alone is still reported
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	status := resp.StatusCode
	msg := ""

	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		msg = env.Message
		if env.StatusCode != 0 {
			status = env.StatusCode
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	if msg == "" {
		msg = "Unexpected response"
	}

	return &RemoteError{
		Condition:  ConditionBadResponse,
		Message:    fmt.Sprintf("%s (status %d)", msg, status),
		StatusCode: status,
	}
}

// Classify maps a transport failure onto a RemoteError.
func Classify(err error) *RemoteError {
	switch {
	case errors.Is(err, context.Canceled):
		return &RemoteError{Condition: ConditionCancel, Message: "Request cancelled", Cause: err}
	case isTimeout(err):
		return &RemoteError{Condition: ConditionTimeout, Message: "Connection timeout", Cause: err}
	case isCertificate(err):
		return &RemoteError{
			Condition: ConditionCertificate,
			Message:   "Certificate verification failed: " + innermost(err).Error(),
			Cause:     err,
		}
	case isConnection(err):
		return &RemoteError{Condition: ConditionConnection, Message: "No internet connection", Cause: err}
	default:
		return &RemoteError{Condition: ConditionUnknown, Message: "Network error: " + innermost(err).Error(), Cause: err}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func isCertificate(err error) bool {
	var (
		verifyErr   *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		invalidCert x509.CertificateInvalidError
		hostErr     x509.HostnameError
		recordErr   tls.RecordHeaderError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &unknownAuth) ||
		errors.As(err, &invalidCert) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &recordErr)
}

func isConnection(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}

// innermost drops the *url.Error prefix ("Get \"...\": ") from a message.
func innermost(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err
	}
	return err
}
