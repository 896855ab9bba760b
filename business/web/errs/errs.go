// Package errs provides the error types the node's handlers use to report
// failures to wallets.
package errs

import "errors"

// Response is the body returned to a wallet when a request fails. TraceID
// matches the traceid field in the node's logs for the request.
type Response struct {
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	TraceID string            `json:"trace_id,omitempty"`
}

// Trusted is an error whose message is safe to show to the wallet, along
// with the status the node answers with.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps an expected failure, such as an empty mempool or a bad
// signature, with the status to answer with.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap gives errors.Is access to the underlying ledger error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted reports whether a Trusted error exists in the chain.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns the Trusted error in the chain or nil.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}
