package aptos

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
)

var (
	// ErrInvalidKeyFormat is returned when a private key seed is not valid hex of the expected
	// length. It is raised locally before any network call.
	ErrInvalidKeyFormat = errors.New("invalid key format")
	// ErrNetwork is returned when the node or faucet cannot be reached, or answers with a
	// server side failure.
	ErrNetwork = errors.New("network error")
	// ErrAccountNotFound is returned when the sender account does not exist on chain.
	ErrAccountNotFound = errors.New("account not found")
	// ErrSigning is returned when a raw transaction cannot be signed by the account.
	ErrSigning = errors.New("signing error")
	// ErrTransactionRejected is returned when the node refuses a submitted transaction or the
	// transaction executes and aborts on chain.
	ErrTransactionRejected = errors.New("transaction rejected")
	// ErrFaucetExhausted is returned when the faucet refuses to fund an address because it is
	// rate limited or out of funds.
	ErrFaucetExhausted = errors.New("faucet exhausted")
)

// classifiedError attaches a taxonomy sentinel to the underlying cause so both can be matched
// with errors.Is and errors.As.
type classifiedError struct {
	kind  error
	cause error
}

func (e *classifiedError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.cause)
}

func (e *classifiedError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

// classify wraps cause with kind unless cause already carries one of the taxonomy sentinels.
func classify(kind, cause error) error {
	if cause == nil {
		return nil
	}
	if IsClassified(cause) {
		return cause
	}

	return &classifiedError{kind: kind, cause: cause}
}

// IsClassified reports whether err already carries one of the taxonomy sentinels.
func IsClassified(err error) bool {
	for _, kind := range []error{
		ErrInvalidKeyFormat, ErrNetwork, ErrAccountNotFound, ErrSigning,
		ErrTransactionRejected, ErrFaucetExhausted,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}

	return false
}

// IsRetryable reports whether err is a transient failure worth retrying. Only network errors
// qualify; everything the chain or the local key material reports is final.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork) && !errors.Is(err, context.Canceled)
}

// httpError extracts the SDK HTTP error from err, if any.
func httpError(err error) (*aptoslib.HttpError, bool) {
	var herr *aptoslib.HttpError
	if errors.As(err, &herr) {
		return herr, true
	}

	return nil, false
}

// isConnectionError reports whether err was caused by the transport rather than the remote API.
func isConnectionError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return strings.Contains(err.Error(), "connection refused")
}

// bodyContains reports whether the HTTP error body contains any of the given fragments,
// case-insensitively.
func bodyContains(herr *aptoslib.HttpError, fragments ...string) bool {
	body := strings.ToLower(string(herr.Body))
	for _, f := range fragments {
		if strings.Contains(body, f) {
			return true
		}
	}

	return false
}

// classifyQueryError maps failures of calls that read account state (building a transaction,
// reading a sequence number or balance).
func classifyQueryError(err error) error {
	if err == nil {
		return nil
	}
	if herr, ok := httpError(err); ok {
		switch {
		case herr.StatusCode == http.StatusNotFound,
			bodyContains(herr, "account_not_found", "resource_not_found"):
			return classify(ErrAccountNotFound, err)
		case herr.StatusCode >= http.StatusInternalServerError,
			herr.StatusCode == http.StatusTooManyRequests:
			return classify(ErrNetwork, err)
		}

		return err
	}
	if isConnectionError(err) {
		return classify(ErrNetwork, err)
	}

	return err
}

// classifySubmitError maps failures of transaction submission.
func classifySubmitError(err error) error {
	if err == nil {
		return nil
	}
	if herr, ok := httpError(err); ok {
		switch {
		case herr.StatusCode >= http.StatusInternalServerError,
			herr.StatusCode == http.StatusTooManyRequests:
			return classify(ErrNetwork, err)
		case herr.StatusCode >= http.StatusBadRequest:
			return classify(ErrTransactionRejected, err)
		}

		return err
	}
	if isConnectionError(err) {
		return classify(ErrNetwork, err)
	}

	return err
}

// classifyFaucetError maps failures of faucet funding.
func classifyFaucetError(err error) error {
	if err == nil {
		return nil
	}
	if herr, ok := httpError(err); ok {
		switch {
		case herr.StatusCode == http.StatusTooManyRequests,
			herr.StatusCode == http.StatusServiceUnavailable,
			bodyContains(herr, "exhausted", "rate limit", "insufficient"):
			return classify(ErrFaucetExhausted, err)
		case herr.StatusCode >= http.StatusInternalServerError:
			return classify(ErrNetwork, err)
		}

		return err
	}
	if isConnectionError(err) {
		return classify(ErrNetwork, err)
	}
	if msg := strings.ToLower(err.Error()); strings.Contains(msg, "exhausted") || strings.Contains(msg, "rate limit") {
		return classify(ErrFaucetExhausted, err)
	}

	return err
}
