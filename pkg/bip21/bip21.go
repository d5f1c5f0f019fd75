// Package bip21 implements the BIP 21 payment request URI format.
//
// BIP 21 defines a standardized URI format for Bitcoin payment requests,
// allowing payment information (recipient address, amount, label, message)
// to be shared via QR codes, links, or text.
//
// URI format:
//
//	bitcoin:<address>?amount=<btc>&label=<label>&message=<message>
//
// Unknown parameters are ignored, except parameters prefixed with "req-"
// which the spec requires a non-understanding parser to reject.
//
// See: https://github.com/bitcoin/bips/blob/master/bip-0021.mediawiki
package bip21

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

const scheme = "bitcoin:"

// PaymentRequest is a parsed BIP 21 payment request.
type PaymentRequest struct {
	Address string          // Recipient address; may be empty for a bare request
	Amount  *btcutil.Amount // Requested amount, nil when the payer chooses
	Label   *string         // Optional label for the recipient
	Message *string         // Optional message to display to the payer
}

// Parse parses a BIP 21 payment request URI. The "bitcoin:" prefix is
// optional and matched case-insensitively.
func Parse(uri string) (*PaymentRequest, error) {
	if len(uri) >= len(scheme) && strings.EqualFold(uri[:len(scheme)], scheme) {
		uri = uri[len(scheme):]
	}

	address := uri
	var query string
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		address, query = uri[:i], uri[i+1:]
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("parsing query: %w", err)
	}
	for key := range params {
		if strings.HasPrefix(key, "req-") {
			return nil, fmt.Errorf("unsupported required parameter %q", key)
		}
	}

	req := &PaymentRequest{Address: address}

	if amountStr := params.Get("amount"); amountStr != "" {
		amount, err := parseAmount(amountStr)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		req.Amount = &amount
	}
	if label := params.Get("label"); label != "" {
		req.Label = &label
	}
	if message := params.Get("message"); message != "" {
		req.Message = &message
	}

	return req, nil
}

// Encode creates a BIP 21 URI from the payment request. It is the inverse
// of Parse.
func (req *PaymentRequest) Encode() string {
	uri := scheme + req.Address

	params := url.Values{}
	if req.Amount != nil {
		params.Add("amount", formatAmount(*req.Amount))
	}
	if req.Label != nil {
		params.Add("label", *req.Label)
	}
	if req.Message != nil {
		params.Add("message", *req.Message)
	}
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	return uri
}

// parseAmount parses a decimal BTC amount. Amounts must be non-negative.
func parseAmount(s string) (btcutil.Amount, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a valid number: %w", err)
	}
	if f < 0 {
		return 0, fmt.Errorf("amount cannot be negative")
	}
	return btcutil.NewAmount(f)
}

// formatAmount renders an amount as decimal BTC without trailing zeros.
func formatAmount(a btcutil.Amount) string {
	s := strconv.FormatFloat(a.ToBTC(), 'f', 8, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
