// Package token decodes the payload segment of a bearer token into claims.
//
// The decode is best-effort and carries no cryptographic trust: the client
// never verifies a signature; authorization is enforced server-side.
package token

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/facturapp/billing-system/internal/core/domain"
)

// Codec extracts identity claims from raw bearer tokens.
type Codec struct {
	log zerolog.Logger
}

func NewCodec(log zerolog.Logger) Codec {
	return Codec{log: log}
}

// Decode parses the second dot-delimited segment of raw as a base64url JSON
// object. Any failure — missing segments, invalid base64, invalid JSON —
// yields nil; the cause is logged and never propagated to the caller.
func (c Codec) Decode(raw string) *domain.Claims {
	segments := strings.Split(raw, ".")
	if len(segments) < 2 {
		c.log.Debug().Msg("token decode: missing payload segment")
		return nil
	}

	payload := strings.NewReplacer("-", "+", "_", "/").Replace(segments[1])
	if rem := len(payload) % 4; rem != 0 {
		payload += strings.Repeat("=", 4-rem)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		c.log.Debug().Err(err).Msg("token decode: invalid base64 payload")
		return nil
	}
	if !utf8.Valid(decoded) {
		c.log.Debug().Msg("token decode: payload is not valid UTF-8")
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(decoded))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		c.log.Debug().Err(err).Msg("token decode: payload is not a JSON object")
		return nil
	}

	return &domain.Claims{
		UserID:      firstClaim(fields, "id", "sub"),
		RoleName:    claimString(fields["role"]),
		RoleID:      claimString(fields["rolId"]),
		DisplayName: claimString(fields["name"]),
	}
}

// claimString normalises a claim value to a string. Numeric identifiers are
// common for rolId, so json.Number is rendered verbatim; everything else
// counts as absent.
func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func firstClaim(fields map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := claimString(fields[k]); s != "" {
			return s
		}
	}
	return ""
}
