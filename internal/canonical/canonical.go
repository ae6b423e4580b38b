// Package canonical serializes JSON values in canonical form: object keys
// sorted, no insignificant whitespace, non-finite numbers rejected. Digests
// computed over this form are stable across runs and machines.
package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Marshal canonicalizes a decoded JSON value (the result of unmarshaling
// into any).
func Marshal(value any) (string, error) {
	var b strings.Builder
	if err := write(&b, value); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Digest returns the hex sha256 of the canonical form.
func Digest(value any) (string, error) {
	s, err := Marshal(value)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:]), nil
}

func write(b *strings.Builder, value any) error {
	switch v := value.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if v {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case string:
		return writeEncoded(b, v)
	case json.Number:
		b.WriteString(v.String())
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite number not allowed")
		}
		return writeEncoded(b, v)
	case int:
		return writeEncoded(b, v)
	case []any:
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := write(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeEncoded(b, k); err != nil {
				return err
			}
			b.WriteByte(':')
			if err := write(b, v[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return fmt.Errorf("non-JSON value type %T", value)
	}
	return nil
}

func writeEncoded(b *strings.Builder, v any) error {
	enc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b.Write(enc)
	return nil
}
