package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ComputeKey fingerprints a provider request. Object keys inside params are
// canonicalized (sorted) before hashing, so two semantically identical
// parameter sets always produce the same key.
func ComputeKey(endpoint string, params interface{}) (string, error) {
	canonical, err := canonicalJSON(params)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize params for %s: %w", endpoint, err)
	}

	sum := sha256.Sum256([]byte(endpoint + "_" + string(canonical)))
	return hex.EncodeToString(sum[:]), nil
}

// canonicalJSON round-trips the value through a generic representation;
// encoding/json writes map keys in sorted order.
func canonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var generic interface{}
	if err := decoder.Decode(&generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}
