package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"feature-manifest/core/feature"
	"feature-manifest/core/rule"
	"feature-manifest/core/settings"
)

// Key returns a deterministic digest of the resolution inputs: the graph
// topology, the settings snapshot and the rule set version.
func Key(g *feature.Graph, snap settings.Snapshot, rules *rule.Set) (string, error) {
	// encoding/json sorts map keys, which makes the snapshot encoding canonical.
	encoded, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings snapshot: %w", err)
	}

	version := ""
	if rules != nil {
		version = rules.Version
	}

	h := sha256.New()
	h.Write([]byte(g.Fingerprint()))
	h.Write([]byte{'\n'})
	h.Write(encoded)
	h.Write([]byte{'\n'})
	h.Write([]byte(version))
	return hex.EncodeToString(h.Sum(nil)), nil
}
