package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Config is the tool-wide configuration read from the config directory at
// the project root.
type Config struct {
	CompatibleVersions CompatibleVersions `json:"compatible_versions"`
	GenerationOptions  GenerationOptions  `json:"generation_options"`
}

// DefaultConfig accepts every IDE version and sets no generation options.
func DefaultConfig() Config {
	return Config{CompatibleVersions: AllVersions()}
}

// Equal compares both fields; options compare order-insensitively.
func (c Config) Equal(o Config) bool {
	return c.CompatibleVersions.Equal(o.CompatibleVersions) &&
		c.GenerationOptions.Equal(o.GenerationOptions)
}

// Hash returns a SHA-256 digest over the canonical JSON form, stable across
// process runs and independent of option order.
func (c Config) Hash() string {
	canonical := struct {
		Versions CompatibleVersions `json:"v"`
		Options  GenerationOptions  `json:"o"`
	}{c.CompatibleVersions, c.GenerationOptions.sorted()}
	data, _ := json.Marshal(canonical)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
