// Package config loads configuration for the sip CLI.
//
// Configuration merges three layers, lowest precedence first:
//
//  1. Defaults (Default)
//  2. A YAML config file (LoadFromFile)
//  3. Environment variables with the SIP_ prefix, including a .env file
//     when present (LoadFromEnv)
//
// Command-line flags are merged on top by the caller via Merge.
//
// Byte-size fields (range_start, range_end) accept human-readable
// strings like "100KB"; timeout accepts Go duration strings like "5s".
package config
