// Package config loads settings for the galleryctl admin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file, if present, and the environment (GALLERY_URL,
//     GALLERY_TOKEN, GALLERY_TIMEOUT).
//  3. Optional JSON file named by the --config flag.
//  4. Command-line flags, applied by the cli package.
//
// # JSON schema
//
// The JSON loader uses timex.Duration, so timeouts can be strings like
// "30s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "token": "eyJhbGciOi...",
//	  "timeout": "30s"
//	}
package config
