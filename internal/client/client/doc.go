// Package client is a typed HTTP client for the gallery admin API. It
// also uploads image bytes to the presigned URLs the API hands out.
package client
