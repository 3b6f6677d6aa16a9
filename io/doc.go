// Package io provides the byte stream types generated protocol code uses for
// streaming payloads and event stream bodies.
package io
